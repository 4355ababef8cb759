package rest

import (
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

type resultResponse struct {
	Type    entity.ResultKind `json:"type"`
	Message string            `json:"message"`
	Player  *entity.Player    `json:"player,omitempty"`
	Winner  entity.Mark       `json:"winner,omitempty"`
}

type stateResponse struct {
	ID           string            `json:"id"`
	Player       string            `json:"player,omitempty"`
	Board        [3][3]entity.Mark `json:"board"`
	State        entity.State      `json:"state"`
	Current      entity.Player     `json:"current_player"`
	ComputerTurn bool              `json:"computer_turn"`
	Mode         entity.Mode       `json:"mode"`
	PendingMode  entity.Mode       `json:"pending_mode"`
	Difficulty   entity.Difficulty `json:"difficulty"`
	AIMark       entity.Mark       `json:"ai_mark"`
	Score        entity.Score      `json:"score"`
}

type playResponse struct {
	ID      string           `json:"id"`
	Results []resultResponse `json:"results"`
	State   stateResponse    `json:"state"`
}

type createRequest struct {
	Player string `json:"player"`
}

type moveRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

type difficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResult covers every Result variant; a new variant fails loudly here.
func toResult(result entity.Result) resultResponse {
	response := resultResponse{Type: result.Kind(), Message: result.Message()}

	switch value := result.(type) {
	case entity.StartResult:
		response.Player = &value.Player
	case entity.TurnResult:
		response.Player = &value.Player
	case entity.WinnerResult:
		response.Player = &value.Player
		response.Winner = value.Winner
	case entity.DrawResult, entity.ErrorResult:
	default:
		panic("unknown result variant")
	}

	return response
}

func toResults(results []entity.Result) []resultResponse {
	responses := make([]resultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, toResult(result))
	}

	return responses
}

func toState(view usecase.View) stateResponse {
	return stateResponse{
		ID:           view.ID,
		Player:       view.Player,
		Board:        view.Board,
		State:        view.State,
		Current:      view.Current,
		ComputerTurn: view.ComputerTurn,
		Mode:         view.Mode,
		PendingMode:  view.PendingMode,
		Difficulty:   view.Difficulty,
		AIMark:       view.AIMark,
		Score:        view.Score,
	}
}

func toPlay(play usecase.Play) playResponse {
	return playResponse{ID: play.View.ID, Results: toResults(play.Results), State: toState(play.View)}
}
