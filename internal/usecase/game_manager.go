package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type botService interface {
	ChooseMove(board tictactoe.Board, botMark entity.Mark, difficulty entity.Difficulty) (service.Decision, error)
}

type scoreboard interface {
	Update(ctx context.Context, outcome entity.Outcome) entity.Score
	Reset(ctx context.Context)
	Snapshot() entity.Score
}

// Settings configure who plays and how well the computer plays.
type Settings struct {
	Mode       entity.Mode
	Difficulty entity.Difficulty
	AIMark     entity.Mark
}

func DefaultSettings() Settings {
	return Settings{
		Mode:       entity.ModePvP,
		Difficulty: entity.DifficultyHard,
		AIMark:     entity.MarkO,
	}
}

// GameManager runs the turns of one game session. It owns the board and is not
// safe for concurrent use; SessionManager serializes calls into it.
type GameManager struct {
	logger *slog.Logger
	bot    botService
	score  scoreboard

	board   tictactoe.Board
	players [2]entity.Player
	current int
	state   entity.State

	mode        entity.Mode
	pendingMode entity.Mode
	difficulty  entity.Difficulty
	aiMark      entity.Mark
}

func NewGameManager(logger *slog.Logger, bot botService, score scoreboard, settings Settings) (*GameManager, error) {
	mode, err := entity.ParseMode(string(settings.Mode))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidMode, err)
	}

	difficulty, err := entity.ParseDifficulty(string(settings.Difficulty))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrInvalidDifficulty, err)
	}

	if !settings.AIMark.IsPlayable() {
		return nil, fmt.Errorf("%w: ai mark %q", apperror.ErrInvalidMark, settings.AIMark)
	}

	return &GameManager{
		logger:      logger.With("component", "game"),
		bot:         bot,
		score:       score,
		players:     entity.DefaultPlayers(),
		state:       entity.StateNotStarted,
		mode:        mode,
		pendingMode: mode,
		difficulty:  difficulty,
		aiMark:      settings.AIMark,
	}, nil
}

// StartGame clears the board and gives the first turn to X. The score is kept.
func (that *GameManager) StartGame() entity.Result {
	that.board.Reset()
	that.mode = that.pendingMode
	that.current = 0
	that.state = entity.StateInProgress

	that.logger.Info("game started", "mode", that.mode, "difficulty", that.difficulty)

	return entity.StartResult{Player: that.CurrentPlayer()}
}

// MakeMove plays the current player's mark at row, col. Expected rejections come back
// as an ErrorResult; only coordinates outside the board are returned as an error.
func (that *GameManager) MakeMove(ctx context.Context, row, col int) (entity.Result, error) {
	empty, err := that.board.IsEmpty(row, col)
	if err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	if result, ok := that.checkPlayable(); !ok {
		return result, nil
	}

	if that.IsComputerTurn() {
		return entity.NotYourTurnResult(apperror.ErrNotYourTurn), nil
	}

	if !empty {
		return entity.CellTakenResult(apperror.ErrCellOccupied), nil
	}

	return that.applyMove(ctx, entity.Move{Row: row, Col: col})
}

// RequestAIMove lets the computer play its turn in player-vs-computer mode.
func (that *GameManager) RequestAIMove(ctx context.Context) (entity.Result, error) {
	log := that.logger.With("method", "RequestAIMove")

	if result, ok := that.checkPlayable(); !ok {
		return result, nil
	}

	if !that.IsComputerTurn() {
		return entity.NoComputerMoveResult(apperror.ErrNotYourTurn), nil
	}

	decision, err := that.bot.ChooseMove(that.board, that.aiMark, that.difficulty)
	if errors.Is(err, apperror.ErrNoAvailableMoves) {
		log.Warn("computer asked to move on a full board")

		return that.closeFullBoard(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("computer failed to choose a move: %w", err)
	}

	return that.applyMove(ctx, decision.Move)
}

// SwitchTurn hands the turn to the other player.
func (that *GameManager) SwitchTurn() {
	that.current = 1 - that.current
}

// SetMode takes effect at the next StartGame.
func (that *GameManager) SetMode(mode entity.Mode) error {
	parsed, err := entity.ParseMode(string(mode))
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMode, err)
	}

	that.pendingMode = parsed

	return nil
}

// SetAIDifficulty takes effect at the next RequestAIMove.
func (that *GameManager) SetAIDifficulty(level entity.Difficulty) error {
	parsed, err := entity.ParseDifficulty(string(level))
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidDifficulty, err)
	}

	that.difficulty = parsed

	return nil
}

// IsComputerTurn is true only while a game is in progress.
func (that *GameManager) IsComputerTurn() bool {
	return that.state == entity.StateInProgress && that.mode == entity.ModePvC && that.CurrentPlayer().Mark == that.aiMark
}

func (that *GameManager) CurrentPlayer() entity.Player {
	return that.players[that.current]
}

func (that *GameManager) IsGameOver() bool {
	return that.state == entity.StateOver
}

func (that *GameManager) State() entity.State {
	return that.state
}

// Board returns a copy of the board for rendering.
func (that *GameManager) Board() tictactoe.Board {
	return that.board
}

func (that *GameManager) Mode() entity.Mode {
	return that.mode
}

func (that *GameManager) PendingMode() entity.Mode {
	return that.pendingMode
}

func (that *GameManager) AIDifficulty() entity.Difficulty {
	return that.difficulty
}

func (that *GameManager) AIMark() entity.Mark {
	return that.aiMark
}

func (that *GameManager) Score() entity.Score {
	return that.score.Snapshot()
}

func (that *GameManager) ResetScore(ctx context.Context) {
	that.score.Reset(ctx)
}

func (that *GameManager) checkPlayable() (entity.Result, bool) {
	switch that.state {
	case entity.StateNotStarted:
		return entity.NotStartedResult(apperror.ErrGameIsNotStarted), false
	case entity.StateOver:
		return entity.GameOverResult(apperror.ErrGameFinished), false
	default:
		return nil, true
	}
}

func (that *GameManager) applyMove(ctx context.Context, move entity.Move) (entity.Result, error) {
	player := that.CurrentPlayer()

	if err := that.board.Place(move.Row, move.Col, player.Mark); err != nil {
		return nil, fmt.Errorf("failed to place mark: %w", err)
	}

	that.logger.Debug("move made", "player", player.Name, "move", move.String())

	return that.conclude(ctx), nil
}

// conclude checks the board after a move. The winner check always comes before the draw check.
func (that *GameManager) conclude(ctx context.Context) entity.Result {
	if winner := tictactoe.FindWinner(that.board); winner != entity.MarkEmpty {
		that.state = entity.StateOver
		score := that.score.Update(ctx, entity.OutcomeFor(winner))

		that.logger.Info("game won", "winner", winner, "score", score)

		return entity.WinnerResult{Winner: winner, Player: that.playerFor(winner)}
	}

	if tictactoe.IsDraw(that.board) {
		that.state = entity.StateOver
		score := that.score.Update(ctx, entity.OutcomeDraw)

		that.logger.Info("game drawn", "score", score)

		return entity.DrawResult{}
	}

	that.SwitchTurn()

	return entity.TurnResult{Player: that.CurrentPlayer()}
}

// closeFullBoard ends a game found finished outside of conclude. The concluding move
// was already scored, so the score is left alone.
func (that *GameManager) closeFullBoard() entity.Result {
	that.state = entity.StateOver

	if winner := tictactoe.FindWinner(that.board); winner != entity.MarkEmpty {
		return entity.WinnerResult{Winner: winner, Player: that.playerFor(winner)}
	}

	return entity.DrawResult{}
}

func (that *GameManager) playerFor(mark entity.Mark) entity.Player {
	for _, player := range that.players {
		if player.Mark == mark {
			return player
		}
	}

	return entity.Player{}
}
