package service

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	winScore = 10

	// smartMoveChance is how often the intermediate bot plays the minimax move.
	smartMoveChance = 0.7
)

// RandomSource is the subset of *math/rand.Rand the bot draws from.
type RandomSource interface {
	Intn(n int) int
	Float64() float64
}

// Decision is the move picked by the bot. Score is the minimax value of the
// move, or zero when the move was picked at random.
type Decision struct {
	Move   entity.Move
	Score  int
	Search bool
}

type BotService interface {
	ChooseMove(board tictactoe.Board, botMark entity.Mark, difficulty entity.Difficulty) (Decision, error)
}

type botService struct {
	logger *slog.Logger
	random RandomSource
}

func NewBotService(logger *slog.Logger, random RandomSource) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
		random: random,
	}
}

// ChooseMove picks a move for botMark on a snapshot of the board.
func (that *botService) ChooseMove(board tictactoe.Board, botMark entity.Mark, difficulty entity.Difficulty) (Decision, error) {
	log := that.logger.With("method", "ChooseMove", "difficulty", difficulty, "mark", botMark)

	if !botMark.IsPlayable() {
		return Decision{}, fmt.Errorf("%w: bot mark %q", apperror.ErrInvalidMark, botMark)
	}

	available, err := openMoves(board)
	if err != nil {
		return Decision{}, err
	}

	var decision Decision

	switch difficulty {
	case entity.DifficultyEasy:
		decision = that.randomMove(available)
	case entity.DifficultyIntermediate:
		if that.random.Float64() < smartMoveChance {
			decision, err = BestMove(board, botMark, botMark.Opponent())
		} else {
			decision = that.randomMove(available)
		}
	case entity.DifficultyHard:
		decision, err = BestMove(board, botMark, botMark.Opponent())
	default:
		return Decision{}, fmt.Errorf("%w: %q", apperror.ErrInvalidDifficulty, difficulty)
	}

	if err != nil {
		return Decision{}, fmt.Errorf("bot failed to search: %w", err)
	}

	log.Debug("bot chose move", "move", decision.Move.String(), "score", decision.Score, "search", decision.Search)

	return decision, nil
}

func (that *botService) randomMove(available []entity.Move) Decision {
	return Decision{Move: available[that.random.Intn(len(available))]}
}

// BestMove runs a full minimax search from board with botMark to move.
// board is a copy; the search changes and restores its cells in place.
func BestMove(board tictactoe.Board, botMark, humanMark entity.Mark) (Decision, error) {
	if !botMark.IsPlayable() || humanMark != botMark.Opponent() {
		return Decision{}, fmt.Errorf("%w: bot %q, human %q", apperror.ErrInvalidMark, botMark, humanMark)
	}

	if _, err := openMoves(board); err != nil {
		return Decision{}, err
	}

	result, err := minimax(&board, 0, true, botMark, humanMark)
	if err != nil {
		return Decision{}, err
	}

	return Decision{Move: result.move, Score: result.score, Search: true}, nil
}

// openMoves lists the moves of a game still in play. A won or full board has none.
func openMoves(board tictactoe.Board) ([]entity.Move, error) {
	if winner := tictactoe.FindWinner(board); winner != entity.MarkEmpty {
		return nil, fmt.Errorf("%w: %s already won", apperror.ErrNoAvailableMoves, winner)
	}

	available := tictactoe.AvailableMoves(board)
	if len(available) == 0 {
		return nil, apperror.ErrNoAvailableMoves
	}

	return available, nil
}

type searchResult struct {
	move  entity.Move
	score int
}

func minimax(board *tictactoe.Board, depth int, maximizing bool, botMark, humanMark entity.Mark) (searchResult, error) {
	switch tictactoe.FindWinner(*board) {
	case botMark:
		return searchResult{score: winScore - depth}, nil
	case humanMark:
		return searchResult{score: depth - winScore}, nil
	}

	if tictactoe.IsDraw(*board) {
		return searchResult{score: 0}, nil
	}

	moves := tictactoe.AvailableMoves(*board)
	if len(moves) == 0 {
		return searchResult{}, fmt.Errorf("%w: no moves at non-terminal depth %d", apperror.ErrProgramming, depth)
	}

	mover := humanMark
	best := searchResult{score: math.MaxInt}
	if maximizing {
		mover = botMark
		best.score = math.MinInt
	}

	for _, move := range moves {
		board[move.Row][move.Col] = mover
		child, err := minimax(board, depth+1, !maximizing, botMark, humanMark)
		board[move.Row][move.Col] = entity.MarkEmpty

		if err != nil {
			return searchResult{}, err
		}

		// strict comparison keeps the first move reaching the best score
		if (maximizing && child.score > best.score) || (!maximizing && child.score < best.score) {
			best = searchResult{move: move, score: child.score}
		}
	}

	return best, nil
}
