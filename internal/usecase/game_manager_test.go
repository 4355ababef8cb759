package usecase

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type stubBot struct {
	decision service.Decision
	err      error
	calls    int
}

func (that *stubBot) ChooseMove(_ tictactoe.Board, _ entity.Mark, _ entity.Difficulty) (service.Decision, error) {
	that.calls++
	return that.decision, that.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGame(t *testing.T, bot botService, settings Settings) *GameManager {
	t.Helper()

	logger := newTestLogger()
	scores := service.NewScoreboard(logger, repository.NewMemoryScoreRepository(), t.Name())

	game, err := NewGameManager(logger, bot, scores, settings)
	require.NoError(t, err)

	return game
}

func newHardBot(seed int64) botService {
	return service.NewBotService(newTestLogger(), rand.New(rand.NewSource(seed))) //nolint: gosec // test
}

func pvcSettings(difficulty entity.Difficulty, aiMark entity.Mark) Settings {
	return Settings{Mode: entity.ModePvC, Difficulty: difficulty, AIMark: aiMark}
}

func TestNewGameManager(t *testing.T) {
	t.Run("Starts in the not started state with X to move", func(t *testing.T) {
		game := newTestGame(t, &stubBot{}, DefaultSettings())

		assert.Equal(t, entity.StateNotStarted, game.State())
		assert.Equal(t, entity.MarkX, game.CurrentPlayer().Mark)
		assert.False(t, game.IsGameOver())
		assert.Equal(t, entity.ModePvP, game.Mode())
		assert.Equal(t, entity.DifficultyHard, game.AIDifficulty())
		assert.Equal(t, entity.MarkO, game.AIMark())
	})

	t.Run("Rejects invalid settings", func(t *testing.T) {
		scores := service.NewScoreboard(newTestLogger(), repository.NewMemoryScoreRepository(), "s")

		_, err := NewGameManager(newTestLogger(), &stubBot{}, scores, Settings{Mode: "online", Difficulty: entity.DifficultyHard, AIMark: entity.MarkO})
		require.ErrorIs(t, err, apperror.ErrInvalidMode)

		_, err = NewGameManager(newTestLogger(), &stubBot{}, scores, Settings{Mode: entity.ModePvC, Difficulty: "expert", AIMark: entity.MarkO})
		require.ErrorIs(t, err, apperror.ErrInvalidDifficulty)

		_, err = NewGameManager(newTestLogger(), &stubBot{}, scores, Settings{Mode: entity.ModePvC, Difficulty: entity.DifficultyHard, AIMark: entity.MarkEmpty})
		require.ErrorIs(t, err, apperror.ErrInvalidMark)
	})
}

func TestGameManager_StartGame(t *testing.T) {
	// Given: a game with a move already played
	game := newTestGame(t, &stubBot{}, DefaultSettings())
	game.StartGame()
	_, err := game.MakeMove(context.Background(), 1, 1)
	require.NoError(t, err)

	// When: a new game is started
	result := game.StartGame()

	// Then: the board is empty and X opens
	require.Equal(t, entity.StartResult{Player: entity.Player{Name: "Player X", Mark: entity.MarkX}}, result)
	assert.Equal(t, "Game started - Turn: Player X", result.Message())
	assert.Equal(t, tictactoe.Board{}, game.Board())
	assert.Equal(t, entity.StateInProgress, game.State())
}

func TestGameManager_MakeMove(t *testing.T) {
	ctx := context.Background()

	t.Run("MakeMove", func(t *testing.T) {
		// Given: a started game
		game := newTestGame(t, &stubBot{}, DefaultSettings())
		game.StartGame()

		// When: X plays the center
		result, err := game.MakeMove(ctx, 1, 1)

		// Then: the turn passes to O
		require.NoError(t, err)
		require.Equal(t, entity.TurnResult{Player: entity.Player{Name: "Player O", Mark: entity.MarkO}}, result)
		assert.Equal(t, "Turn: Player O", result.Message())
		assert.Equal(t, entity.MarkX, game.Board()[1][1])
	})

	t.Run("Error on game not started", func(t *testing.T) {
		game := newTestGame(t, &stubBot{}, DefaultSettings())

		result, err := game.MakeMove(ctx, 0, 0)

		require.NoError(t, err)
		requireErrorResult(t, result, apperror.ErrGameIsNotStarted)
		assert.Equal(t, tictactoe.Board{}, game.Board())
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		// Given: X holds (0, 0)
		game := newTestGame(t, &stubBot{}, DefaultSettings())
		game.StartGame()
		_, err := game.MakeMove(ctx, 0, 0)
		require.NoError(t, err)

		// When: O tries the same cell
		result, err := game.MakeMove(ctx, 0, 0)

		// Then: the move is rejected and it is still O's turn
		require.NoError(t, err)
		requireErrorResult(t, result, apperror.ErrCellOccupied)
		assert.Equal(t, "Cell taken. Choose another!", result.Message())
		assert.Equal(t, entity.MarkO, game.CurrentPlayer().Mark)
		assert.Equal(t, entity.MarkX, game.Board()[0][0])
	})

	t.Run("Out of range coordinates are returned as an error", func(t *testing.T) {
		game := newTestGame(t, &stubBot{}, DefaultSettings())
		game.StartGame()

		result, err := game.MakeMove(ctx, 3, 0)

		require.ErrorIs(t, err, apperror.ErrOutOfRange)
		assert.Nil(t, result)
		assert.Equal(t, tictactoe.Board{}, game.Board())
		assert.Equal(t, entity.MarkX, game.CurrentPlayer().Mark)
	})

	t.Run("Winning move ends the game and scores it", func(t *testing.T) {
		// Given: X is one move from completing the first column
		game := newTestGame(t, &stubBot{}, DefaultSettings())
		game.StartGame()
		playMoves(t, game, entity.Move{Row: 0, Col: 0}, entity.Move{Row: 0, Col: 1}, entity.Move{Row: 1, Col: 0}, entity.Move{Row: 1, Col: 1})

		// When: X completes the column
		result, err := game.MakeMove(ctx, 2, 0)

		// Then: X wins, the game is over and the score counts it
		require.NoError(t, err)
		require.Equal(t, entity.WinnerResult{Winner: entity.MarkX, Player: entity.Player{Name: "Player X", Mark: entity.MarkX}}, result)
		assert.Equal(t, "Player X Wins!", result.Message())
		assert.True(t, game.IsGameOver())
		assert.Equal(t, entity.Score{XWins: 1}, game.Score())

		// And: further moves are rejected
		result, err = game.MakeMove(ctx, 2, 2)
		require.NoError(t, err)
		requireErrorResult(t, result, apperror.ErrGameFinished)
		assert.Equal(t, "The game is over. Reset to play again!", result.Message())
	})

	t.Run("Nine moves without a line end in a draw", func(t *testing.T) {
		// Given: a started game
		game := newTestGame(t, &stubBot{}, DefaultSettings())
		game.StartGame()

		// When: both players fill the board without completing a line
		playMoves(t, game,
			entity.Move{Row: 0, Col: 0}, entity.Move{Row: 0, Col: 1}, entity.Move{Row: 0, Col: 2},
			entity.Move{Row: 1, Col: 1}, entity.Move{Row: 1, Col: 0}, entity.Move{Row: 1, Col: 2},
			entity.Move{Row: 2, Col: 1}, entity.Move{Row: 2, Col: 0},
		)
		result, err := game.MakeMove(ctx, 2, 2)

		// Then: the game is drawn and counted once
		require.NoError(t, err)
		require.Equal(t, entity.DrawResult{}, result)
		assert.Equal(t, "It's a Draw! No more possible moves!", result.Message())
		assert.Equal(t, entity.Score{Draws: 1}, game.Score())

		// And: the full board rejects more moves and reads as a draw
		result, err = game.MakeMove(ctx, 0, 0)
		require.NoError(t, err)
		requireErrorResult(t, result, apperror.ErrGameFinished)
		assert.True(t, tictactoe.IsDraw(game.Board()))
		assert.Equal(t, entity.Score{Draws: 1}, game.Score())
	})

	t.Run("Score survives a new game", func(t *testing.T) {
		// Given: a game X has won
		game := newTestGame(t, &stubBot{}, DefaultSettings())
		game.StartGame()
		playMoves(t, game, entity.Move{Row: 0, Col: 0}, entity.Move{Row: 1, Col: 0}, entity.Move{Row: 0, Col: 1}, entity.Move{Row: 1, Col: 1}, entity.Move{Row: 0, Col: 2})

		// When: a new game starts
		game.StartGame()

		// Then: the win is still counted until the score is reset
		assert.Equal(t, entity.Score{XWins: 1}, game.Score())
		game.ResetScore(ctx)
		assert.Equal(t, entity.Score{}, game.Score())
	})

	t.Run("Human cannot move for the computer", func(t *testing.T) {
		// Given: a player-vs-computer game after the human's move
		game := newTestGame(t, &stubBot{}, pvcSettings(entity.DifficultyHard, entity.MarkO))
		game.StartGame()
		_, err := game.MakeMove(ctx, 1, 1)
		require.NoError(t, err)

		// When: the human tries to move again
		result, err := game.MakeMove(ctx, 0, 0)

		// Then: the move is rejected
		require.NoError(t, err)
		requireErrorResult(t, result, apperror.ErrNotYourTurn)
		assert.True(t, game.IsComputerTurn())
	})
}

func TestGameManager_RequestAIMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Computer answers the human move", func(t *testing.T) {
		// Given: a hard computer playing O after X took the center
		game := newTestGame(t, newHardBot(1), pvcSettings(entity.DifficultyHard, entity.MarkO))
		game.StartGame()
		_, err := game.MakeMove(ctx, 1, 1)
		require.NoError(t, err)

		// When: the computer moves
		result, err := game.RequestAIMove(ctx)

		// Then: it takes a corner and hands the turn back to X
		require.NoError(t, err)
		require.Equal(t, entity.TurnResult{Player: entity.Player{Name: "Player X", Mark: entity.MarkX}}, result)
		assert.Equal(t, entity.MarkO, game.Board()[0][0])
		assert.False(t, game.IsComputerTurn())
	})

	t.Run("Computer playing X opens the game", func(t *testing.T) {
		game := newTestGame(t, newHardBot(1), pvcSettings(entity.DifficultyHard, entity.MarkX))
		game.StartGame()
		require.True(t, game.IsComputerTurn())

		result, err := game.RequestAIMove(ctx)

		require.NoError(t, err)
		assert.Equal(t, entity.KindTurn, result.Kind())
		assert.Equal(t, entity.MarkX, game.Board()[0][0])
	})

	t.Run("Computer takes the winning cell", func(t *testing.T) {
		// Given: O can complete the middle row
		game := newTestGame(t, newHardBot(1), pvcSettings(entity.DifficultyHard, entity.MarkO))
		game.StartGame()
		_, err := game.MakeMove(ctx, 0, 0)
		require.NoError(t, err)
		game.board[1][0] = entity.MarkO
		game.board[1][1] = entity.MarkO
		game.board[0][1] = entity.MarkX

		// When: the computer moves
		result, err := game.RequestAIMove(ctx)

		// Then: O wins and the score counts it
		require.NoError(t, err)
		assert.Equal(t, entity.WinnerResult{Winner: entity.MarkO, Player: entity.Player{Name: "Player O", Mark: entity.MarkO}}, result)
		assert.Equal(t, entity.Score{OWins: 1}, game.Score())

		// And: nobody is due to move on the finished board
		assert.False(t, game.IsComputerTurn())
	})

	t.Run("Error when it is not the computer's turn", func(t *testing.T) {
		bot := &stubBot{}
		game := newTestGame(t, bot, pvcSettings(entity.DifficultyHard, entity.MarkO))
		game.StartGame()

		result, err := game.RequestAIMove(ctx)

		require.NoError(t, err)
		requireErrorResult(t, result, apperror.ErrNotYourTurn)
		assert.Zero(t, bot.calls)
	})

	t.Run("Error in player-vs-player mode", func(t *testing.T) {
		bot := &stubBot{}
		game := newTestGame(t, bot, DefaultSettings())
		game.StartGame()
		_, err := game.MakeMove(ctx, 0, 0)
		require.NoError(t, err)

		result, err := game.RequestAIMove(ctx)

		require.NoError(t, err)
		requireErrorResult(t, result, apperror.ErrNotYourTurn)
		assert.Zero(t, bot.calls)
	})

	t.Run("Error when the game is over", func(t *testing.T) {
		game := newTestGame(t, &stubBot{}, pvcSettings(entity.DifficultyHard, entity.MarkO))
		game.StartGame()
		game.state = entity.StateOver

		result, err := game.RequestAIMove(ctx)

		require.NoError(t, err)
		requireErrorResult(t, result, apperror.ErrGameFinished)
	})

	t.Run("Full board degrades to a draw", func(t *testing.T) {
		// Given: a bot that finds no moves
		bot := &stubBot{err: apperror.ErrNoAvailableMoves}
		game := newTestGame(t, bot, pvcSettings(entity.DifficultyHard, entity.MarkO))
		game.StartGame()
		game.board = tictactoe.Board{{"X", "O", "X"}, {"X", "O", "O"}, {"O", "X", ""}}
		game.current = 1

		// When: the computer is asked to move
		result, err := game.RequestAIMove(ctx)

		// Then: a draw comes back and the game is over, without touching the score
		require.NoError(t, err)
		assert.Equal(t, entity.DrawResult{}, result)
		assert.True(t, game.IsGameOver())
		assert.Equal(t, entity.Score{}, game.Score())
	})

	t.Run("Search failures are returned as errors", func(t *testing.T) {
		bot := &stubBot{err: apperror.ErrProgramming}
		game := newTestGame(t, bot, pvcSettings(entity.DifficultyHard, entity.MarkX))
		game.StartGame()

		result, err := game.RequestAIMove(ctx)

		require.ErrorIs(t, err, apperror.ErrProgramming)
		assert.Nil(t, result)
		assert.Equal(t, tictactoe.Board{}, game.Board())
	})

	t.Run("Difficulty changes apply to the next computer move", func(t *testing.T) {
		bot := &stubBot{decision: service.Decision{Move: entity.Move{Row: 2, Col: 2}}}
		game := newTestGame(t, bot, pvcSettings(entity.DifficultyHard, entity.MarkX))
		game.StartGame()

		require.NoError(t, game.SetAIDifficulty(entity.DifficultyEasy))
		_, err := game.RequestAIMove(ctx)

		require.NoError(t, err)
		assert.Equal(t, entity.DifficultyEasy, game.AIDifficulty())
		assert.Equal(t, entity.MarkX, game.Board()[2][2])
	})
}

func TestGameManager_IsComputerTurn(t *testing.T) {
	t.Run("False before the game starts", func(t *testing.T) {
		game := newTestGame(t, &stubBot{}, pvcSettings(entity.DifficultyHard, entity.MarkX))

		assert.False(t, game.IsComputerTurn())
	})

	t.Run("False once the computer has won", func(t *testing.T) {
		// Given: the computer playing X one move from the top row
		game := newTestGame(t, newHardBot(1), pvcSettings(entity.DifficultyHard, entity.MarkX))
		game.StartGame()
		game.board = tictactoe.Board{{"X", "X", ""}, {"O", "O", ""}, {"", "", ""}}

		// When: the computer completes the row
		result, err := game.RequestAIMove(context.Background())

		// Then: the game is over and the turn stays with the winner but is not due
		require.NoError(t, err)
		assert.Equal(t, entity.KindWinner, result.Kind())
		assert.Equal(t, entity.MarkX, game.CurrentPlayer().Mark)
		assert.False(t, game.IsComputerTurn())
	})
}

func TestGameManager_SetMode(t *testing.T) {
	t.Run("Mode changes wait for the next game", func(t *testing.T) {
		// Given: a player-vs-player game in progress with O to move
		game := newTestGame(t, &stubBot{}, DefaultSettings())
		game.StartGame()
		_, err := game.MakeMove(context.Background(), 0, 0)
		require.NoError(t, err)

		// When: the mode is switched to player-vs-computer
		require.NoError(t, game.SetMode(entity.ModePvC))

		// Then: the running game is unaffected until it is restarted
		assert.False(t, game.IsComputerTurn())
		assert.Equal(t, entity.ModePvP, game.Mode())
		assert.Equal(t, entity.ModePvC, game.PendingMode())
		assert.Equal(t, entity.MarkX, game.Board()[0][0])

		game.StartGame()
		assert.Equal(t, entity.ModePvC, game.Mode())
	})

	t.Run("Rejects unknown values", func(t *testing.T) {
		game := newTestGame(t, &stubBot{}, DefaultSettings())

		require.ErrorIs(t, game.SetMode("online"), apperror.ErrInvalidMode)
		require.ErrorIs(t, game.SetAIDifficulty("expert"), apperror.ErrInvalidDifficulty)
		assert.Equal(t, entity.ModePvP, game.PendingMode())
		assert.Equal(t, entity.DifficultyHard, game.AIDifficulty())
	})
}

func TestGameManager_SwitchTurn(t *testing.T) {
	game := newTestGame(t, &stubBot{}, DefaultSettings())
	game.StartGame()

	game.SwitchTurn()
	assert.Equal(t, entity.MarkO, game.CurrentPlayer().Mark)

	game.SwitchTurn()
	assert.Equal(t, entity.MarkX, game.CurrentPlayer().Mark)
}

func TestGameManager_RandomGames(t *testing.T) {
	ctx := context.Background()
	random := rand.New(rand.NewSource(42)) //nolint: gosec // test

	t.Run("Turns alternate and X never leads by more than one", func(t *testing.T) {
		game := newTestGame(t, &stubBot{}, DefaultSettings())

		for round := 0; round < 200; round++ {
			game.StartGame()
			last := entity.MarkEmpty

			for !game.IsGameOver() {
				mover := game.CurrentPlayer().Mark
				require.NotEqual(t, last, mover)

				moves := tictactoe.AvailableMoves(game.Board())
				move := moves[random.Intn(len(moves))]
				_, err := game.MakeMove(ctx, move.Row, move.Col)
				require.NoError(t, err)

				board := game.Board()
				diff := board.Count(entity.MarkX) - board.Count(entity.MarkO)
				require.Contains(t, []int{0, 1}, diff)
				last = mover
			}
		}

		score := game.Score()
		assert.Equal(t, 200, score.XWins+score.OWins+score.Draws)
	})

	t.Run("Hard computer never loses to random play", func(t *testing.T) {
		game := newTestGame(t, newHardBot(3), pvcSettings(entity.DifficultyHard, entity.MarkO))

		for round := 0; round < 100; round++ {
			game.StartGame()

			for !game.IsGameOver() {
				if game.IsComputerTurn() {
					_, err := game.RequestAIMove(ctx)
					require.NoError(t, err)
					continue
				}

				moves := tictactoe.AvailableMoves(game.Board())
				move := moves[random.Intn(len(moves))]
				_, err := game.MakeMove(ctx, move.Row, move.Col)
				require.NoError(t, err)
			}
		}

		assert.Zero(t, game.Score().XWins)
	})
}

func playMoves(t *testing.T, game *GameManager, moves ...entity.Move) {
	t.Helper()

	for _, move := range moves {
		result, err := game.MakeMove(context.Background(), move.Row, move.Col)
		require.NoError(t, err)
		require.Equal(t, entity.KindTurn, result.Kind(), "move %s", move)
	}
}

func requireErrorResult(t *testing.T, result entity.Result, target error) {
	t.Helper()

	errorResult, ok := result.(entity.ErrorResult)
	require.True(t, ok, "expected an error result, got %T", result)
	require.ErrorIs(t, errorResult.Err, target)
}
