package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type scoreRepo interface {
	Save(ctx context.Context, key string, score entity.Score) error
	GetByKey(ctx context.Context, key string) (entity.Score, error)
	DeleteByKey(ctx context.Context, key string) error
}

// View is a read of one session taken under its lock.
type View struct {
	ID           string
	Player       string
	Board        tictactoe.Board
	State        entity.State
	Current      entity.Player
	ComputerTurn bool
	Mode         entity.Mode
	PendingMode  entity.Mode
	Difficulty   entity.Difficulty
	AIMark       entity.Mark
	Score        entity.Score
}

// Play pairs the results of a call with the session as it stood right after them.
type Play struct {
	Results []entity.Result
	View    View
}

type session struct {
	mu         sync.Mutex
	player     string
	game       *GameManager
	scoreboard *service.Scoreboard
}

// SessionManager keeps independent game sessions, each with its own board and score.
// Calls into one session never overlap.
type SessionManager struct {
	logger    *slog.Logger
	bot       botService
	scoreRepo scoreRepo
	settings  Settings

	// autoPlay makes the computer reply right after the human move and open the game when it plays X.
	autoPlay bool

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewSessionManager(logger *slog.Logger, bot botService, scoreRepo scoreRepo, settings Settings, autoPlay bool) *SessionManager {
	return &SessionManager{
		logger:    logger,
		bot:       bot,
		scoreRepo: scoreRepo,
		settings:  settings,
		autoPlay:  autoPlay,
		sessions:  make(map[string]*session),
	}
}

// Create registers a new session and starts its first game. A named player carries
// their stored score into the session and keeps it after the session is deleted;
// an anonymous session scores under its own id.
func (that *SessionManager) Create(ctx context.Context, player string) (Play, error) {
	id := uuid.NewString()
	player = strings.TrimSpace(player)
	log := that.logger.With("method", "Create", "session", id, "player", player)

	scores := service.NewScoreboard(that.logger, that.scoreRepo, scoreKey(id, player))
	if err := scores.Load(ctx); err != nil {
		log.Error("failed to load score, starting from zero", "error", err)
	}

	game, err := NewGameManager(that.logger.With("session", id), that.bot, scores, that.settings)
	if err != nil {
		return Play{}, fmt.Errorf("failed to create game: %w", err)
	}

	that.mu.Lock()
	that.sessions[id] = &session{player: player, game: game, scoreboard: scores}
	that.mu.Unlock()

	log.Info("session created", "score", scores.Snapshot())

	return that.Apply(ctx, id, func(game *GameManager) ([]entity.Result, error) {
		return that.start(ctx, game)
	})
}

// Do runs fn with the session's game while holding the session lock.
func (that *SessionManager) Do(_ context.Context, id string, fn func(game *GameManager) error) error {
	current, err := that.get(id)
	if err != nil {
		return err
	}

	current.mu.Lock()
	defer current.mu.Unlock()

	return fn(current.game)
}

// Apply runs fn under the session lock and returns its results with a view taken under the same lock.
func (that *SessionManager) Apply(ctx context.Context, id string, fn func(game *GameManager) ([]entity.Result, error)) (Play, error) {
	current, err := that.get(id)
	if err != nil {
		return Play{}, err
	}

	current.mu.Lock()
	defer current.mu.Unlock()

	results, err := fn(current.game)
	if err != nil {
		return Play{}, err
	}

	return Play{Results: results, View: newView(id, current)}, nil
}

// View reads the session without changing it.
func (that *SessionManager) View(ctx context.Context, id string) (View, error) {
	play, err := that.Apply(ctx, id, func(*GameManager) ([]entity.Result, error) {
		return nil, nil
	})

	return play.View, err
}

// Start begins a new game in an existing session.
func (that *SessionManager) Start(ctx context.Context, id string) (Play, error) {
	return that.Apply(ctx, id, func(game *GameManager) ([]entity.Result, error) {
		return that.start(ctx, game)
	})
}

// PlayTurn plays the human move and, with auto play on, the computer's reply.
func (that *SessionManager) PlayTurn(ctx context.Context, id string, row, col int) (Play, error) {
	return that.Apply(ctx, id, func(game *GameManager) ([]entity.Result, error) {
		result, err := game.MakeMove(ctx, row, col)
		if err != nil {
			return nil, err
		}

		results := []entity.Result{result}

		if _, ok := result.(entity.TurnResult); !ok {
			return results, nil
		}

		reply, err := that.autoReply(ctx, game)
		if err != nil {
			return nil, err
		}

		return append(results, reply...), nil
	})
}

// RequestAIMove asks the computer for its move in the session.
func (that *SessionManager) RequestAIMove(ctx context.Context, id string) (Play, error) {
	return that.Apply(ctx, id, func(game *GameManager) ([]entity.Result, error) {
		result, err := game.RequestAIMove(ctx)
		if err != nil {
			return nil, err
		}

		return []entity.Result{result}, nil
	})
}

// Delete drops the session. An anonymous session's stored score goes with it.
func (that *SessionManager) Delete(ctx context.Context, id string) error {
	that.mu.Lock()
	current, ok := that.sessions[id]
	delete(that.sessions, id)
	that.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	if current.player == "" {
		if err := current.scoreboard.Forget(ctx); err != nil {
			return fmt.Errorf("failed to forget score: %w", err)
		}
	}

	that.logger.Info("session deleted", "session", id)

	return nil
}

func (that *SessionManager) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.sessions)
}

func (that *SessionManager) get(id string) (*session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	current, ok := that.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	return current, nil
}

func (that *SessionManager) start(ctx context.Context, game *GameManager) ([]entity.Result, error) {
	results := []entity.Result{game.StartGame()}

	reply, err := that.autoReply(ctx, game)
	if err != nil {
		return nil, err
	}

	return append(results, reply...), nil
}

// autoReply plays at most one computer move.
func (that *SessionManager) autoReply(ctx context.Context, game *GameManager) ([]entity.Result, error) {
	if !that.autoPlay || !game.IsComputerTurn() {
		return nil, nil
	}

	result, err := game.RequestAIMove(ctx)
	if err != nil {
		return nil, err
	}

	return []entity.Result{result}, nil
}

func scoreKey(id, player string) string {
	if player == "" {
		return "session:" + id
	}

	return "player:" + player
}

func newView(id string, current *session) View {
	game := current.game

	return View{
		ID:           id,
		Player:       current.player,
		Board:        game.Board(),
		State:        game.State(),
		Current:      game.CurrentPlayer(),
		ComputerTurn: game.IsComputerTurn(),
		Mode:         game.Mode(),
		PendingMode:  game.PendingMode(),
		Difficulty:   game.AIDifficulty(),
		AIMark:       game.AIMark(),
		Score:        game.Score(),
	}
}
