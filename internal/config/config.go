package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis    Redis  `yaml:"redis"`
	Game     Game   `yaml:"game"`
}

type Redis struct {
	Enabled  bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host     string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	ScoreTTL time.Duration `yaml:"score-ttl" env:"REDIS_SCORE_TTL" env-default:"24h"`
}

type Game struct {
	Mode       string `yaml:"mode" env:"GAME_MODE" env-default:"pvp"`
	Difficulty string `yaml:"difficulty" env:"GAME_DIFFICULTY" env-default:"hard"`
	AIMark     string `yaml:"ai-mark" env:"GAME_AI_MARK" env-default:"O"`
	AIAutoPlay bool   `yaml:"ai-autoplay" env:"GAME_AI_AUTOPLAY" env-default:"true"`

	// Seed for the computer's random moves; zero seeds from the clock.
	Seed int64 `yaml:"seed" env:"GAME_SEED" env-default:"0"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// Settings parses the game section into the defaults of every new session.
func (that *Game) Settings() (usecase.Settings, error) {
	mode, err := entity.ParseMode(that.Mode)
	if err != nil {
		return usecase.Settings{}, fmt.Errorf("invalid game mode: %w", err)
	}

	difficulty, err := entity.ParseDifficulty(that.Difficulty)
	if err != nil {
		return usecase.Settings{}, fmt.Errorf("invalid game difficulty: %w", err)
	}

	aiMark, err := entity.ParseMark(that.AIMark)
	if err != nil {
		return usecase.Settings{}, fmt.Errorf("invalid ai mark: %w", err)
	}

	return usecase.Settings{Mode: mode, Difficulty: difficulty, AIMark: aiMark}, nil
}
