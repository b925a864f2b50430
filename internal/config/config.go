package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`                     // current application environment (local, dev, production etc)
	TelegramAPIToken string    `mapstructure:"-"`                       // Telegram API token, the bot is disabled when empty
	BotDebug         bool      `mapstructure:"bot_debug"`               // verbose Telegram API logging
	HTTPAddr         string    `mapstructure:"http_addr"`               // listen address of the HTTP API, disabled when empty
	FallbackPath     string    `mapstructure:"fallback_questions_path"` // optional JSON file replacing the compiled-in question bank
	LeaderboardSize  int       `mapstructure:"leaderboard_size"`        // default number of leaderboard rows
	Trivia           TriviaAPI `mapstructure:"trivia"`                  // remote question API section
	Game             Game      `mapstructure:"game"`                    // game rules section
	Janitor          Janitor   `mapstructure:"janitor"`                 // idle game cleanup section
	DB               DB        `mapstructure:"database"`                // database configuration section
	Shutdown         Shutdown  `mapstructure:"shutdown"`                // graceful shutdown section
}

// TriviaAPI configures the Open Trivia DB client.
type TriviaAPI struct {
	BaseURL  string        `mapstructure:"base_url"` // empty base url runs with the fallback bank only
	Encoding string        `mapstructure:"encoding"` // "", "url3986" or "base64"
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Game mirrors entities.Rules.
type Game struct {
	QuestionsPerGame int           `mapstructure:"questions_per_game"`
	MaxLives         int           `mapstructure:"max_lives"`
	QuestionTime     time.Duration `mapstructure:"question_time"`
	RevealDelay      time.Duration `mapstructure:"reveal_delay"`
	LevelEvery       int           `mapstructure:"level_every"`
}

// Rules converts the section into game rules.
func (g Game) Rules() entities.Rules {
	return entities.Rules{
		QuestionsPerGame: g.QuestionsPerGame,
		MaxLives:         g.MaxLives,
		QuestionTime:     g.QuestionTime,
		RevealDelay:      g.RevealDelay,
		LevelEvery:       g.LevelEvery,
	}
}

// Janitor configures the idle game sweep.
type Janitor struct {
	Schedule string        `mapstructure:"schedule"` // cron spec
	IdleTTL  time.Duration `mapstructure:"idle_ttl"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`      // startup connectivity check
}

// Shutdown contains graceful shutdown settings.
type Shutdown struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return load("./config")
}

func load(configPath string) (*Config, error) {
	// A missing .env file is fine, real environment variables still apply.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	// Set default values for configuration keys.
	defaults := entities.DefaultRules()
	v.SetDefault("env", "local")
	v.SetDefault("bot_debug", false)
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("fallback_questions_path", "")
	v.SetDefault("leaderboard_size", 10)
	v.SetDefault("trivia.base_url", "https://opentdb.com")
	v.SetDefault("trivia.encoding", "")
	v.SetDefault("trivia.timeout", "5s")
	v.SetDefault("game.questions_per_game", defaults.QuestionsPerGame)
	v.SetDefault("game.max_lives", defaults.MaxLives)
	v.SetDefault("game.question_time", defaults.QuestionTime)
	v.SetDefault("game.reveal_delay", defaults.RevealDelay)
	v.SetDefault("game.level_every", defaults.LevelEvery)
	v.SetDefault("janitor.schedule", "@every 5m")
	v.SetDefault("janitor.idle_ttl", "30m")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("database.ping_timeout", "5s")
	v.SetDefault("shutdown.timeout", "10s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("http_addr", "HTTP_ADDR")
	_ = v.BindEnv("trivia.base_url", "TRIVIA_API_URL")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Trivia.Encoding {
	case "", "url3986", "base64":
	default:
		return fmt.Errorf("unsupported trivia encoding %q", c.Trivia.Encoding)
	}

	if c.Game.QuestionsPerGame <= 0 || c.Game.MaxLives <= 0 {
		return fmt.Errorf("game needs positive questions_per_game and max_lives")
	}
	if c.Game.QuestionTime < time.Second {
		return fmt.Errorf("game.question_time must be at least 1s, got %s", c.Game.QuestionTime)
	}

	return nil
}
