package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/pelmanism/internal/apperror"
	"github.com/rocketscienceinc/pelmanism/internal/pelmanism"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Storage    string `yaml:"storage" env:"STORAGE" env-default:"memory"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Host        string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	SnapshotTTL time.Duration `yaml:"snapshot-ttl" env:"REDIS_SNAPSHOT_TTL" env-default:"1h"`
}

type Game struct {
	Side        int     `yaml:"side" env:"GAME_SIDE" env-default:"5"`
	BoardSize   float64 `yaml:"board-size" env:"GAME_BOARD_SIZE" env-default:"70"`
	Width       float64 `yaml:"width" env:"GAME_WIDTH" env-default:"160"`
	Height      float64 `yaml:"height" env:"GAME_HEIGHT" env-default:"120"`
	HideDelay   uint64  `yaml:"hide-delay" env:"GAME_HIDE_DELAY" env-default:"45"`
	FrameRate   int     `yaml:"frame-rate" env:"GAME_FRAME_RATE" env-default:"30"`
	Symbols     string  `yaml:"symbols" env:"GAME_SYMBOLS" env-default:"ABCDEFGHIJKLMNOPQRSTUVWXYZ123456789"`
	StrictPairs bool    `yaml:"strict-pairs" env:"GAME_STRICT_PAIRS" env-default:"false"`
	InputQueue  int     `yaml:"input-queue" env:"GAME_INPUT_QUEUE" env-default:"16"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	if err := config.Game.Validate(); err != nil {
		panic(fmt.Errorf("invalid game config: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Game) Options() pelmanism.Options {
	return pelmanism.Options{
		Side:        that.Side,
		BoardSize:   that.BoardSize,
		Width:       that.Width,
		Height:      that.Height,
		Alphabet:    that.Symbols,
		HideDelay:   that.HideDelay,
		StrictPairs: that.StrictPairs,
	}
}

// FrameInterval is the wall clock duration of one frame.
func (that *Game) FrameInterval() time.Duration {
	return time.Second / time.Duration(that.FrameRate)
}

func (that *Game) Validate() error {
	if that.FrameRate <= 0 {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidFrameRate, that.FrameRate)
	}

	if err := that.Options().Validate(); err != nil {
		return fmt.Errorf("invalid board options: %w", err)
	}

	return nil
}

// ParseLogLevel maps log-level to a slog level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
