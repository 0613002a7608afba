package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"github.com/minaorangina/davinci/protocol"
	"github.com/sirupsen/logrus"
)

var ErrInvalidConfig = errors.New("invalid config")

// Server configures the game process
type Server struct {
	Addr     string `env:"DAVINCI_ADDR,default=127.0.0.1"`
	Port     int    `env:"DAVINCI_PORT,default=8078"`
	HTTPAddr string `env:"DAVINCI_HTTP_ADDR"`
	Codec    string `env:"DAVINCI_CODEC,default=text"`
	LogLevel string `env:"DAVINCI_LOG_LEVEL,default=info"`

	Players      int `env:"DAVINCI_PLAYERS,default=2"`
	SetSize      int `env:"DAVINCI_SET_SIZE,default=24"`
	HandSize     int `env:"DAVINCI_HAND_SIZE,default=4"`
	CardMaxValue int `env:"DAVINCI_CARD_MAX_VALUE,default=11"`

	// Zero waits forever for a player's answer
	ReadTimeout      time.Duration `env:"DAVINCI_READ_TIMEOUT,default=0s"`
	HandshakeTimeout time.Duration `env:"DAVINCI_HANDSHAKE_TIMEOUT,default=30s"`
}

// Client configures a participant
type Client struct {
	Name     string `env:"DAVINCI_NAME"`
	Addr     string `env:"DAVINCI_ADDR,default=127.0.0.1"`
	Port     int    `env:"DAVINCI_PORT,default=8078"`
	Codec    string `env:"DAVINCI_CODEC,default=text"`
	LogLevel string `env:"DAVINCI_LOG_LEVEL,default=warning"`
}

// LoadServer reads the server config from the environment after
// loading any of the given env files that exist
func LoadServer(files ...string) (Server, error) {
	var cfg Server
	err := load(&cfg, files)
	return cfg, err
}

func LoadClient(files ...string) (Client, error) {
	var cfg Client
	err := load(&cfg, files)
	return cfg, err
}

func load(target any, files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	if err := envdecode.Decode(target); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

func (c Server) Validate() error {
	switch {
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	case c.Players < 2:
		return fmt.Errorf("%w: at least 2 players are needed, got %d", ErrInvalidConfig, c.Players)
	case c.SetSize <= 0 || c.SetSize%2 != 0:
		return fmt.Errorf("%w: set size must be a positive even number, got %d", ErrInvalidConfig, c.SetSize)
	case c.HandSize < 1:
		return fmt.Errorf("%w: hand size must be at least 1, got %d", ErrInvalidConfig, c.HandSize)
	case c.Players*c.HandSize > c.SetSize:
		return fmt.Errorf("%w: %d players with %d cards each need more than %d cards",
			ErrInvalidConfig, c.Players, c.HandSize, c.SetSize)
	case c.CardMaxValue < 0:
		return fmt.Errorf("%w: card max value %d", ErrInvalidConfig, c.CardMaxValue)
	case c.ReadTimeout < 0 || c.HandshakeTimeout < 0:
		return fmt.Errorf("%w: timeouts cannot be negative", ErrInvalidConfig)
	}

	return validateShared(c.Codec, c.LogLevel)
}

func (c Client) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("%w: a player name is required", ErrInvalidConfig)
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("%w: port %d", ErrInvalidConfig, c.Port)
	}

	return validateShared(c.Codec, c.LogLevel)
}

func validateShared(codec, level string) error {
	if !slices.Contains([]string{protocol.TextCodecName, protocol.JSONCodecName}, codec) {
		return fmt.Errorf("%w: codec %q", ErrInvalidConfig, codec)
	}
	if _, err := logrus.ParseLevel(level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// NewLogger builds a logger writing to stderr at the given level
func NewLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return log, nil
}
