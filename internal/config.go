package internal

import (
	"fmt"
	"strings"
	"time"
)

const (
	StoreBackendFile   = "file"
	StoreBackendBadger = "badger"
	StoreBackendMemory = "memory"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
	Host     string `env:"HOST,default=localhost"`
	Port     int    `env:"PORT,default=3000"`

	StoreBackend     string `env:"STORE_BACKEND,default=file"`
	SnapshotFilepath string `env:"SNAPSHOT_FILEPATH,default=data/db.json"`
	BadgerFilepath   string `env:"BADGER_FILEPATH,default=data/badger"`

	UploadDir      string `env:"UPLOAD_DIR,default=uploads"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES,default=10485760"`

	AuthTokenSecret   string        `env:"AUTH_TOKEN_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=168h"`
	CookieSecure      bool          `env:"COOKIE_SECURE,default=false"`
	CorsOrigins       string        `env:"CORS_ORIGINS"`
	Argon2MemoryKB    int           `env:"ARGON2_MEMORY_KB,default=65536"`
	Argon2Iterations  int           `env:"ARGON2_ITERATIONS,default=3"`

	NotificationRetention int `env:"NOTIFICATION_RETENTION,default=200"`
	NotificationPageSize  int `env:"NOTIFICATION_PAGE_SIZE,default=30"`
	SearchLimit           int `env:"SEARCH_LIMIT,default=20"`

	CensoredWords   string `env:"CENSORED_WORDS"`
	CharReplacement string `env:"CHARACTER_REPLACEMENT,default=*"`

	EventBufferSize   int           `env:"EVENT_BUFFER_SIZE,default=256"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=2s"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=1m"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the values env tags cannot express.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendFile, StoreBackendBadger, StoreBackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be one of file, badger, memory, got %q", c.StoreBackend)
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	if c.NotificationRetention < 0 || c.NotificationPageSize < 0 {
		return fmt.Errorf("NOTIFICATION_RETENTION and NOTIFICATION_PAGE_SIZE must not be negative")
	}
	return nil
}

// SplitList turns a comma separated variable into trimmed, non-empty items.
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
