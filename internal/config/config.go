package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/park285/Cheese-Xiangqi/internal/obslog"
)

const (
	minImageCell = 24
	maxImageCell = 160
)

type AppConfig struct {
	LogLevel     string
	LogFormat    string
	LogToConsole bool
	LogToFile    bool
	LogFile      string
	LogCaller    bool

	MessagesDir string

	SessionTTL   time.Duration
	MaxSessions  int
	RenderImages bool
	SnapshotDir  string
	ImageCell    int
}

// LogOptions converts the logging fields for obslog.Init.
func (c *AppConfig) LogOptions() obslog.Options {
	return obslog.Options{
		Level:   c.LogLevel,
		Format:  c.LogFormat,
		Console: c.LogToConsole,
		File:    c.LogToFile,
		Path:    c.LogFile,
		Caller:  c.LogCaller,
	}
}

// Load reads the environment. Every invalid value is reported, not just the
// first one.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		LogLevel:     "info",
		LogFormat:    "legacy",
		LogToConsole: false,
		LogToFile:    true,
		LogFile:      filepath.Join("logs", "xiangqi.log"),
		SessionTTL:   time.Hour,
		MaxSessions:  64,
		RenderImages: true,
		SnapshotDir:  "snapshots",
		ImageCell:    64,
	}
	var errs *multierror.Error

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		if obslog.ValidLevel(v) {
			cfg.LogLevel = strings.ToLower(v)
		} else {
			errs = multierror.Append(errs, fmt.Errorf("LOG_LEVEL: unknown level %q", v))
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		switch f := strings.ToLower(v); f {
		case "legacy", "console", "json":
			cfg.LogFormat = f
		default:
			errs = multierror.Append(errs, fmt.Errorf("LOG_FORMAT: want legacy, console or json, got %q", v))
		}
	}
	cfg.LogToConsole = envBool("LOG_TO_CONSOLE", cfg.LogToConsole, &errs)
	cfg.LogToFile = envBool("LOG_TO_FILE", cfg.LogToFile, &errs)
	cfg.LogCaller = envBool("LOG_CALLER", cfg.LogCaller, &errs)
	if v := strings.TrimSpace(os.Getenv("LOG_FILE")); v != "" {
		cfg.LogFile = v
	}

	cfg.MessagesDir = strings.TrimSpace(os.Getenv("XIANGQI_MESSAGES_DIR"))

	if ttl := envInt("XIANGQI_SESSION_TTL", 0, &errs); ttl != 0 {
		if ttl < 0 {
			errs = multierror.Append(errs, fmt.Errorf("XIANGQI_SESSION_TTL: must be positive, got %d", ttl))
		} else {
			cfg.SessionTTL = time.Duration(ttl) * time.Second
		}
	}
	if n := envInt("XIANGQI_MAX_SESSIONS", 0, &errs); n != 0 {
		if n < 0 {
			errs = multierror.Append(errs, fmt.Errorf("XIANGQI_MAX_SESSIONS: must be positive, got %d", n))
		} else {
			cfg.MaxSessions = n
		}
	}
	cfg.RenderImages = envBool("XIANGQI_RENDER_IMAGES", cfg.RenderImages, &errs)
	if v := strings.TrimSpace(os.Getenv("XIANGQI_SNAPSHOT_DIR")); v != "" {
		cfg.SnapshotDir = v
	}
	if n := envInt("XIANGQI_IMAGE_CELL", cfg.ImageCell, &errs); n != cfg.ImageCell {
		if n < minImageCell || n > maxImageCell {
			errs = multierror.Append(errs, fmt.Errorf("XIANGQI_IMAGE_CELL: must be within %d-%d, got %d", minImageCell, maxImageCell, n))
		} else {
			cfg.ImageCell = n
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envBool(key string, def bool, errs **multierror.Error) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = multierror.Append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func envInt(key string, def int, errs **multierror.Error) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = multierror.Append(*errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}
