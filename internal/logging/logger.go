package logging

import (
	"fmt"
	"io"
	"log/syslog"
	"os"
	"path/filepath"
	"strings"

	"brandae-leads-api/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const syslogTag = "brandae-leads"

// Setup initializes the global logger based on configuration.
// Request-scoped loggers are derived from it by HTTPLogger, so log.Ctx
// falls back to the global logger outside a request.
func Setup(cfg config.Config) error {
	// Set log level
	level, err := ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	zerolog.SetGlobalLevel(level)

	// Set time format
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Create writer based on output configuration
	writer, err := newWriter(cfg)
	if err != nil {
		return err
	}

	// Set global logger
	log.Logger = zerolog.New(writer).With().Timestamp().Caller().Str("service", syslogTag).Logger()
	zerolog.DefaultContextLogger = &log.Logger

	log.Info().
		Str("level", cfg.Logging.Level).
		Str("format", cfg.Logging.Format).
		Str("output", cfg.Logging.Output).
		Msg("Logger initialized")

	return nil
}

func newWriter(cfg config.Config) (io.Writer, error) {
	switch strings.ToLower(cfg.Logging.Output) {
	case "stdout", "":
		return consoleWriter(cfg), nil
	case "file":
		w, err := fileWriter(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to setup file writer: %w", err)
		}
		return w, nil
	case "syslog":
		w, err := syslogWriter(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to setup syslog writer: %w", err)
		}
		return w, nil
	case "multi":
		w, err := multiWriter(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to setup multi writer: %w", err)
		}
		return w, nil
	default:
		return nil, fmt.Errorf("invalid log output %q", cfg.Logging.Output)
	}
}

// ParseLevel maps a config level name to a zerolog level.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info", "":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "fatal":
		return zerolog.FatalLevel, nil
	case "panic":
		return zerolog.PanicLevel, nil
	case "disabled":
		return zerolog.Disabled, nil
	default:
		return zerolog.InfoLevel, fmt.Errorf("unknown level: %s", level)
	}
}

func consoleWriter(cfg config.Config) io.Writer {
	if strings.ToLower(cfg.Logging.Format) == "console" {
		// Pretty console output for development
		return zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}
	// JSON output to stdout
	return os.Stdout
}

func fileWriter(cfg config.Config) (io.Writer, error) {
	// Create log directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(cfg.Logging.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Setup log rotation with lumberjack
	return &lumberjack.Logger{
		Filename:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
		LocalTime:  true,
	}, nil
}

func syslogWriter(cfg config.Config) (io.Writer, error) {
	var (
		w   *syslog.Writer
		err error
	)
	if cfg.Logging.SyslogAddr == "" {
		// Local syslog
		w, err = syslog.New(syslog.LOG_INFO|syslog.LOG_DAEMON, syslogTag)
	} else {
		// Remote syslog
		network := cfg.Logging.SyslogNet
		if network == "" {
			network = "udp"
		}
		w, err = syslog.Dial(network, cfg.Logging.SyslogAddr, syslog.LOG_INFO|syslog.LOG_DAEMON, syslogTag)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to syslog: %w", err)
	}
	return w, nil
}

func multiWriter(cfg config.Config) (io.Writer, error) {
	// Always include stdout/console
	writers := []io.Writer{consoleWriter(cfg)}

	// Add file writer if path is configured
	if cfg.Logging.FilePath != "" {
		fw, err := fileWriter(cfg)
		if err != nil {
			return nil, err
		}
		writers = append(writers, fw)
	}

	// syslog is best effort in multi mode
	if cfg.Logging.SyslogAddr != "" {
		sw, err := syslogWriter(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to setup syslog writer: %v\n", err)
		} else {
			writers = append(writers, sw)
		}
	}

	return zerolog.MultiLevelWriter(writers...), nil
}
