// Package logging builds the zap logger used by the command line tool.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	zaplogfmt "github.com/sykesm/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported encodings.
const (
	JSON    = "json"
	Console = "console"
	Logfmt  = "logfmt"
)

// Config is used to provide dependencies to New.
type Config struct {
	// Format selects the encoder: "json", "console" or "logfmt". If Format
	// is not provided, console is used.
	Format string

	// Level is the minimum enabled level, for example "debug" or "warn".
	// If Level is not provided, loggers will be enabled at the INFO level.
	Level string

	// Writer is the sink for encoded log records.
	//
	// If a Writer is not provided, os.Stderr will be used as the log sink.
	Writer io.Writer
}

// New creates a logger from the provided configuration.
func New(c Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if c.Level != "" {
		l, err := zapcore.ParseLevel(c.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid logging level %q", c.Level)
		}
		level = l
	}

	encoder, err := newEncoder(c.Format)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, writeSyncer(c.Writer), zap.NewAtomicLevelAt(level))
	return zap.New(core), nil
}

func newEncoder(format string) (zapcore.Encoder, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.NameKey = "name"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch strings.ToLower(format) {
	case JSON:
		return zapcore.NewJSONEncoder(encoderConfig), nil
	case Logfmt:
		return zaplogfmt.NewEncoder(encoderConfig), nil
	case Console, "":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig), nil
	default:
		return nil, errors.Errorf("unsupported logging format %q", format)
	}
}

// writeSyncer adapts w for zap. Writers, with the exception of an *os.File,
// need to be safe for concurrent use by multiple go routines.
func writeSyncer(w io.Writer) zapcore.WriteSyncer {
	switch t := w.(type) {
	case nil:
		return zapcore.Lock(os.Stderr)
	case *os.File:
		return zapcore.Lock(t)
	case zapcore.WriteSyncer:
		return t
	default:
		return zapcore.AddSync(w)
	}
}
