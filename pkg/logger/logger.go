// Package logger builds zap loggers from a small level-and-destination
// config that can be wired straight into a flag set.
package logger

import (
	"flag"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	// DevMode panics the process on dpanic-level logs.
	DevMode bool
	Level   zapcore.Level
	// Mode controls how Path is opened for writing.
	Mode FileMode
	// Path is the log destination: "stderr", "stdout", or a file path.
	// Empty disables logging.
	Path string
}

// SetFlags wires the config into fs under the log.* namespace.
func (c *Config) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.DevMode, "log.devmode", false, "development mode (if enabled dpanic level logs will cause a panic)")
	c.Level = zap.InfoLevel
	fs.Var(&c.Level, "log.level", "logging level")
	fs.StringVar(&c.Path, "log.path", "stderr", "path to send logs (values: stderr, stdout, path in file system)")
	c.Mode = FileModeTruncate
	fs.Var(&c.Mode, "log.filemode", "log file write mode (values: append, truncate, rotate)")
}

// New opens conf.Path per conf.Mode and returns a JSON-encoded zap logger
// writing there at conf.Level. An empty path yields a nop logger.
func New(conf Config) (*zap.Logger, error) {
	if conf.Path == "" {
		return zap.NewNop(), nil
	}
	w, err := OpenFile(conf.Path, conf.Mode)
	if err != nil {
		return nil, err
	}
	var opts []zap.Option
	if conf.DevMode {
		opts = append(opts, zap.Development())
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		w,
		conf.Level,
	)
	return zap.New(core, opts...), nil
}
