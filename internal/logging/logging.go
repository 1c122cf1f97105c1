package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the global logger. Diagnostics go to stderr unless file is
// set, in which case they are appended to it. The returned closer releases
// the file and is never nil.
func Init(level, file string, color bool) (io.Closer, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nopCloser{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:   color && file == "",
		DisableColors: !color || file != "",
		FullTimestamp: true,
		DisableQuote:  true,
		PadLevelText:  true,
	})
	if file == "" {
		logrus.SetOutput(os.Stderr)
		return nopCloser{}, nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logrus.SetOutput(os.Stderr)
		logrus.WithError(err).Warn("failed to open log file, logging to stderr")
		return nopCloser{}, nil
	}
	logrus.SetOutput(f)
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
