package notionblog

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger at the named level.
func NewLogger(level string) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return log, fmt.Errorf("notionblog: log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	return log, nil
}
