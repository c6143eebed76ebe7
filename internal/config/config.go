package config

import (
	"github.com/sirupsen/logrus"
	"github.com/ubuntu/authorityd/internal/log"
)

// ErrorFormat switches between "%v" and "%+v" depending on whether we
// want more verbose info on the top-level CLI error print.
var ErrorFormat = "%v"

// SetVerboseMode maps a -v/-vv verbosity count to a log level and to
// ErrorFormat: 0 is Warning, 1 is Info, 2+ is Debug with verbose
// error formatting.
func SetVerboseMode(count int) {
	switch {
	case count >= 2:
		log.SetLevel(logrus.DebugLevel)
		ErrorFormat = "%+v"
	case count == 1:
		log.SetLevel(logrus.InfoLevel)
		ErrorFormat = "%v"
	default:
		log.SetLevel(logrus.WarnLevel)
		ErrorFormat = "%v"
	}
}
