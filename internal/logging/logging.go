// Package logging configures the driver's single logrus instance. Every
// other package receives a *logrus.Entry from here rather than reaching
// for a package-level global.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Options configures Setup.
type Options struct {
	Level  string // one of logrus's level strings; defaults to "info"
	JSON   bool   // structured JSON output instead of text
	Fields logrus.Fields
}

// Setup builds the root logger and returns an Entry pre-populated with
// fields, ready to be threaded into the rest of the program (device,
// decoder, run, printer, monitor, daemon all take a *logrus.Entry
// constructor argument).
func Setup(opts Options) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log.WithFields(opts.Fields)
}
