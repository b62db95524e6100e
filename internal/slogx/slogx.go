// Package slogx is the planner's logging setup, a thin wrapper around
// logrus the way the teacher's engine wires up structured logging: one
// package-level logger, field-scoped child loggers per pass.
package slogx

import "github.com/sirupsen/logrus"

// Log is the package-level logger used by the planner, analyzer, and
// optimizer packages for pass timing and rule-firing traces.
var Log = logrus.New()

func init() {
	Log.SetLevel(logrus.WarnLevel)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// ForPass returns a child logger tagged with the pass name, mirroring the
// per-module debug traces the Rust source emits (e.g. graph_join/metadata.rs's
// log::debug! calls).
func ForPass(pass string) *logrus.Entry {
	return Log.WithField("pass", pass)
}
