package main

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type logger struct {
	*logrus.Logger
}

func newLogger(verbose bool) logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	l.Level = logrus.WarnLevel
	if verbose {
		l.Level = logrus.DebugLevel
	}
	return logger{l}
}

// Logf logs a progress message, shown only in verbose mode.
func (l logger) Logf(format string, a ...interface{}) {
	l.Infof(format, a...)
}

// logMetrics logs the value of every counter in the gatherer at debug level.
func (l logger) logMetrics(g prometheus.Gatherer) {
	mfs, err := g.Gather()
	if err != nil {
		l.WithError(err).Warn("gathering metrics")
		return
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			c := m.GetCounter()
			if c == nil {
				continue
			}
			fields := logrus.Fields{"value": c.GetValue()}
			for _, lp := range m.GetLabel() {
				fields[lp.GetName()] = lp.GetValue()
			}
			l.WithFields(fields).Debug(mf.GetName())
		}
	}
}
