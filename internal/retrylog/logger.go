// Package retrylog lets retryablehttp clients log through logrus.
package retrylog

import (
	"fmt"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

type logger struct {
	logger logrus.FieldLogger
}

func New(l logrus.FieldLogger) retryablehttp.LeveledLogger {
	return &logger{logger: l}
}

func (l *logger) Error(msg string, keysAndValues ...interface{}) {
	l.entry(keysAndValues).Error(msg)
}

func (l *logger) Warn(msg string, keysAndValues ...interface{}) {
	l.entry(keysAndValues).Warn(msg)
}

func (l *logger) Info(msg string, keysAndValues ...interface{}) {
	l.entry(keysAndValues).Info(msg)
}

func (l *logger) Debug(msg string, keysAndValues ...interface{}) {
	l.entry(keysAndValues).Debug(msg)
}

func (l *logger) entry(keysAndValues []interface{}) logrus.FieldLogger {
	fields := logrus.Fields{}

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return l.logger.WithFields(fields)
}
