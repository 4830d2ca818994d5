package tilequest

import "github.com/sirupsen/logrus"

var logger = logrus.StandardLogger()

// SetLogger replaces the logger the engine writes to. Passing nil restores
// logrus' standard logger.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
}

// Logger returns the logger the engine currently writes to.
func Logger() *logrus.Logger {
	return logger
}

func componentLog(name string) *logrus.Entry {
	return logger.WithField("component", name)
}
