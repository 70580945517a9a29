package testutil

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ndewijer/Portfolio-Dashboard/internal/logging"
)

// NewTestLogger returns a silent logger.
func NewTestLogger(t *testing.T) *logrus.Logger {
	t.Helper()
	return logging.Discard()
}

// NewCapturingLogger returns a silent logger together with a hook that records every entry.
func NewCapturingLogger(t *testing.T) (*logrus.Logger, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}
