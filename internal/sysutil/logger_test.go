package sysutil

import (
	"testing"

	"go.uber.org/zap"
)

func TestInitLoggerLevel(t *testing.T) {
	defer func() { Log = zap.NewNop(); LogSugar = Log.Sugar() }()

	InitLogger("warn")
	if Log.Core().Enabled(zap.InfoLevel) || !Log.Core().Enabled(zap.WarnLevel) {
		t.Error("warn level not applied")
	}

	InitLogger("loud")
	if !Log.Core().Enabled(zap.InfoLevel) || Log.Core().Enabled(zap.DebugLevel) {
		t.Error("unknown level should fall back to info")
	}
	if LogSugar == nil {
		t.Error("LogSugar not initialised")
	}
}
