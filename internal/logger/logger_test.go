package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel zapcore.Level
		wantError bool
	}{
		{"debug level", "debug", zapcore.DebugLevel, false},
		{"info level", "info", zapcore.InfoLevel, false},
		{"warn level", "warn", zapcore.WarnLevel, false},
		{"unknown level", "chatty", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Log = zap.NewNop()

			err := Initialize(tt.level)
			if (err != nil) != tt.wantError {
				t.Fatalf("Initialize(%q) error = %v, wantError %v", tt.level, err, tt.wantError)
			}
			if tt.wantError {
				return
			}
			if !Log.Core().Enabled(tt.wantLevel) {
				t.Errorf("Initialize(%q): level %s is not enabled", tt.level, tt.wantLevel)
			}
			if tt.wantLevel > zapcore.DebugLevel && Log.Core().Enabled(zapcore.DebugLevel) {
				t.Errorf("Initialize(%q): debug must stay disabled", tt.level)
			}
		})
	}
}
