/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	prev := zap.L()
	defer zap.ReplaceGlobals(prev)

	logger, err := InitLogger("warn")
	if err != nil {
		t.Fatalf("InitLogger returned error: %v", err)
	}
	if zap.L() != logger {
		t.Errorf("expected logger to be installed globally")
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Errorf("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		t.Errorf("error should be enabled at warn level")
	}

	if _, err := InitLogger("chatty"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}
