/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	for _, test := range []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	} {
		if got := ParseLevel(test.level); got != test.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", test.level, got, test.want)
		}
	}
}

func TestConsoleLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", FileConfig{}, &buf)
	log.Info("hidden")
	log.Warn("shown", zap.String("snapshot", "colormap_01"))
	if err := log.Sync(); err != nil {
		t.Fatalf("failed to sync: %s", err)
	}
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "colormap_01") {
		t.Errorf("warn entry missing from output: %q", out)
	}
}

func TestFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "meshviz.log")
	cfg := DefaultFileConfig(logFile)
	cfg.Compress = false
	log := New("debug", cfg, nil)
	log.Debug("reclipped", zap.Float64("min", 10), zap.Float64("max", 90))
	if err := log.Sync(); err != nil {
		t.Fatalf("failed to sync: %s", err)
	}
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %s", err)
	}
	if !strings.Contains(string(data), `"msg":"reclipped"`) {
		t.Errorf("log file missing entry: %q", data)
	}
}
