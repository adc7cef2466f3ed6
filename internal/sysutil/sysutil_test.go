package sysutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/fatihsenyuz/Randevu/internal/config"
)

func TestSetLogLevel_AllVariants(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"  DeBuG  ", zerolog.DebugLevel}, // case + trim
		{"info", zerolog.InfoLevel},
		{"", zerolog.InfoLevel}, // empty -> info
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel}, // alias
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"unknown", zerolog.InfoLevel}, // default
	}

	for _, tc := range cases {
		SetLogLevel(tc.in)
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Fatalf("SetLogLevel(%q) -> %v; want %v", tc.in, got, tc.want)
		}
	}
}

func TestLogWriter_StdoutOnly(t *testing.T) {
	var buf bytes.Buffer
	w, closer := LogWriter(&buf, false, config.LogFileConfig{})
	if closer == nil || closer.Close() != nil {
		t.Fatalf("closer must be a no-op")
	}
	logger := zerolog.New(w)
	logger.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"message":"hello"`) {
		t.Fatalf("expected JSON line, got %q", buf.String())
	}
}

func TestLogWriter_Pretty(t *testing.T) {
	var buf bytes.Buffer
	w, _ := LogWriter(&buf, true, config.LogFileConfig{})
	logger := zerolog.New(w)
	logger.Info().Msg("hello")
	if strings.Contains(buf.String(), `"message"`) || !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
}

func TestLogWriter_FileFanOut(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "randevu.log")
	w, closer := LogWriter(&buf, false, config.LogFileConfig{Path: path, MaxSizeMB: 1})

	logger := zerolog.New(w)
	logger.Warn().Str("k", "v").Msg("both")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"k":"v"`) || !strings.Contains(buf.String(), `"k":"v"`) {
		t.Fatalf("line missing: file=%q stdout=%q", data, buf.String())
	}
}
