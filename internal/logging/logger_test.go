package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/parenfmt/internal/logging"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		level    string
		expected log.Level
	}{
		{"debug", "debug", log.DebugLevel},
		{"info", "info", log.InfoLevel},
		{"warn", "warn", log.WarnLevel},
		{"warning alias", "warning", log.WarnLevel},
		{"error", "error", log.ErrorLevel},
		{"unknown falls back to info", "verbose", log.InfoLevel},
		{"empty falls back to info", "", log.InfoLevel},
		{"upper case", "DEBUG", log.DebugLevel},
		{"surrounding space", " error ", log.ErrorLevel},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			if got := logging.ParseLevel(testCase.level); got != testCase.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", testCase.level, got, testCase.expected)
			}
			if got := logging.New(testCase.level).GetLevel(); got != testCase.expected {
				t.Errorf("New(%q) level = %v, want %v", testCase.level, got, testCase.expected)
			}
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("formatted file", logging.FieldPath, "a.scm")

	out := buf.String()
	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Errorf("info message written at warn level: %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("path=a.scm")) {
		t.Errorf("expected path field in %q", out)
	}
}

func TestNewInteractive(t *testing.T) {
	t.Parallel()

	logger := logging.NewInteractive()
	if logger == nil {
		t.Fatal("NewInteractive returned nil")
	}
	if logger.GetLevel() != log.InfoLevel {
		t.Errorf("expected info level, got %v", logger.GetLevel())
	}
	if logger.GetPrefix() != "parenfmt" {
		t.Errorf("expected parenfmt prefix, got %q", logger.GetPrefix())
	}
}

func TestSetDefaultAndLevel(t *testing.T) {
	// Mutates the process-wide logger; not parallel.
	original := logging.Default()
	defer logging.SetDefault(original)

	replacement := logging.New("info")
	logging.SetDefault(replacement)
	if logging.Default() != replacement {
		t.Fatal("SetDefault did not replace the default logger")
	}

	logging.SetLevel("debug")
	if logging.Default().GetLevel() != log.DebugLevel {
		t.Error("SetLevel(debug) had no effect")
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	logger := logging.New("error")
	ctx := logging.WithLogger(context.Background(), logger)

	if logging.FromContext(ctx) != logger {
		t.Error("FromContext did not return the attached logger")
	}
	if logging.FromContext(context.Background()) == nil {
		t.Error("FromContext without a logger returned nil")
	}
}
