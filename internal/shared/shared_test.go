package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	t.Run("writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output, got %q", buf.String())
		}
	})

	t.Run("nil writer falls back to stderr", func(t *testing.T) {
		if NewLogger(nil) == nil {
			t.Error("expected a usable logger")
		}
	})
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	child := WithLogger(logger, "artist", "a1")
	child.Info("fetching")

	out := buf.String()
	if !strings.Contains(out, "artist") || !strings.Contains(out, "a1") {
		t.Errorf("expected key-value context in output, got %q", out)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	SetLogLevel(logger, log.ErrorLevel)
	logger.Info("hidden")
	logger.Error("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info output should be suppressed at error level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("error output should still appear")
	}
}

func TestGenerateState(t *testing.T) {
	first, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first == "" || first == second {
		t.Errorf("expected distinct non-empty states, got %q and %q", first, second)
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]int{"count": 3}

	t.Run("compact", func(t *testing.T) {
		out, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(out) != `{"count":3}` {
			t.Errorf("unexpected output: %s", out)
		}
	})

	t.Run("pretty", func(t *testing.T) {
		out, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(out), "\n") {
			t.Errorf("expected indented output, got %s", out)
		}
		var decoded map[string]int
		if err := json.Unmarshal(out, &decoded); err != nil || decoded["count"] != 3 {
			t.Errorf("pretty output should stay valid JSON: %v", err)
		}
	})
}

func TestErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: spotify API status 401", ErrTokenExpired)

	if !errors.Is(wrapped, ErrTokenExpired) {
		t.Error("sentinel should survive wrapping")
	}
	if errors.Is(wrapped, ErrRefreshFailed) {
		t.Error("distinct sentinels should not match")
	}
}
