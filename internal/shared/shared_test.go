package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name string
		ms   int
		want string
	}{
		{name: "zero", ms: 0, want: "0:00"},
		{name: "pads seconds", ms: 65_000, want: "1:05"},
		{name: "truncates milliseconds", ms: 59_999, want: "0:59"},
		{name: "long track", ms: 612_000, want: "10:12"},
		{name: "negative clamps", ms: -5, want: "0:00"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.ms); got != tt.want {
				t.Errorf("FormatDuration(%d) = %v, want %v", tt.ms, got, tt.want)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	t.Run("WithLogger adds fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "session")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "component=session") {
			t.Errorf("expected field in output, got %q", buf.String())
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		id := GenerateID()
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("expected valid uuid, got %q: %v", id, err)
		}
		if id == GenerateID() {
			t.Error("expected unique ids")
		}
	})
}
