package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestZerologAdapter_Levels(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	z.Debug("d")
	z.Info("i")
	z.Notice("n")
	z.Warn("w")
	z.Error("e")
	z.Fatal("f")

	lines := decodeLines(t, &buf)
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6", len(lines))
	}

	wantLevels := []string{"debug", "info", "info", "warn", "error", "fatal"}
	for i, want := range wantLevels {
		if got := lines[i]["level"]; got != want {
			t.Errorf("line %d level = %v, want %s", i, got, want)
		}
	}
	if lines[2]["severity"] != "notice" {
		t.Errorf("notice line severity = %v, want notice", lines[2]["severity"])
	}
}

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	z := NewZerologAdapterWithLogger(zerolog.New(&buf))

	z.Info("fields",
		String("name", "Scale"),
		Int("version", 2),
		Bool("child", true),
		Duration("took", time.Second),
		Strings("outputs", []string{"ws"}),
		Err(errors.New("boom")),
	)

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	line := lines[0]
	if line["name"] != "Scale" {
		t.Errorf("name = %v", line["name"])
	}
	if line["version"] != float64(2) {
		t.Errorf("version = %v", line["version"])
	}
	if line["child"] != true {
		t.Errorf("child = %v", line["child"])
	}
	if line["error"] != "boom" {
		t.Errorf("error = %v", line["error"])
	}
}

func TestWith_AppendsFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewZerologAdapterWithLogger(zerolog.New(&buf))

	l := With(With(base, String("algorithm", "Scale")), Int("version", 1))
	l.Warn("hello", String("extra", "x"))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	for _, key := range []string{"algorithm", "version", "extra"} {
		if _, ok := lines[0][key]; !ok {
			t.Errorf("missing field %s", key)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"notice", zerolog.InfoLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.name); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
