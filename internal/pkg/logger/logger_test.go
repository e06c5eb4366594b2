package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(DEBUG)
	SetRedactPII(true)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(INFO)
	})
	return &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestLogRedactsContactFields(t *testing.T) {
	buf := capture(t)
	Info("inquiry parsed",
		"phone", "010-1234-5678",
		"customer_name", "홍길동",
		"email", "john.doe@example.com",
		"note", "call 010-9876-5432 or mail ab@example.com",
		"err", errors.New("boom"),
	)

	entry := lastEntry(t, buf)
	if entry["level"] != "INFO" || entry["msg"] != "inquiry parsed" {
		t.Errorf("unexpected header: %v", entry)
	}
	if entry["phone"] != "***-5678" {
		t.Errorf("phone = %v", entry["phone"])
	}
	if entry["customer_name"] != "홍**" {
		t.Errorf("customer_name = %v", entry["customer_name"])
	}
	if entry["email"] != "jo***@example.com" {
		t.Errorf("email = %v", entry["email"])
	}
	if entry["note"] != "call ***-5432 or mail ***@example.com" {
		t.Errorf("note = %v", entry["note"])
	}
	if entry["err"] != "boom" {
		t.Errorf("err = %v", entry["err"])
	}
}

func TestLevelFilter(t *testing.T) {
	buf := capture(t)
	SetLevel(WARN)
	Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected INFO to be filtered, got %q", buf.String())
	}
	Warn("kept")
	if lastEntry(t, buf)["msg"] != "kept" {
		t.Error("expected WARN entry")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DEBUG,
		" INFO ":  INFO,
		"warning": WARN,
		"error":   ERROR,
		"":        INFO,
		"verbose": INFO,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRedactPhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"010-1234-5678", "***-5678"},
		{"01012345678", "***-5678"},
		{"123", "***"},
		{"", "***"},
	}
	for _, tt := range tests {
		if got := RedactPhone(tt.in); got != tt.want {
			t.Errorf("RedactPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRedactName(t *testing.T) {
	if got := RedactName("김"); got != "*" {
		t.Errorf("RedactName(single) = %q", got)
	}
	if got := RedactName(""); got != "" {
		t.Errorf("RedactName(empty) = %q", got)
	}
}
