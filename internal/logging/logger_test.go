package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestU_Logger_StructuredProperties(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, DebugLevel)

	log.Warn("Parameter {Parameter} is not supported", "QLENGTH")

	if !strings.Contains(buf.String(), "QLENGTH") {
		t.Errorf("output missing property value: %q", buf.String())
	}
}

func TestU_Logger_MinimumLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, WarnLevel)

	log.Info("hidden message")
	log.Error("visible message")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("Info below the minimum level was written: %q", out)
	}
	if !strings.Contains(out, "visible message") {
		t.Errorf("Error was not written: %q", out)
	}
}

func TestU_Logger_ForContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, InfoLevel).ForContext("Scope", "timestamp")

	log.Info("Resolved {Count} entries", 7)

	if !strings.Contains(buf.String(), "7") {
		t.Errorf("output missing rendered property: %q", buf.String())
	}
}

func TestU_ParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"", InfoLevel, false},
		{"WARNING", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"loud", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run("[Unit] ParseLevel: "+tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestU_NullLogger(t *testing.T) {
	log := NewNull()
	log.Debug("nothing {X}", 1)
	if log.ForContext("k", "v") == nil {
		t.Error("ForContext() returned nil")
	}
}
