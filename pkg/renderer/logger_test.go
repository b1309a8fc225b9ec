package renderer

import (
	"bytes"
	"testing"
)

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf)

	logger.Printf("Rendering %dx%d\n", 4, 2)
	logger.Printf("done\n")

	if got, want := buf.String(), "Rendering 4x2\ndone\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
