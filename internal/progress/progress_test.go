package progress

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestStageWritesSpinner(t *testing.T) {
	var buf bytes.Buffer
	r := New(context.Background(), &buf, true)

	done := r.Stage("tokenize", "Tokenizing training documents")
	time.Sleep(250 * time.Millisecond)
	done()

	output := buf.String()
	if !strings.Contains(output, "Tokenizing training documents") {
		t.Errorf("expected stage message in output, got %q", output)
	}
	if !strings.HasSuffix(output, "\r") {
		t.Error("expected line to be cleared on stop")
	}

	// calling done twice is harmless
	done()
}

func TestDisabledReporterIsSilentButTimes(t *testing.T) {
	var buf bytes.Buffer
	r := New(context.Background(), &buf, false)

	var stages []string
	r.OnStage(func(stage string, elapsed time.Duration) {
		if elapsed < 0 {
			t.Errorf("negative elapsed time for %s", stage)
		}
		stages = append(stages, stage)
	})

	r.Stage("load", "Loading")()
	r.Stage("vocabulary", "Building vocabularies")()

	if buf.Len() != 0 {
		t.Errorf("disabled reporter wrote %q", buf.String())
	}
	if len(stages) != 2 || stages[0] != "load" || stages[1] != "vocabulary" {
		t.Errorf("stages = %v", stages)
	}
}

func TestNewStageStopsPrevious(t *testing.T) {
	var buf bytes.Buffer
	r := New(context.Background(), &buf, true)

	first := r.Stage("a", "first")
	second := r.Stage("b", "second")
	time.Sleep(150 * time.Millisecond)
	second()
	first()

	if r.current != nil {
		t.Error("no spinner should remain after all stages finish")
	}
}

func TestCancelledContext(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	r := New(ctx, &buf, true)
	done := r.Stage("x", "cancelled")
	cancel()
	done()
}

func TestInteractive(t *testing.T) {
	var buf bytes.Buffer
	if Interactive(&buf) {
		t.Error("a buffer is not a terminal")
	}
}
