package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func newTestSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, msg)
	s.w = &buf
	return s, &buf
}

func TestSpinnerBasic(t *testing.T) {
	s, buf := newTestSpinner(context.Background(), "Rendering svg...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Rendering svg...") {
		t.Errorf("spinner output %q should contain the message", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\r") {
		t.Error("spinner should clear its line when stopped")
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s, _ := newTestSpinner(ctx, "Testing with context...")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerWithTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s, _ := newTestSpinner(ctx, "Testing with timeout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context timeout")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := newTestSpinner(context.Background(), "Testing idempotent stop...")
	s.Start()

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestNewSpinnerDefaultsToStderr(t *testing.T) {
	s := newSpinnerWithContext(context.Background(), "Test")
	if s.w == nil {
		t.Fatal("spinner should have a writer")
	}
	if s.Cancelled() {
		t.Error("new spinner should not be cancelled")
	}
}
