package core

import (
	"testing"
	"time"
)

func TestNewFixedStepDefaultsInvalidTPS(t *testing.T) {
	fs := NewFixedStep(0)
	if fs.step != time.Second/60 {
		t.Fatalf("expected default 60 TPS step, got %v", fs.step)
	}
}

func TestShouldStepFiresAfterAccumulatedStep(t *testing.T) {
	fs := NewFixedStep(1000) // 1ms step
	time.Sleep(5 * time.Millisecond)
	if !fs.ShouldStep() {
		t.Fatal("expected ShouldStep to fire after accumulating more than one step")
	}
}
