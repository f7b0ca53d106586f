package minigame

import "testing"

func TestDecideWarmth_BelowThreshold(t *testing.T) {
	if got := DecideWarmth(2, 3, true); got != WarmthNoneNeeded {
		t.Fatalf("expected none_needed below threshold, got %s", got)
	}
	if got := DecideWarmth(0, 3, false); got != WarmthNoneNeeded {
		t.Fatalf("no dose needed when undamaged, got %s", got)
	}
}

func TestDecideWarmth_AtAndAboveThreshold(t *testing.T) {
	if got := DecideWarmth(3, 3, true); got != WarmthConsume {
		t.Fatalf("expected consume at threshold, got %s", got)
	}
	if got := DecideWarmth(7, 3, true); got != WarmthConsume {
		t.Fatalf("expected consume above threshold, got %s", got)
	}
}

func TestDecideWarmth_Exhausted(t *testing.T) {
	if got := DecideWarmth(3, 3, false); got != WarmthExhausted {
		t.Fatalf("expected exhausted with no dose, got %s", got)
	}
}
