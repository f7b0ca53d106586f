package minigame

// WarmthDecision is the self-preservation verdict for the current tick.
type WarmthDecision string

const (
	WarmthNoneNeeded WarmthDecision = "none_needed"
	WarmthConsume    WarmthDecision = "consume"
	WarmthExhausted  WarmthDecision = "exhausted"
)

// DecideWarmth converts the counted damage events into a verdict. Warmth
// itself is never read; the damage counter is the only proxy. Exhausted
// means the threshold was met with no dose on hand and the caller must
// retreat or resupply, never continue silently.
func DecideWarmth(damageCount, threshold int, hasDose bool) WarmthDecision {
	if damageCount < threshold {
		return WarmthNoneNeeded
	}
	if hasDose {
		return WarmthConsume
	}
	return WarmthExhausted
}
