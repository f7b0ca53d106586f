package minigame

import "time"

// RoundPhase is the lifecycle position inside the arena. The zone
// dimension is orthogonal and handled by the engine.
type RoundPhase string

const (
	PhaseAwaitingRound RoundPhase = "awaiting_round"
	PhaseRoundActive   RoundPhase = "round_active"
	PhaseRoundEnding   RoundPhase = "round_ending"
)

// RunState is the controller's entire mutable state. It is run-scoped,
// owned by a single driver loop, and passed by value through Advance so
// the machine stays unit-testable without perception stubs. LastChatLine
// is the single-slot dedup memory; it is overwritten on every new line
// and never reset mid-run.
type RunState struct {
	Phase           RoundPhase
	DamageCount     int
	RoundsCompleted int
	RoundEndedAt    time.Time
	LastChatLine    string
}

func NewRunState() RunState {
	return RunState{Phase: PhaseAwaitingRound}
}

// Observation is the fused per-tick snapshot of everything the machine
// may consult. Inventory-derived fields are re-read each tick, never
// cached.
type Observation struct {
	ChatLine      string
	HazardVisible bool
	Idle          bool
	DosesLeft     int
	HasRoot       bool
	HasKindling   bool
	InventoryFull bool
}

// TransitionConfig carries the already-validated knobs the transition
// reads. ResupplyInArena selects the brewed-potion survival strategy;
// when false, exhaustion exits to the safe area for a banked restock.
type TransitionConfig struct {
	DamageThreshold int
	DoseLowWater    int
	RespawnInterval time.Duration
	RespawnMargin   time.Duration
	FletchRoots     bool
	ResupplyInArena bool
}

type DecisionKind string

const (
	DecideIdle        DecisionKind = "idle"
	DecideWaitBusy    DecisionKind = "wait_busy"
	DecideChop        DecisionKind = "chop"
	DecideFletch      DecisionKind = "fletch"
	DecideFeed        DecisionKind = "feed"
	DecideRelight     DecisionKind = "relight"
	DecideRepair      DecisionKind = "repair"
	DecideSip         DecisionKind = "sip"
	DecideBrew        DecisionKind = "brew"
	DecideExitArena   DecisionKind = "exit_arena"
	DecideRoundSettle DecisionKind = "round_settle"
)

// Decision is what the engine must do this tick. Event records the chat
// event that drove it, for logging and the round journal.
type Decision struct {
	Kind  DecisionKind
	Event ChatEvent
}

// Advance runs one in-arena tick: classify the newest chat line, update
// phase and counters, and pick the next action. Pure; the engine owns
// all side effects.
func Advance(s RunState, obs Observation, now time.Time, cfg TransitionConfig) (RunState, Decision) {
	event, lastLine := ClassifyChat(obs.ChatLine, s.LastChatLine)
	s.LastChatLine = lastLine

	switch event {
	case ChatRoundEnd:
		s.Phase = PhaseRoundEnding
		s.RoundsCompleted++
		s.RoundEndedAt = now
		return s, Decision{Kind: DecideRoundSettle, Event: event}
	case ChatBrazierOut:
		return s, Decision{Kind: DecideRelight, Event: event}
	case ChatBrazierBroken:
		// Shrapnel from a breaking brazier also chills.
		s.DamageCount++
		return s, Decision{Kind: DecideRepair, Event: event}
	case ChatDamaged:
		// Damage is proof the round is live, the strongest signal we get.
		s.DamageCount++
		s.Phase = PhaseRoundActive
	}

	switch s.Phase {
	case PhaseRoundEnding:
		// The settle pause after the end broadcast has already been taken.
		if obs.DosesLeft >= cfg.DoseLowWater {
			s.Phase = PhaseAwaitingRound
			return s, Decision{Kind: DecideIdle, Event: event}
		}
		return s, Decision{Kind: DecideExitArena, Event: event}
	case PhaseAwaitingRound:
		// Visual fallback wins over the timer when both could fire.
		switch {
		case obs.HazardVisible:
			s.Phase = PhaseRoundActive
		case !s.RoundEndedAt.IsZero() && now.Sub(s.RoundEndedAt) >= cfg.RespawnInterval+cfg.RespawnMargin:
			s.Phase = PhaseRoundActive
		default:
			if obs.DosesLeft == 0 && !cfg.ResupplyInArena {
				return s, Decision{Kind: DecideExitArena, Event: event}
			}
			return s, Decision{Kind: DecideIdle, Event: event}
		}
	}

	switch DecideWarmth(s.DamageCount, cfg.DamageThreshold, obs.DosesLeft > 0) {
	case WarmthConsume:
		s.DamageCount = 0
		return s, Decision{Kind: DecideSip, Event: event}
	case WarmthExhausted:
		if cfg.ResupplyInArena {
			return s, Decision{Kind: DecideBrew, Event: event}
		}
		return s, Decision{Kind: DecideExitArena, Event: event}
	}

	if !obs.Idle {
		return s, Decision{Kind: DecideWaitBusy, Event: event}
	}

	switch NextArenaAction(obs.HasRoot, obs.HasKindling, obs.InventoryFull, cfg.FletchRoots) {
	case ActionConvert:
		return s, Decision{Kind: DecideFletch, Event: event}
	case ActionDeposit:
		return s, Decision{Kind: DecideFeed, Event: event}
	default:
		return s, Decision{Kind: DecideChop, Event: event}
	}
}
