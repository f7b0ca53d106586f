package inmemory

import (
	"sync"

	"frostbot/internal/domain/minigame"
)

type Snapshot struct {
	DecisionTotal   uint64            `json:"decision_total"`
	ByDecision      map[string]uint64 `json:"by_decision"`
	RoundsCompleted uint64            `json:"rounds_completed"`
	DosesConsumed   uint64            `json:"doses_consumed"`
	PerceptionMiss  map[string]uint64 `json:"perception_miss"`
}

type Recorder struct {
	mu         sync.Mutex
	byDecision map[string]uint64
	rounds     uint64
	doses      uint64
	misses     map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byDecision: map[string]uint64{},
		misses:     map[string]uint64{},
	}
}

func (r *Recorder) RecordDecision(kind minigame.DecisionKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byDecision[string(kind)]++
}

func (r *Recorder) RecordRoundCompleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rounds++
}

func (r *Recorder) RecordDoseConsumed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doses++
}

func (r *Recorder) RecordPerceptionMiss(category minigame.TagCategory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses[string(category)]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		RoundsCompleted: r.rounds,
		DosesConsumed:   r.doses,
		ByDecision:      make(map[string]uint64, len(r.byDecision)),
		PerceptionMiss:  make(map[string]uint64, len(r.misses)),
	}
	for k, v := range r.byDecision {
		out.ByDecision[k] = v
		out.DecisionTotal += v
	}
	for k, v := range r.misses {
		out.PerceptionMiss[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
