package minigame

import "testing"

func TestClassifyChat_DuplicateLineIsAlwaysNone(t *testing.T) {
	lines := []string{
		"The cold of the Wintertodt chills you.",
		"The brazier has gone out.",
		"The Wintertodt has been subdued!",
	}
	for _, line := range lines {
		event, _ := ClassifyChat(line, line)
		if event != ChatNone {
			t.Fatalf("duplicate line %q classified as %s, want none", line, event)
		}
	}
}

func TestClassifyChat_EmptyLineKeepsLastSeen(t *testing.T) {
	event, last := ClassifyChat("", "previous line")
	if event != ChatNone {
		t.Fatalf("empty line classified as %s", event)
	}
	if last != "previous line" {
		t.Fatalf("lastSeen changed on empty read: %q", last)
	}
}

func TestClassifyChat_RoundEndAnyCase(t *testing.T) {
	for _, line := range []string{
		"The Wintertodt has been subdued!",
		"the wintertodt has been SUBDUED!",
		"Your party has SubDued the beast.",
	} {
		event, last := ClassifyChat(line, "")
		if event != ChatRoundEnd {
			t.Fatalf("line %q classified as %s, want round_end", line, event)
		}
		if last != line {
			t.Fatalf("lastSeen not updated to %q", line)
		}
	}
}

func TestClassifyChat_KnownPhrases(t *testing.T) {
	cases := []struct {
		line string
		want ChatEvent
	}{
		{"The brazier has gone out.", ChatBrazierOut},
		{"The brazier is broken and shrapnel flies everywhere!", ChatBrazierBroken},
		{"The cold of the Wintertodt chills you.", ChatDamaged},
		{"The freezing cold attack hits you.", ChatDamaged},
		{"You carefully fletch the root.", ChatNone},
		{"Welcome to the arena.", ChatNone},
	}
	for _, tc := range cases {
		event, _ := ClassifyChat(tc.line, "")
		if event != tc.want {
			t.Fatalf("line %q classified as %s, want %s", tc.line, event, tc.want)
		}
	}
}

func TestClassifyChat_NewLineUpdatesLastSeenEvenWhenNone(t *testing.T) {
	_, last := ClassifyChat("some irrelevant chatter", "old line")
	if last != "some irrelevant chatter" {
		t.Fatalf("lastSeen should track every distinct line, got %q", last)
	}
}

func TestClassifyChat_StreamDedupScenario(t *testing.T) {
	stream := []string{"", "The cold of the Wintertodt chills you.", "The cold of the Wintertodt chills you."}
	want := []ChatEvent{ChatNone, ChatDamaged, ChatNone}

	last := ""
	for i, line := range stream {
		var event ChatEvent
		event, last = ClassifyChat(line, last)
		if event != want[i] {
			t.Fatalf("tick %d: classified %s, want %s", i, event, want[i])
		}
	}
}
