package minigame

import "strings"

// ChatEvent is the semantic tag for the newest chat line. The feed is
// append-only free text; these are the only phrases the game emits that
// the controller cares about.
type ChatEvent string

const (
	ChatNone          ChatEvent = "none"
	ChatRoundEnd      ChatEvent = "round_end"
	ChatBrazierOut    ChatEvent = "brazier_out"
	ChatBrazierBroken ChatEvent = "brazier_broken"
	ChatDamaged       ChatEvent = "damaged"
)

// Phrase table verified against the client plugin source. The round-end
// broadcast is matched case-insensitively; the rest are exact prefixes.
const (
	roundEndMarker      = "subdued"
	brazierOutPrefix    = "The brazier has gone out"
	brazierBrokenPrefix = "The brazier is broken and shrapnel"
)

var damagePrefixes = []string{
	"The cold of",
	"The freezing cold attack",
}

// ClassifyChat maps the newest raw chat line to an event, deduplicating
// against the previously classified line. A line identical to lastSeen
// always classifies as ChatNone; any other non-empty line becomes the new
// lastSeen even when it classifies as ChatNone, so each distinct line is
// classified exactly once.
func ClassifyChat(raw, lastSeen string) (ChatEvent, string) {
	if raw == "" || raw == lastSeen {
		return ChatNone, lastSeen
	}

	switch {
	case strings.Contains(strings.ToLower(raw), roundEndMarker):
		return ChatRoundEnd, raw
	case strings.HasPrefix(raw, brazierOutPrefix):
		return ChatBrazierOut, raw
	case strings.HasPrefix(raw, brazierBrokenPrefix):
		return ChatBrazierBroken, raw
	}
	for _, prefix := range damagePrefixes {
		if strings.HasPrefix(raw, prefix) {
			return ChatDamaged, raw
		}
	}
	return ChatNone, raw
}
