package minigame

// ArenaAction is the planner's pick for the next gameplay action while a
// round is live.
type ArenaAction string

const (
	ActionGather  ArenaAction = "gather"
	ActionConvert ArenaAction = "convert"
	ActionDeposit ArenaAction = "deposit"
)

// NextArenaAction chooses what to do with the current inventory. Finished
// and near-finished product is always disposed of before gathering more,
// and a full inventory never gathers.
func NextArenaAction(hasRoot, hasKindling, inventoryFull, fletchEnabled bool) ArenaAction {
	if inventoryFull || hasKindling || (hasRoot && !fletchEnabled) {
		return ActionDeposit
	}
	if fletchEnabled && hasRoot {
		return ActionConvert
	}
	return ActionGather
}
