package minigame

// Zone is derived from the client's region reading every tick, never stored.
type Zone string

const (
	ZoneArena    Zone = "arena"
	ZoneSafeArea Zone = "safe_area"
	ZoneUnknown  Zone = "unknown"
)

// Region IDs follow the client's map encoding: regionID = ((x>>6)<<8) | (y>>6).
// The arena and the camp sit in adjacent regions split at the big doors.
const (
	ArenaRegionID = 6462
	CampRegionID  = 6461
)

func ZoneForRegion(regionID int) Zone {
	switch regionID {
	case ArenaRegionID:
		return ZoneArena
	case CampRegionID:
		return ZoneSafeArea
	default:
		return ZoneUnknown
	}
}

func RegionForPosition(x, y int) int {
	return ((x >> 6) << 8) | (y >> 6)
}

// InArena is the only question callers may ask of an uncertain zone.
// ZoneUnknown deliberately answers false so a failed read falls toward
// the slower safe-area branch.
func (z Zone) InArena() bool {
	return z == ZoneArena
}
