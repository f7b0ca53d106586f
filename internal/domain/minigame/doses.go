package minigame

// FullPotionDoses is the dose value of a freshly combined potion.
const FullPotionDoses = 4

// doseValues maps each potion item to the doses it still holds. Partially
// used containers keep their partial value; the unfinished container
// holds none until combined.
var doseValues = map[int]int{
	ItemPotion4: 4,
	ItemPotion3: 3,
	ItemPotion2: 2,
	ItemPotion1: 1,
}

// TotalDoses sums remaining doses across an inventory snapshot. Targets
// are expressed in whole potions but compared in doses so partially
// consumed containers count correctly.
func TotalDoses(inventory map[int]int) int {
	total := 0
	for item, count := range inventory {
		if count <= 0 {
			continue
		}
		total += count * doseValues[item]
	}
	return total
}

// BestDoseItem returns the potion item to sip next, preferring the unit
// holding the most doses, and false when none is held.
func BestDoseItem(inventory map[int]int) (int, bool) {
	for _, item := range []int{ItemPotion4, ItemPotion3, ItemPotion2, ItemPotion1} {
		if inventory[item] > 0 {
			return item, true
		}
	}
	return 0, false
}

// PotionShortfall converts a whole-potion target into the number of new
// potions to brew given the doses already on hand.
func PotionShortfall(inventory map[int]int, targetPotions int) int {
	if targetPotions <= 0 {
		return 0
	}
	have := TotalDoses(inventory)
	missing := targetPotions*FullPotionDoses - have
	if missing <= 0 {
		return 0
	}
	// Round up: a partial potion's worth of missing doses still needs a
	// whole new container.
	return (missing + FullPotionDoses - 1) / FullPotionDoses
}
