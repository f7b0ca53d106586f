package minigame

// Item IDs as exposed by the game client's inventory API.
const (
	ItemBrumaRoot     = 20695
	ItemBrumaKindling = 20696
	ItemKnife         = 946
	ItemTinderbox     = 590
	ItemHammer        = 2347

	ItemPotionUnfinished = 20697
	ItemBrumaHerb        = 20698
	ItemPotion4          = 20699
	ItemPotion3          = 20700
	ItemPotion2          = 20701
	ItemPotion1          = 20702
)

// Axes in ascending tier order. Any one of these satisfies the axe
// requirement, equipped or carried.
var AxeItems = []int{1351, 1349, 1353, 1361, 1355, 1357, 1359, 6739}

// Warm gear the provisioner counts across equipment slots. The set is not
// exhaustive; operators typically wear the pyromancer pieces.
var WarmGearItems = []int{20704, 20706, 20708, 20710, 20712, 10071, 10075}

// FoodItems the banked strategy recognizes as its survival consumable,
// best first.
var FoodItems = []int{385, 13441, 7946, 379, 361, 373}

// TagCategory names a class of operator-tagged on-screen objects.
type TagCategory string

const (
	TagBrazier   TagCategory = "brazier"
	TagRoots     TagCategory = "roots"
	TagDoor      TagCategory = "door"
	TagBank      TagCategory = "bank"
	TagSprouting TagCategory = "sprouting_roots"
	TagCrate     TagCategory = "crate"
)

// GearRequirement is a named capability satisfied by any one of its
// acceptable item IDs.
type GearRequirement struct {
	Name     string
	Items    []int
	Equipped bool // satisfied by equipment as well as inventory
	Hard     bool // run aborts when unmet after recovery
}

// RequiredGear returns the capability set for a run. The knife is only
// required when root conversion is enabled.
func RequiredGear(fletchRoots bool) []GearRequirement {
	reqs := []GearRequirement{
		{Name: "axe", Items: AxeItems, Equipped: true, Hard: true},
		{Name: "tinderbox", Items: []int{ItemTinderbox}, Hard: true},
		{Name: "hammer", Items: []int{ItemHammer}, Hard: true},
	}
	if fletchRoots {
		reqs = append(reqs, GearRequirement{Name: "knife", Items: []int{ItemKnife}, Hard: true})
	}
	return reqs
}

// ProtectedItems never count as loot and are kept out of deposits.
func ProtectedItems(fletchRoots bool) map[int]bool {
	out := map[int]bool{
		ItemTinderbox:        true,
		ItemHammer:           true,
		ItemPotionUnfinished: true,
		ItemBrumaHerb:        true,
		ItemPotion4:          true,
		ItemPotion3:          true,
		ItemPotion2:          true,
		ItemPotion1:          true,
	}
	for _, id := range AxeItems {
		out[id] = true
	}
	if fletchRoots {
		out[ItemKnife] = true
	}
	return out
}
