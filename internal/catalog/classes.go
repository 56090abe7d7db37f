// Package catalog holds the static game data: class definitions, skill
// trees, and achievement thresholds. It is the single source of truth for
// valid class and skill identifiers, costs, and prerequisites.
package catalog

// Class keys - the seven selectable player archetypes.
const (
	ClassDefault  = "DEFAULT"
	ClassHero     = "HERO"
	ClassGambler  = "GAMBLER"
	ClassAssassin = "ASSASSIN"
	ClassWizard   = "WIZARD"
	ClassArcher   = "ARCHER"
	ClassTank     = "TANK"
)

// ClassInfo holds the configuration for a player class.
type ClassInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Cost        int64  `json:"cost"`
	Description string `json:"description"`
}

// Classes contains all class definitions.
var Classes = map[string]ClassInfo{
	ClassDefault: {
		Key:         ClassDefault,
		Name:        "Default",
		Emoji:       "⚪",
		Cost:        0,
		Description: "No XP bonus. Balanced starter class.",
	},
	ClassHero: {
		Key:         ClassHero,
		Name:        "Hero",
		Emoji:       "⚔️",
		Cost:        500,
		Description: "+25 XP on every action. Reliable and simple.",
	},
	ClassGambler: {
		Key:         ClassGambler,
		Name:        "Gambler",
		Emoji:       "🎲",
		Cost:        300,
		Description: "RNG-based XP. High-risk, high-reward.",
	},
	ClassAssassin: {
		Key:         ClassAssassin,
		Name:        "Assassin",
		Emoji:       "🗡️",
		Cost:        400,
		Description: "XP streak mechanic. +5% per stack (max 10).",
	},
	ClassWizard: {
		Key:         ClassWizard,
		Name:        "Wizard",
		Emoji:       "🔮",
		Cost:        700,
		Description: "Spell combos + Wisdom scaling (+5 XP/level).",
	},
	ClassArcher: {
		Key:         ClassArcher,
		Name:        "Archer",
		Emoji:       "🏹",
		Cost:        600,
		Description: "Precision shot system with crits.",
	},
	ClassTank: {
		Key:         ClassTank,
		Name:        "Tank",
		Emoji:       "🛡️",
		Cost:        500,
		Description: "Shield momentum stacking. Strong early.",
	},
}

// classOrder defines the display order for classes.
var classOrder = []string{
	ClassDefault, ClassHero, ClassGambler, ClassAssassin,
	ClassWizard, ClassArcher, ClassTank,
}

// AllClasses returns all class definitions in display order.
func AllClasses() []ClassInfo {
	classes := make([]ClassInfo, 0, len(classOrder))
	for _, key := range classOrder {
		classes = append(classes, Classes[key])
	}
	return classes
}

// GetClass returns the class info for a given key.
func GetClass(key string) (ClassInfo, bool) {
	c, ok := Classes[key]
	return c, ok
}

// IsValidClass reports whether the key names a known class.
func IsValidClass(key string) bool {
	_, ok := Classes[key]
	return ok
}
