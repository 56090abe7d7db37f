package catalog

// Skill ids. Each belongs to one class tree; DEFAULT tree skills are
// available to every player.
const (
	SkillXPBoost      = "default_xp_boost"
	SkillDailyBoost   = "default_daily_boost"
	SkillStreakShield = "default_streak_shield"

	SkillHeroValor   = "hero_valor"
	SkillHeroInspire = "hero_inspire"
	SkillHeroChamp   = "hero_champion"
	SkillHeroLegend  = "hero_legend"

	SkillGamblerLucky   = "gambler_lucky"
	SkillGamblerDouble  = "gambler_double"
	SkillGamblerSafety  = "gambler_safety"
	SkillGamblerJackpot = "gambler_jackpot"

	SkillAssassinSwift   = "assassin_swift"
	SkillAssassinCrit    = "assassin_critical"
	SkillAssassinShadow  = "assassin_shadow"
	SkillAssassinExecute = "assassin_execute"

	SkillWizardStudy   = "wizard_study"
	SkillWizardCombo   = "wizard_combo"
	SkillWizardFocus   = "wizard_focus"
	SkillWizardMastery = "wizard_mastery"

	SkillArcherAim       = "archer_aim"
	SkillArcherMultishot = "archer_multishot"
	SkillArcherPiercing  = "archer_piercing"
	SkillArcherSniper    = "archer_sniper"

	SkillTankFortify     = "tank_fortify"
	SkillTankAbsorb      = "tank_absorb"
	SkillTankRevenge     = "tank_revenge"
	SkillTankUnstoppable = "tank_unstoppable"
)

// SkillInfo holds the configuration for a purchasable skill.
type SkillInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
	MaxLevel    int    `json:"max_level"`
	Requires    string `json:"requires,omitempty"` // empty when the skill has no prerequisite
}

// SkillTree groups the skills of one class.
type SkillTree struct {
	ClassKey    string      `json:"class"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Skills      []SkillInfo `json:"skills"`
}

// SkillTrees contains all seven trees in display order.
var SkillTrees = []SkillTree{
	{
		ClassKey:    ClassDefault,
		Name:        "Default",
		Description: "Basic skills available to all classes",
		Skills: []SkillInfo{
			{ID: SkillXPBoost, Name: "Quick Learner", Emoji: "📚", Description: "+5% XP from all sources", Cost: 50, MaxLevel: 3},
			{ID: SkillDailyBoost, Name: "Early Bird", Emoji: "🌅", Description: "+10 bonus daily XP", Cost: 75, MaxLevel: 2, Requires: SkillXPBoost},
			{ID: SkillStreakShield, Name: "Streak Shield", Emoji: "🛡️", Description: "Protect streak on miss", Cost: 100, MaxLevel: 1, Requires: SkillDailyBoost},
		},
	},
	{
		ClassKey:    ClassHero,
		Name:        "Hero",
		Description: "Reliable XP gains, inspiring others",
		Skills: []SkillInfo{
			{ID: SkillHeroValor, Name: "Valor", Emoji: "⚔️", Description: "+10 flat XP per action", Cost: 100, MaxLevel: 3},
			{ID: SkillHeroInspire, Name: "Inspire", Emoji: "✨", Description: "Bonus XP when helping others", Cost: 150, MaxLevel: 2, Requires: SkillHeroValor},
			{ID: SkillHeroChamp, Name: "Champion", Emoji: "👑", Description: "Double XP on level milestones", Cost: 200, MaxLevel: 1, Requires: SkillHeroInspire},
			{ID: SkillHeroLegend, Name: "Legendary", Emoji: "🏆", Description: "Permanent XP multiplier", Cost: 300, MaxLevel: 1, Requires: SkillHeroChamp},
		},
	},
	{
		ClassKey:    ClassGambler,
		Name:        "Gambler",
		Description: "High risk, high reward playstyle",
		Skills: []SkillInfo{
			{ID: SkillGamblerLucky, Name: "Lucky Streak", Emoji: "🍀", Description: "Better RNG outcomes", Cost: 80, MaxLevel: 3},
			{ID: SkillGamblerDouble, Name: "Double Down", Emoji: "🎰", Description: "Chance for double rewards", Cost: 120, MaxLevel: 2, Requires: SkillGamblerLucky},
			{ID: SkillGamblerSafety, Name: "Safety Net", Emoji: "🪢", Description: "Reduce maximum losses", Cost: 150, MaxLevel: 2, Requires: SkillGamblerDouble},
			{ID: SkillGamblerJackpot, Name: "Jackpot", Emoji: "💎", Description: "Rare massive payouts", Cost: 250, MaxLevel: 1, Requires: SkillGamblerSafety},
		},
	},
	{
		ClassKey:    ClassAssassin,
		Name:        "Assassin",
		Description: "Streak-based damage dealer",
		Skills: []SkillInfo{
			{ID: SkillAssassinSwift, Name: "Swift Strike", Emoji: "💨", Description: "Faster streak building", Cost: 90, MaxLevel: 3},
			{ID: SkillAssassinCrit, Name: "Critical Hit", Emoji: "🎯", Description: "Crit chance on tasks", Cost: 130, MaxLevel: 2, Requires: SkillAssassinSwift},
			{ID: SkillAssassinShadow, Name: "Shadow Step", Emoji: "🌑", Description: "Preserve streak on fail", Cost: 180, MaxLevel: 1, Requires: SkillAssassinCrit},
			{ID: SkillAssassinExecute, Name: "Execute", Emoji: "☠️", Description: "Massive bonus at max streak", Cost: 280, MaxLevel: 1, Requires: SkillAssassinShadow},
		},
	},
	{
		ClassKey:    ClassWizard,
		Name:        "Wizard",
		Description: "Spell combos and wisdom scaling",
		Skills: []SkillInfo{
			{ID: SkillWizardStudy, Name: "Arcane Study", Emoji: "📖", Description: "XP scales with level", Cost: 100, MaxLevel: 3},
			{ID: SkillWizardCombo, Name: "Spell Combo", Emoji: "🔥", Description: "Chaining bonus XP", Cost: 150, MaxLevel: 2, Requires: SkillWizardStudy},
			{ID: SkillWizardFocus, Name: "Focus", Emoji: "🧘", Description: "Bonus XP for consecutive tasks", Cost: 200, MaxLevel: 2, Requires: SkillWizardCombo},
			{ID: SkillWizardMastery, Name: "Arcane Mastery", Emoji: "🌟", Description: "Ultimate wisdom power", Cost: 350, MaxLevel: 1, Requires: SkillWizardFocus},
		},
	},
	{
		ClassKey:    ClassArcher,
		Name:        "Archer",
		Description: "Precision and critical strikes",
		Skills: []SkillInfo{
			{ID: SkillArcherAim, Name: "Steady Aim", Emoji: "🎯", Description: "Increased base accuracy", Cost: 85, MaxLevel: 3},
			{ID: SkillArcherMultishot, Name: "Multishot", Emoji: "🏹", Description: "Multiple task completion bonus", Cost: 140, MaxLevel: 2, Requires: SkillArcherAim},
			{ID: SkillArcherPiercing, Name: "Piercing Shot", Emoji: "💫", Description: "Ignore XP penalties", Cost: 190, MaxLevel: 1, Requires: SkillArcherMultishot},
			{ID: SkillArcherSniper, Name: "Sniper", Emoji: "🦅", Description: "Guaranteed crits on priority tasks", Cost: 300, MaxLevel: 1, Requires: SkillArcherPiercing},
		},
	},
	{
		ClassKey:    ClassTank,
		Name:        "Tank",
		Description: "Slow but unstoppable momentum",
		Skills: []SkillInfo{
			{ID: SkillTankFortify, Name: "Fortify", Emoji: "🧱", Description: "Build defensive stacks", Cost: 95, MaxLevel: 3},
			{ID: SkillTankAbsorb, Name: "Absorb", Emoji: "💪", Description: "Convert damage to XP", Cost: 145, MaxLevel: 2, Requires: SkillTankFortify},
			{ID: SkillTankRevenge, Name: "Revenge", Emoji: "⚡", Description: "Bonus XP after losses", Cost: 200, MaxLevel: 2, Requires: SkillTankAbsorb},
			{ID: SkillTankUnstoppable, Name: "Unstoppable", Emoji: "🚀", Description: "Cannot lose streak", Cost: 320, MaxLevel: 1, Requires: SkillTankRevenge},
		},
	},
}

// skillIndex maps skill id to its info and owning class for O(1) lookup.
var skillIndex = buildSkillIndex()

type skillEntry struct {
	info     SkillInfo
	classKey string
}

func buildSkillIndex() map[string]skillEntry {
	idx := make(map[string]skillEntry)
	for _, tree := range SkillTrees {
		for _, s := range tree.Skills {
			idx[s.ID] = skillEntry{info: s, classKey: tree.ClassKey}
		}
	}
	return idx
}

// GetSkill returns the skill info for a given id.
func GetSkill(id string) (SkillInfo, bool) {
	e, ok := skillIndex[id]
	return e.info, ok
}

// SkillClass returns the class key owning the given skill id.
func SkillClass(id string) (string, bool) {
	e, ok := skillIndex[id]
	return e.classKey, ok
}
