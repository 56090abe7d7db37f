package engine

import (
	"taskquest-server/internal/catalog"
	"taskquest-server/internal/model"
)

// SkillBonuses is the aggregate effect of a player's unlocked skills.
// Zero value plus XPMultiplier=1.0 is the neutral element.
type SkillBonuses struct {
	XPMultiplier  float64
	FlatXP        int64
	DailyBonus    int64
	CritChance    float64 // percent, 0-100
	LuckBonus     float64 // percent, 0-100
	StreakProtect bool
}

// NeutralSkillBonuses returns the identity bonuses applied when a player
// has no skills.
func NeutralSkillBonuses() SkillBonuses {
	return SkillBonuses{XPMultiplier: 1.0}
}

// AggregateSkillBonuses folds a player's unlocked skills into a single
// bonus set. The result is independent of slice ordering and unknown skill
// ids are ignored.
func AggregateSkillBonuses(skills []model.SkillUnlock) SkillBonuses {
	bonuses := NeutralSkillBonuses()
	if len(skills) == 0 {
		return bonuses
	}

	for _, s := range skills {
		lvl := s.Level
		switch s.SkillID {
		case catalog.SkillXPBoost:
			bonuses.XPMultiplier += float64(lvl) * 0.05
		case catalog.SkillDailyBoost:
			bonuses.DailyBonus += int64(lvl) * 10
		case catalog.SkillStreakShield:
			bonuses.StreakProtect = true
		case catalog.SkillHeroValor:
			bonuses.FlatXP += int64(lvl) * 10
		case catalog.SkillHeroInspire:
			bonuses.XPMultiplier += float64(lvl) * 0.08
		case catalog.SkillHeroLegend:
			bonuses.XPMultiplier += 0.25
		case catalog.SkillGamblerLucky:
			bonuses.LuckBonus += float64(lvl) * 5
		case catalog.SkillAssassinCrit:
			bonuses.CritChance += float64(lvl) * 10
		case catalog.SkillArcherAim:
			bonuses.XPMultiplier += float64(lvl) * 0.03
		case catalog.SkillTankFortify:
			bonuses.FlatXP += int64(lvl) * 5
		case catalog.SkillWizardStudy:
			bonuses.FlatXP += int64(lvl) * 3
		}
	}

	return bonuses
}
