package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"taskquest-server/internal/catalog"
	"taskquest-server/internal/model"
)

func TestAggregateSkillBonuses_Neutral(t *testing.T) {
	bonuses := AggregateSkillBonuses(nil)
	assert.Equal(t, 1.0, bonuses.XPMultiplier)
	assert.Equal(t, int64(0), bonuses.FlatXP)
	assert.Equal(t, int64(0), bonuses.DailyBonus)
	assert.Equal(t, 0.0, bonuses.CritChance)
	assert.False(t, bonuses.StreakProtect)
}

func TestAggregateSkillBonuses_Stacking(t *testing.T) {
	skills := []model.SkillUnlock{
		{SkillID: catalog.SkillXPBoost, Level: 3},
		{SkillID: catalog.SkillHeroInspire, Level: 2},
		{SkillID: catalog.SkillHeroLegend, Level: 1},
		{SkillID: catalog.SkillHeroValor, Level: 2},
		{SkillID: catalog.SkillTankFortify, Level: 1},
		{SkillID: catalog.SkillDailyBoost, Level: 2},
		{SkillID: catalog.SkillAssassinCrit, Level: 3},
		{SkillID: catalog.SkillGamblerLucky, Level: 2},
		{SkillID: catalog.SkillStreakShield, Level: 1},
	}

	bonuses := AggregateSkillBonuses(skills)
	assert.InDelta(t, 1.0+0.15+0.16+0.25, bonuses.XPMultiplier, 1e-9)
	assert.Equal(t, int64(25), bonuses.FlatXP) // valor 20 + fortify 5
	assert.Equal(t, int64(20), bonuses.DailyBonus)
	assert.InDelta(t, 30.0, bonuses.CritChance, 1e-9)
	assert.InDelta(t, 10.0, bonuses.LuckBonus, 1e-9)
	assert.True(t, bonuses.StreakProtect)
}

func TestAggregateSkillBonuses_UnknownSkillsIgnored(t *testing.T) {
	skills := []model.SkillUnlock{
		{SkillID: "no_such_skill", Level: 9},
		{SkillID: catalog.SkillHeroValor, Level: 1},
	}

	bonuses := AggregateSkillBonuses(skills)
	assert.Equal(t, int64(10), bonuses.FlatXP)
	assert.Equal(t, 1.0, bonuses.XPMultiplier)
}

func TestAggregateSkillBonusesOrderIndependentProperty(t *testing.T) {
	ids := []string{
		catalog.SkillXPBoost, catalog.SkillDailyBoost, catalog.SkillStreakShield,
		catalog.SkillHeroValor, catalog.SkillHeroInspire, catalog.SkillHeroLegend,
		catalog.SkillGamblerLucky, catalog.SkillAssassinCrit, catalog.SkillArcherAim,
		catalog.SkillTankFortify, catalog.SkillWizardStudy,
	}

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, len(ids)).Draw(t, "n")
		skills := make([]model.SkillUnlock, 0, n)
		for i := 0; i < n; i++ {
			skills = append(skills, model.SkillUnlock{
				SkillID: ids[i],
				Level:   rapid.IntRange(1, 5).Draw(t, "level"),
			})
		}

		forward := AggregateSkillBonuses(skills)

		reversed := make([]model.SkillUnlock, len(skills))
		for i, s := range skills {
			reversed[len(skills)-1-i] = s
		}
		backward := AggregateSkillBonuses(reversed)

		if forward != backward {
			t.Fatalf("aggregation depends on order: %+v vs %+v", forward, backward)
		}
	})
}
