package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"taskquest-server/internal/catalog"
	"taskquest-server/internal/model"
)

func TestComposeFinalXP_NoBonuses(t *testing.T) {
	e := New()
	u := newTestUser(catalog.ClassDefault)

	res := e.ComposeFinalXP(u, nil, 10)
	assert.Equal(t, int64(10), res.BaseXP)
	assert.Equal(t, int64(10), res.FinalXP)
	assert.Equal(t, int64(0), res.TotalBonus())
	assert.Empty(t, res.Detail)
	assert.Len(t, res.Parts, 1)
	assert.Equal(t, "base", res.Parts[0].Label)
}

func TestComposeFinalXP_MultiplierThenFlat(t *testing.T) {
	e := New()
	u := newTestUser(catalog.ClassDefault)
	skills := []model.SkillUnlock{
		{SkillID: catalog.SkillXPBoost, Level: 2},   // x1.10
		{SkillID: catalog.SkillHeroValor, Level: 1}, // +10 flat, after the multiplier
	}

	res := e.ComposeFinalXP(u, skills, 100)
	assert.Equal(t, int64(120), res.FinalXP)
	assert.Equal(t, int64(20), res.SkillBonus)
	assert.Equal(t, "Base: 100 | 📚 Skill +20", res.Detail)
}

func TestComposeFinalXP_MultiplierFloors(t *testing.T) {
	e := New()
	u := newTestUser(catalog.ClassDefault)
	skills := []model.SkillUnlock{
		{SkillID: catalog.SkillXPBoost, Level: 1}, // x1.05
	}

	// 10 * 1.05 = 10.5, floored
	res := e.ComposeFinalXP(u, skills, 10)
	assert.Equal(t, int64(10), res.FinalXP)
	assert.Equal(t, int64(0), res.SkillBonus)
}

func TestComposeFinalXP_ClassFeedsMultiplier(t *testing.T) {
	e := New()
	u := newTestUser(catalog.ClassHero)
	skills := []model.SkillUnlock{
		{SkillID: catalog.SkillXPBoost, Level: 2}, // x1.10
	}

	// (100 + 25) * 1.10 = 137.5, floored to 137
	res := e.ComposeFinalXP(u, skills, 100)
	assert.Equal(t, int64(137), res.FinalXP)
	assert.Equal(t, int64(25), res.ClassBonus.Amount)
	assert.Equal(t, int64(12), res.SkillBonus)
	assert.Equal(t, "Base: 100 | ⚔️ Hero +25 | 📚 Skill +12", res.Detail)
}

func TestComposeFinalXP_CritAddsHalf(t *testing.T) {
	// Roll 0.1 (10%) lands under the 30% crit chance
	e := NewWithRoller(&stubRoller{floats: []float64{0.1}})
	u := newTestUser(catalog.ClassDefault)
	skills := []model.SkillUnlock{
		{SkillID: catalog.SkillAssassinCrit, Level: 3},
	}

	res := e.ComposeFinalXP(u, skills, 100)
	assert.Equal(t, int64(50), res.CritBonus)
	assert.Equal(t, int64(150), res.FinalXP)
	assert.Equal(t, "Base: 100 | 💥 Crit +50", res.Detail)
}

func TestComposeFinalXP_CritMiss(t *testing.T) {
	e := NewWithRoller(&stubRoller{floats: []float64{0.9}})
	u := newTestUser(catalog.ClassDefault)
	skills := []model.SkillUnlock{
		{SkillID: catalog.SkillAssassinCrit, Level: 3},
	}

	res := e.ComposeFinalXP(u, skills, 100)
	assert.Equal(t, int64(0), res.CritBonus)
	assert.Equal(t, int64(100), res.FinalXP)
}

func TestComposeFinalXPPartsSumProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New()
		u := newTestUser(catalog.ClassHero) // deterministic class branch
		u.Level = rapid.IntRange(1, 50).Draw(t, "level")
		baseXP := rapid.Int64Range(1, 500).Draw(t, "baseXP")

		var skills []model.SkillUnlock
		if rapid.Bool().Draw(t, "withBoost") {
			skills = append(skills, model.SkillUnlock{
				SkillID: catalog.SkillXPBoost,
				Level:   rapid.IntRange(1, 5).Draw(t, "boostLevel"),
			})
		}
		if rapid.Bool().Draw(t, "withValor") {
			skills = append(skills, model.SkillUnlock{
				SkillID: catalog.SkillHeroValor,
				Level:   rapid.IntRange(1, 5).Draw(t, "valorLevel"),
			})
		}

		res := e.ComposeFinalXP(u, skills, baseXP)

		var sum int64
		for _, p := range res.Parts {
			sum += p.Amount
		}
		if sum != res.FinalXP {
			t.Fatalf("breakdown sums to %d, final is %d", sum, res.FinalXP)
		}
		if got := res.BaseXP + res.TotalBonus(); got != res.FinalXP {
			t.Fatalf("base plus bonuses is %d, final is %d", got, res.FinalXP)
		}
	})
}
