package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"taskquest-server/internal/catalog"
)

func TestApplyClassBonus_Default(t *testing.T) {
	e := New()
	u := newTestUser(catalog.ClassDefault)

	res := e.ApplyClassBonus(u, 10)
	assert.Equal(t, int64(10), res.FinalXP)
	assert.Equal(t, BonusDefault, res.Bonus.Kind)
	assert.True(t, res.Patch.IsEmpty())
}

func TestApplyClassBonus_Hero(t *testing.T) {
	e := New()
	u := newTestUser(catalog.ClassHero)

	res := e.ApplyClassBonus(u, 10)
	assert.Equal(t, int64(35), res.FinalXP)
	assert.Equal(t, BonusHero, res.Bonus.Kind)
	assert.Equal(t, "⚔️ Hero +25", res.Bonus.Detail)
	assert.Equal(t, int64(25), res.Bonus.Amount)
}

func TestApplyClassBonus_GamblerWin(t *testing.T) {
	e := NewWithRoller(&stubRoller{ints: []int64{40}, floats: []float64{0.9}})
	u := newTestUser(catalog.ClassGambler)

	res := e.ApplyClassBonus(u, 100)
	assert.Equal(t, int64(140), res.FinalXP)
	assert.Equal(t, BonusGamblerWin, res.Bonus.Kind)
	assert.Equal(t, "🎲 Lucky +40", res.Bonus.Detail)
}

func TestApplyClassBonus_GamblerLossFloorsAtOne(t *testing.T) {
	// Rolled loss of 150 on a base of 100 surrenders only 99
	e := NewWithRoller(&stubRoller{ints: []int64{150}, floats: []float64{0.1}})
	u := newTestUser(catalog.ClassGambler)

	res := e.ApplyClassBonus(u, 100)
	assert.Equal(t, int64(1), res.FinalXP)
	assert.Equal(t, BonusGamblerLoss, res.Bonus.Kind)
	assert.Equal(t, "🎲 Bad luck -99", res.Bonus.Detail)
	assert.Equal(t, int64(-99), res.Bonus.Amount)
}

func TestApplyClassBonus_AssassinBuilding(t *testing.T) {
	e := New()
	u := newTestUser(catalog.ClassAssassin)
	u.AssassinStreak = 1

	res := e.ApplyClassBonus(u, 100)
	assert.Equal(t, int64(100), res.FinalXP)
	assert.Equal(t, BonusAssassinBuilding, res.Bonus.Kind)
	assert.Equal(t, "🗡️ Streak 2/3", res.Bonus.Detail)
	require.NotNil(t, res.Patch.AssassinStreak)
	assert.Equal(t, 2, *res.Patch.AssassinStreak)
	assert.Nil(t, res.Patch.AssassinStacks)
}

func TestApplyClassBonus_AssassinStacks(t *testing.T) {
	e := New()
	u := newTestUser(catalog.ClassAssassin)
	u.AssassinStreak = 2 // third consecutive action crosses the gate

	res := e.ApplyClassBonus(u, 100)
	assert.Equal(t, int64(105), res.FinalXP) // 5% per stack
	assert.Equal(t, BonusAssassin, res.Bonus.Kind)
	require.NotNil(t, res.Patch.AssassinStacks)
	assert.Equal(t, 1, *res.Patch.AssassinStacks)
}

func TestApplyClassBonus_AssassinStacksCap(t *testing.T) {
	e := New()
	u := newTestUser(catalog.ClassAssassin)
	u.AssassinStreak = 50
	u.AssassinStacks = 10

	res := e.ApplyClassBonus(u, 100)
	assert.Equal(t, int64(150), res.FinalXP) // capped at 10 stacks = 50%
	require.NotNil(t, res.Patch.AssassinStacks)
	assert.Equal(t, 10, *res.Patch.AssassinStacks)
}

func TestApplyClassBonus_Wizard(t *testing.T) {
	tests := []struct {
		name       string
		counter    int
		wantKind   string
		wantXP     int64
		wantStored int
	}{
		{"first charge", 0, BonusWizardCharge, 100, 1},
		{"combo on third", 2, BonusWizardCombo, 150, 3},
		{"charge after combo", 3, BonusWizardCharge, 100, 4},
		{"burst on fifth wraps counter", 4, BonusWizardBurst, 200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			u := newTestUser(catalog.ClassWizard)
			u.Level = 10 // wisdom 50
			u.WizardCounter = tt.counter

			res := e.ApplyClassBonus(u, 100)
			assert.Equal(t, tt.wantKind, res.Bonus.Kind)
			assert.Equal(t, tt.wantXP, res.FinalXP)
			require.NotNil(t, res.Patch.WizardCounter)
			assert.Equal(t, tt.wantStored, *res.Patch.WizardCounter)
		})
	}
}

func TestApplyClassBonus_ArcherHit(t *testing.T) {
	// 50 < 82 hit chance at level 4; no headshot, no perfect
	e := NewWithRoller(&stubRoller{floats: []float64{0.5, 0.9}})
	u := newTestUser(catalog.ClassArcher)
	u.Level = 4

	res := e.ApplyClassBonus(u, 100)
	assert.Equal(t, int64(112), res.FinalXP) // 8% streak + (3+1) flat
	assert.Equal(t, BonusArcherHit, res.Bonus.Kind)
	require.NotNil(t, res.Patch.ArcherStreak)
	assert.Equal(t, 1, *res.Patch.ArcherStreak)
}

func TestApplyClassBonus_ArcherHeadshotAndPerfect(t *testing.T) {
	// Roll 10 is under the 16.4 headshot threshold; second roll lands the 5%
	e := NewWithRoller(&stubRoller{floats: []float64{0.10, 0.01}})
	u := newTestUser(catalog.ClassArcher)
	u.Level = 4

	res := e.ApplyClassBonus(u, 100)
	// streak 12 + headshot 203 + perfect 410
	assert.Equal(t, int64(725), res.FinalXP)
	assert.Contains(t, res.Bonus.Detail, "💥+203")
	assert.Contains(t, res.Bonus.Detail, "🌟+410")
}

func TestApplyClassBonus_ArcherMissDropsStreak(t *testing.T) {
	e := NewWithRoller(&stubRoller{floats: []float64{0.99}})
	u := newTestUser(catalog.ClassArcher)
	u.ArcherStreak = 5

	res := e.ApplyClassBonus(u, 100)
	assert.Equal(t, int64(100), res.FinalXP)
	assert.Equal(t, BonusArcherMiss, res.Bonus.Kind)
	require.NotNil(t, res.Patch.ArcherStreak)
	assert.Equal(t, 3, *res.Patch.ArcherStreak) // miss costs two

	// Streak never goes negative
	u.ArcherStreak = 1
	e = NewWithRoller(&stubRoller{floats: []float64{0.99}})
	res = e.ApplyClassBonus(u, 100)
	assert.Equal(t, 0, *res.Patch.ArcherStreak)
}

func TestApplyClassBonus_ArcherHitChanceCap(t *testing.T) {
	// At level 100 the raw chance is 130 but rolls above 97 still miss
	e := NewWithRoller(&stubRoller{floats: []float64{0.975}})
	u := newTestUser(catalog.ClassArcher)
	u.Level = 100

	res := e.ApplyClassBonus(u, 100)
	assert.Equal(t, BonusArcherMiss, res.Bonus.Kind)
}

func TestApplyClassBonus_Tank(t *testing.T) {
	e := New()
	u := newTestUser(catalog.ClassTank)

	res := e.ApplyClassBonus(u, 100)
	assert.Equal(t, int64(104), res.FinalXP) // 1 stack = 4%, no flat yet
	assert.Equal(t, BonusTank, res.Bonus.Kind)
	require.NotNil(t, res.Patch.TankStacks)
	assert.Equal(t, 1, *res.Patch.TankStacks)
}

func TestApplyClassBonus_TankStackCapShrinksWithLevel(t *testing.T) {
	e := New()
	u := newTestUser(catalog.ClassTank)
	u.Level = 18 // cap would be 2, floored to 3
	u.TankStacks = 9

	res := e.ApplyClassBonus(u, 100)
	require.NotNil(t, res.Patch.TankStacks)
	assert.Equal(t, 3, *res.Patch.TankStacks)
	assert.Equal(t, int64(113), res.FinalXP) // 12% + floor(3/2)
}

func TestClassBonusNeverBelowOneProperty(t *testing.T) {
	classes := []string{
		catalog.ClassDefault, catalog.ClassHero, catalog.ClassGambler,
		catalog.ClassAssassin, catalog.ClassWizard, catalog.ClassArcher,
		catalog.ClassTank,
	}

	rapid.Check(t, func(t *rapid.T) {
		e := New()
		u := newTestUser(rapid.SampledFrom(classes).Draw(t, "class"))
		u.Level = rapid.IntRange(1, 100).Draw(t, "level")
		u.AssassinStreak = rapid.IntRange(0, 20).Draw(t, "assassinStreak")
		u.AssassinStacks = rapid.IntRange(0, 10).Draw(t, "assassinStacks")
		u.WizardCounter = rapid.IntRange(0, 4).Draw(t, "wizardCounter")
		u.ArcherStreak = rapid.IntRange(0, 15).Draw(t, "archerStreak")
		u.TankStacks = rapid.IntRange(0, 17).Draw(t, "tankStacks")
		baseXP := rapid.Int64Range(1, 1000).Draw(t, "baseXP")

		res := e.ApplyClassBonus(u, baseXP)
		if res.FinalXP < 1 {
			t.Fatalf("class %s turned base %d into %d", u.Class, baseXP, res.FinalXP)
		}
	})
}

func TestAssassinStreakMonotoneProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New()
		u := newTestUser(catalog.ClassAssassin)
		u.AssassinStreak = rapid.IntRange(0, 30).Draw(t, "streak")
		u.AssassinStacks = rapid.IntRange(0, 10).Draw(t, "stacks")

		res := e.ApplyClassBonus(u, 100)
		if res.Patch.AssassinStreak == nil {
			t.Fatal("assassin evaluation must always bump the streak")
		}
		if got := *res.Patch.AssassinStreak; got != u.AssassinStreak+1 {
			t.Fatalf("streak %d advanced to %d", u.AssassinStreak, got)
		}
		if res.Patch.AssassinStacks != nil && *res.Patch.AssassinStacks > 10 {
			t.Fatalf("stacks exceeded cap: %d", *res.Patch.AssassinStacks)
		}
	})
}

func TestTankStacksNeverExceedCapProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New()
		u := newTestUser(catalog.ClassTank)
		u.Level = rapid.IntRange(1, 100).Draw(t, "level")
		u.TankStacks = rapid.IntRange(0, 40).Draw(t, "stacks")

		res := e.ApplyClassBonus(u, 100)
		maxStacks := 20 - u.Level
		if maxStacks < 3 {
			maxStacks = 3
		}
		if res.Patch.TankStacks == nil {
			t.Fatal("tank evaluation must patch the stack counter")
		}
		if got := *res.Patch.TankStacks; got > maxStacks {
			t.Fatalf("level %d allows %d stacks, got %d", u.Level, maxStacks, got)
		}
	})
}

func TestWizardCounterCyclesProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New()
		u := newTestUser(catalog.ClassWizard)
		u.Level = rapid.IntRange(1, 50).Draw(t, "level")
		u.WizardCounter = rapid.IntRange(0, 4).Draw(t, "counter")

		res := e.ApplyClassBonus(u, 100)
		if res.Patch.WizardCounter == nil {
			t.Fatal("wizard evaluation must patch the counter")
		}
		stored := *res.Patch.WizardCounter
		if stored < 0 || stored > 4 {
			t.Fatalf("counter left the [0,4] cycle: %d", stored)
		}
		if u.WizardCounter == 4 {
			if stored != 0 {
				t.Fatalf("fifth action must wrap, stored %d", stored)
			}
			if res.Bonus.Kind != BonusWizardBurst {
				t.Fatalf("fifth action fired %s", res.Bonus.Kind)
			}
		}
	})
}

func ExampleEngine_ApplyClassBonus() {
	e := New()
	u := newTestUser(catalog.ClassHero)
	res := e.ApplyClassBonus(u, 10)
	fmt.Println(res.FinalXP, res.Bonus.Detail)
	// Output: 35 ⚔️ Hero +25
}
