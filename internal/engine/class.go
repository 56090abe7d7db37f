package engine

import (
	"fmt"

	"taskquest-server/internal/catalog"
	"taskquest-server/internal/model"
)

// Bonus kinds describing which class branch fired.
const (
	BonusDefault          = "DEFAULT"
	BonusHero             = "HERO"
	BonusGamblerWin       = "GAMBLER_WIN"
	BonusGamblerLoss      = "GAMBLER_LOSS"
	BonusAssassin         = "ASSASSIN"
	BonusAssassinBuilding = "ASSASSIN_BUILDING"
	BonusWizardBurst      = "WIZARD_BURST"
	BonusWizardCombo      = "WIZARD_COMBO"
	BonusWizardCharge     = "WIZARD_CHARGE"
	BonusArcherHit        = "ARCHER_HIT"
	BonusArcherMiss       = "ARCHER_MISS"
	BonusTank             = "TANK"
)

// ClassBonus describes the class contribution to one XP award.
type ClassBonus struct {
	Kind   string
	Detail string
	Amount int64 // signed; negative only for the gambler loss branch
}

// ClassResult is the outcome of applying a class bonus to a base amount.
// Patch holds the counter updates the caller must persist; the snapshot
// itself is untouched.
type ClassResult struct {
	FinalXP int64
	Bonus   ClassBonus
	Patch   model.CounterPatch
}

// assassin caps and thresholds
const (
	assassinStreakGate = 3
	assassinMaxStacks  = 10
)

// archer constants
const (
	archerMaxStreak     = 15
	archerBaseHit       = 80.0
	archerHitCap        = 97.0
	archerHeadshotCap   = 30.0
	archerPerfectChance = 0.05
)

// ApplyClassBonus computes the class-specific XP modifier for one action.
// finalXP >= 1 is guaranteed whenever baseXP >= 1; only the gambler branch
// can land below baseXP and it floors at 1.
func (e *Engine) ApplyClassBonus(u *model.User, baseXP int64) ClassResult {
	res := ClassResult{
		FinalXP: baseXP,
		Bonus:   ClassBonus{Kind: BonusDefault},
	}

	switch u.Class {
	case catalog.ClassHero:
		res.FinalXP = baseXP + 25
		res.Bonus = ClassBonus{Kind: BonusHero, Detail: "⚔️ Hero +25", Amount: 25}

	case catalog.ClassGambler:
		res = e.gamblerBonus(baseXP)

	case catalog.ClassAssassin:
		streak := u.AssassinStreak + 1
		res.Patch.AssassinStreak = intPtr(streak)
		if streak >= assassinStreakGate {
			stacks := u.AssassinStacks + 1
			if stacks > assassinMaxStacks {
				stacks = assassinMaxStacks
			}
			res.Patch.AssassinStacks = intPtr(stacks)
			bonus := baseXP * int64(5*stacks) / 100
			res.FinalXP = baseXP + bonus
			res.Bonus = ClassBonus{
				Kind:   BonusAssassin,
				Detail: fmt.Sprintf("🗡️ Stack %d +%d", stacks, bonus),
				Amount: bonus,
			}
		} else {
			res.Bonus = ClassBonus{
				Kind:   BonusAssassinBuilding,
				Detail: fmt.Sprintf("🗡️ Streak %d/%d", streak, assassinStreakGate),
			}
		}

	case catalog.ClassWizard:
		counter := u.WizardCounter + 1
		stored := counter
		if counter >= 5 {
			stored = 0
		}
		res.Patch.WizardCounter = intPtr(stored)
		wisdom := int64(u.Level) * 5
		// Burst takes priority over combo: the counter wraps to 0 at
		// exactly 5, so both branches can only collide on the 5th action.
		switch {
		case counter%5 == 0:
			res.FinalXP = baseXP + wisdom*2
			res.Bonus = ClassBonus{
				Kind:   BonusWizardBurst,
				Detail: fmt.Sprintf("🔮 BURST +%d", wisdom*2),
				Amount: wisdom * 2,
			}
		case counter%3 == 0:
			res.FinalXP = baseXP + wisdom
			res.Bonus = ClassBonus{
				Kind:   BonusWizardCombo,
				Detail: fmt.Sprintf("✨ Combo +%d", wisdom),
				Amount: wisdom,
			}
		default:
			res.Bonus = ClassBonus{
				Kind:   BonusWizardCharge,
				Detail: fmt.Sprintf("🔮 Charge %d/5", counter),
			}
		}

	case catalog.ClassArcher:
		res = e.archerBonus(u, baseXP)

	case catalog.ClassTank:
		maxStacks := 20 - u.Level
		if maxStacks < 3 {
			maxStacks = 3
		}
		stacks := u.TankStacks + 1
		if stacks > maxStacks {
			stacks = maxStacks
		}
		res.Patch.TankStacks = intPtr(stacks)
		percentBonus := baseXP * int64(stacks*4) / 100
		flatBonus := int64(stacks / 2)
		total := percentBonus + flatBonus
		res.FinalXP = baseXP + total
		res.Bonus = ClassBonus{
			Kind:   BonusTank,
			Detail: fmt.Sprintf("🛡️ Shield x%d +%d", stacks, total),
			Amount: total,
		}
	}

	return res
}

// gamblerBonus draws a bonus in [0, baseXP+100) and loses it with
// probability 0.20. A loss never takes the result below 1.
func (e *Engine) gamblerBonus(baseXP int64) ClassResult {
	span := baseXP + 100
	if span < 1 {
		span = 1
	}
	bonus := e.roll.Int63n(span)
	lose := e.roll.Float64() < 0.2

	if lose {
		lost := minInt64(bonus, baseXP-1)
		return ClassResult{
			FinalXP: maxInt64(1, baseXP-lost),
			Bonus: ClassBonus{
				Kind:   BonusGamblerLoss,
				Detail: fmt.Sprintf("🎲 Bad luck -%d", lost),
				Amount: -lost,
			},
		}
	}
	return ClassResult{
		FinalXP: baseXP + bonus,
		Bonus: ClassBonus{
			Kind:   BonusGamblerWin,
			Detail: fmt.Sprintf("🎲 Lucky +%d", bonus),
			Amount: bonus,
		},
	}
}

// archerBonus rolls a precision shot. The headshot check reuses the hit
// roll, so low rolls both hit and headshot; the perfect shot is an
// independent 5%.
func (e *Engine) archerBonus(u *model.User, baseXP int64) ClassResult {
	hitChance := archerBaseHit + float64(u.Level)*0.5
	if hitChance > archerHitCap {
		hitChance = archerHitCap
	}
	roll := e.roll.Float64() * 100

	var res ClassResult
	if roll < hitChance {
		streak := u.ArcherStreak + 1
		if streak > archerMaxStreak {
			streak = archerMaxStreak
		}
		res.Patch.ArcherStreak = intPtr(streak)

		streakBonus := baseXP*int64(streak*8)/100 + int64(3+streak)
		total := streakBonus
		detail := fmt.Sprintf("🎯 Hit x%d +%d", streak, streakBonus)

		headshotChance := hitChance * 0.2
		if headshotChance > archerHeadshotCap {
			headshotChance = archerHeadshotCap
		}
		if roll < headshotChance {
			critBonus := baseXP*2 + int64(streak*3)
			total += critBonus
			detail += fmt.Sprintf(" 💥+%d", critBonus)
		}

		if e.roll.Float64() < archerPerfectChance {
			perfectBonus := baseXP*4 + int64(streak*10)
			total += perfectBonus
			detail += fmt.Sprintf(" 🌟+%d", perfectBonus)
		}

		res.FinalXP = baseXP + total
		res.Bonus = ClassBonus{Kind: BonusArcherHit, Detail: detail, Amount: total}
		return res
	}

	streak := u.ArcherStreak - 2
	if streak < 0 {
		streak = 0
	}
	res.Patch.ArcherStreak = intPtr(streak)
	res.FinalXP = baseXP
	res.Bonus = ClassBonus{
		Kind:   BonusArcherMiss,
		Detail: fmt.Sprintf("💨 Miss! Streak: %d", streak),
	}
	return res
}
