package engine

import (
	"fmt"
	"math"
	"strings"

	"taskquest-server/internal/model"
)

// BreakdownPart is one labeled delta in an XP breakdown.
type BreakdownPart struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

// XPResult is the full outcome of composing class and skill bonuses over a
// base amount.
type XPResult struct {
	BaseXP     int64
	FinalXP    int64
	ClassBonus ClassBonus
	SkillBonus int64 // multiplier delta plus flat bonus
	CritBonus  int64
	Parts      []BreakdownPart
	Detail     string // display string, empty when nothing fired
	Patch      model.CounterPatch
}

// TotalBonus returns the combined delta over the base amount.
func (r *XPResult) TotalBonus() int64 {
	return r.ClassBonus.Amount + r.SkillBonus + r.CritBonus
}

// ComposeFinalXP runs the full bonus pipeline: class bonus, then the skill
// multiplier and flat bonus, then a crit roll. The returned patch is the
// class engine's, unchanged; skills never touch persistent state.
func (e *Engine) ComposeFinalXP(u *model.User, skills []model.SkillUnlock, baseXP int64) XPResult {
	classRes := e.ApplyClassBonus(u, baseXP)
	bonuses := AggregateSkillBonuses(skills)

	afterMult := int64(math.Floor(float64(classRes.FinalXP) * bonuses.XPMultiplier))
	finalXP := afterMult + bonuses.FlatXP
	skillBonus := (afterMult - classRes.FinalXP) + bonuses.FlatXP

	var critBonus int64
	if bonuses.CritChance > 0 && e.roll.Float64()*100 < bonuses.CritChance {
		critBonus = finalXP / 2
		finalXP += critBonus
	}

	res := XPResult{
		BaseXP:     baseXP,
		FinalXP:    finalXP,
		ClassBonus: classRes.Bonus,
		SkillBonus: skillBonus,
		CritBonus:  critBonus,
		Patch:      classRes.Patch,
	}

	res.Parts = append(res.Parts, BreakdownPart{Label: "base", Amount: baseXP})
	parts := []string{fmt.Sprintf("Base: %d", baseXP)}
	if classRes.Bonus.Amount != 0 {
		res.Parts = append(res.Parts, BreakdownPart{Label: "class", Amount: classRes.Bonus.Amount})
		parts = append(parts, classRes.Bonus.Detail)
	}
	if skillBonus > 0 {
		res.Parts = append(res.Parts, BreakdownPart{Label: "skill", Amount: skillBonus})
		parts = append(parts, fmt.Sprintf("📚 Skill +%d", skillBonus))
	}
	if critBonus > 0 {
		res.Parts = append(res.Parts, BreakdownPart{Label: "crit", Amount: critBonus})
		parts = append(parts, fmt.Sprintf("💥 Crit +%d", critBonus))
	}

	if classRes.Bonus.Amount != 0 || skillBonus > 0 || critBonus > 0 {
		res.Detail = strings.Join(parts, " | ")
	}

	return res
}
