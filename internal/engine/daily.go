package engine

import (
	"time"

	"taskquest-server/internal/model"
)

// DailyRules parameterizes the daily reward state machine.
type DailyRules struct {
	BaseXP       int64
	Cooldown     time.Duration // claim rejected within this window
	StreakWindow time.Duration // streak survives gaps up to this window
	StreakStep   int64         // bonus XP per prior streak day
	StreakCap    int64         // maximum streak bonus
}

// DefaultDailyRules mirrors the production values: 24h cooldown, 48h
// streak window, 100 base XP, +5/day capped at +50.
func DefaultDailyRules() DailyRules {
	return DailyRules{
		BaseXP:       100,
		Cooldown:     24 * time.Hour,
		StreakWindow: 48 * time.Hour,
		StreakStep:   5,
		StreakCap:    50,
	}
}

// DailyOutcome is the result of evaluating a daily claim.
// When Claimed is false the claim was rejected on cooldown and nothing else
// is populated besides Remaining and Streak.
type DailyOutcome struct {
	Claimed   bool
	Remaining time.Duration
	Streak    int
	Broken    bool

	BaseXP      int64
	ClassBonus  int64 // composer delta over base; includes skill multiplier effects
	StreakBonus int64
	SkillDaily  int64 // flat daily bonus, outside the multiplier pipeline
	TotalXP     int64
	Detail      string
	Patch       model.CounterPatch
}

// EvaluateDaily runs the daily reward state machine against a snapshot.
// Pure: the caller persists TotalXP, the new streak, the claim time, and
// the counter patch.
//
// Streak rules: first claim starts at 1; a claim within the streak window
// extends it; beyond the window it resets to 1, flagged broken only when a
// real streak (>1) was lost.
func (e *Engine) EvaluateDaily(u *model.User, skills []model.SkillUnlock, now time.Time, rules DailyRules) DailyOutcome {
	if u.LastDailyClaim != nil {
		since := now.Sub(*u.LastDailyClaim)
		if since < rules.Cooldown {
			return DailyOutcome{
				Remaining: rules.Cooldown - since,
				Streak:    u.StreakCount,
			}
		}
	}

	newStreak := 1
	broken := false
	if u.LastDailyClaim != nil {
		if now.Sub(*u.LastDailyClaim) <= rules.StreakWindow {
			newStreak = u.StreakCount + 1
		} else {
			broken = u.StreakCount > 1
		}
	}

	streakBonus := minInt64(int64(newStreak-1)*rules.StreakStep, rules.StreakCap)

	out := DailyOutcome{
		Claimed:     true,
		Streak:      newStreak,
		Broken:      broken,
		BaseXP:      rules.BaseXP,
		StreakBonus: streakBonus,
	}

	if u.Gamification {
		composed := e.ComposeFinalXP(u, skills, rules.BaseXP)
		out.ClassBonus = composed.FinalXP - rules.BaseXP
		out.Detail = composed.Detail
		out.Patch = composed.Patch
	}

	// The flat daily skill bonus is added after the pipeline, never
	// multiplied.
	out.SkillDaily = AggregateSkillBonuses(skills).DailyBonus
	out.TotalXP = rules.BaseXP + out.ClassBonus + streakBonus + out.SkillDaily

	return out
}
