// Package metrics exposes Prometheus counters for the progression engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// XPGranted tracks total XP credited by source.
var XPGranted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "taskquest",
	Subsystem: "progression",
	Name:      "xp_granted_total",
	Help:      "Total XP credited to players by source.",
}, []string{"source"})

// ActivitiesRecorded tracks recorded activities by kind.
var ActivitiesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "taskquest",
	Subsystem: "progression",
	Name:      "activities_total",
	Help:      "Total productivity activities recorded by kind.",
}, []string{"kind"})

// GamesSettled tracks game settlements by game type and final state.
var GamesSettled = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "taskquest",
	Subsystem: "games",
	Name:      "settled_total",
	Help:      "Total game sessions settled by game type and result.",
}, []string{"game_type", "result"})

// DailyClaims tracks daily reward claims by outcome.
var DailyClaims = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "taskquest",
	Subsystem: "daily",
	Name:      "claims_total",
	Help:      "Total daily reward claim attempts by outcome (claimed, on_cooldown).",
}, []string{"outcome"})

// AchievementsUnlocked tracks achievement unlocks.
var AchievementsUnlocked = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "taskquest",
	Subsystem: "progression",
	Name:      "achievements_unlocked_total",
	Help:      "Total achievements unlocked across all players.",
})

// ClassPurchases tracks class purchases by class.
var ClassPurchases = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "taskquest",
	Subsystem: "shop",
	Name:      "class_purchases_total",
	Help:      "Total class purchases by class.",
}, []string{"class"})

// SkillUnlocks tracks skill unlocks and upgrades by skill id.
var SkillUnlocks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "taskquest",
	Subsystem: "shop",
	Name:      "skill_unlocks_total",
	Help:      "Total skill unlocks and upgrades by skill.",
}, []string{"skill"})
