package engine

import (
	"taskquest-server/internal/catalog"
	"taskquest-server/internal/model"
)

// EvaluateAchievements returns the achievements the user newly qualifies
// for, in catalog order. Keys already in unlocked are never re-emitted, so
// the evaluation is idempotent: re-running with the result merged in
// returns nothing.
func EvaluateAchievements(u *model.User, unlocked map[string]struct{}) []catalog.Achievement {
	var newly []catalog.Achievement
	for _, a := range catalog.Achievements {
		if _, done := unlocked[a.Key]; done {
			continue
		}
		if qualifies(u, a.Key) {
			newly = append(newly, a)
		}
	}
	return newly
}

// qualifies checks one achievement threshold against the snapshot.
func qualifies(u *model.User, key string) bool {
	switch key {
	case catalog.AchFirstList:
		return u.ListsCreated >= 1
	case catalog.AchFiveLists:
		return u.ListsCreated >= 5
	case catalog.AchTenLists:
		return u.ListsCreated >= 10

	case catalog.AchFirstItem:
		return u.ItemsAdded >= 1
	case catalog.AchTenItems:
		return u.ItemsAdded >= 10
	case catalog.AchFiftyItems:
		return u.ItemsAdded >= 50
	case catalog.AchHundItems:
		return u.ItemsAdded >= 100

	case catalog.AchFirstDone:
		return u.ItemsCompleted >= 1
	case catalog.AchTenDone:
		return u.ItemsCompleted >= 10
	case catalog.AchFiftyDone:
		return u.ItemsCompleted >= 50
	case catalog.AchHundDone:
		return u.ItemsCompleted >= 100

	case catalog.AchStreak3:
		return u.StreakCount >= 3
	case catalog.AchStreak7:
		return u.StreakCount >= 7
	case catalog.AchStreak14:
		return u.StreakCount >= 14
	case catalog.AchStreak30:
		return u.StreakCount >= 30

	case catalog.AchLevel5:
		return u.Level >= 5
	case catalog.AchLevel10:
		return u.Level >= 10
	case catalog.AchLevel25:
		return u.Level >= 25
	case catalog.AchLevel50:
		return u.Level >= 50

	case catalog.AchBuyClass:
		return u.OwnsHero || u.OwnsGambler || u.OwnsAssassin ||
			u.OwnsWizard || u.OwnsArcher || u.OwnsTank
	case catalog.AchAllClasses:
		return u.OwnsHero && u.OwnsGambler && u.OwnsAssassin &&
			u.OwnsWizard && u.OwnsArcher && u.OwnsTank

	case catalog.AchXP1000:
		return u.XP >= 1000
	case catalog.AchXP5000:
		return u.XP >= 5000
	case catalog.AchXP10000:
		return u.XP >= 10000
	}
	return false
}
