package catalog

// Achievement keys.
const (
	AchFirstList  = "FIRST_LIST"
	AchFiveLists  = "FIVE_LISTS"
	AchTenLists   = "TEN_LISTS"
	AchFirstItem  = "FIRST_ITEM"
	AchTenItems   = "TEN_ITEMS"
	AchFiftyItems = "FIFTY_ITEMS"
	AchHundItems  = "HUNDRED_ITEMS"
	AchFirstDone  = "FIRST_COMPLETE"
	AchTenDone    = "TEN_COMPLETE"
	AchFiftyDone  = "FIFTY_COMPLETE"
	AchHundDone   = "HUNDRED_COMPLETE"
	AchStreak3    = "STREAK_3"
	AchStreak7    = "STREAK_7"
	AchStreak14   = "STREAK_14"
	AchStreak30   = "STREAK_30"
	AchLevel5     = "LEVEL_5"
	AchLevel10    = "LEVEL_10"
	AchLevel25    = "LEVEL_25"
	AchLevel50    = "LEVEL_50"
	AchBuyClass   = "BUY_CLASS"
	AchAllClasses = "ALL_CLASSES"
	AchXP1000     = "XP_1000"
	AchXP5000     = "XP_5000"
	AchXP10000    = "XP_10000"
)

// Achievement describes one unlockable achievement.
type Achievement struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Category    string `json:"category"`
}

// Achievements lists every achievement in display order. The evaluator
// walks this slice, so newly qualifying keys come back in a stable order.
var Achievements = []Achievement{
	{Key: AchFirstList, Name: "Getting Started", Description: "Create your first list", Emoji: "📋", Category: "lists"},
	{Key: AchFiveLists, Name: "List Master", Description: "Create 5 lists", Emoji: "📚", Category: "lists"},
	{Key: AchTenLists, Name: "Organization Pro", Description: "Create 10 lists", Emoji: "🗂️", Category: "lists"},

	{Key: AchFirstItem, Name: "Task Beginner", Description: "Add your first item", Emoji: "✏️", Category: "productivity"},
	{Key: AchTenItems, Name: "Busy Bee", Description: "Add 10 items", Emoji: "🐝", Category: "productivity"},
	{Key: AchFiftyItems, Name: "Productivity Machine", Description: "Add 50 items", Emoji: "⚙️", Category: "productivity"},
	{Key: AchHundItems, Name: "Task Centurion", Description: "Add 100 items", Emoji: "💯", Category: "productivity"},

	{Key: AchFirstDone, Name: "First Victory", Description: "Complete your first item", Emoji: "✅", Category: "completion"},
	{Key: AchTenDone, Name: "Getting Things Done", Description: "Complete 10 items", Emoji: "📈", Category: "completion"},
	{Key: AchFiftyDone, Name: "Achievement Hunter", Description: "Complete 50 items", Emoji: "🎯", Category: "completion"},
	{Key: AchHundDone, Name: "Completion Master", Description: "Complete 100 items", Emoji: "🏅", Category: "completion"},

	{Key: AchStreak3, Name: "Consistent", Description: "3 day streak", Emoji: "🔥", Category: "streaks"},
	{Key: AchStreak7, Name: "Week Warrior", Description: "7 day streak", Emoji: "⚡", Category: "streaks"},
	{Key: AchStreak14, Name: "Fortnight Fighter", Description: "14 day streak", Emoji: "💪", Category: "streaks"},
	{Key: AchStreak30, Name: "Monthly Dedication", Description: "30 day streak", Emoji: "📅", Category: "streaks"},

	{Key: AchLevel5, Name: "Rising Star", Description: "Reach level 5", Emoji: "⭐", Category: "levels"},
	{Key: AchLevel10, Name: "Veteran", Description: "Reach level 10", Emoji: "🎖️", Category: "levels"},
	{Key: AchLevel25, Name: "Elite", Description: "Reach level 25", Emoji: "💎", Category: "levels"},
	{Key: AchLevel50, Name: "Legend", Description: "Reach level 50", Emoji: "👑", Category: "levels"},

	{Key: AchBuyClass, Name: "Class Act", Description: "Purchase your first class", Emoji: "🎭", Category: "classes"},
	{Key: AchAllClasses, Name: "Collector", Description: "Own all classes", Emoji: "🏆", Category: "classes"},

	{Key: AchXP1000, Name: "XP Hunter", Description: "Earn 1,000 total XP", Emoji: "💰", Category: "levels"},
	{Key: AchXP5000, Name: "XP Master", Description: "Earn 5,000 total XP", Emoji: "💵", Category: "levels"},
	{Key: AchXP10000, Name: "XP Legend", Description: "Earn 10,000 total XP", Emoji: "🤑", Category: "levels"},
}

// achievementIndex maps key to achievement for O(1) lookup.
var achievementIndex = buildAchievementIndex()

func buildAchievementIndex() map[string]Achievement {
	idx := make(map[string]Achievement, len(Achievements))
	for _, a := range Achievements {
		idx[a.Key] = a
	}
	return idx
}

// GetAchievement returns the achievement for a given key.
func GetAchievement(key string) (Achievement, bool) {
	a, ok := achievementIndex[key]
	return a, ok
}
