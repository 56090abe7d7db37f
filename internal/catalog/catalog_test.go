package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievementsCatalog(t *testing.T) {
	assert.Len(t, Achievements, 24)

	seen := make(map[string]bool)
	for _, a := range Achievements {
		assert.NotEmpty(t, a.Key)
		assert.NotEmpty(t, a.Name)
		assert.False(t, seen[a.Key], "duplicate achievement key %s", a.Key)
		seen[a.Key] = true
	}

	a, ok := GetAchievement(AchFirstList)
	require.True(t, ok)
	assert.Equal(t, AchFirstList, a.Key)

	_, ok = GetAchievement("NOPE")
	assert.False(t, ok)
}

func TestClassesCatalog(t *testing.T) {
	all := AllClasses()
	assert.Len(t, all, 7)
	assert.Equal(t, ClassDefault, all[0].Key) // display order starts at DEFAULT

	for key, info := range Classes {
		assert.Equal(t, key, info.Key)
		if key == ClassDefault {
			assert.Zero(t, info.Cost)
			continue
		}
		assert.Positive(t, info.Cost, "class %s must cost something", key)
	}

	assert.True(t, IsValidClass(ClassWizard))
	assert.False(t, IsValidClass("PALADIN"))
}

func TestSkillTreesCatalog(t *testing.T) {
	assert.Len(t, SkillTrees, 7)

	ids := make(map[string]bool)
	for _, tree := range SkillTrees {
		require.True(t, IsValidClass(tree.ClassKey), "tree %s has no class", tree.Name)
		treeIDs := make(map[string]bool)
		for _, s := range tree.Skills {
			assert.False(t, ids[s.ID], "duplicate skill id %s", s.ID)
			ids[s.ID] = true
			treeIDs[s.ID] = true
			assert.Positive(t, s.Cost)
			assert.GreaterOrEqual(t, s.MaxLevel, 1)
		}
		// prerequisites never cross trees
		for _, s := range tree.Skills {
			if s.Requires != "" {
				assert.True(t, treeIDs[s.Requires],
					"skill %s requires %s from another tree", s.ID, s.Requires)
			}
		}
	}
}

func TestSkillLookup(t *testing.T) {
	s, ok := GetSkill(SkillWizardCombo)
	require.True(t, ok)
	assert.Equal(t, "Spell Combo", s.Name)

	class, ok := SkillClass(SkillWizardCombo)
	require.True(t, ok)
	assert.Equal(t, ClassWizard, class)

	class, ok = SkillClass(SkillXPBoost)
	require.True(t, ok)
	assert.Equal(t, ClassDefault, class)

	_, ok = GetSkill("unknown")
	assert.False(t, ok)
}
