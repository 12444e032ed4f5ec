package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBank(t *testing.T) *QuestionBank {
	t.Helper()

	bank, err := ParseQuestionBank([]byte(`
- id: be-001
  category: Backend
  type: technical
  skill_tags: [Python, Kubernetes]
  prompt: "Question about Python on Kubernetes."
- id: be-002
  category: Backend
  type: technical
  skill_tags: [Python]
  prompt: "Question about Python."
- id: be-003
  category: Backend
  type: technical
  skill_tags: [Java]
  prompt: "Question about Java."
- id: be-004
  category: Backend
  type: behavioral
  skill_tags: []
  prompt: "Behavioral question."
- id: fe-001
  category: Frontend
  type: technical
  skill_tags: [Python]
  prompt: "Frontend question that mentions Python."
`))
	require.NoError(t, err)
	return bank
}

func TestQuestionBankRetrieve(t *testing.T) {
	bank := testBank(t)

	t.Run("ranks by matching tag count", func(t *testing.T) {
		entries, err := bank.Retrieve([]string{"Python", "Kubernetes"}, "Backend", 6)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "be-001", entries[0].ID)
		assert.Equal(t, "be-002", entries[1].ID)
	})

	t.Run("zero-match entries are excluded", func(t *testing.T) {
		entries, err := bank.Retrieve([]string{"Python"}, "Backend", 6)
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotEqual(t, "be-003", e.ID)
			assert.NotEqual(t, "be-004", e.ID)
		}
	})

	t.Run("category filter is absolute", func(t *testing.T) {
		entries, err := bank.Retrieve([]string{"Python"}, "Backend", 6)
		require.NoError(t, err)
		for _, e := range entries {
			assert.Equal(t, "Backend", e.Category)
		}
	})

	t.Run("tag matching is case-insensitive", func(t *testing.T) {
		entries, err := bank.Retrieve([]string{"python", "KUBERNETES"}, "backend", 6)
		require.NoError(t, err)
		require.NotEmpty(t, entries)
		assert.Equal(t, "be-001", entries[0].ID)
	})

	t.Run("cold start returns bank order", func(t *testing.T) {
		entries, err := bank.Retrieve(nil, "Backend", 6)
		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, "be-001", entries[0].ID)
		assert.Equal(t, "be-004", entries[3].ID)
	})

	t.Run("cold start respects limit", func(t *testing.T) {
		entries, err := bank.Retrieve(nil, "Backend", 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "be-001", entries[0].ID)
		assert.Equal(t, "be-002", entries[1].ID)
	})

	t.Run("equal rank keeps bank order", func(t *testing.T) {
		entries, err := bank.Retrieve([]string{"Python"}, "Backend", 6)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "be-001", entries[0].ID)
		assert.Equal(t, "be-002", entries[1].ID)
	})

	t.Run("unknown category returns ErrCategoryNotFound", func(t *testing.T) {
		_, err := bank.Retrieve([]string{"Python"}, "Quantum", 6)
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestParseQuestionBank(t *testing.T) {
	t.Run("empty bank is an error", func(t *testing.T) {
		_, err := ParseQuestionBank([]byte("[]"))
		assert.Error(t, err)
	})

	t.Run("entry without prompt is an error", func(t *testing.T) {
		_, err := ParseQuestionBank([]byte(`
- id: be-001
  category: Backend
  type: technical
`))
		assert.Error(t, err)
	})
}

func TestQuestionBankFindEntry(t *testing.T) {
	bank := testBank(t)

	entry, ok := bank.FindEntry("be-003")
	require.True(t, ok)
	assert.Equal(t, "Java", entry.SkillTags[0])

	_, ok = bank.FindEntry("missing")
	assert.False(t, ok)
}
