package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTaxonomy(t *testing.T) *SkillTaxonomy {
	t.Helper()

	taxonomy, err := ParseSkillTaxonomy([]byte(`
Backend:
  - Python
  - Kubernetes
  - Go
  - C++
Frontend:
  - React
  - TypeScript
`))
	require.NoError(t, err)
	return taxonomy
}

func TestRedactPII(t *testing.T) {
	t.Run("redacts email addresses", func(t *testing.T) {
		out := RedactPII("Contact: jane.doe+work@example.co.uk for details")
		assert.NotContains(t, out, "jane.doe")
		assert.Contains(t, out, "[REDACTED_EMAIL]")
	})

	t.Run("redacts phone numbers", func(t *testing.T) {
		for _, phone := range []string{
			"(555) 867-5309",
			"555-867-5309",
			"555.867.5309",
			"+1 555 867 5309",
		} {
			out := RedactPII("Phone: " + phone)
			assert.Contains(t, out, "[REDACTED_PHONE]", "input: %s", phone)
		}
	})

	t.Run("leaves other text untouched", func(t *testing.T) {
		text := "Senior engineer with Python and Kubernetes experience."
		assert.Equal(t, text, RedactPII(text))
	})
}

func TestResumeStructurerStructure(t *testing.T) {
	taxonomy := testTaxonomy(t)

	t.Run("empty input yields empty profile", func(t *testing.T) {
		structurer := NewResumeStructurerService(taxonomy, nil, 1)
		profile, err := structurer.Structure(context.Background(), "   \n\n  ", "Backend")
		require.NoError(t, err)
		assert.Empty(t, profile.RedactedText)
		assert.Empty(t, profile.Skills)
	})

	t.Run("matches only category-scoped skills", func(t *testing.T) {
		structurer := NewResumeStructurerService(taxonomy, nil, 1)
		profile, err := structurer.Structure(context.Background(),
			"Built Python services on Kubernetes, with some React on the side.", "Backend")
		require.NoError(t, err)
		assert.Equal(t, []string{"Kubernetes", "Python"}, profile.Skills)
	})

	t.Run("redacts before matching", func(t *testing.T) {
		structurer := NewResumeStructurerService(taxonomy, nil, 1)
		profile, err := structurer.Structure(context.Background(),
			"Python developer. Email me at dev@example.com or call 555-867-5309.", "Backend")
		require.NoError(t, err)
		assert.NotContains(t, profile.RedactedText, "dev@example.com")
		assert.Contains(t, profile.RedactedText, "[REDACTED_EMAIL]")
		assert.Contains(t, profile.RedactedText, "[REDACTED_PHONE]")
	})

	t.Run("unknown category matches nothing", func(t *testing.T) {
		structurer := NewResumeStructurerService(taxonomy, nil, 1)
		profile, err := structurer.Structure(context.Background(), "Python and Kubernetes.", "Quantum")
		require.NoError(t, err)
		assert.Empty(t, profile.Skills)
	})

	t.Run("extracts entities via the model", func(t *testing.T) {
		gemini := &fakeGeminiService{
			textResponses: []string{`{"organizations": ["Acme Corp", "acme corp"], "locations": ["Berlin"]}`},
		}
		structurer := NewResumeStructurerService(taxonomy, gemini, 1)
		profile, err := structurer.Structure(context.Background(), "Worked at Acme Corp in Berlin using Go.", "Backend")
		require.NoError(t, err)
		assert.Equal(t, []string{"Acme Corp"}, profile.Organizations)
		assert.Equal(t, []string{"Berlin"}, profile.Locations)
		assert.Equal(t, []string{"Go"}, profile.Skills)
	})

	t.Run("entity extraction failure degrades to skills only", func(t *testing.T) {
		gemini := &fakeGeminiService{failText: true}
		structurer := NewResumeStructurerService(taxonomy, gemini, 1)
		profile, err := structurer.Structure(context.Background(), "Python everywhere.", "Backend")
		require.NoError(t, err)
		assert.Equal(t, []string{"Python"}, profile.Skills)
		assert.Empty(t, profile.Organizations)
	})
}

func TestMatchSkills(t *testing.T) {
	t.Run("word boundaries prevent substring matches", func(t *testing.T) {
		matched := matchSkills("Worked at Google on search.", []string{"Go"})
		assert.Empty(t, matched)
	})

	t.Run("matches punctuated terms", func(t *testing.T) {
		matched := matchSkills("Ten years of C++ experience.", []string{"C++"})
		assert.Equal(t, []string{"C++"}, matched)
	})

	t.Run("case-insensitive", func(t *testing.T) {
		matched := matchSkills("experience with PYTHON and kubernetes", []string{"Python", "Kubernetes"})
		assert.Equal(t, []string{"Kubernetes", "Python"}, matched)
	})
}

func TestSkillTaxonomy(t *testing.T) {
	taxonomy := testTaxonomy(t)

	assert.Equal(t, []string{"Backend", "Frontend"}, taxonomy.Categories())
	assert.True(t, taxonomy.HasCategory("Backend"))
	assert.False(t, taxonomy.HasCategory("backend"))
	assert.Empty(t, taxonomy.SkillsFor("Unknown"))

	_, err := ParseSkillTaxonomy([]byte("{}"))
	assert.Error(t, err)
}
