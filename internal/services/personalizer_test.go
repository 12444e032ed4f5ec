package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personalizerEntries() []QuestionBankEntry {
	return []QuestionBankEntry{
		{ID: "be-001", Category: "Backend", Prompt: "Tell me about Python."},
		{ID: "be-002", Category: "Backend", Prompt: "Tell me about Kubernetes."},
	}
}

func TestPersonalize(t *testing.T) {
	profile := &ResumeProfile{
		RedactedText: "Six years of Python on Kubernetes at Acme.",
		Skills:       []string{"Kubernetes", "Python"},
	}

	t.Run("maps rewritten text back by marker", func(t *testing.T) {
		gemini := &fakeGeminiService{textResponses: []string{
			"[Q:be-002] Given your Kubernetes work at Acme, how would you debug a crash loop?\n" +
				"[Q:be-001] You mention six years of Python; how do you structure a large service?",
		}}
		personalizer := NewPersonalizerService(gemini, 1)

		questions := personalizer.Personalize(context.Background(), personalizerEntries(), profile)
		require.Len(t, questions, 2)

		// Output order follows the retrieval order, not the model's.
		assert.Equal(t, "be-001", questions[0].SourceEntryID)
		assert.Contains(t, questions[0].RenderedText, "six years of Python")
		assert.Equal(t, "be-002", questions[1].SourceEntryID)
		assert.Contains(t, questions[1].RenderedText, "Kubernetes work at Acme")
	})

	t.Run("missing marker falls back to the bank prompt", func(t *testing.T) {
		gemini := &fakeGeminiService{textResponses: []string{
			"[Q:be-001] Personalized Python question.",
		}}
		personalizer := NewPersonalizerService(gemini, 1)

		questions := personalizer.Personalize(context.Background(), personalizerEntries(), profile)
		require.Len(t, questions, 2)
		assert.Equal(t, "Personalized Python question.", questions[0].RenderedText)
		assert.Equal(t, "Tell me about Kubernetes.", questions[1].RenderedText)
	})

	t.Run("model failure falls back to verbatim prompts", func(t *testing.T) {
		gemini := &fakeGeminiService{failText: true}
		personalizer := NewPersonalizerService(gemini, 1)

		questions := personalizer.Personalize(context.Background(), personalizerEntries(), profile)
		require.Len(t, questions, 2)
		assert.Equal(t, "Tell me about Python.", questions[0].RenderedText)
		assert.Equal(t, "Tell me about Kubernetes.", questions[1].RenderedText)
	})

	t.Run("cold start skips the model entirely", func(t *testing.T) {
		gemini := &fakeGeminiService{}
		personalizer := NewPersonalizerService(gemini, 1)

		questions := personalizer.Personalize(context.Background(), personalizerEntries(), &ResumeProfile{})
		require.Len(t, questions, 2)
		assert.Equal(t, "Tell me about Python.", questions[0].RenderedText)
		assert.Zero(t, gemini.textCalls)
	})

	t.Run("duplicate markers keep the first occurrence", func(t *testing.T) {
		gemini := &fakeGeminiService{textResponses: []string{
			"[Q:be-001] First version.\n[Q:be-001] Second version.",
		}}
		personalizer := NewPersonalizerService(gemini, 1)

		questions := personalizer.Personalize(context.Background(), personalizerEntries()[:1], profile)
		require.Len(t, questions, 1)
		assert.Equal(t, "First version.", questions[0].RenderedText)
	})

	t.Run("no entries yields no questions", func(t *testing.T) {
		personalizer := NewPersonalizerService(&fakeGeminiService{}, 1)
		assert.Empty(t, personalizer.Personalize(context.Background(), nil, profile))
	})
}
