package services

import (
	"context"
	"log"
	"regexp"
	"strings"
)

// PersonalizedQuestion is a bank entry rendered against one candidate's
// profile. SourceEntryID always refers to the originating bank entry.
type PersonalizedQuestion struct {
	SourceEntryID string
	RenderedText  string
}

// PersonalizerService rewrites retrieved questions against a resume profile.
// Personalization is best-effort: it never fails, it falls back to the
// verbatim bank prompt for any entry it could not personalize.
type PersonalizerService interface {
	Personalize(ctx context.Context, entries []QuestionBankEntry, profile *ResumeProfile) []PersonalizedQuestion
}

type personalizerService struct {
	gemini     GeminiService
	prompts    *PromptBuilder
	maxRetries int
}

func NewPersonalizerService(gemini GeminiService, maxRetries int) PersonalizerService {
	return &personalizerService{
		gemini:     gemini,
		prompts:    NewPromptBuilder(),
		maxRetries: maxRetries,
	}
}

var questionMarkerPattern = regexp.MustCompile(`\[Q:([^\]\s]+)\]\s*(.+)`)

// Personalize sends one batched call for all entries and maps the rewritten
// text back by the [Q:<id>] markers. Cold-start profiles (no resume text) skip
// the call entirely.
func (p *personalizerService) Personalize(ctx context.Context, entries []QuestionBankEntry, profile *ResumeProfile) []PersonalizedQuestion {
	if len(entries) == 0 {
		return nil
	}

	if profile == nil || profile.RedactedText == "" {
		return verbatimQuestions(entries)
	}

	prompt := p.prompts.BuildPersonalizationPrompt(entries, profile)
	response, err := p.gemini.GenerateTextWithRetry(ctx, prompt, 0.7, p.maxRetries)
	if err != nil {
		log.Printf("⚠️  Personalization unavailable, using bank prompts verbatim: %v\n", err)
		return verbatimQuestions(entries)
	}

	rendered := parseMarkedQuestions(response)

	result := make([]PersonalizedQuestion, 0, len(entries))
	for _, entry := range entries {
		text, ok := rendered[entry.ID]
		if !ok || strings.TrimSpace(text) == "" {
			text = entry.Prompt
		}
		result = append(result, PersonalizedQuestion{
			SourceEntryID: entry.ID,
			RenderedText:  strings.TrimSpace(text),
		})
	}

	return result
}

func parseMarkedQuestions(response string) map[string]string {
	rendered := make(map[string]string)
	for _, line := range strings.Split(response, "\n") {
		match := questionMarkerPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		id := match[1]
		// First marker wins if the model repeats an id.
		if _, ok := rendered[id]; !ok {
			rendered[id] = match[2]
		}
	}
	return rendered
}

func verbatimQuestions(entries []QuestionBankEntry) []PersonalizedQuestion {
	result := make([]PersonalizedQuestion, 0, len(entries))
	for _, entry := range entries {
		result = append(result, PersonalizedQuestion{
			SourceEntryID: entry.ID,
			RenderedText:  entry.Prompt,
		})
	}
	return result
}
