package services

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"
)

// ResumeProfile is the structured, PII-free view of one resume. Immutable
// after Structure returns it.
type ResumeProfile struct {
	RedactedText  string
	Skills        []string
	Organizations []string
	Locations     []string
}

type ResumeStructurerService interface {
	Structure(ctx context.Context, rawText, jobCategory string) (*ResumeProfile, error)
}

type resumeStructurerService struct {
	taxonomy   *SkillTaxonomy
	gemini     GeminiService
	prompts    *PromptBuilder
	maxRetries int
}

func NewResumeStructurerService(
	taxonomy *SkillTaxonomy,
	gemini GeminiService,
	maxRetries int,
) ResumeStructurerService {
	return &resumeStructurerService{
		taxonomy:   taxonomy,
		gemini:     gemini,
		prompts:    NewPromptBuilder(),
		maxRetries: maxRetries,
	}
}

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,2}\s?)?(\(?\d{3}\)?[\s.-]?)?\d{3}[\s.-]?\d{4}`)
)

// RedactPII removes email addresses and phone numbers. It runs before any
// entity extraction so extracted entities never contain PII.
func RedactPII(text string) string {
	text = emailPattern.ReplaceAllString(text, "[REDACTED_EMAIL]")
	text = phonePattern.ReplaceAllString(text, "[REDACTED_PHONE]")
	return text
}

// Structure turns raw resume text into a ResumeProfile. Empty input is the
// cold-start mode and yields an empty profile rather than an error. Skills
// come from the category-scoped taxonomy; organizations and locations come
// from a best-effort entity-extraction call that degrades to empty lists.
func (s *resumeStructurerService) Structure(ctx context.Context, rawText, jobCategory string) (*ResumeProfile, error) {
	rawText = CleanText(rawText)
	if rawText == "" {
		return &ResumeProfile{}, nil
	}

	redacted := RedactPII(rawText)

	profile := &ResumeProfile{
		RedactedText: redacted,
		Skills:       matchSkills(redacted, s.taxonomy.SkillsFor(jobCategory)),
	}

	if s.gemini == nil {
		return profile, nil
	}

	prompt := s.prompts.BuildEntityExtractionPrompt(TruncateForPrompt(redacted, 12000))
	response, err := s.gemini.GenerateTextWithRetry(ctx, prompt, 0.1, s.maxRetries)
	if err != nil {
		log.Printf("⚠️  Entity extraction unavailable, continuing without organizations/locations: %v\n", err)
		return profile, nil
	}

	var entities struct {
		Organizations []string `json:"organizations"`
		Locations     []string `json:"locations"`
	}
	if err := parseJSONResponse(response, &entities); err != nil {
		log.Printf("⚠️  Failed to parse entity extraction response: %v\n", err)
		return profile, nil
	}

	profile.Organizations = dedupeOrdered(entities.Organizations)
	profile.Locations = dedupeOrdered(entities.Locations)

	return profile, nil
}

// matchSkills scans the text for category-scoped taxonomy terms. Matching is
// case-insensitive with word boundaries where the term allows them, so "Go"
// does not match "Google" but "C++" still matches.
func matchSkills(text string, terms []string) []string {
	var matched []string
	for _, term := range terms {
		if term == "" {
			continue
		}
		if skillPattern(term).MatchString(text) {
			matched = append(matched, term)
		}
	}
	sort.Strings(matched)
	return matched
}

func skillPattern(term string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?i)`)
	if isWordRune(rune(term[0])) {
		b.WriteString(`\b`)
	}
	b.WriteString(regexp.QuoteMeta(term))
	if isWordRune(rune(term[len(term)-1])) {
		b.WriteString(`\b`)
	}
	return regexp.MustCompile(b.String())
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func dedupeOrdered(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}
