package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildEntityExtractionPrompt creates the prompt used to pull organizations
// and locations out of a redacted resume.
func (pb *PromptBuilder) BuildEntityExtractionPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an information extraction system. Extract the organizations (companies, universities) and locations (cities, countries) mentioned in the resume below.

RESUME:
%s

Return your response in the following JSON format:
{
  "organizations": ["<organization 1>", "<organization 2>"],
  "locations": ["<location 1>", "<location 2>"]
}

List each entity once, in the order it first appears. Return ONLY the JSON object.`, resumeText)
}

// BuildPersonalizationPrompt creates the single batched prompt that rewrites
// retrieved bank questions against the candidate's profile. Each question is
// carried with a [Q:<id>] marker that the response must keep, so every
// rewritten question maps back to its bank entry.
func (pb *PromptBuilder) BuildPersonalizationPrompt(entries []QuestionBankEntry, profile *ResumeProfile) string {
	var questions strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&questions, "[Q:%s] %s\n", entry.ID, entry.Prompt)
	}

	return fmt.Sprintf(`You are an expert technical interviewer at a top tech company.
Your task is to rewrite a given set of standard interview questions to be highly specific and personalized to the candidate's resume.

CANDIDATE PROFILE:
Skills: %s
Organizations: %s
Locations: %s

RESUME TEXT:
%s

STANDARD QUESTIONS TO PERSONALIZE:
%s
Rewrite each question so it is grounded in the candidate's specific projects, experiences, and skills. For example, if the standard question is "Tell me about a challenging project" and the resume mentions a churn prediction model, ask about the technical challenges of that model instead.

Output one line per question, keeping the exact [Q:<id>] marker at the start of each line:
[Q:<id>] <rewritten question>

Do not add, drop, or merge questions. Return ONLY the marked lines.`,
		joinOrNone(profile.Skills),
		joinOrNone(profile.Organizations),
		joinOrNone(profile.Locations),
		TruncateForPrompt(profile.RedactedText, 8000),
		questions.String())
}

// BuildRubricPrompt creates the rubric-scoring prompt for one answer.
func (pb *PromptBuilder) BuildRubricPrompt(questionText, answerText string) string {
	return fmt.Sprintf(`You are an experienced interview coach evaluating a candidate's answer to an interview question.

QUESTION:
%s

CANDIDATE'S ANSWER:
%s

Score the answer on these dimensions (0-5 scale):
1. Structure - Does the answer follow a clear structure (e.g. STAR for behavioral questions)?
2. Clarity - Is the answer concise and easy to understand?
3. Technical Accuracy - Is the information correct and sufficiently deep?

Return your response in the following JSON format:
{
  "structure_score": <0-5>,
  "clarity_score": <0-5>,
  "technical_accuracy_score": <0-5>,
  "overall_score": <average of the three, 0-5>,
  "feedback": "<constructive feedback, 3-5 sentences, ending with one concrete improvement>"
}

Be objective and specific. Return ONLY the JSON object.`, questionText, answerText)
}

// BuildReferenceAnswerPrompt asks for the ideal answer used as the semantic
// scoring baseline.
func (pb *PromptBuilder) BuildReferenceAnswerPrompt(questionText string) string {
	return fmt.Sprintf(`As a senior technical interviewer, provide an ideal, textbook-quality answer for the following interview question.
Use the STAR method for behavioral questions. Be clear and concise.

QUESTION:
%s

Return ONLY the ideal answer text.`, questionText)
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
