package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
}

type CreateSessionRequest struct {
	JobCategory      string `json:"job_category"`
	TargetRole       string `json:"target_role"`
	ResumeDocumentID string `json:"resume_document_id,omitempty"`
}

type SessionResponse struct {
	ID            string             `json:"id"`
	JobCategory   string             `json:"job_category"`
	TargetRole    string             `json:"target_role"`
	Skills        []string           `json:"skills"`
	Organizations []string           `json:"organizations"`
	Locations     []string           `json:"locations"`
	Questions     []QuestionResponse `json:"questions"`
}

type QuestionResponse struct {
	ID            string `json:"id"`
	SourceEntryID string `json:"source_entry_id"`
	RenderedText  string `json:"rendered_text"`
	Position      int    `json:"position"`
}

type SubmitAnswerRequest struct {
	QuestionID string `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

type SubmitAnswerResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type EvaluationResultResponse struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Result       *EvaluationData `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
}

type EvaluationData struct {
	QuestionID       string   `json:"question_id"`
	RubricScore      *float64 `json:"rubric_score"`
	SemanticScore    *float64 `json:"semantic_score"`
	FinalScore       float64  `json:"final_score"`
	RubricFeedback   string   `json:"rubric_feedback"`
	MissingComponent *string  `json:"missing_component,omitempty"`
}
