package dto

// ChatMessageRequest requires the content field but accepts an empty
// string, which the conversation answers with a re-prompt.
type ChatMessageRequest struct {
	Content *string `json:"content" validate:"required"`
}

type ChecklistResponse struct {
	Checklist string `json:"checklist"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
