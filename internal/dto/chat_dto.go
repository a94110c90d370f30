package dto

// ChatTurnRequest carries one user turn. The session id is caller-generated
// and opaque; an unknown id simply starts a fresh session.
type ChatTurnRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	UserInput string `json:"user_input"`
}

// ChatTurnResponse is the single reply envelope for every turn outcome.
// Clients branch on Status: success, validation_error, error or complete.
// Classification is observability only; it never changes the shape.
type ChatTurnResponse struct {
	Status         string            `json:"status"`
	BotMessage     string            `json:"bot_message"`
	IsComplete     bool              `json:"is_complete"`
	Data           map[string]string `json:"data"`
	Mode           string            `json:"mode"`
	Classification string            `json:"classification,omitempty"`
}

type ResetSessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type ChatHistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	StepKey string `json:"step_key,omitempty"`
	Failed  bool   `json:"failed,omitempty"`
}

type ChatHistoryResponse struct {
	SessionID string               `json:"session_id"`
	Mode      string               `json:"mode"`
	Messages  []ChatHistoryMessage `json:"messages"`
}
