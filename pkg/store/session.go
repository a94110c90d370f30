package store

// Conversation modes. A session starts in ModeInitial and is switched exactly
// once, by the user's mode selection.
const (
	ModeInitial = "initial"
	ModeFlow    = "flow"
	ModeRAG     = "rag"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single transcript entry. StepKey links an assistant prompt to
// the flow step it belongs to. Failed marks a turn whose capability call
// errored, so the transcript never holds a user entry with a silently missing
// reply.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	StepKey string `json:"step_key,omitempty"`
	Failed  bool   `json:"failed,omitempty"`
}

// Document represents a retrieved knowledge chunk used to ground a RAG answer.
type Document struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Source  string  `json:"source"`
	Content string  `json:"content"`
	Score   float32 `json:"score"`
}

// Session is the per-conversation state held by the session store.
//
// StepIndex is only meaningful in flow mode and stays within
// [0, len(script)]. Answers accumulates the raw accepted inputs keyed by step
// key. History is append-only; the engine never reorders or truncates it.
type Session struct {
	ID         string            `json:"id"`
	Mode       string            `json:"mode"`
	StepIndex  int               `json:"step_index"`
	Answers    map[string]string `json:"answers"`
	History    []Message         `json:"history"`
	IsComplete bool              `json:"is_complete"`
	LastQuery  string            `json:"last_query"`
}

// NewSession returns a fresh session in the initial mode.
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		Mode:    ModeInitial,
		Answers: make(map[string]string),
		History: []Message{},
	}
}
