package models

// ChatMessage is one turn in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the conversation relayed verbatim to the chat-completion
// service.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

// ChatResponse carries only the first completion's text.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// SearchRequest is a text query with an optional result cap.
type SearchRequest struct {
	Query string `json:"query"`
	Limit *int   `json:"limit,omitempty"`
}
