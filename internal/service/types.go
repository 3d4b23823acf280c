package service

// Chat modes accepted by the backend.
const (
	ModeNormal  = "NORMAL"
	ModeAgentic = "AGENTIC"
)

type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

type TranslateResult struct {
	SourceText     string `json:"sourceText"`
	TranslatedText string `json:"translatedText"`
	SourceLang     string `json:"sourceLang"`
	TargetLang     string `json:"targetLang"`
	Cached         bool   `json:"cached"`
}

type DetectLanguageResult struct {
	Language    string `json:"language"`
	DisplayName string `json:"display_name"`
}

type DocumentTranslateRequest struct {
	DocumentName string `json:"documentName"`
	Content      string `json:"content"`
	SourceLang   string `json:"sourceLang"`
	TargetLang   string `json:"targetLang"`
}

type DocumentTranslateResult struct {
	DocumentName   string `json:"documentName"`
	TranslatedText string `json:"translatedText"`
	SourceLang     string `json:"sourceLang"`
	TargetLang     string `json:"targetLang"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
	Mode           string `json:"mode"`
	InputLanguage  string `json:"input_language,omitempty"`
	OutputLanguage string `json:"output_language,omitempty"`
}

type SendMessageResult struct {
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
	Reply          string `json:"reply"`
	Mode           string `json:"mode"`
	Cached         bool   `json:"cached"`
}

// ConversationState is the short-lived per-conversation snapshot kept in
// the cache. Transcript persistence lives outside this service.
type ConversationState struct {
	ConversationID string `json:"conversationId"`
	OwnerID        string `json:"ownerId"`
	LastMessageID  string `json:"lastMessageId,omitempty"`
	LastReply      string `json:"lastReply,omitempty"`
	Mode           string `json:"mode,omitempty"`
}

type SharedConversationResult struct {
	ConversationID string `json:"conversationId"`
	LastReply      string `json:"lastReply,omitempty"`
	Mode           string `json:"mode,omitempty"`
	IsOwner        bool   `json:"isOwner"`
}
