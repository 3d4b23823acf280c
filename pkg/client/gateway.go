package client

import "context"

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

// Translate translates text through the gateway.
func (c *Client) Translate(ctx context.Context, req TranslateRequest) (*TranslateResult, error) {
	var result TranslateResult
	if err := c.post(ctx, "/v1/translation/translate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type DetectLanguageResult struct {
	Language    string `json:"language"`
	DisplayName string `json:"display_name"`
}

// DetectLanguage detects the language of text.
func (c *Client) DetectLanguage(ctx context.Context, text string) (*DetectLanguageResult, error) {
	var result DetectLanguageResult
	if err := c.post(ctx, "/v1/translation/detect-language", map[string]string{"text": text}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type SendMessageRequest struct {
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

// SendMessage sends a chat message to a conversation.
func (c *Client) SendMessage(ctx context.Context, conversationID string, req SendMessageRequest) (*SendMessageResult, error) {
	var result SendMessageResult
	if err := c.post(ctx, "/v1/chat/conversations/"+conversationID+"/messages", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type SharedConversationResult struct {
	ConversationID string `json:"conversationId"`
	LastReply      string `json:"lastReply,omitempty"`
	Mode           string `json:"mode,omitempty"`
	IsOwner        bool   `json:"isOwner"`
}

// SharedConversation fetches a shared conversation. Works without a token;
// with one, IsOwner reflects ownership.
func (c *Client) SharedConversation(ctx context.Context, conversationID string) (*SharedConversationResult, error) {
	var result SharedConversationResult
	if err := c.get(ctx, "/v1/chat/shared/"+conversationID, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout ends the current session, clearing the session rate counters.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/v1/auth/logout", nil, nil)
}
