package api

import (
	"context"

	"github.com/Jill-Vadsola/study-abroad-sub000/internal/models"
)

type ChatAPI struct {
	c Doer
}

func NewChatAPI(c Doer) *ChatAPI {
	return &ChatAPI{c: c}
}

func (a *ChatAPI) Conversations(ctx context.Context) ([]models.ConversationSummary, error) {
	var result struct {
		Conversations []models.ConversationSummary `json:"conversations"`
	}
	if err := a.c.Get(ctx, "/chat/conversations", &result); err != nil {
		return nil, err
	}
	return result.Conversations, nil
}

func (a *ChatAPI) History(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	var result struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	if err := a.c.Get(ctx, "/chat/messages/"+userID, &result); err != nil {
		return nil, err
	}
	return result.Messages, nil
}

// Send posts a message and returns the server's stored copy. The echoed id
// is the dedup key against later poll/push delivery of the same message.
func (a *ChatAPI) Send(ctx context.Context, recipientID, text string) (*models.ChatMessage, error) {
	var result struct {
		Message models.ChatMessage `json:"message"`
	}
	body := map[string]string{"recipientId": recipientID, "text": text}
	if err := a.c.Post(ctx, "/chat/messages", body, &result); err != nil {
		return nil, err
	}
	return &result.Message, nil
}

func (a *ChatAPI) MarkRead(ctx context.Context, userID string) error {
	return a.c.Put(ctx, "/chat/messages/"+userID+"/read", nil, nil)
}

func (a *ChatAPI) DeleteMessage(ctx context.Context, messageID string) error {
	return a.c.Delete(ctx, "/chat/messages/"+messageID, nil)
}
