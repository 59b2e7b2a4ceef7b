package http

import (
	"context"
	"time"

	"github.com/aretw0/shopbot/pkg/domain"
)

// ActivityResponse is the body returned by POST /api/messages.
type ActivityResponse struct {
	Activities []ReplyActivity `json:"activities"`
}

// ReplyActivity is an outbound message in the Bot Framework activity shape.
type ReplyActivity struct {
	Type             domain.ActivityType    `json:"type"`
	Timestamp        time.Time              `json:"timestamp"`
	ChannelID        string                 `json:"channelId,omitempty"`
	Conversation     domain.ConversationRef `json:"conversation"`
	From             domain.Account         `json:"from"`
	Recipient        domain.Account         `json:"recipient"`
	ReplyToID        string                 `json:"replyToId,omitempty"`
	Text             string                 `json:"text"`
	InputHint        string                 `json:"inputHint,omitempty"`
	SuggestedActions *SuggestedActions      `json:"suggestedActions,omitempty"`
}

// SuggestedActions lists the buttons offered with a prompt.
type SuggestedActions struct {
	To      []string     `json:"to,omitempty"`
	Actions []CardAction `json:"actions"`
}

// CardAction is a single imBack button.
type CardAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value"`
}

const (
	inputHintAccepting = "acceptingInput"
	inputHintExpecting = "expectingInput"
)

// replyCollector is the ports.Sender of one HTTP request. Replies are
// returned in the response body instead of being pushed to a connector.
type replyCollector struct {
	act     domain.Activity
	replies []ReplyActivity
}

func (c *replyCollector) Send(_ context.Context, conversationID string, actions ...domain.ActionRequest) error {
	for _, a := range actions {
		reply := ReplyActivity{
			Type:         domain.ActivityMessage,
			Timestamp:    time.Now().UTC(),
			ChannelID:    c.act.ChannelID,
			Conversation: domain.ConversationRef{ID: conversationID},
			From:         c.act.Recipient,
			Recipient:    c.act.From,
			ReplyToID:    c.act.ID,
			InputHint:    inputHintAccepting,
		}
		switch p := a.Payload.(type) {
		case string:
			reply.Text = p
		case domain.InputRequest:
			reply.Text = p.Prompt
			reply.InputHint = inputHintExpecting
			reply.SuggestedActions = suggestions(p, c.act.From.ID)
		default:
			continue
		}
		c.replies = append(c.replies, reply)
	}
	return nil
}

func suggestions(req domain.InputRequest, to string) *SuggestedActions {
	var labels []string
	switch req.Type {
	case domain.InputChoice:
		labels = req.Options
	case domain.InputConfirm:
		labels = []string{"Yes", "No"}
	default:
		return nil
	}
	if len(labels) == 0 {
		return nil
	}
	sa := &SuggestedActions{Actions: make([]CardAction, 0, len(labels))}
	if to != "" {
		sa.To = []string{to}
	}
	for _, l := range labels {
		sa.Actions = append(sa.Actions, CardAction{Type: "imBack", Title: l, Value: l})
	}
	return sa
}
