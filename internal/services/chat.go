package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/kriti-labs/jobportal/internal/realtime"
	"github.com/kriti-labs/jobportal/internal/types"
)

const (
	maxMessageLength     = 2000
	conversationPageSize = 500
)

type ChatStore interface {
	UserByID(ctx context.Context, id uint) (*models.User, error)
	UsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	Messages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
	LastMessages(ctx context.Context, userID uint) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, conversationID string, receiverID uint, at time.Time) error
}

// Conversation is the latest message exchanged with one other user.
type Conversation struct {
	ID          string              `json:"id"`
	LastMessage *models.Message     `json:"lastMessage,omitempty"`
	OtherUser   *types.UserResponse `json:"otherUser"`
}

type ChatService struct {
	store   ChatStore
	emitter notify.Emitter
	now     func() time.Time
}

func NewChatService(store ChatStore, emitter notify.Emitter) *ChatService {
	return &ChatService{store: store, emitter: emitter, now: time.Now}
}

// ConversationID is the same for both participants: the two user ids, lowest first.
func ConversationID(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// Participants parses a conversation id back into its two user ids.
func Participants(conversationID string) (uint, uint, bool) {
	parts := strings.Split(conversationID, "_")
	if len(parts) != 2 {
		return 0, 0, false
	}

	a, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, 0, false
	}
	b, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, 0, false
	}

	return uint(a), uint(b), ConversationID(uint(a), uint(b)) == conversationID
}

// RequireParticipant fails unless userID is one of the conversation's two users.
func RequireParticipant(conversationID string, userID uint) error {
	a, b, ok := Participants(conversationID)
	if !ok {
		return apperr.NewValidation("Invalid conversation id")
	}
	if userID != a && userID != b {
		return apperr.NewForbidden("Not authorized to access this conversation")
	}
	return nil
}

// Send stores a message and relays it to every live session of both users.
func (s *ChatService) Send(ctx context.Context, actor types.AuthenticatedUser, receiverID uint, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.NewValidation("Message content is required")
	}
	if len(content) > maxMessageLength {
		return nil, apperr.NewValidation("Message cannot exceed %d characters", maxMessageLength)
	}
	if receiverID == 0 {
		return nil, apperr.NewValidation("Receiver is required")
	}
	if receiverID == actor.ID {
		return nil, apperr.NewValidation("You cannot message yourself")
	}

	if _, err := s.store.UserByID(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: ConversationID(actor.ID, receiverID),
		SenderID:       actor.ID,
		ReceiverID:     receiverID,
		Content:        content,
	}

	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.emitter.EmitToUser(receiverID, realtime.EventReceiveMessage, msg)
	s.emitter.EmitToUser(actor.ID, realtime.EventReceiveMessage, msg)

	return msg, nil
}

// Messages returns a conversation oldest first and marks the actor's
// incoming messages in it as read.
func (s *ChatService) Messages(ctx context.Context, actor types.AuthenticatedUser, conversationID string) ([]models.Message, error) {
	if err := RequireParticipant(conversationID, actor.ID); err != nil {
		return nil, err
	}

	messages, err := s.store.Messages(ctx, conversationID, conversationPageSize)
	if err != nil {
		return nil, err
	}

	if err := s.MarkRead(ctx, actor, conversationID); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *ChatService) MarkRead(ctx context.Context, actor types.AuthenticatedUser, conversationID string) error {
	if err := RequireParticipant(conversationID, actor.ID); err != nil {
		return err
	}
	return s.store.MarkConversationRead(ctx, conversationID, actor.ID, s.now())
}

func (s *ChatService) Conversations(ctx context.Context, actor types.AuthenticatedUser) ([]Conversation, error) {
	last, err := s.store.LastMessages(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(last))
	for _, m := range last {
		ids = append(ids, otherParty(m, actor.ID))
	}

	users, err := s.store.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]types.UserResponse, len(users))
	for i := range users {
		byID[users[i].ID] = UserResponse(&users[i])
	}

	conversations := make([]Conversation, 0, len(last))
	for i := range last {
		m := last[i]
		c := Conversation{ID: m.ConversationID, LastMessage: &last[i]}
		if u, ok := byID[otherParty(m, actor.ID)]; ok {
			c.OtherUser = &u
		}
		conversations = append(conversations, c)
	}

	return conversations, nil
}

// Initiate resolves the conversation with another user without sending anything.
func (s *ChatService) Initiate(ctx context.Context, actor types.AuthenticatedUser, userID uint) (*Conversation, error) {
	if userID == actor.ID {
		return nil, apperr.NewValidation("You cannot message yourself")
	}

	other, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	u := UserResponse(other)
	return &Conversation{ID: ConversationID(actor.ID, other.ID), OtherUser: &u}, nil
}

func otherParty(m models.Message, userID uint) uint {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}
