package services

import (
	"context"
	"testing"
	"time"

	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatStore struct {
	users    map[uint]*models.User
	messages []*models.Message
	readBy   map[string]uint
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{
		users: map[uint]*models.User{
			3:  {BaseModel: models.BaseModel{ID: 3}, Name: "Employer"},
			12: {BaseModel: models.BaseModel{ID: 12}, Name: "Candidate"},
		},
		readBy: map[string]uint{},
	}
}

func (f *fakeChatStore) UserByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, apperr.NewNotFound("User not found")
}

func (f *fakeChatStore) UsersByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeChatStore) CreateMessage(_ context.Context, msg *models.Message) error {
	msg.ID = uint(len(f.messages) + 1)
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeChatStore) Messages(_ context.Context, conversationID string, _ int) ([]models.Message, error) {
	var out []models.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeChatStore) LastMessages(_ context.Context, userID uint) ([]models.Message, error) {
	if len(f.messages) == 0 {
		return nil, nil
	}
	return []models.Message{*f.messages[len(f.messages)-1]}, nil
}

func (f *fakeChatStore) MarkConversationRead(_ context.Context, conversationID string, receiverID uint, _ time.Time) error {
	f.readBy[conversationID] = receiverID
	return nil
}

func TestSendMessageRelaysToBothUsers(t *testing.T) {
	store := newFakeChatStore()
	emitter := &recordingEmitter{}
	svc := NewChatService(store, emitter)

	msg, err := svc.Send(context.Background(), employer(3), 12, "  Hello there ")
	require.NoError(t, err)
	assert.Equal(t, "3_12", msg.ConversationID)
	assert.Equal(t, "Hello there", msg.Content)

	require.Len(t, emitter.events, 2)
	assert.Equal(t, uint(12), emitter.events[0].userID)
	assert.Equal(t, uint(3), emitter.events[1].userID)
	assert.Equal(t, realtime.EventReceiveMessage, emitter.events[0].event)
}

func TestSendMessageValidation(t *testing.T) {
	svc := NewChatService(newFakeChatStore(), &recordingEmitter{})
	ctx := context.Background()

	_, err := svc.Send(ctx, employer(3), 12, "   ")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.Send(ctx, employer(3), 3, "hi")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	_, err = svc.Send(ctx, employer(3), 99, "hi")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestMessagesOnlyForParticipants(t *testing.T) {
	store := newFakeChatStore()
	svc := NewChatService(store, &recordingEmitter{})
	ctx := context.Background()

	_, err := svc.Send(ctx, employer(3), 12, "hi")
	require.NoError(t, err)

	_, err = svc.Messages(ctx, candidate(40), "3_12")
	assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	messages, err := svc.Messages(ctx, candidate(12), "3_12")
	require.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Equal(t, uint(12), store.readBy["3_12"])
}

func TestConversationsResolveOtherUser(t *testing.T) {
	store := newFakeChatStore()
	svc := NewChatService(store, &recordingEmitter{})
	ctx := context.Background()

	_, err := svc.Send(ctx, employer(3), 12, "hi")
	require.NoError(t, err)

	conversations, err := svc.Conversations(ctx, candidate(12))
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	require.NotNil(t, conversations[0].OtherUser)
	assert.Equal(t, uint(3), conversations[0].OtherUser.ID)
	assert.Equal(t, "hi", conversations[0].LastMessage.Content)

	conv, err := svc.Initiate(ctx, candidate(12), 3)
	require.NoError(t, err)
	assert.Equal(t, "3_12", conv.ID)
}
