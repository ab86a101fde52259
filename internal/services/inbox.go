package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/kriti-labs/jobportal/internal/query"
	"github.com/kriti-labs/jobportal/internal/types"
	log "github.com/sirupsen/logrus"
)

type InboxStore interface {
	UpsertDeviceToken(ctx context.Context, token *models.DeviceToken) error
	DisableDeviceToken(ctx context.Context, userID uint, token string) error
	FindNotifications(ctx context.Context, recipientID uint, since time.Time, spec query.Spec) (query.Page[models.Notification], error)
	CountUnread(ctx context.Context, recipientID uint, since time.Time) (int64, error)
	MarkRead(ctx context.Context, recipientID uint, ids []uint, at time.Time) (int64, error)
	NotificationByID(ctx context.Context, recipientID, id uint) (*models.Notification, error)
	DeleteNotification(ctx context.Context, recipientID, id uint) error
	ClearNotifications(ctx context.Context, recipientID uint) (int64, error)
}

type DeviceTokenInput struct {
	FCMToken string `json:"fcmToken" binding:"required"`
	Platform string `json:"platform" binding:"required"`
	DeviceID string `json:"deviceId"`
}

// Inbox is a page of notifications plus the recipient's unread total.
type Inbox struct {
	query.Page[models.Notification]
	UnreadCount int64 `json:"unreadCount"`
}

// InboxService serves a user's own notifications. Records older than the
// retention window are treated as gone.
type InboxService struct {
	store     InboxStore
	emitter   notify.Emitter
	retention time.Duration
	now       func() time.Time
}

func NewInboxService(store InboxStore, emitter notify.Emitter, retention time.Duration) *InboxService {
	return &InboxService{store: store, emitter: emitter, retention: retention, now: time.Now}
}

func (s *InboxService) since() time.Time {
	return s.now().Add(-s.retention)
}

func (s *InboxService) RegisterToken(ctx context.Context, actor types.AuthenticatedUser, in DeviceTokenInput) (*models.DeviceToken, error) {
	platform, ok := types.Canonical(strings.ToLower(in.Platform), types.DevicePlatforms)
	if !ok {
		return nil, invalidField("platform", in.Platform, types.DevicePlatforms)
	}

	token := &models.DeviceToken{
		UserID:   actor.ID,
		Role:     actor.Role,
		FCMToken: strings.TrimSpace(in.FCMToken),
		Platform: platform,
		DeviceID: in.DeviceID,
		Enabled:  true,
		LastUsed: s.now(),
	}

	if err := s.store.UpsertDeviceToken(ctx, token); err != nil {
		return nil, err
	}

	log.Printf("Device token registered for user %d", actor.ID)
	return token, nil
}

func (s *InboxService) UnregisterToken(ctx context.Context, actor types.AuthenticatedUser, fcmToken string) error {
	if strings.TrimSpace(fcmToken) == "" {
		return apperr.NewValidation("FCM token is required")
	}
	return s.store.DisableDeviceToken(ctx, actor.ID, fcmToken)
}

func (s *InboxService) List(ctx context.Context, actor types.AuthenticatedUser, params url.Values) (*Inbox, error) {
	since := s.since()

	page, err := s.store.FindNotifications(ctx, actor.ID, since, query.Build(params, query.NotificationSchema))
	if err != nil {
		return nil, err
	}

	unread, err := s.store.CountUnread(ctx, actor.ID, since)
	if err != nil {
		return nil, err
	}

	return &Inbox{Page: page, UnreadCount: unread}, nil
}

func (s *InboxService) UnreadCount(ctx context.Context, actor types.AuthenticatedUser) (int64, error) {
	return s.store.CountUnread(ctx, actor.ID, s.since())
}

// MarkRead marks one notification read and tells the user's other sessions.
func (s *InboxService) MarkRead(ctx context.Context, actor types.AuthenticatedUser, id uint) (*models.Notification, error) {
	n, err := s.store.NotificationByID(ctx, actor.ID, id)
	if err != nil {
		return nil, err
	}

	if !n.IsRead {
		at := s.now()
		if _, err := s.store.MarkRead(ctx, actor.ID, []uint{n.ID}, at); err != nil {
			return nil, err
		}
		n.IsRead = true
		n.ReadAt = &at
	}

	s.emitter.EmitToUser(actor.ID, notify.EventUpdated, map[string]interface{}{"id": n.ID, "isRead": true})
	return n, nil
}

func (s *InboxService) MarkManyRead(ctx context.Context, actor types.AuthenticatedUser, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, apperr.NewValidation("Notification IDs array is required")
	}

	modified, err := s.store.MarkRead(ctx, actor.ID, ids, s.now())
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		s.emitter.EmitToUser(actor.ID, notify.EventUpdated, map[string]interface{}{"id": id, "isRead": true})
	}
	return modified, nil
}

func (s *InboxService) MarkAllRead(ctx context.Context, actor types.AuthenticatedUser) (int64, error) {
	modified, err := s.store.MarkRead(ctx, actor.ID, nil, s.now())
	if err != nil {
		return 0, err
	}

	s.emitter.EmitToUser(actor.ID, notify.EventAllRead, nil)
	return modified, nil
}

func (s *InboxService) Delete(ctx context.Context, actor types.AuthenticatedUser, id uint) error {
	return s.store.DeleteNotification(ctx, actor.ID, id)
}

func (s *InboxService) Clear(ctx context.Context, actor types.AuthenticatedUser) (int64, error) {
	return s.store.ClearNotifications(ctx, actor.ID)
}
