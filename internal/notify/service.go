package notify

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/kriti-labs/jobportal/internal/models"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

const (
	defaultRoleConcurrency = 8
	recipientTimeout       = 30 * time.Second
)

// Payload describes one logical notification.
type Payload struct {
	Type       string
	Title      string
	Message    string
	EntityType string
	EntityID   *uint
	Data       map[string]interface{}
	// Channels to attempt. Empty means in-app and push.
	Channels []Channel
}

// Report collects the result of every attempted channel.
type Report struct {
	Notification *models.Notification
	InApp        *InAppResult
	Push         *PushResult
	Email        *EmailResult
}

// Attempted returns the channels that were tried, in a stable order.
func (r Report) Attempted() []string {
	var out []string
	if r.InApp != nil {
		out = append(out, string(InApp))
	}
	if r.Push != nil {
		out = append(out, string(Push))
	}
	if r.Email != nil {
		out = append(out, string(Email))
	}
	return out
}

type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	MarkNotificationSent(ctx context.Context, id uint, channels []string, at time.Time) error
	EnabledDeviceTokens(ctx context.Context, userID uint) ([]models.DeviceToken, error)
	DisableDeviceTokens(ctx context.Context, tokens []string) error
	UserByID(ctx context.Context, id uint) (*models.User, error)
	ActiveUserIDsByRole(ctx context.Context, role string) ([]uint, error)
}

// Service persists notifications and fans them out over the delivery channels.
type Service struct {
	store       Store
	emitter     Emitter
	push        PushSender
	mailer      Mailer
	concurrency int
	// timeout bounds the delivery to each recipient of a role broadcast.
	timeout time.Duration
	now     func() time.Time
}

// NewService builds a notification service. push and mailer may be nil, in
// which case those channels report that they were skipped.
func NewService(store Store, emitter Emitter, push PushSender, mailer Mailer) *Service {
	return &Service{
		store:       store,
		emitter:     emitter,
		push:        push,
		mailer:      mailer,
		concurrency: defaultRoleConcurrency,
		timeout:     recipientTimeout,
		now:         time.Now,
	}
}

// NotifyUser persists one notification for recipientID and delivers it.
// Only persistence failures are returned; delivery failures are logged.
func (s *Service) NotifyUser(ctx context.Context, recipientID uint, p Payload) (*Report, error) {
	n := &models.Notification{
		RecipientID: recipientID,
		Type:        p.Type,
		Title:       p.Title,
		Message:     p.Message,
		EntityType:  p.EntityType,
		EntityID:    p.EntityID,
		Data:        datatypes.JSONMap(p.Data),
	}

	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, err
	}

	report := &Report{Notification: n}

	for _, channel := range channels(p) {
		switch channel {
		case InApp:
			report.InApp = s.deliverInApp(n)
		case Push:
			report.Push = s.deliverPush(ctx, n)
		case Email:
			report.Email = s.deliverEmail(ctx, n)
		}
	}

	attempted := report.Attempted()
	if err := s.store.MarkNotificationSent(ctx, n.ID, attempted, s.now()); err != nil {
		log.Printf("Failed to record delivery of notification %d: %v", n.ID, err)
	} else {
		n.DeliveryChannels = attempted
		n.Sent = true
	}

	return report, nil
}

// NotifyRole delivers p to every active user of role except the excluded ids.
// Recipients are handled in parallel, each under its own deadline. A failure
// for one recipient does not stop the others; failures are reported together
// once every delivery has finished.
func (s *Service) NotifyRole(ctx context.Context, role string, p Payload, exclude ...uint) (int, error) {
	ids, err := s.store.ActiveUserIDsByRole(ctx, role)
	if err != nil {
		return 0, err
	}

	recipients := dedupe(ids, exclude)

	var (
		g        errgroup.Group
		mu       sync.Mutex
		failed   []uint
		firstErr error
	)
	g.SetLimit(s.concurrency)

	for _, id := range recipients {
		id := id
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			if _, err := s.NotifyUser(rctx, id, p); err != nil {
				mu.Lock()
				failed = append(failed, id)
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		return len(recipients), errors.Wrapf(firstErr, "notify %d of %d %s users failed, first user %d",
			len(failed), len(recipients), role, failed[0])
	}
	return len(recipients), nil
}

func (s *Service) deliverInApp(n *models.Notification) *InAppResult {
	if s.emitter == nil {
		return &InAppResult{}
	}
	return &InAppResult{Delivered: s.emitter.EmitToUser(n.RecipientID, EventNew, n)}
}

func (s *Service) deliverPush(ctx context.Context, n *models.Notification) *PushResult {
	result := &PushResult{}

	if s.push == nil {
		result.NoDestinations = true
		return result
	}

	tokens, err := s.store.EnabledDeviceTokens(ctx, n.RecipientID)
	if err != nil {
		log.Printf("Failed to load device tokens for user %d: %v", n.RecipientID, err)
		result.NoDestinations = true
		return result
	}

	if len(tokens) == 0 {
		result.NoDestinations = true
		return result
	}

	msg := PushMessage{Title: n.Title, Body: n.Message, Data: pushData(n)}

	var invalid []string
	for _, token := range tokens {
		err := s.push.Send(ctx, token.FCMToken, msg)
		switch {
		case err == nil:
			result.Sent++
		case isInvalidToken(err):
			result.Failed++
			invalid = append(invalid, token.FCMToken)
		default:
			result.Failed++
			log.WithField("user_id", n.RecipientID).Printf("Push delivery failed: %v", err)
		}
	}

	if len(invalid) > 0 {
		if err := s.store.DisableDeviceTokens(ctx, invalid); err != nil {
			log.Printf("Failed to disable %d invalid device tokens: %v", len(invalid), err)
		} else {
			result.Disabled = len(invalid)
		}
	}

	return result
}

func (s *Service) deliverEmail(ctx context.Context, n *models.Notification) *EmailResult {
	if s.mailer == nil {
		return &EmailResult{Skipped: "no mailer configured"}
	}

	user, err := s.store.UserByID(ctx, n.RecipientID)
	if err != nil {
		log.Printf("Failed to load recipient %d for email: %v", n.RecipientID, err)
		return &EmailResult{Skipped: "recipient not found"}
	}

	if user.Email == "" {
		return &EmailResult{Skipped: "recipient has no email"}
	}

	if err := s.mailer.SendEmail(ctx, user.Email, n.Title, n.Message); err != nil {
		log.Printf("Failed to email notification %d: %v", n.ID, err)
		return &EmailResult{}
	}

	return &EmailResult{Sent: true}
}

func channels(p Payload) []Channel {
	if len(p.Channels) == 0 {
		return []Channel{InApp, Push}
	}

	seen := make(map[Channel]bool, len(p.Channels))
	out := make([]Channel, 0, len(p.Channels))
	for _, c := range p.Channels {
		if c != InApp && c != Push && c != Email {
			continue
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func dedupe(ids []uint, exclude []uint) []uint {
	skip := make(map[uint]bool, len(ids)+len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if skip[id] {
			continue
		}
		skip[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// pushData flattens the notification into string values for the push provider.
func pushData(n *models.Notification) map[string]string {
	data := map[string]string{
		"notificationId": strconv.FormatUint(uint64(n.ID), 10),
		"type":           n.Type,
	}

	if n.EntityType != "" {
		data["entityType"] = n.EntityType
		data["screen"] = n.EntityType
	}
	if n.EntityID != nil {
		data["entityId"] = strconv.FormatUint(uint64(*n.EntityID), 10)
	}

	for k, v := range n.Data {
		if _, taken := data[k]; taken {
			continue
		}
		data[k] = stringify(v)
	}

	return data
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
