package notify

import (
	"context"

	"github.com/pkg/errors"
)

// Channel is a delivery transport for a notification.
type Channel string

const (
	InApp Channel = "in_app"
	Push  Channel = "push"
	Email Channel = "email"
)

// Event names pushed to connected clients.
const (
	EventNew     = "notification:new"
	EventUpdated = "notification:updated"
	EventAllRead = "notification:all_read"
)

// ErrInvalidToken is returned by a PushSender when the provider reports the
// destination as unregistered or malformed.
var ErrInvalidToken = errors.New("invalid push token")

// PushMessage is what a push provider receives. Data values are strings.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

type PushSender interface {
	Send(ctx context.Context, token string, msg PushMessage) error
}

type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Emitter delivers an event to every live connection of a user. It reports
// whether at least one connection received it.
type Emitter interface {
	EmitToUser(userID uint, event string, data interface{}) bool
}

// InAppResult is the outcome of the in-app channel.
type InAppResult struct {
	Delivered bool `json:"delivered"`
}

// PushResult is the outcome of the push channel.
type PushResult struct {
	NoDestinations bool `json:"noDestinations,omitempty"`
	Sent           int  `json:"sent"`
	Failed         int  `json:"failed"`
	Disabled       int  `json:"disabled"`
}

// EmailResult is the outcome of the email channel.
type EmailResult struct {
	Sent    bool   `json:"sent"`
	Skipped string `json:"skipped,omitempty"`
}

func isInvalidToken(err error) bool {
	return errors.Is(err, ErrInvalidToken)
}
