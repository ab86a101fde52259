package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/pkg/errors"
	fcm "google.golang.org/api/fcm/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// FCMSender delivers push messages through the Firebase Cloud Messaging v1 API.
type FCMSender struct {
	messages *fcm.ProjectsMessagesService
	parent   string
}

func NewFCMSender(ctx context.Context, projectID, credentialsFile string) (*FCMSender, error) {
	svc, err := fcm.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create FCM client")
	}
	return &FCMSender{messages: svc.Projects.Messages, parent: "projects/" + projectID}, nil
}

func (s *FCMSender) Send(ctx context.Context, token string, msg notify.PushMessage) error {
	req := &fcm.SendMessageRequest{
		Message: &fcm.Message{
			Token: token,
			Notification: &fcm.Notification{
				Title: msg.Title,
				Body:  msg.Body,
			},
			Data: msg.Data,
			Android: &fcm.AndroidConfig{
				Priority: "HIGH",
			},
		},
	}

	_, err := s.messages.Send(s.parent, req).Context(ctx).Do()
	if err == nil {
		return nil
	}

	if unregistered(err) {
		return errors.Wrap(notify.ErrInvalidToken, err.Error())
	}
	return errors.Wrap(err, "fcm send failed")
}

// unregistered reports whether FCM rejected the token itself rather than the request.
func unregistered(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}

	switch gerr.Code {
	case http.StatusNotFound:
		return true
	case http.StatusBadRequest:
		body := gerr.Body + gerr.Message
		return strings.Contains(body, "UNREGISTERED") || strings.Contains(body, "registration token")
	default:
		return false
	}
}
