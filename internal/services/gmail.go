package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailSender sends plain-text mail as the authorized Gmail account.
type GmailSender struct {
	svc  *gmail.Service
	from string
}

// NewGmailSender authorizes with an OAuth client secret file and a previously
// saved token file.
func NewGmailSender(ctx context.Context, credentialsFile, tokenFile, from string) (*GmailSender, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read gmail client secret")
	}

	config, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse gmail client secret")
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read gmail token")
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(config.Client(ctx, tok)))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create gmail client")
	}

	return &GmailSender{svc: svc, from: from}, nil
}

func (s *GmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	raw := buildMessage(s.from, to, subject, body)

	_, err := s.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	return errors.Wrapf(err, "unable to send email to %s", to)
}

func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	if from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(body)

	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}
