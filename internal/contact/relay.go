// Package contact delivers contact-form messages, either through an HTTP
// form relay or over SMTP.
package contact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/mail"
	"net/smtp"
	"strings"
	"time"
)

var (
	// ErrRelayStatus is returned when the form relay answers with a non-2xx
	// status.
	ErrRelayStatus = errors.New("relay rejected message")

	// ErrNotConfigured is returned by relays missing their endpoint or
	// credentials.
	ErrNotConfigured = errors.New("relay not configured")

	// ErrInvalidMessage wraps the validation errors of a Message.
	ErrInvalidMessage = errors.New("invalid message")
)

// Message is one contact-form submission.
type Message struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`
}

// Validate checks that every field is present and the address parses.
func (m Message) Validate() error {
	var errs []error
	if strings.TrimSpace(m.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(m.Message) == "" {
		errs = append(errs, errors.New("message is required"))
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		errs = append(errs, fmt.Errorf("email %q: %w", m.Email, err))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	return nil
}

// Subject is the subject line used by every relay.
func (m Message) Subject() string {
	return "New message from " + m.Name
}

// Relay delivers a message.
type Relay interface {
	Send(ctx context.Context, m Message) error
}

// FormRelay posts messages as a multipart form to a form-to-mail service.
type FormRelay struct {
	Endpoint string
	Client   *http.Client
}

// NewFormRelay returns a relay posting to endpoint with the given timeout.
func NewFormRelay(endpoint string, timeout time.Duration) *FormRelay {
	return &FormRelay{Endpoint: endpoint, Client: &http.Client{Timeout: timeout}}
}

func (r *FormRelay) Send(ctx context.Context, m Message) error {
	if r.Endpoint == "" {
		return ErrNotConfigured
	}
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range [][2]string{
		{"name", m.Name},
		{"email", m.Email},
		{"message", m.Message},
		{"_subject", m.Subject()},
		{"_captcha", "false"},
	} {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return fmt.Errorf("encoding %s: %w", f[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encoding form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, &body)
	if err != nil {
		return fmt.Errorf("building relay request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to relay: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrRelayStatus, resp.StatusCode)
	}
	return nil
}

// SMTPRelay sends messages through an SMTP server with PLAIN auth.
type SMTPRelay struct {
	Host string
	Port string
	User string
	Pass string
	To   string

	// send is smtp.SendMail outside tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (r *SMTPRelay) Send(ctx context.Context, m Message) error {
	if r.User == "" || r.Pass == "" || r.Host == "" {
		return fmt.Errorf("smtp: %w", ErrNotConfigured)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	to := r.To
	if to == "" {
		to = r.User
	}

	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, m.Name, m.Email, m.Message)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + headerSafe(m.Subject()) + "\r\n" +
		"From: " + r.User + "\r\n" +
		"Reply-To: " + headerSafe(m.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")

	send := r.send
	if send == nil {
		send = smtp.SendMail
	}
	auth := smtp.PlainAuth("", r.User, r.Pass, r.Host)
	if err := send(r.Host+":"+r.Port, auth, r.User, []string{to}, msg); err != nil {
		log.Printf("contact: smtp send via %s failed: %v", r.Host, err)
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

// headerSafe strips line breaks so user input cannot add headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
