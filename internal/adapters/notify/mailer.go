// Package notify turns notifications into transactional emails and fans
// them out to every configured dispatcher.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/protecthire/protecthire/internal/domain/model"
	"github.com/protecthire/protecthire/pkg/logger"
)

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Body    string
}

var templates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`
{{- define "welcome" -}}
Hello {{.Guard.Name}},

Welcome to ProtectHire! Your {{.Guard.Role}} profile in {{.Guard.Location}} is now listed
and clients can find you in the guard directory.

Thank you for registering.

Best regards,
The ProtectHire Team
{{- end -}}

{{- define "booking" -}}
Hello {{.Guard.Name}},

You have a new booking request{{with .Booking.ClientName}} from {{.}}{{end}}.

Reference: {{.Booking.Reference}}
Dates:     {{.Booking.Window.From}} to {{.Booking.Window.To}}
Shift:     {{.Booking.Window.Start}} - {{.Booking.Window.End}}
Address:   {{.Booking.Address}}
{{- with .Booking.Instructions}}
Notes:     {{.}}{{end}}
{{- if .Estimate}}{{if .Estimate.Priced}}
Estimate:  {{money .Estimate.Cost}} ({{.Estimate.Basis}}, {{.Estimate.Days}} day(s)){{end}}{{end}}

Please confirm with the client.

The ProtectHire Team
{{- end -}}
`))

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// LogSender simulates delivery by writing the message to the log.
type LogSender struct {
	Log logger.Logger
}

// Send implements Sender.
func (s LogSender) Send(ctx context.Context, m Message) error {
	s.Log.Info(ctx, "email sent",
		logger.String("to", m.To),
		logger.String("subject", m.Subject),
		logger.String("body", m.Body))
	return nil
}

// Mailer renders notifications into emails and hands them to a Sender.
type Mailer struct {
	sender Sender
}

// NewMailer builds a mailer over sender.
func NewMailer(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

// Dispatch implements worker.Dispatcher.
func (m *Mailer) Dispatch(ctx context.Context, n model.Notification) error { //nolint:gocritic // hugeParam
	msgs, err := Render(n)
	if err != nil {
		return err
	}
	for _, msg := range msgs {
		if err := m.sender.Send(ctx, msg); err != nil {
			return fmt.Errorf("send %q: %w", msg.Subject, err)
		}
	}
	return nil
}

// Render produces the emails for n. Guards have no email address on file,
// so guard mail is addressed to the guard id.
func Render(n model.Notification) ([]Message, error) { //nolint:gocritic // hugeParam
	switch n.Kind {
	case model.KindGuardRegistered:
		body, err := execute("welcome", n)
		if err != nil {
			return nil, err
		}
		return []Message{{
			To:      guardAddress(n),
			Subject: "Welcome to ProtectHire!",
			Body:    body,
		}}, nil

	case model.KindBookingRequested:
		if n.Booking == nil {
			return nil, fmt.Errorf("%w: booking notification without booking", ErrMalformed)
		}
		body, err := execute("booking", n)
		if err != nil {
			return nil, err
		}
		msgs := []Message{{
			To:      guardAddress(n),
			Subject: "New booking request " + n.Booking.Reference,
			Body:    body,
		}}
		if email := strings.TrimSpace(n.Booking.ClientEmail); email != "" {
			msgs = append(msgs, Message{
				To:      email,
				Subject: "Your ProtectHire booking request " + n.Booking.Reference,
				Body: fmt.Sprintf("Your request to book %s on %s has been sent. Reference %s.",
					n.Guard.Name, n.Booking.Window.From, n.Booking.Reference),
			})
		}
		return msgs, nil

	default:
		return nil, fmt.Errorf("%w: kind %q", ErrMalformed, n.Kind)
	}
}

func guardAddress(n model.Notification) string { //nolint:gocritic // hugeParam
	return "guard:" + n.Guard.ID
}

func execute(name string, n model.Notification) (string, error) { //nolint:gocritic // hugeParam
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, n); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
