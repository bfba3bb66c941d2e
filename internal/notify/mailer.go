package notify

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"scs-go/internal/config"
	"scs-go/internal/scs"
)

// Sender delivers a composed message. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer emails follow-up notices to the support inbox.
type Mailer struct {
	from   string
	to     string
	sender Sender
}

func NewMailer(from, to string, sender Sender) *Mailer {
	return &Mailer{from: from, to: to, sender: sender}
}

// NewMailerFromConfig returns nil when email is disabled.
func NewMailerFromConfig(cfg config.EmailConfig) (*Mailer, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Host == "" || cfg.To == "" {
		return nil, fmt.Errorf("notify.email requires host and to")
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	dialer := gomail.NewDialer(cfg.Host, port, cfg.Username, cfg.Password)
	return NewMailer(from, cfg.To, dialer), nil
}

// FollowUpSubject is the subject line of a follow-up notice.
func FollowUpSubject(f scs.FollowUp) string {
	return fmt.Sprintf("Follow-up on ticket #%s", f.TicketID)
}

// Compose builds the notice for f with plain-text and HTML bodies.
func (m *Mailer) Compose(f scs.FollowUp) *gomail.Message {
	plainBody := fmt.Sprintf(`A follow-up was added to ticket #%s.

Author: %s
Time:   %s

%s
`, f.TicketID, f.Author, f.Timestamp, f.Message)

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Follow-up on ticket #%s</h2>
			<p><strong>Author:</strong> %s<br><strong>Time:</strong> %s</p>
			<p>%s</p>
		</body>
		</html>
	`, f.TicketID, html.EscapeString(f.Author), f.Timestamp, html.EscapeString(f.Message))

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", FollowUpSubject(f))
	msg.SetBody("text/plain", plainBody)
	msg.AddAlternative("text/html", htmlBody)
	return msg
}

// SendFollowUp emails the notice for f.
func (m *Mailer) SendFollowUp(_ context.Context, f scs.FollowUp) error {
	if err := m.sender.DialAndSend(m.Compose(f)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
