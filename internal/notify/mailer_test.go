package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"scs-go/internal/config"
	"scs-go/internal/scs"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m...)
	return nil
}

func sampleFollowUp() scs.FollowUp {
	return scs.FollowUp{
		ID:        1,
		TicketID:  7,
		Author:    "admin",
		Message:   "Called the customer <back>",
		Timestamp: scs.NewTimestamp(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)),
	}
}

func TestMailer_SendFollowUp(t *testing.T) {
	sender := &fakeSender{}
	m := NewMailer("console@example.com", "support@example.com", sender)

	require.NoError(t, m.SendFollowUp(context.Background(), sampleFollowUp()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"Follow-up on ticket #7"}, msg.GetHeader("Subject"))
	assert.Equal(t, []string{"support@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"console@example.com"}, msg.GetHeader("From"))

	var raw strings.Builder
	_, err := msg.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "text/plain")
	assert.Contains(t, raw.String(), "text/html")
	assert.Contains(t, raw.String(), "&lt;back&gt;")
}

func TestMailer_SendFollowUp_Error(t *testing.T) {
	m := NewMailer("a@example.com", "b@example.com", &fakeSender{err: errors.New("connection refused")})

	err := m.SendFollowUp(context.Background(), sampleFollowUp())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email")
}

func TestNewMailerFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.EmailConfig
		wantNil bool
		wantErr bool
	}{
		{name: "disabled", cfg: config.EmailConfig{}, wantNil: true},
		{name: "enabled", cfg: config.EmailConfig{Enabled: true, Host: "smtp.example.com", To: "ops@example.com", Username: "bot@example.com"}},
		{name: "missing host", cfg: config.EmailConfig{Enabled: true, To: "ops@example.com"}, wantNil: true, wantErr: true},
		{name: "missing recipient", cfg: config.EmailConfig{Enabled: true, Host: "smtp.example.com"}, wantNil: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMailerFromConfig(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantNil, got == nil)
		})
	}

	t.Run("from falls back to username", func(t *testing.T) {
		got, err := NewMailerFromConfig(config.EmailConfig{Enabled: true, Host: "smtp.example.com", To: "ops@example.com", Username: "bot@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "bot@example.com", got.from)
	})
}
