package mailer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestSendAlert(t *testing.T) {
	fs := &fakeSender{}
	svc := &emailService{dialer: fs, senderEmail: "bot@example.com", senderName: "Billing", alertEmail: "ops@example.com"}

	err := svc.SendAlert("Subscriber not found", map[string]interface{}{"user_id": "<u1>", "event": "payment.captured"})
	require.NoError(t, err)
	require.Len(t, fs.sent, 1)

	assert.Equal(t, []string{"ops@example.com"}, fs.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"[Billing] Subscriber not found"}, fs.sent[0].GetHeader("Subject"))
}

func TestRenderAlertEscapesAndSorts(t *testing.T) {
	body := renderAlert("Anomaly <x>", map[string]interface{}{"user_id": "<u1>", "event": "payment.captured"})

	assert.Contains(t, body, "Anomaly &lt;x&gt;")
	assert.Contains(t, body, "&lt;u1&gt;")
	assert.Less(t, strings.Index(body, "event"), strings.Index(body, "user_id"))
}

func TestSendAlertPropagatesFailure(t *testing.T) {
	svc := &emailService{dialer: &fakeSender{err: errors.New("dial tcp: refused")}, alertEmail: "ops@example.com"}
	assert.Error(t, svc.SendAlert("x", nil))
}
