// Package mail implements the feedback notification sender: when a feedback
// record is created it renders and dispatches two HTML emails, an alert to
// the configured admin address and an acknowledgment to the submitter.
//
// Delivery is strictly best-effort. The two sends are independent (failure of
// one never blocks the other), missing configuration downgrades to a logged
// warning, and no error from this package ever reaches an HTTP response.
package mail

import (
	"bytes"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	gomail "gopkg.in/gomail.v2"

	"github.com/aispire/go-career-backend/internal/domain"
)

// maxMessageLen caps how much of a submitted message is mailed out. Anything
// longer is truncated with a marker; the full text stays in the database.
const maxMessageLen = 5000

// Sender dispatches rendered messages. *gomail.Dialer satisfies it; tests
// substitute an in-memory recorder.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Notifier renders and sends feedback notification emails.
type Notifier struct {
	sender    Sender
	from      string
	adminAddr string
}

// NewNotifier builds a Notifier around an SMTP dialer. Host may be empty, in
// which case the notifier is disabled and every send becomes a logged no-op.
func NewNotifier(host string, port int, user, pass, from, adminAddr string) *Notifier {
	var s Sender
	if host != "" {
		s = gomail.NewDialer(host, port, user, pass)
	}
	return &Notifier{sender: s, from: from, adminAddr: adminAddr}
}

// NewNotifierWithSender wires a custom Sender; used by tests.
func NewNotifierWithSender(s Sender, from, adminAddr string) *Notifier {
	return &Notifier{sender: s, from: from, adminAddr: adminAddr}
}

// FeedbackReceived sends the admin alert and the submitter acknowledgment for
// fb. It returns whether the admin alert was delivered, so the caller can
// stamp the record. Each send is independent and failures are only logged.
func (n *Notifier) FeedbackReceived(fb *domain.Feedback) (adminSent bool) {
	if n == nil || n.sender == nil {
		log.Debug().Msg("mail transport not configured, skipping feedback notifications")
		return false
	}

	if n.adminAddr == "" {
		log.Warn().Str("feedback_id", fb.ID).
			Msg("no admin email configured, skipping admin alert")
	} else {
		if err := n.send(n.adminAddr, adminAlertSubject(fb), renderAdminAlert(fb)); err != nil {
			log.Error().Err(err).Str("feedback_id", fb.ID).Msg("admin alert failed")
		} else {
			adminSent = true
		}
	}

	if fb.Email == "" {
		return adminSent
	}
	if err := n.send(fb.Email, userAckSubject, renderUserAck(fb)); err != nil {
		log.Error().Err(err).Str("feedback_id", fb.ID).Msg("acknowledgment email failed")
	}
	return adminSent
}

func (n *Notifier) send(to, subject string, html []byte) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetHeader("Date", time.Now().UTC().Format(time.RFC1123Z))
	m.SetBody("text/html", string(html))
	return n.sender.DialAndSend(m)
}

func adminAlertSubject(fb *domain.Feedback) string {
	return "[AIspire] New " + fb.Type + " feedback from " + fb.Name
}

const userAckSubject = "Thanks for your feedback — AIspire"

// SanitizeMessage prepares a submitted message body for inclusion in an
// email: carriage returns and NUL bytes are stripped and the result is
// truncated to maxMessageLen runes-worth of bytes.
func SanitizeMessage(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\x00", "")
	if len(s) > maxMessageLen {
		s = s[:maxMessageLen] + "…(truncated)"
	}
	return s
}

func renderAdminAlert(fb *domain.Feedback) []byte {
	var buf bytes.Buffer
	// Template execution over a bytes.Buffer cannot fail for these data types.
	_ = adminAlertTmpl.Execute(&buf, adminAlertData{
		Name:      fb.Name,
		Email:     fb.Email,
		Type:      fb.Type,
		Message:   SanitizeMessage(fb.Message),
		PageURL:   fb.PageURL,
		UserAgent: fb.UserAgent,
		IPAddress: fb.IPAddress,
		CreatedAt: fb.CreatedAt.Format(time.RFC1123),
	})
	return buf.Bytes()
}

func renderUserAck(fb *domain.Feedback) []byte {
	var buf bytes.Buffer
	_ = userAckTmpl.Execute(&buf, userAckData{
		Name: fb.Name,
		Type: fb.Type,
	})
	return buf.Bytes()
}
