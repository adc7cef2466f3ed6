// Package notify delivers best-effort SMS messages to customers.
//
// Senders never return errors to callers: a failed delivery is logged and
// counted, and Send reports false. Booking and completion flows therefore
// never fail because of the SMS gateway.
package notify

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fatihsenyuz/Randevu/internal/search"
)

// Notifier sends a text message to a phone number. It reports whether the
// message was accepted by the gateway.
type Notifier interface {
	Send(ctx context.Context, phone, text string) bool
}

// Config selects and configures the SMS sender.
type Config struct {
	Enabled     bool
	AccountSID  string
	AuthToken   string
	From        string
	CountryCode string        // default calling code for numbers without '+', e.g. "90"
	Timeout     time.Duration // per-message deadline; 0 means no extra deadline
}

// ErrInvalidPhone is returned by NormalizePhone for numbers that cannot be
// turned into a dialable E.164 string.
var ErrInvalidPhone = errors.New("invalid phone number")

var smsSent = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "randevu_sms_sent_total",
		Help: "SMS delivery attempts by result (sent, failed, invalid, skipped).",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(smsSent)
}

// New returns a Twilio-backed Notifier when cfg is enabled and complete,
// and a Nop otherwise.
func New(cfg Config) Notifier {
	if !cfg.Enabled {
		return Nop{}
	}
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		log.Warn().Msg("sms enabled but twilio credentials are incomplete; notifications disabled")
		return Nop{}
	}
	return NewTwilio(cfg)
}

// Nop discards every message.
type Nop struct{}

// Send implements Notifier.
func (Nop) Send(context.Context, string, string) bool {
	smsSent.WithLabelValues("skipped").Inc()
	return false
}

// NormalizePhone converts a customer-entered number to E.164.
//
// Numbers starting with '+' keep their calling code. Otherwise every
// non-digit is stripped, a local trunk prefix ("0") is dropped, and
// countryCode is prepended unless the digits already start with it.
func NormalizePhone(raw, countryCode string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPhone
	}

	var e164 string
	if strings.HasPrefix(raw, "+") {
		e164 = "+" + search.DigitsOnly(raw)
	} else {
		d := search.DigitsOnly(raw)
		if countryCode != "" && strings.HasPrefix(d, countryCode) && len(d) > 10 {
			e164 = "+" + d
		} else {
			e164 = "+" + countryCode + strings.TrimLeft(d, "0")
		}
	}

	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// maskPhone keeps the last four digits of a number for logging.
func maskPhone(e164 string) string {
	d := search.DigitsOnly(e164)
	if len(d) <= 4 {
		return strings.Repeat("*", len(d))
	}
	return strings.Repeat("*", len(d)-4) + d[len(d)-4:]
}

// logger returns the request-scoped logger when one is attached to ctx.
func logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
