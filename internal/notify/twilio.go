package notify

import (
	"context"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the subset of the Twilio REST API used here.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Twilio sends SMS through the Twilio Messages API.
type Twilio struct {
	api         messageCreator
	from        string
	countryCode string
	cfg         Config
}

// NewTwilio builds a Twilio sender from cfg.
func NewTwilio(cfg Config) *Twilio {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &Twilio{api: client.Api, from: cfg.From, countryCode: cfg.CountryCode, cfg: cfg}
}

// Send implements Notifier. The Twilio client is synchronous and has no
// context support, so the call runs in a goroutine and Send returns early
// when ctx (or the configured timeout) expires.
func (t *Twilio) Send(ctx context.Context, phone, text string) bool {
	lg := logger(ctx)

	to, err := NormalizePhone(phone, t.countryCode)
	if err != nil {
		smsSent.WithLabelValues("invalid").Inc()
		lg.Warn().Err(err).Msg("sms not sent: invalid phone")
		return false
	}

	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(text)

	type result struct {
		sid string
		err error
	}
	done := make(chan result, 1)
	go func() {
		msg, err := t.api.CreateMessage(params)
		r := result{err: err}
		if msg != nil && msg.Sid != nil {
			r.sid = *msg.Sid
		}
		done <- r
	}()

	select {
	case <-ctx.Done():
		smsSent.WithLabelValues("failed").Inc()
		lg.Error().Err(ctx.Err()).Str("to", maskPhone(to)).Msg("sms send timed out")
		return false
	case r := <-done:
		if r.err != nil {
			smsSent.WithLabelValues("failed").Inc()
			lg.Error().Err(r.err).Str("to", maskPhone(to)).Msg("sms send failed")
			return false
		}
		smsSent.WithLabelValues("sent").Inc()
		lg.Info().Str("to", maskPhone(to)).Str("sid", r.sid).Msg("sms sent")
		return true
	}
}
