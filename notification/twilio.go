package notification

import (
	"context"
	"errors"
	"os"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender sends SMS through Twilio's messaging API.
type TwilioSender struct {
	client     *twilio.RestClient
	serviceSID string
}

// NewTwilioSender builds a sender from the TWILIO_* environment
// variables.
func NewTwilioSender() *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: os.Getenv("TWILIO_ACCOUNT_SID"),
		Password: os.Getenv("TWILIO_AUTHTOKEN"),
	})
	return &TwilioSender{
		client:     client,
		serviceSID: os.Getenv("TWILIO_MESSAGING_SERVICE_SID"),
	}
}

// Send dispatches a single SMS and returns the Twilio message sid.
func (s *TwilioSender) Send(ctx context.Context, body, to string) (string, error) {
	if to == "" {
		return "", errors.New("notification: destination required")
	}
	if body == "" {
		return "", errors.New("notification: body required")
	}

	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetBody(body)
	params.SetMessagingServiceSid(s.serviceSID)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}
