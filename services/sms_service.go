// services/sms_service.go
package services

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/clinvite/clinvite_backend/config"
	"github.com/clinvite/clinvite_backend/utils"
)

// Delivery is the outbound SMS capability. One attempt per call; failures are
// reported back, never swallowed, and no retry policy lives here.
type Delivery interface {
	Send(ctx context.Context, phone, message string) error
}

// NewDelivery picks the delivery implementation from configuration.
func NewDelivery(cfg *config.Config) Delivery {
	if cfg.SMSDriver == "twilio" {
		return NewTwilioSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromPhone)
	}
	return &LogSMSService{}
}

// TwilioSMSService dispatches SMS through the Twilio REST API.
type TwilioSMSService struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSMSService(accountSID, authToken, from string) *TwilioSMSService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSMSService{client: client, from: from}
}

func (s *TwilioSMSService) Send(ctx context.Context, phone, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.from)
	params.SetBody(message)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to send SMS to %s via Twilio", phone)
		return fmt.Errorf("failed to send sms via twilio: %w", err)
	}
	return nil
}

// LogSMSService logs instead of sending. For development and tests only.
type LogSMSService struct{}

func (s *LogSMSService) Send(ctx context.Context, phone, message string) error {
	utils.Logger.Infof("SMS to %s: %s", phone, message)
	return nil
}

// OTPMessage renders the verification SMS body.
func OTPMessage(code string) string {
	return fmt.Sprintf("Your verification code is: %s. Valid for 10 minutes.", code)
}
