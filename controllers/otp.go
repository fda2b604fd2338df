package controllers

import (
	"errors"
	"os"

	"github.com/twilio/twilio-go"
	verify "github.com/twilio/twilio-go/rest/verify/v2"
)

func twilioClient() *twilio.RestClient {
	return twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: os.Getenv("TWILIO_ACCOUNT_SID"),
		Password: os.Getenv("TWILIO_AUTHTOKEN"),
	})
}

// SendOTP sends a verification code to the phone number via Twilio Verify
func SendOTP(phoneNumber string) error {
	client := twilioClient()

	params := verify.CreateVerificationParams{}
	params.SetTo(phoneNumber)
	params.SetChannel("sms")

	_, err := client.VerifyV2.CreateVerification(os.Getenv("TWILIO_SERVICE_ID"), &params)
	return err
}

// CheckOTP validates a code previously sent to the phone number
func CheckOTP(phoneNumber, code string) error {
	client := twilioClient()

	params := verify.CreateVerificationCheckParams{}
	params.SetTo(phoneNumber)
	params.SetCode(code)

	resp, err := client.VerifyV2.CreateVerificationCheck(os.Getenv("TWILIO_SERVICE_ID"), &params)
	if err != nil {
		return err
	}
	if resp.Status == nil || *resp.Status != "approved" {
		return errors.New("wrong OTP provided")
	}
	return nil
}
