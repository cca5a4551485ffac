package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendEmail delivers a notification through SendGrid. When no API key is
// configured the email is skipped so local setups work without an account.
func sendEmail(toName, toEmail, subject, textContent string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		log.Printf("[INFO] SENDGRID_API_KEY not set, skipping email to %s", toEmail)
		return nil
	}

	from := mail.NewEmail("Seva Donations", "no-reply@seva-donations.org")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, textContent, "")
	client := sendgrid.NewSendClient(apiKey)

	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}

	if response.StatusCode >= 400 {
		log.Printf("SendGrid API Error: Status Code %d, Body: %s", response.StatusCode, response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	log.Printf("Email sent successfully to %s. Status Code: %d", toEmail, response.StatusCode)
	return nil
}

func newDonationEmailBody(donorName, ngoName, foodType string, quantity int) string {
	return fmt.Sprintf(
		"Hello %s,\n\nA new food donation has been pledged to you through Seva.\n\nDonor: %s\nFood type: %s\nQuantity: %d\n\nPlease log in to review and accept the donation.\n",
		ngoName, donorName, foodType, quantity,
	)
}
