package auth

import (
	"context"
	"fmt"
)

// ConsoleMailer writes token notifications to stdout. It stands in for a
// real delivery integration during development and tests.
type ConsoleMailer struct{}

var _ Mailer = ConsoleMailer{}

func (ConsoleMailer) SendVerification(_ context.Context, email, token string) error {
	printEmailNotification("account verification", email, "/verify-email/"+token)
	return nil
}

func (ConsoleMailer) SendPasswordReset(_ context.Context, email, token string) error {
	printEmailNotification("password reset", email, "/password-reset/"+token)
	return nil
}

func printEmailNotification(kind, email, link string) {
	fmt.Println("====== SENDING EMAIL NOTIFICATION =======")
	fmt.Printf("kind: %s\n", kind)
	fmt.Printf("to: %s\n", email)
	fmt.Printf("link: %s\n", link)
}
