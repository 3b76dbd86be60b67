package mailer

import (
	"fmt"
	"log"
	"os"
	"strconv"

	gomail "gopkg.in/gomail.v2"
)

// Send delivers one HTML mail via SMTP_* env config. Callers on request
// paths should use SendAsync: notification mail is post-commit and
// best-effort, its failure never fails the parent operation.
func Send(to, subject, htmlBody string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return fmt.Errorf("SMTP_HOST not set")
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASSWORD"))
	return d.DialAndSend(m)
}

// SendAsync fires the mail in the background and only logs failures.
func SendAsync(to, subject, htmlBody string) {
	go func() {
		if err := Send(to, subject, htmlBody); err != nil {
			log.Printf("[MAIL] send to %s failed: %v", to, err)
		}
	}()
}

/* ===================== Templates ===================== */

func ContactReceivedBody(teacherName, studentName, message string) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>%s has unlocked your contact details on TutorHub.</p><p>Message: %s</p>",
		teacherName, studentName, message,
	)
}

func ApplicationReceivedBody(studentName, teacherName string) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>%s has applied to your tutoring post on TutorHub. Log in to review the application.</p>",
		studentName, teacherName,
	)
}
