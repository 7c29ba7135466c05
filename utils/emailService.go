package utils

import (
	"fmt"
	"lms/config"
	"net/smtp"
	"strings"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Course Platform <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// SendCertificateIssuedEmail congratulates a student on course completion
func SendCertificateIssuedEmail(email, name, courseTitle, verificationCode string) {
	subject := "Your Course Completion Certificate is Ready!"
	body := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Certificate Issued</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">Congratulations, ` + name + `!</h2>
        <p>You have completed <strong>` + courseTitle + `</strong> and your certificate has been issued.</p>
        <p>Your verification code:</p>
        <p style="font-size: 18px; font-weight: bold; letter-spacing: 2px;">` + verificationCode + `</p>
        <p>Anyone can verify your certificate with this code on the platform.</p>
        <hr style="border: 1px solid #eee; margin: 20px 0;">
        <p style="font-size: 12px; color: #666;">This is an automated message. Please do not reply.</p>
    </div>
</body>
</html>`

	if err := SendEmail([]string{email}, subject, body); err != nil {
		fmt.Println("Failed to send certificate email to", email)
	}
}
