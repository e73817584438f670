package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

var goMailDialer *gomail.Dialer

// InitEmailer builds the SMTP dialer the dispatcher sends email through.
func InitEmailer() (*gomail.Dialer, string, error) {
	host, err := getSMTPHost()
	if err != nil {
		return nil, "", err
	}

	port, err := getSMTPPort()
	if err != nil {
		return nil, "", err
	}

	sender, err := GetEmailSender()
	if err != nil {
		return nil, "", err
	}

	password, err := getEmailPassword()
	if err != nil {
		return nil, "", err
	}

	goMailDialer = gomail.NewDialer(host, port, sender, password)

	return goMailDialer, sender, nil
}

func GetEmailSender() (string, error) {
	emailSender := os.Getenv("EMAIL_SENDER")
	if emailSender == "" {
		return "", fmt.Errorf("empty email sender")
	}
	return emailSender, nil
}

func getEmailPassword() (string, error) {
	pass := os.Getenv("EMAIL_SENDER_PASSWORD")
	if pass == "" {
		return "", fmt.Errorf("empty email sender password")
	}
	return pass, nil
}

func getSMTPHost() (string, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return "", fmt.Errorf("empty smtp host")
	}
	return host, nil
}

func getSMTPPort() (int, error) {
	raw := os.Getenv("SMTP_PORT")
	if raw == "" {
		return 0, fmt.Errorf("empty smtp port")
	}

	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid smtp port %q: %v", raw, err)
	}
	return port, nil
}
