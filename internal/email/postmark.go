package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type Client struct {
	serverToken string
	fromEmail   string
	baseURL     string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(serverToken, fromEmail, baseURL string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		baseURL:     baseURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set. When it is not, the
// auth flows skip sending and treat accounts as verified.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendVerificationEmail sends the address-confirmation link issued at signup.
func (c *Client) SendVerificationEmail(toEmail, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", c.baseURL, token)
	textBody := fmt.Sprintf("Confirm your email address by clicking the link below:\n\n%s\n\nThis link expires in 24 hours.", link)
	htmlBody := fmt.Sprintf(
		`<p>Confirm your email address by clicking the link below:</p><p><a href="%s">Verify email</a></p><p>This link expires in 24 hours.</p>`,
		link,
	)
	return c.send(toEmail, "Verify your RSVP Manager email", htmlBody, textBody)
}

// SendPasswordResetEmail sends the reset link for a forgotten password.
func (c *Client) SendPasswordResetEmail(toEmail, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", c.baseURL, token)
	textBody := fmt.Sprintf("Reset your password by clicking the link below:\n\n%s\n\nThis link expires in 24 hours. If you did not request a reset, ignore this email.", link)
	htmlBody := fmt.Sprintf(
		`<p>Reset your password by clicking the link below:</p><p><a href="%s">Reset password</a></p><p>This link expires in 24 hours. If you did not request a reset, ignore this email.</p>`,
		link,
	)
	return c.send(toEmail, "Reset your RSVP Manager password", htmlBody, textBody)
}

func (c *Client) send(toEmail, subject, htmlBody, textBody string) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	payload := postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", "https://api.postmarkapp.com/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}

	return nil
}
