package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Text is the plain fallback when HTML is set. Template selects a named
// template in pkg/mailer/templates rendered with Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "verify_email"
	Data     map[string]any `json:"data,omitempty"`
}
