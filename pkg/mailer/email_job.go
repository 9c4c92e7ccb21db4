package mailer

// Template names understood by the email worker.
const (
	TemplateProfileUpdated  = "profile_updated"
	TemplatePasswordChanged = "password_changed"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template selects one of the built-in templates; Data feeds it.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data,omitempty"`
}
