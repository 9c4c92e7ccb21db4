package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var tmpl = template.Must(template.New("emails").Parse(`
{{define "profile_updated"}}
<p>Hi {{.Username}},</p>
<p>Your profile was updated. If this wasn't you, change your password right away.</p>
{{end}}

{{define "password_changed"}}
<p>Hi {{.Username}},</p>
<p>Your password was changed. If this wasn't you, contact support immediately.</p>
{{end}}
`))

// Render produces subject and HTML body for a named template.
func Render(name string, data map[string]any) (subject, html string, err error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", name, err)
	}
	switch name {
	case TemplateProfileUpdated:
		subject = "Your profile was updated"
	case TemplatePasswordChanged:
		subject = "Your password was changed"
	default:
		subject = "Notification"
	}
	return subject, buf.String(), nil
}
