package services

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/aloraops/alora-site/internal/mailer"
	"github.com/aloraops/alora-site/internal/util"
)

// contactHTMLTemplate renders the HTML body. html/template escapes every
// user-supplied field, so injected markup reaches the inbox as text.
var contactHTMLTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #1a5c45; margin-bottom: 24px;">New Contact Form Submission</h2>

  <table style="width: 100%; border-collapse: collapse; margin-bottom: 24px;">
    <tr>
      <td style="padding: 8px 0; border-bottom: 1px solid #eee; font-weight: 600; width: 100px;">Name</td>
      <td style="padding: 8px 0; border-bottom: 1px solid #eee;">{{.Name}}</td>
    </tr>
    <tr>
      <td style="padding: 8px 0; border-bottom: 1px solid #eee; font-weight: 600;">Email</td>
      <td style="padding: 8px 0; border-bottom: 1px solid #eee;">
        <a href="mailto:{{.Email}}" style="color: #1a5c45;">{{.Email}}</a>
      </td>
    </tr>
    <tr>
      <td style="padding: 8px 0; border-bottom: 1px solid #eee; font-weight: 600;">Company</td>
      <td style="padding: 8px 0; border-bottom: 1px solid #eee;">{{.Company}}</td>
    </tr>
  </table>

  <h3 style="color: #1a5c45; margin-bottom: 12px;">Message</h3>
  <div style="background: #f9fafb; padding: 16px; border-radius: 8px; white-space: pre-wrap;">{{.Message}}</div>

  <hr style="border: none; border-top: 1px solid #eee; margin: 24px 0;">
  <p style="color: #666; font-size: 12px;">
    This email was sent from the Alora marketing website contact form.
  </p>
</body>
</html>`))

// buildContactEmail assembles the notification message: recipient from
// config, reply-to pointing at the submitter so a plain reply reaches
// them, and the same content rendered as text and HTML.
func buildContactEmail(req ContactRequest, recipient string) (mailer.Message, error) {
	var html bytes.Buffer
	if err := contactHTMLTemplate.Execute(&html, req); err != nil {
		return mailer.Message{}, fmt.Errorf("render html body: %w", err)
	}

	return mailer.Message{
		To:      recipient,
		ReplyTo: req.Email,
		Subject: fmt.Sprintf("[Alora Contact] Pilot Request from %s", util.SanitizeForLog(req.Company)),
		Text:    formatPlainText(req),
		HTML:    html.String(),
	}, nil
}

func formatPlainText(req ContactRequest) string {
	return fmt.Sprintf(`New contact form submission from aloraops.com

Name: %s
Email: %s
Company: %s

Message:
%s

---
This email was sent from the Alora marketing website contact form.`,
		req.Name, req.Email, req.Company, req.Message)
}
