package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const defaultZoomLink = "https://zoom.us/j/8201808284"

// sessionEmailData feeds the session lifecycle templates.
type sessionEmailData struct {
	ClientName  string
	Date        string
	Time        string
	Duration    int
	SessionType string
	ZoomLink    string
	Reason      string
}

// formatDateTime renders a session instant the way the emails show it,
// e.g. "Monday, June 2, 2025" and "9:00 AM".
func formatDateTime(t time.Time) (string, string) {
	return t.Format("Monday, January 2, 2006"), t.Format("3:04 PM")
}

// formatCents renders a cent amount as dollars, e.g. "$2500.00".
func formatCents(cents int) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

const emailShell = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f9fafb;">
  <table role="presentation" style="width: 100%; border-collapse: collapse;">
    <tr>
      <td align="center" style="padding: 40px 0;">
        <table role="presentation" style="width: 600px; max-width: 100%; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="background: {{.HeaderBackground}}; padding: 40px; text-align: center; border-radius: 8px 8px 0 0;">
              <h1 style="margin: 0; color: #ffffff; font-size: 24px; font-weight: bold;">{{.Heading}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 40px;">{{.Body}}</td>
          </tr>
          <tr>
            <td style="background-color: #f9fafb; padding: 30px; text-align: center; border-radius: 0 0 8px 8px;">
              <p style="margin: 0; font-size: 14px; color: #6b7280;">© 2025 Purposeful Live Coaching. All rights reserved.</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`

var shellTmpl = template.Must(template.New("shell").Parse(emailShell))

type shellData struct {
	Title            string
	Heading          string
	HeaderBackground string
	Body             template.HTML
}

func renderShell(data shellData) (string, error) {
	var buf bytes.Buffer
	if err := shellTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}

var bookingBodyTmpl = template.Must(template.New("booking").Parse(`
<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #374151;">Hi {{.ClientName}},</p>
<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #374151;">Your coaching session has been successfully scheduled! We're looking forward to connecting with you.</p>
<div style="background-color: #f9fafb; border-left: 4px solid #f43f5e; padding: 20px; margin: 30px 0; border-radius: 4px;">
  <h2 style="margin: 0 0 15px; font-size: 18px; color: #111827;">Session Details</h2>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 8px 0; color: #6b7280; font-size: 14px;">Date:</td><td style="padding: 8px 0; color: #111827; font-weight: 600; font-size: 14px;">{{.Date}}</td></tr>
    <tr><td style="padding: 8px 0; color: #6b7280; font-size: 14px;">Time:</td><td style="padding: 8px 0; color: #111827; font-weight: 600; font-size: 14px;">{{.Time}}</td></tr>
    <tr><td style="padding: 8px 0; color: #6b7280; font-size: 14px;">Duration:</td><td style="padding: 8px 0; color: #111827; font-weight: 600; font-size: 14px;">{{.Duration}} minutes</td></tr>
    {{if .SessionType}}<tr><td style="padding: 8px 0; color: #6b7280; font-size: 14px;">Type:</td><td style="padding: 8px 0; color: #111827; font-weight: 600; font-size: 14px;">{{.SessionType}}</td></tr>{{end}}
  </table>
</div>
<div style="text-align: center; margin: 40px 0;">
  <a href="{{.ZoomLink}}" style="display: inline-block; background-color: #f43f5e; color: #ffffff; text-decoration: none; padding: 14px 32px; border-radius: 6px; font-weight: 600; font-size: 16px;">Join Zoom Meeting</a>
</div>
<p style="margin: 30px 0 0; font-size: 14px; line-height: 1.6; color: #6b7280;">We recommend adding this session to your calendar so you don't miss it!</p>`))

var cancellationBodyTmpl = template.Must(template.New("cancellation").Parse(`
<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #374151;">Hi {{.ClientName}},</p>
<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #374151;">Your coaching session scheduled for <strong>{{.Date}}</strong> at <strong>{{.Time}}</strong> has been cancelled.</p>
{{if .Reason}}<div style="background-color: #f9fafb; border-left: 4px solid #6b7280; padding: 20px; margin: 30px 0; border-radius: 4px;">
  <p style="margin: 0; font-size: 14px; color: #6b7280;"><strong>Reason:</strong> {{.Reason}}</p>
</div>{{end}}
<p style="margin: 30px 0 0; font-size: 14px; line-height: 1.6; color: #6b7280; text-align: center;">You can book another session any time from the booking page.</p>`))

var rescheduleBodyTmpl = template.Must(template.New("reschedule").Parse(`
<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #374151;">Hi {{.ClientName}},</p>
<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #374151;">Your coaching session has been rescheduled to a new time.</p>
<div style="background-color: #f9fafb; border-left: 4px solid #3b82f6; padding: 20px; margin: 30px 0; border-radius: 4px;">
  <h2 style="margin: 0 0 15px; font-size: 18px; color: #111827;">New Session Details</h2>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 8px 0; color: #6b7280; font-size: 14px;">Date:</td><td style="padding: 8px 0; color: #111827; font-weight: 600; font-size: 14px;">{{.Date}}</td></tr>
    <tr><td style="padding: 8px 0; color: #6b7280; font-size: 14px;">Time:</td><td style="padding: 8px 0; color: #111827; font-weight: 600; font-size: 14px;">{{.Time}}</td></tr>
    <tr><td style="padding: 8px 0; color: #6b7280; font-size: 14px;">Duration:</td><td style="padding: 8px 0; color: #111827; font-weight: 600; font-size: 14px;">{{.Duration}} minutes</td></tr>
  </table>
</div>
<div style="text-align: center; margin: 40px 0;">
  <a href="{{.ZoomLink}}" style="display: inline-block; background-color: #3b82f6; color: #ffffff; text-decoration: none; padding: 14px 32px; border-radius: 6px; font-weight: 600; font-size: 16px;">Join Zoom Meeting</a>
</div>`))

var reminder24BodyTmpl = template.Must(template.New("reminder24").Parse(`
<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #374151;">Hi {{.ClientName}},</p>
<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #374151;">This is a friendly reminder that your coaching session is scheduled for tomorrow.</p>
<div style="background-color: #f0fdf4; border: 2px solid #10b981; padding: 20px; margin: 30px 0; border-radius: 8px; text-align: center;">
  <p style="margin: 0 0 10px; font-size: 14px; color: #047857; text-transform: uppercase; font-weight: 600;">Tomorrow</p>
  <p style="margin: 0 0 5px; font-size: 20px; font-weight: bold; color: #065f46;">{{.Date}}</p>
  <p style="margin: 0; font-size: 24px; font-weight: bold; color: #065f46;">{{.Time}}</p>
</div>
<div style="text-align: center; margin: 40px 0;">
  <a href="{{.ZoomLink}}" style="display: inline-block; background-color: #10b981; color: #ffffff; text-decoration: none; padding: 14px 32px; border-radius: 6px; font-weight: 600; font-size: 16px;">Join Zoom Meeting</a>
</div>`))

var reminder1BodyTmpl = template.Must(template.New("reminder1").Parse(`
<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #374151;">Hi {{.ClientName}},</p>
<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #374151;">Your coaching session starts in <strong>1 hour</strong> at <strong>{{.Time}}</strong>.</p>
<div style="background-color: #fffbeb; border: 2px solid #f59e0b; padding: 20px; margin: 30px 0; border-radius: 8px;">
  <p style="margin: 0 0 15px; font-size: 14px; color: #92400e; font-weight: 600;">Quick Preparation Tips:</p>
  <ul style="margin: 0; padding-left: 20px; color: #92400e; line-height: 1.8;">
    <li>Find a quiet, comfortable space</li>
    <li>Test your camera and microphone</li>
    <li>Have a glass of water nearby</li>
    <li>Prepare any topics you'd like to discuss</li>
  </ul>
</div>
<div style="text-align: center; margin: 40px 0;">
  <a href="{{.ZoomLink}}" style="display: inline-block; background-color: #f59e0b; color: #ffffff; text-decoration: none; padding: 16px 40px; border-radius: 6px; font-weight: 600; font-size: 18px;">Join Zoom Meeting Now</a>
</div>`))

var subscriptionBodyTmpl = template.Must(template.New("subscription").Parse(`
<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #374151;">Hi {{.CustomerName}},</p>
<p style="margin: 0 0 20px; font-size: 16px; line-height: 1.6; color: #374151;">{{.Message}}</p>
{{if .Amount}}<div style="background-color: #f9fafb; border-left: 4px solid #f43f5e; padding: 20px; margin: 30px 0; border-radius: 4px;">
  <table style="width: 100%; border-collapse: collapse;">
    {{if .ProductName}}<tr><td style="padding: 8px 0; color: #6b7280; font-size: 14px;">Package:</td><td style="padding: 8px 0; color: #111827; font-weight: 600; font-size: 14px;">{{.ProductName}}</td></tr>{{end}}
    <tr><td style="padding: 8px 0; color: #6b7280; font-size: 14px;">Amount:</td><td style="padding: 8px 0; color: #111827; font-weight: 600; font-size: 14px;">{{.Amount}}</td></tr>
  </table>
</div>{{end}}`))

func renderBody(tmpl *template.Template, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email body: %w", err)
	}
	return template.HTML(buf.String()), nil
}
