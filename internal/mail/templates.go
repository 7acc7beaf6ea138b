package mail

import "html/template"

// The templates are compiled once at init. html/template escapes every
// interpolated value, so submitted content cannot inject markup into the
// rendered email.

type adminAlertData struct {
	Name      string
	Email     string
	Type      string
	Message   string
	PageURL   string
	UserAgent string
	IPAddress string
	CreatedAt string
}

type userAckData struct {
	Name string
	Type string
}

var adminAlertTmpl = template.Must(template.New("adminAlert").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2 style="color: #4f46e5;">New feedback received</h2>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><strong>From</strong></td><td>{{.Name}} &lt;{{.Email}}&gt;</td></tr>
    <tr><td><strong>Type</strong></td><td>{{.Type}}</td></tr>
    {{if .PageURL}}<tr><td><strong>Page</strong></td><td>{{.PageURL}}</td></tr>{{end}}
    <tr><td><strong>Submitted</strong></td><td>{{.CreatedAt}}</td></tr>
  </table>
  <h3>Message</h3>
  <p style="white-space: pre-wrap; background: #f3f4f6; padding: 12px; border-radius: 6px;">{{.Message}}</p>
  {{if .UserAgent}}<p style="color: #6b7280; font-size: 12px;">User agent: {{.UserAgent}}</p>{{end}}
  {{if .IPAddress}}<p style="color: #6b7280; font-size: 12px;">IP: {{.IPAddress}}</p>{{end}}
</body>
</html>
`))

var userAckTmpl = template.Must(template.New("userAck").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2 style="color: #4f46e5;">Thanks for your feedback, {{.Name}}!</h2>
  <p>We received your {{.Type}} report and our team will take a look shortly.</p>
  <p>Every submission helps us make AIspire better for everyone building their career with us.</p>
  <p style="color: #6b7280; font-size: 12px;">This is an automated acknowledgment — no reply is needed.</p>
</body>
</html>
`))
