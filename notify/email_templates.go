package notify

import (
	"bytes"
	"html/template"
)

// emailView is the data behind every email body. Empty fields render nothing.
type emailView struct {
	Accent     string
	Heading    string
	Greeting   string
	Paragraphs []string
	Highlight  string
	Delivery   *deliveryView
	Sections   []emailSection
	NoteTitle  string
	Note       string
	Closing    string
	Footer     string
	Year       int
}

type deliveryView struct {
	Date          string
	DaysRemaining int
}

type emailSection struct {
	Title string
	Rows  []emailRow
}

type emailRow struct {
	Label string
	Value string
}

const emailLayout = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: {{.Accent}}; color: white; padding: 20px; text-align: center;">
    <h1 style="margin: 0;">{{.Heading}}</h1>
  </div>
  <div style="padding: 20px; background: #f8fafc;">
    {{- if .Greeting}}
    <h2 style="color: #1e293b;">{{.Greeting}}</h2>
    {{- end}}
    {{- range .Paragraphs}}
    <p style="font-size: 16px; line-height: 1.6;">{{.}}</p>
    {{- end}}
    {{- if .Highlight}}
    <div style="background: #e0f2fe; border-left: 4px solid #0ea5e9; padding: 15px; margin: 20px 0;">
      <h3 style="margin: 0; color: #0369a1;">{{.Highlight}}</h3>
    </div>
    {{- end}}
    {{- with .Delivery}}
    <div id="expected-delivery" style="background: #059669; color: white; padding: 20px; margin: 20px 0; border-radius: 10px; text-align: center;">
      <h2 style="margin: 0 0 10px 0; font-size: 24px;">Expected Delivery Date</h2>
      <p style="margin: 0; font-size: 28px; font-weight: bold;">{{.Date}}</p>
      {{- if gt .DaysRemaining 0}}
      <p style="margin: 5px 0 0 0; font-size: 14px;">{{.DaysRemaining}} days remaining</p>
      {{- end}}
    </div>
    {{- end}}
    {{- range .Sections}}
    <h3 style="color: #1e293b;">{{.Title}}</h3>
    <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
      {{- range .Rows}}
      <tr>
        <td style="padding: 12px; font-weight: bold;">{{.Label}}</td>
        <td style="padding: 12px;">{{.Value}}</td>
      </tr>
      {{- end}}
    </table>
    {{- end}}
    {{- if .Note}}
    <div style="background: white; border: 1px solid #e2e8f0; padding: 15px; margin: 20px 0;">
      <h4 style="margin: 0 0 10px 0; color: #1e293b;">{{.NoteTitle}}</h4>
      <p style="margin: 0; line-height: 1.6;">{{.Note}}</p>
    </div>
    {{- end}}
    {{- if .Closing}}
    <p style="margin-top: 30px;">{{.Closing}}</p>
    {{- end}}
  </div>
  <div style="background: #1e293b; color: white; padding: 20px; text-align: center;">
    <p style="margin: 0;">{{.Footer}}</p>
    <p style="margin: 5px 0 0 0; font-size: 14px; opacity: 0.8;">&copy; {{.Year}} Vee4 Group</p>
  </div>
</div>
`

var emailTemplate = template.Must(template.New("email").Parse(emailLayout))

const (
	accentBlue   = "#1e40af"
	accentGreen  = "#059669"
	accentRed    = "#dc2626"
	accentAmber  = "#d97706"
	accentPurple = "#7c3aed"
)

// renderEmail executes the shared layout, falling back to plain text on error.
func renderEmail(v emailView) string {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, v); err != nil {
		return v.Heading + "\n\n" + v.Note
	}
	return buf.String()
}
