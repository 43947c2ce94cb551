package notify

import (
	"bytes"
	"html/template"
	"time"

	"github.com/logicspark/logicspark/internal/server/models"
)

const (
	contactSubject = "New Contact Message - Logic Spark"
	sponsorSubject = "New Sponsorship Request - Logic Spark"
)

const layout = `{{define "field"}}<p><strong style="color: #ff8c00;">{{.Label}}:</strong> {{.Value}}</p>{{end}}
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #ff8c00; border-radius: 10px;">
  <h2 style="color: #ff8c00; text-align: center;">{{.Title}}</h2>
  <div style="background: #f5f5f5; padding: 20px; border-radius: 8px;">
    {{range .Fields}}{{template "field" .}}
    {{end}}<p><strong style="color: #ff8c00;">Message:</strong></p>
    <p style="background: white; padding: 15px; border-radius: 5px;">{{.Message}}</p>
    <p><strong style="color: #ff8c00;">Received:</strong> {{.Received.Format "Jan 2, 2006 15:04 MST"}}</p>
  </div>
  {{if .DashboardURL}}<p style="text-align: center; margin-top: 20px;">
    <a href="{{.DashboardURL}}" style="background: #ff8c00; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">View in Dashboard</a>
  </p>{{end}}
</div>
`

var bodyTemplate = template.Must(template.New("notification").Parse(layout))

type field struct {
	Label string
	Value string
}

type body struct {
	Title        string
	Fields       []field
	Message      string
	Received     time.Time
	DashboardURL string
}

func render(b body) (string, error) {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, b); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func contactBody(c *models.Contact, dashboardURL string) (string, error) {
	return render(body{
		Title: "New Contact Message",
		Fields: []field{
			{Label: "Name", Value: c.FullName},
			{Label: "Email", Value: c.Email},
		},
		Message:      c.Message,
		Received:     c.CreatedAt,
		DashboardURL: dashboardURL,
	})
}

func sponsorBody(s *models.Sponsor, dashboardURL string) (string, error) {
	phone := "Not provided"
	if s.Phone != nil {
		phone = *s.Phone
	}
	return render(body{
		Title: "New Sponsorship Request",
		Fields: []field{
			{Label: "Name/Organization", Value: s.Name},
			{Label: "Email", Value: s.Email},
			{Label: "Phone", Value: phone},
			{Label: "Support Type", Value: s.SupportType},
		},
		Message:      s.Message,
		Received:     s.CreatedAt,
		DashboardURL: dashboardURL,
	})
}
