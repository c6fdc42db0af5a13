package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"renthub/internal/models"
)

// Templates renders the notification bodies queued into the outbox. All
// links point into the SPA at the configured public URL.
type Templates struct {
	appURL string
}

func NewTemplates(appURL string) *Templates {
	if appURL == "" {
		appURL = "http://localhost:4200"
	}
	return &Templates{appURL: appURL}
}

var (
	bookingCreatedTmpl = template.Must(template.New("booking_created").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>New Booking Request</h2>
  <p>Hello {{.OwnerName}},</p>
  <p><strong>{{.TenantName}}</strong> has submitted a booking request for your property:</p>
  <div style="background-color: #f9f9f9; padding: 12px; border-radius: 6px; margin: 12px 0;">
    <h3 style="margin:0">{{.Title}}</h3>
    <p style="margin:4px 0"><strong>Location:</strong> {{.Location}}</p>
    <p style="margin:4px 0"><strong>Rent:</strong> ${{.Rent}}/month</p>
  </div>
  <p>Please open the application to review and respond to the request.</p>
  <p style="margin-top:12px"><a href="{{.AppURL}}/owner/bookings" style="background:#1e88e5;color:#fff;padding:8px 12px;border-radius:4px;text-decoration:none;">Open Dashboard</a></p>
  <p style="margin-top:12px">Best regards,<br>RentHub Team</p>
</div>`))

	bookingStatusTmpl = template.Must(template.New("booking_status").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: {{if .Approved}}#2E7D32{{else}}#C62828{{end}};">{{if .Approved}}Request Approved{{else}}Request Rejected{{end}}</h2>
  <p>Hello {{.TenantName}},</p>
  <p><strong>{{.OwnerName}}</strong> has {{.StatusLower}} your booking request for <strong>{{.Title}}</strong> ({{.Location}}).</p>
  {{if .Approved}}
  <div style="background-color: #e8f5e9; padding: 12px; border-radius: 6px; margin: 12px 0;">
    <p><strong>Great news!</strong> Please open the application to view the owner's contact details and next steps.</p>
  </div>
  {{else}}
  <p>For more information, please open the application to view details and other available properties.</p>
  {{end}}
  <p style="margin-top:12px"><a href="{{.AppURL}}/bookings" style="background:#1e88e5;color:#fff;padding:8px 12px;border-radius:4px;text-decoration:none;">Open My Bookings</a></p>
  <p style="margin-top:12px">Best regards,<br>RentHub Team</p>
</div>`))

	propertyListedTmpl = template.Must(template.New("property_listed").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>New Property Listed!</h2>
  <p>Hello,</p>
  <p><strong>{{.OwnerName}}</strong> has uploaded a new property on our website.</p>
  <div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; margin: 15px 0;">
    <h3 style="margin-top: 0;">{{.Title}}</h3>
    <p><strong>Location:</strong> {{.Location}}</p>
    <p><strong>Rent:</strong> ${{.Rent}}/month</p>
    <p>{{.Description}}</p>
  </div>
  <p>Please check it out if you are interested.</p>
  <p>Best regards,<br>RentHub Team</p>
</div>`))

	bookingReminderTmpl = template.Must(template.New("booking_reminder").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Pending Booking Requests</h2>
  <p>Hello {{.OwnerName}},</p>
  <p>You have <strong>{{.Count}}</strong> booking request(s) waiting for your response, the oldest for <strong>{{.Title}}</strong>.</p>
  <p>Tenants are more likely to rent when owners respond within a day.</p>
  <p style="margin-top:12px"><a href="{{.AppURL}}/owner/bookings" style="background:#1e88e5;color:#fff;padding:8px 12px;border-radius:4px;text-decoration:none;">Review Requests</a></p>
  <p style="margin-top:12px">Best regards,<br>RentHub Team</p>
</div>`))
)

func (t *Templates) render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// BookingCreated builds the owner notification for a new request.
func (t *Templates) BookingCreated(ownerEmail, ownerName, tenantName string, p *models.Property) (*models.OutboxEmail, error) {
	body, err := t.render(bookingCreatedTmpl, map[string]any{
		"OwnerName":  ownerName,
		"TenantName": tenantName,
		"Title":      p.Title,
		"Location":   p.Location,
		"Rent":       p.Rent,
		"AppURL":     t.appURL,
	})
	if err != nil {
		return nil, err
	}
	return &models.OutboxEmail{
		Kind:      models.EmailBookingCreated,
		Recipient: ownerEmail,
		Subject:   "New Booking Request for Your Property",
		Body:      body,
	}, nil
}

// BookingStatus builds the tenant notification for an owner decision.
func (t *Templates) BookingStatus(tenantEmail, tenantName, ownerName, status string, p *models.Property) (*models.OutboxEmail, error) {
	approved := status == models.StatusApproved
	body, err := t.render(bookingStatusTmpl, map[string]any{
		"TenantName":  tenantName,
		"OwnerName":   ownerName,
		"Title":       p.Title,
		"Location":    p.Location,
		"Approved":    approved,
		"StatusLower": strings.ToLower(status),
		"AppURL":      t.appURL,
	})
	if err != nil {
		return nil, err
	}
	subject := fmt.Sprintf("Booking request %s: %s", strings.ToLower(status), p.Title)
	if approved {
		subject = fmt.Sprintf("Your booking request has been approved: %s", p.Title)
	}
	return &models.OutboxEmail{
		Kind:      models.EmailBookingStatus,
		Recipient: tenantEmail,
		Subject:   subject,
		Body:      body,
	}, nil
}

// PropertyListed builds the tenant alert for a fresh listing.
func (t *Templates) PropertyListed(tenantEmail, ownerName string, p *models.Property) (*models.OutboxEmail, error) {
	body, err := t.render(propertyListedTmpl, map[string]any{
		"OwnerName":   ownerName,
		"Title":       p.Title,
		"Location":    p.Location,
		"Rent":        p.Rent,
		"Description": p.Description,
	})
	if err != nil {
		return nil, err
	}
	return &models.OutboxEmail{
		Kind:      models.EmailPropertyListed,
		Recipient: tenantEmail,
		Subject:   "New Property Alert!",
		Body:      body,
	}, nil
}

// BookingReminder builds the daily nudge for owners sitting on requests.
func (t *Templates) BookingReminder(ownerEmail, ownerName, oldestTitle string, count int) (*models.OutboxEmail, error) {
	body, err := t.render(bookingReminderTmpl, map[string]any{
		"OwnerName": ownerName,
		"Title":     oldestTitle,
		"Count":     count,
		"AppURL":    t.appURL,
	})
	if err != nil {
		return nil, err
	}
	return &models.OutboxEmail{
		Kind:      models.EmailBookingReminder,
		Recipient: ownerEmail,
		Subject:   "You have pending booking requests",
		Body:      body,
	}, nil
}
