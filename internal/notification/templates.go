package notification

import (
	"bytes"
	"fmt"
	"text/template"
)

type emailTemplate struct {
	subject *template.Template
	body    *template.Template
}

type templateData struct {
	RecipientName string
	CompanyName   string
	Year          int
	Emissions     float64
}

func mustTemplate(name, subject, body string) emailTemplate {
	return emailTemplate{
		subject: template.Must(template.New(name + "_subject").Parse(subject)),
		body:    template.Must(template.New(name + "_body").Parse(body)),
	}
}

// One template per event type. Copy mirrors the customer-facing wording of
// the hub; the body is plain text, the provider wraps it in the branded
// layout.
var templates = map[EventType]emailTemplate{
	EventSubmitted: mustTemplate("submitted",
		"{{.CompanyName}} has shared emissions data with your company",
		`Hi {{.RecipientName}},

{{.CompanyName}} has allocated emissions to your company for {{.Year}}. Sign in to the Supplier Energy Transition Hub to review and accept or reject the allocation.`),
	EventRequested: mustTemplate("requested",
		"{{.CompanyName}} has requested emissions data from your company",
		`Hi {{.RecipientName}},

{{.CompanyName}} has requested an emissions allocation from your company for {{.Year}}. Sign in to the Supplier Energy Transition Hub to respond to the request.`),
	EventApproved: mustTemplate("approved",
		"{{.CompanyName}} has accepted your emissions allocation",
		`Hi {{.RecipientName}},

{{.CompanyName}} has accepted the emissions you allocated to them for {{.Year}}.`),
	EventRejected: mustTemplate("rejected",
		"{{.CompanyName}} has rejected your emissions allocation",
		`Hi {{.RecipientName}},

{{.CompanyName}} has rejected the emissions you allocated to them for {{.Year}}. Sign in to the Supplier Energy Transition Hub to update and resubmit the allocation.`),
	EventUpdated: mustTemplate("updated",
		"{{.CompanyName}} has updated their emissions allocation",
		`Hi {{.RecipientName}},

{{.CompanyName}} has updated the emissions allocated to your company for {{.Year}}. Sign in to the Supplier Energy Transition Hub to review the changes.`),
	EventDeleted: mustTemplate("deleted",
		"{{.CompanyName}} has deleted their emissions allocation",
		`Hi {{.RecipientName}},

{{.CompanyName}} has deleted the allocation of {{.Emissions}} tCO2e previously shared with your company for {{.Year}}. Your scope 3 total has been adjusted accordingly.`),
}

// RenderEmail produces the subject/body pair for a notification. Unknown
// event types are a programming error, not user input.
func RenderEmail(n Notification) (subject, body string, err error) {
	tpl, ok := templates[n.Type]
	if !ok {
		return "", "", fmt.Errorf("no email template for event type %q", n.Type)
	}

	data := templateData{
		RecipientName: n.Recipient.Name,
		CompanyName:   n.CompanyName,
		Year:          n.Year,
	}
	if n.Emissions != nil {
		data.Emissions = *n.Emissions
	}

	var subjBuf, bodyBuf bytes.Buffer
	if err := tpl.subject.Execute(&subjBuf, data); err != nil {
		return "", "", fmt.Errorf("rendering subject for %q: %w", n.Type, err)
	}
	if err := tpl.body.Execute(&bodyBuf, data); err != nil {
		return "", "", fmt.Errorf("rendering body for %q: %w", n.Type, err)
	}

	return subjBuf.String(), bodyBuf.String(), nil
}
