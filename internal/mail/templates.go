// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var (
	contactTmpl = template.Must(template.New("contact").Parse(`<h3>New Contact Form Submission</h3>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Subject:</strong> {{.Subject}}</p>
<h4>Message:</h4>
<p>{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
`))

	replyTmpl = template.Must(template.New("reply").Parse(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <h2>Re: {{.Subject}}</h2>
  <div style="margin: 20px 0; padding: 15px; border-left: 4px solid #ddd;">
    {{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}
  </div>
  <p style="font-size: 14px; color: #666;">Regards,<br>{{.Signature}}</p>
</div>
`))
)

// DefaultSignature signs replies when the admin gives no sender name.
const DefaultSignature = "The OURSHOP Team"

// ContactNotification renders the owner notification for a contact form
// submission. User input is HTML-escaped.
func ContactNotification(name, email, subject, message string) (html, text string, err error) {
	var buf bytes.Buffer
	err = contactTmpl.Execute(&buf, struct {
		Name, Email, Subject string
		Lines                []string
	}{name, email, subject, strings.Split(message, "\n")})
	if err != nil {
		return "", "", fmt.Errorf("render contact notification: %w", err)
	}
	text = fmt.Sprintf("Name: %s\nEmail: %s\nSubject: %s\n\nMessage:\n%s\n", name, email, subject, message)
	return buf.String(), text, nil
}

// ReplyBody renders an admin reply. The text alternative is message itself.
func ReplyBody(subject, message, signature string) (html, text string, err error) {
	if signature == "" {
		signature = DefaultSignature
	}
	var buf bytes.Buffer
	err = replyTmpl.Execute(&buf, struct {
		Subject, Signature string
		Lines              []string
	}{subject, signature, strings.Split(message, "\n")})
	if err != nil {
		return "", "", fmt.Errorf("render reply: %w", err)
	}
	return buf.String(), message, nil
}
