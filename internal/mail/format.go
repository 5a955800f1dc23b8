// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mail

import (
	"net/url"
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>?`)

// StripTags removes anything that looks like an HTML tag. It produces the
// plain-text alternative of an HTML body; it is not a sanitizer.
func StripTags(html string) string {
	return tagPattern.ReplaceAllString(html, "")
}

// MailtoLink builds a mailto: URL addressed to recipient whose subject is
// subject and whose body lists the sender and their message. The caller
// uses it when the message could not be delivered directly.
func MailtoLink(recipient, subject, name, email, message string) string {
	body := "Name: " + name + "\nEmail: " + email + "\n\nMessage:\n" + message
	return "mailto:" + recipient + "?subject=" + encodeComponent(subject) + "&body=" + encodeComponent(body)
}

// encodeComponent percent-encodes s for a URL query, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
