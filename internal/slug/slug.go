// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-friendly project slugs from titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	whitespace      = regexp.MustCompile(`\s+`)
	nonWord         = regexp.MustCompile(`[^\w-]+`)
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a slug from the given title: lower-cased, whitespace
// runs become hyphens, non-word characters are dropped.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = whitespace.ReplaceAllString(result, "-")
	result = nonWord.ReplaceAllString(result, "")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
