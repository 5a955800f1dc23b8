// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package inbox

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fingerprint identifies a submission for duplicate detection. Case and
// surrounding whitespace do not distinguish submissions.
func fingerprint(s Submission) string {
	h := sha256.New()
	for _, part := range []string{s.Name, s.Email, s.Subject, s.Message} {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
		h.Write([]byte{0})
	}
	return "contact:" + hex.EncodeToString(h.Sum(nil))
}
