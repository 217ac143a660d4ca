package util

import (
	"strings"

	"github.com/google/uuid"
)

const certCodePrefix = "CERT-"

// GenerateCertificateCode builds a globally unique, human-readable code,
// e.g. CERT-9F3B2A1C8D4E. Uniqueness is additionally enforced by the
// database index on certificates.certificate_code.
func GenerateCertificateCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return certCodePrefix + raw[:12]
}
