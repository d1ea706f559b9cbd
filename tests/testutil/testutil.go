// Package testutil provides common test utilities for the preload backend.
// It contains mock repositories, fixtures and helpers for driving HTTP
// engines and the event bus in tests.
package testutil

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/identity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestUUID generates a deterministic UUID for testing.
// The same seed always yields the same UUID.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// AdminPrincipal returns an administrator principal
func AdminPrincipal() identity.Principal {
	return identity.Principal{UserID: NewTestUUID("admin"), Username: "admin", Role: identity.RoleAdministrator}
}

// ProviderPrincipal returns a provider principal bound to cuit
func ProviderPrincipal(cuit string) identity.Principal {
	return identity.Principal{UserID: NewTestUUID("provider-" + cuit), Username: "provider-" + cuit, Role: identity.RoleProvider, CUIT: cuit}
}

// SocietyPrincipal returns a society principal; its societies come from the
// user_societies assignments keyed by its user ID
func SocietyPrincipal(username string) identity.Principal {
	return identity.Principal{UserID: NewTestUUID("society-" + username), Username: username, Role: identity.RoleSociety}
}

// MinimalPDF writes a PDF with one text line per page
func MinimalPDF(pages int, text string) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for p := 0; p < pages; p++ {
		kids += fmt.Sprintf("%d 0 R ", 4+p*2)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for p := 0; p < pages; p++ {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 3 0 R >> >> >>", 5+p*2))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// WaitForCondition polls condition until it holds or timeout elapses.
// Returns true if the condition was met.
func WaitForCondition(t *testing.T, condition func() bool, timeout, interval time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(interval)
	}
	return false
}
