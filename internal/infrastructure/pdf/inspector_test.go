package pdf

import (
	"testing"

	"github.com/preload/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspector_Inspect(t *testing.T) {
	inspector := NewInspector(2)

	info, err := inspector.Inspect(testutil.MinimalPDF(3, "Factura A"))
	require.NoError(t, err)
	assert.Equal(t, 3, info.Pages)
}

func TestInspector_RejectsNonPDF(t *testing.T) {
	_, err := NewInspector(0).Inspect([]byte("PK\x03\x04 not a pdf"))
	assert.ErrorIs(t, err, ErrNotPDF)

	_, err = NewInspector(0).Inspect([]byte("%PDF-1.4\ngarbage"))
	assert.Error(t, err)
}

func TestExtractFields(t *testing.T) {
	text := `PROVEEDOR SA  CUIT: 20-12345678-6
Cliente CUIT 30712345671
Repetido 20123456786
C.A.E. N°: 71234567890123  Vto. CAE: 10/03/2026`

	cuits, cae := extractFields(text)
	assert.Equal(t, []string{"20123456786", "30712345671"}, cuits)
	assert.Equal(t, "71234567890123", cae)

	cuits, cae = extractFields("sin datos fiscales")
	assert.Empty(t, cuits)
	assert.Empty(t, cae)

	_, cae = extractFields("CAI 12345678901234")
	assert.Equal(t, "12345678901234", cae)
}
