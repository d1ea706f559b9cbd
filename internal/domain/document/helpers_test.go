package document

import (
	"testing"

	"github.com/preload/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	de, ok := shared.AsDomainError(err)
	require.True(t, ok, "expected domain error, got %T", err)
	assert.Equal(t, code, de.Code)
}
