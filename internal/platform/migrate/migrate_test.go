package migrate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesInputs(t *testing.T) {
	_, err := New("", "migrations", nil)
	require.Error(t, err)

	_, err = New("postgres://localhost/db", "", nil)
	require.Error(t, err)

	_, err = New("postgres://localhost/db", "does-not-exist", nil)
	require.Error(t, err)

	r, err := New("postgres://localhost/db", t.TempDir(), nil)
	require.NoError(t, err)
	assert.NotNil(t, r.log)
}
