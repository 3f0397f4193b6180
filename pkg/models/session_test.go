package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInteractiveSessionType(t *testing.T) {
	parsed, err := ParseInteractiveSessionType("jupyter")
	require.NoError(t, err)
	assert.Equal(t, SessionTypeJupyter, parsed)

	_, err = ParseInteractiveSessionType("terminl")
	assert.Error(t, err)

	// The catalog is closed: close misses are not fuzzy-matched.
	_, err = ParseInteractiveSessionType("Jupyter")
	assert.Error(t, err)
}

func TestSessionTypeNames(t *testing.T) {
	assert.Equal(t, "[jupyter]", SessionTypeNames())
}
