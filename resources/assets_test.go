package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconsAreEmbedded(t *testing.T) {
	for _, name := range []string{IconLogo, IconIdle, IconFocus, IconBreak} {
		resource, err := Icon(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(resource.Content()), "<svg")

		cached, err := Icon(name)
		require.NoError(t, err)
		assert.Same(t, resource, cached)
	}

	_, err := Icon("missing.svg")
	assert.Error(t, err)
}
