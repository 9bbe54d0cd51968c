package config

import (
	"testing"

	"github.com/gkampitakis/ciinfo"
	"github.com/stretchr/testify/assert"
)

func TestColorEnabled(t *testing.T) {
	t.Parallel()

	assert.True(t, ColorEnabled("always", false))
	assert.False(t, ColorEnabled("never", true))
	assert.False(t, ColorEnabled("auto", false))
	assert.Equal(t, !ciinfo.IsCI, ColorEnabled("auto", true))
}
