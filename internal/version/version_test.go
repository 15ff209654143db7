package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })

	Version = "2.3.4"
	assert.Equal(t, "2.3.4", Get())

	Version = ""
	assert.NotEmpty(t, Get())
}
