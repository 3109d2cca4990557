package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	assert.NotNil(t, Default())
}

func TestSetDefault(t *testing.T) {
	old := Default()
	defer SetDefault(old)

	var buf bytes.Buffer
	l, err := NewLogWithOptions(&Options{Level: "debug", Writer: &buf})
	require.NoError(t, err)

	SetDefault(l)
	SetDefault(nil)
	Default().Debug("found model", "model", "User")

	assert.Contains(t, buf.String(), "found model")
	assert.Contains(t, buf.String(), "model=User")
}
