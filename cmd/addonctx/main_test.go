package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFormat_Accepted(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateFormat("json"))
	assert.NoError(t, validateFormat("text"))
}

func TestValidateFormat_Rejected(t *testing.T) {
	t.Parallel()
	err := validateFormat("yaml")
	assert.ErrorContains(t, err, `invalid format "yaml"`)
}

func TestCliDepth_ZeroMeansUnbounded(t *testing.T) {
	t.Parallel()
	assert.Equal(t, -1, cliDepth(0))
	assert.Equal(t, -1, cliDepth(-3))
	assert.Equal(t, 2, cliDepth(2))
}
