package otp

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	digits := regexp.MustCompile(`^[0-9]{4}$`)
	for i := 0; i < 50; i++ {
		code, err := Code()
		require.NoError(t, err)
		assert.Regexp(t, digits, code)
	}
}

func TestValidPurpose(t *testing.T) {
	assert.True(t, ValidPurpose(PurposeRegister))
	assert.True(t, ValidPurpose(PurposeReset))
	assert.False(t, ValidPurpose("login"))
	assert.False(t, ValidPurpose(""))
}
