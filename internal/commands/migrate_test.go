package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemeIsOrdered(t *testing.T) {
	for i, s := range scheme {
		assert.Equal(t, i+1, s.Index, s.Description)
		assert.NotEmpty(t, s.Query, s.Description)
	}
}
