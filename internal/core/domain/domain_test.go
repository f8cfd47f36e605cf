package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredential_IsActive(t *testing.T) {
	c := &Credential{Status: CredentialStatusActive}
	assert.True(t, c.IsActive())

	c.Status = CredentialStatusRevoked
	assert.False(t, c.IsActive())

	c.Status = ""
	assert.False(t, c.IsActive())
}
