package domain_test

import (
	"testing"

	"github.com/mari/awards-voting/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", domain.NormalizeEmail("  A@X.Com "))
	assert.Equal(t, "a@x.com", domain.NormalizeEmail("a@x.com"))
}

func TestValidEmail(t *testing.T) {
	valid := []string{"a@x.com", "first.last@sub.example.org", " padded@x.com "}
	for _, email := range valid {
		assert.True(t, domain.ValidEmail(email), email)
	}

	invalid := []string{"", "no-at-sign", "@x.com", "a@", "a b@x.com", "a@localhost"}
	for _, email := range invalid {
		assert.False(t, domain.ValidEmail(email), email)
	}
}
