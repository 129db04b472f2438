package utils

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTrackingIDFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^ZAP-\d{8}-[0-9A-F]{6}$`)

	id, err := NewTrackingID()
	assert.NoError(t, err)
	assert.Regexp(t, pattern, id)
	assert.True(t, strings.HasPrefix(id, "ZAP-"+time.Now().UTC().Format("20060102")+"-"))
}

func TestNewTrackingIDRandomSuffix(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := NewTrackingID()
		assert.NoError(t, err)
		seen[id] = true
	}
	// 24 bits of suffix entropy: 100 draws colliding would be remarkable.
	assert.Greater(t, len(seen), 95)
}
