package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

const trackingPrefix = "ZAP"

// NewTrackingID returns a tracking id of the form ZAP-YYYYMMDD-XXXXXX where
// the suffix is three cryptographically random bytes in uppercase hex. The
// suffix entropy is the only collision defense; callers must generate the id
// once per confirmation and persist that same value everywhere it appears.
func NewTrackingID() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate tracking suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s-%X", trackingPrefix, time.Now().UTC().Format("20060102"), buf), nil
}
