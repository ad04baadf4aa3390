package mattermost

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// DefaultMaxRequestAge bounds how old a webhook request may be before it
// is rejected as a possible replay.
const DefaultMaxRequestAge = 300 * time.Second

// ValidateToken reports whether the webhook/slash-command token matches
// the configured one. Comparison is constant time; an empty value on
// either side always fails.
func ValidateToken(requestToken, expectedToken string) bool {
	if requestToken == "" || expectedToken == "" {
		return false
	}
	return hmac.Equal([]byte(requestToken), []byte(expectedToken))
}

// ValidateRequestTimestamp reports whether a request timestamp (Unix
// seconds) is within maxAge of now, in either direction.
func ValidateRequestTimestamp(timestamp int64, maxAge time.Duration) bool {
	if timestamp <= 0 {
		return false
	}
	age := time.Since(time.Unix(timestamp, 0))
	if age < 0 {
		age = -age
	}
	return age <= maxAge
}

// GenerateResponseSignature computes the v0 HMAC-SHA256 signature over
// "v0:<timestamp>:<body>", for deployments that verify response
// authenticity.
func GenerateResponseSignature(responseBody, secret string, timestamp int64) string {
	if timestamp == 0 {
		timestamp = time.Now().Unix()
	}
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%d:%s", timestamp, responseBody)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}
