package codeclog

import uuid "github.com/satori/go.uuid"

// GenerateRequestID generates a unique request ID for correlating log
// lines across a single connection's or operation's lifetime.
func GenerateRequestID() string {
	return uuid.NewV4().String()
}
