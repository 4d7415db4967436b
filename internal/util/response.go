// Package util holds the small helpers shared by the service and transport
// layers: JWT issuing, argon2id password handling and the JSON response
// envelope.
package util

// Envelope is the body shape of every JSON response, success or error.
type Envelope map[string]any

// Error wraps a client-facing message under the "error" key.
func Error(message string) Envelope {
	return Envelope{"error": message}
}

// Data wraps a single payload under its resource key.
func Data(key string, value any) Envelope {
	return Envelope{key: value}
}

// Deleted is the standard body of destructive endpoints.
func Deleted() Envelope {
	return Envelope{"deleted": true}
}
