package host

import (
	"fmt"
	"strings"
)

const maxSessionNameLen = 100

// invalidNameChars are rejected because session names become file names.
const invalidNameChars = "/\\:*?\"<>|\x00"

// InvalidSessionNameError reports a session name that cannot be used.
type InvalidSessionNameError struct {
	Reason string
}

func (e *InvalidSessionNameError) Error() string {
	return "invalid session name: " + e.Reason
}

func validateSessionName(name string) error {
	if name == "" {
		return &InvalidSessionNameError{Reason: "name cannot be empty"}
	}
	if len(name) > maxSessionNameLen {
		return &InvalidSessionNameError{
			Reason: fmt.Sprintf("name is too long, allowed length: %d characters", maxSessionNameLen),
		}
	}
	if strings.ContainsAny(name, invalidNameChars) {
		return &InvalidSessionNameError{Reason: "name contains invalid characters"}
	}
	return nil
}
