package pkg

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateSessionID - returns a random session identifier.
func GenerateSessionID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	return id.String(), nil
}

// IsValidSessionID - reports whether id was produced by GenerateSessionID.
func IsValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
