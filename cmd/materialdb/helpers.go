package main

import (
	"fmt"

	"github.com/google/uuid"
)

// parseUUID validates an identifier argument and returns its canonical form.
func parseUUID(value string) (string, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid uuid %q: %w", value, err)
	}
	return id.String(), nil
}
