package utils

import (
	"errors"
	"strings"
)

func ExtractEmailDomain(email string) (string, error) {
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", errors.New("invalid email format")
	}
	return parts[1], nil
}

// HasInstitutionalDomain checks the fixed-suffix domain gate, e.g. "@vu.edu.pk".
func HasInstitutionalDomain(email, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(email)), strings.ToLower(suffix))
}
