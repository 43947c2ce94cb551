package services

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/logicspark/logicspark/internal/common"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// anyBlank reports whether any of the values is empty after trimming.
func anyBlank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.NewValidationError("Invalid id")
	}
	return nil
}
