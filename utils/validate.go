package utils

import (
	"regexp"

	"github.com/eulark/eulark-site/models"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail is a shape check only; ownership is proven by the emailed code.
func IsValidEmail(email string) bool {
	return len(email) <= models.MaxEmailLength && emailPattern.MatchString(email)
}
