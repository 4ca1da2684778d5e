package models

import (
	"fmt"
	"unicode/utf8"
)

// Column limits from db/migrations. Inputs past them are rejected before
// they reach Postgres.
const (
	MaxPlayerNameLength    = 32
	MaxEmailLength         = 255
	MaxAdminUsernameLength = 64
	// x/crypto/bcrypt rejects longer passwords.
	MaxPasswordBytes = 72

	maxRuleCategoryLength = 100
	maxCommandLength      = 200
	maxPermissionLength   = 100
	maxBanDurationLength  = 64
	maxSponsorNameLength  = 100
	MaxSponsorAmount      = 99999999.99 // NUMERIC(10, 2)
	MinSponsorAmount      = 0.01
)

// CheckLength reports whether value fits in a VARCHAR(max) column.
func CheckLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return fmt.Errorf("%s must be at most %d characters", field, max)
	}
	return nil
}
