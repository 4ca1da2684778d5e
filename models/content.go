package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// BanDateLayout is the wire format of Ban.BanDate.
const BanDateLayout = "2006-01-02"

// Rule is a server rule shown on the public rules page.
type Rule struct {
	ID          int       `json:"id" db:"id"`
	Category    string    `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (r *Rule) Validate() error {
	if strings.TrimSpace(r.Category) == "" || strings.TrimSpace(r.Description) == "" {
		return errors.New("category and description are required")
	}
	return CheckLength("category", r.Category, maxRuleCategoryLength)
}

type RuleInput struct {
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

func (in RuleInput) Apply(r *Rule) error {
	if in.Category != nil {
		r.Category = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		r.Description = strings.TrimSpace(*in.Description)
	}
	return nil
}

// Command is an in-game command listed on the public commands page.
type Command struct {
	ID          int       `json:"id" db:"id"`
	Command     string    `json:"command" db:"command"`
	Description string    `json:"description" db:"description"`
	Permission  string    `json:"permission,omitempty" db:"permission"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (c *Command) Validate() error {
	if strings.TrimSpace(c.Command) == "" || strings.TrimSpace(c.Description) == "" {
		return errors.New("command and description are required")
	}
	if err := CheckLength("command", c.Command, maxCommandLength); err != nil {
		return err
	}
	return CheckLength("permission", c.Permission, maxPermissionLength)
}

type CommandInput struct {
	Command     *string `json:"command"`
	Description *string `json:"description"`
	Permission  *string `json:"permission"`
}

func (in CommandInput) Apply(c *Command) error {
	if in.Command != nil {
		c.Command = strings.TrimSpace(*in.Command)
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.Permission != nil {
		c.Permission = strings.TrimSpace(*in.Permission)
	}
	return nil
}

// Ban is an entry on the public ban wall.
type Ban struct {
	ID         int       `json:"id" db:"id"`
	PlayerName string    `json:"player_name" db:"player_name"`
	Reason     string    `json:"reason" db:"reason"`
	Duration   string    `json:"duration" db:"duration"`
	BanDate    time.Time `json:"ban_date" db:"ban_date"`
}

func (b *Ban) Validate() error {
	if strings.TrimSpace(b.PlayerName) == "" || strings.TrimSpace(b.Reason) == "" ||
		strings.TrimSpace(b.Duration) == "" || b.BanDate.IsZero() {
		return errors.New("player_name, reason, duration and ban_date are required")
	}
	if err := CheckLength("player_name", b.PlayerName, MaxPlayerNameLength); err != nil {
		return err
	}
	return CheckLength("duration", b.Duration, maxBanDurationLength)
}

type BanInput struct {
	PlayerName *string `json:"player_name"`
	Reason     *string `json:"reason"`
	Duration   *string `json:"duration"`
	BanDate    *string `json:"ban_date"`
}

func (in BanInput) Apply(b *Ban) error {
	if in.PlayerName != nil {
		b.PlayerName = strings.TrimSpace(*in.PlayerName)
	}
	if in.Reason != nil {
		b.Reason = strings.TrimSpace(*in.Reason)
	}
	if in.Duration != nil {
		b.Duration = strings.TrimSpace(*in.Duration)
	}
	if in.BanDate != nil {
		raw := strings.TrimSpace(*in.BanDate)
		if raw == "" {
			b.BanDate = time.Time{}
			return nil
		}
		d, err := time.Parse(BanDateLayout, raw)
		if err != nil {
			// accept full timestamps as well
			d, err = time.Parse(time.RFC3339, raw)
			if err != nil {
				return fmt.Errorf("ban_date must be a date in %s format", BanDateLayout)
			}
		}
		b.BanDate = d
	}
	return nil
}

// Sponsor is a supporter listed on the sponsors page.
type Sponsor struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Amount    float64   `json:"amount" db:"amount"`
	LogoKey   *string   `json:"-" db:"logo_key"`
	LogoURL   *string   `json:"logo_url,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (s *Sponsor) Validate() error {
	if strings.TrimSpace(s.Name) == "" || s.Amount <= 0 {
		return errors.New("name and a positive amount are required")
	}
	if s.Amount < MinSponsorAmount || s.Amount > MaxSponsorAmount {
		return fmt.Errorf("amount must be between %.2f and %.2f", MinSponsorAmount, MaxSponsorAmount)
	}
	return CheckLength("name", s.Name, maxSponsorNameLength)
}

type SponsorInput struct {
	Name   *string  `json:"name"`
	Amount *float64 `json:"amount"`
}

func (in SponsorInput) Apply(s *Sponsor) error {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Amount != nil {
		s.Amount = *in.Amount
	}
	return nil
}
