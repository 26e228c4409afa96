package profile

import (
	"slices"
	"strings"
)

// Profile is the customer's account record as the backend keeps it.
type Profile struct {
	CustomerID    string
	Name          string
	Email         string
	Phone         string
	Address       string
	Dietary       []string
	FavoriteItems []string
	NotifyEmail   bool
	NotifySMS     bool
}

// Update carries the editable fields. Email and favorites are not editable
// here.
type Update struct {
	Name        string
	Phone       string
	Address     string
	Dietary     []string
	NotifyEmail bool
	NotifySMS   bool
}

// Validate returns the problems found in u; an empty result means valid.
func (u Update) Validate() []string {
	var errors []string
	if strings.TrimSpace(u.Name) == "" {
		errors = append(errors, "name is required")
	}
	if len(u.Name) > 100 {
		errors = append(errors, "name must be at most 100 characters")
	}
	if len(u.Phone) > 20 {
		errors = append(errors, "phone number must be at most 20 characters")
	}
	return errors
}

// ParseList splits a comma separated form value, dropping blanks and
// duplicates while keeping order.
func ParseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || slices.Contains(out, part) {
			continue
		}
		out = append(out, part)
	}
	return out
}
