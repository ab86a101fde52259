package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kriti-labs/jobportal/internal/apperr"
	"github.com/kriti-labs/jobportal/internal/notify"
	"github.com/kriti-labs/jobportal/internal/types"
)

// Notifier hands notifications to the background dispatcher.
type Notifier interface {
	NotifyUser(recipientID uint, p notify.Payload)
	NotifyRole(role string, p notify.Payload, exclude ...uint)
}

// CanManage reports whether actor may mutate a resource owned by ownerID.
func CanManage(actor types.AuthenticatedUser, ownerID uint) bool {
	return actor.IsAdmin() || actor.ID == ownerID
}

func requireManage(actor types.AuthenticatedUser, ownerID uint, what string) error {
	if !CanManage(actor, ownerID) {
		return apperr.NewForbidden("Not authorized to %s", what)
	}
	return nil
}

var digits = regexp.MustCompile(`\d+`)

// ParseSalaryRange extracts bounds from free text such as "50000-80000".
// Thousands separators are ignored and a "k" suffix multiplies by 1000.
func ParseSalaryRange(text string) (lo, hi int64, ok bool) {
	normalized := strings.ReplaceAll(strings.ToLower(text), ",", "")

	var values []int64
	for _, loc := range digits.FindAllStringIndex(normalized, -1) {
		n, err := strconv.ParseInt(normalized[loc[0]:loc[1]], 10, 64)
		if err != nil {
			continue
		}
		if loc[1] < len(normalized) && normalized[loc[1]] == 'k' {
			n *= 1000
		}
		values = append(values, n)
	}

	switch {
	case len(values) >= 2:
		return values[0], values[1], true
	case len(values) == 1:
		return values[0], 0, true
	default:
		return 0, 0, false
	}
}

func uintPtr(v uint) *uint {
	return &v
}

func trimmed(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
