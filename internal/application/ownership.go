package application

import (
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/go-places-api/internal/domain/apperror"
	"github.com/oksasatya/go-places-api/internal/domain/entity"
)

// Authorize allows requesterID to modify place only if they created it.
func Authorize(requesterID string, place *entity.Place, action string) error {
	if place != nil && requesterID != "" && canonicalID(requesterID) == canonicalID(place.CreatorID) {
		return nil
	}
	if action == "" {
		action = "modify"
	}
	return apperror.Unauthorized("you are not allowed to " + action + " this place")
}

// canonicalID normalizes an identifier so that differently rendered forms of
// the same id compare equal (case, surrounding space, braces or urn prefix).
func canonicalID(id string) string {
	id = strings.TrimSpace(id)
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return strings.ToLower(id)
}
