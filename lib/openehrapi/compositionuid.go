package openehrapi

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ndp-scot/cdr-gateway/lib/apperror"
)

// uidRegex: uuid::server-node(dotted, tld of 2+ letters)::version (positive,
// no leading zero).
var uidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}::[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}::[1-9][0-9]*$`)

// CompositionUID is a version-qualified composition identifier of the form
// id::serverNodeName::version.
type CompositionUID struct {
	ID      string
	Server  string
	Version int
}

// ParseCompositionUID validates and splits a version-qualified composition
// identifier.
func ParseCompositionUID(uid string) (CompositionUID, error) {
	if !uidRegex.MatchString(uid) {
		return CompositionUID{}, &apperror.Error{
			Kind:    apperror.KindBadRequest,
			Message: "input string is not a valid composition UID (expect [uuid::server::version])",
			Details: map[string]string{"inputUid": uid},
		}
	}
	parts := strings.Split(uid, "::")
	version, _ := strconv.Atoi(parts[2])
	return CompositionUID{ID: parts[0], Server: parts[1], Version: version}, nil
}

// UID reconstructs the canonical string form.
func (c CompositionUID) UID() string {
	return c.ID + "::" + c.Server + "::" + strconv.Itoa(c.Version)
}
