// Package groups turns raw operator input into classified group
// references and feeds them to the backend in deduplicated batches.
package groups

import (
	"regexp"
	"strconv"
	"strings"

	"tgconsole/internal/domain"
)

var (
	handleRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	// Invite links: t.me/joinchat/<hash> or the newer t.me/+<hash>.
	inviteRe = regexp.MustCompile(`^(?:https?://)?t\.me/(?:joinchat/|\+).+$`)
	publicRe = regexp.MustCompile(`^(?:https?://)?t\.me/([A-Za-z0-9_]+)$`)
)

// Classify maps one line of operator input to a typed group reference.
// Classification never rejects: anything unrecognized passes through as
// RefUnknown for server-side resolution, since the backend is the system
// of record for resolvability.
func Classify(line string) domain.GroupReference {
	trimmed := strings.TrimSpace(line)
	ref := domain.GroupReference{RawInput: trimmed}

	switch {
	case strings.HasPrefix(trimmed, "@") && handleRe.MatchString(trimmed[1:]):
		ref.Type = domain.RefUsername
		ref.Normalized = trimmed[1:]

	case handleRe.MatchString(trimmed):
		// Bare handles rank above numeric ids: real chat ids are
		// negative and never match the handle shape.
		ref.Type = domain.RefUsername
		ref.Normalized = trimmed

	case inviteRe.MatchString(trimmed):
		// Links are not resolved client-side; the link itself is the
		// identifier.
		ref.Type = domain.RefInviteLink
		ref.Normalized = trimmed

	case publicRe.MatchString(trimmed):
		ref.Type = domain.RefUsername
		ref.Normalized = publicRe.FindStringSubmatch(trimmed)[1]

	case isSignedInt(trimmed):
		ref.Type = domain.RefNumericID
		ref.Normalized = trimmed

	default:
		ref.Type = domain.RefUnknown
		ref.Normalized = trimmed
	}

	ref.Display = ref.Normalized
	return ref
}

func isSignedInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
