package backend

import (
	"errors"
	"strings"
)

// ErrSessionExpired is the single user-facing replacement for the various
// phrasings the backend uses when a login has lapsed. The panel shows it
// verbatim; nothing auto-redirects.
var ErrSessionExpired = errors.New("Your session has expired. Please log in again.")

// authFailurePhrases are matched case-insensitively against backend error
// text. The backend has no stable error codes for auth failures, only prose.
var authFailurePhrases = []string{
	"session expired",
	"session has expired",
	"invalid token",
	"token expired",
	"token has expired",
	"not authenticated",
	"unauthorized",
	"401",
}

// RewriteAuthError converts transport errors caused by an expired or invalid
// login into ErrSessionExpired. Other errors pass through unchanged.
func RewriteAuthError(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, phrase := range authFailurePhrases {
		if strings.Contains(msg, phrase) {
			return ErrSessionExpired
		}
	}
	return err
}
