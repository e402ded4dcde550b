package panel

import (
	"github.com/beacon-sh/panel/client"
	"github.com/google/uuid"
)

// Session is the correlated token+identifier pair proving an authenticated
// principal. Instances only exist when both credential fields were present
// and well formed; partial state is never represented.
type Session struct {
	Token  string
	UserID uuid.UUID
}

// Credentials converts the session into the credential pair the backend
// client forwards on authenticated calls.
func (s Session) Credentials() client.Credentials {
	return client.Credentials{
		Token:  s.Token,
		UserID: s.UserID.String(),
	}
}

// CookieSource reads request cookies. router.Context satisfies it, as does
// any test double.
type CookieSource interface {
	Cookies(key string, defaultValue ...string) string
}

// HasSession reports whether the token credential is present. Pure cookie
// read, no backend call; used for cheap entry-point routing only.
func HasSession(c CookieSource) bool {
	return c.Cookies(client.SessionTokenCookie) != ""
}

// GetSession returns the session iff both correlated credential fields are
// present and the identifier parses. Anything less is treated identically to
// no session at all.
func GetSession(c CookieSource) (Session, bool) {
	token := c.Cookies(client.SessionTokenCookie)
	rawID := c.Cookies(client.SessionUUIDCookie)

	if token == "" || rawID == "" {
		return Session{}, false
	}

	userID, err := uuid.Parse(rawID)
	if err != nil {
		return Session{}, false
	}

	return Session{Token: token, UserID: userID}, true
}
