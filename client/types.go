package client

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Millis is a time.Time serialized as milliseconds since the Unix epoch,
// matching the backend's timestamp encoding.
type Millis time.Time

func (m Millis) Time() time.Time {
	return time.Time(m)
}

func (m Millis) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(m).UnixMilli())
}

func (m *Millis) UnmarshalJSON(data []byte) error {
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return err
	}
	*m = Millis(time.UnixMilli(ms).UTC())
	return nil
}

// SessionInfo is the backend's description of a freshly created session. The
// cookie pair it sets is captured so the panel can relay it to the browser
// unmodified.
type SessionInfo struct {
	Token      string    `json:"token"`
	UserID     uuid.UUID `json:"user_id"`
	ValidUntil Millis    `json:"valid_until"`

	// SetCookies holds the Set-Cookie values from the login or register
	// response, in backend order.
	SetCookies []*http.Cookie `json:"-"`
}

// Config is the publicly visible instance configuration. The authoritative
// copy lives server-side; this projection is never mutated locally.
type Config struct {
	AllowRegistering   bool `json:"allow_registering"`
	DisableInviteCodes bool `json:"disable_invite_codes"`
}

// FileInfo describes one uploaded file owned by the authenticated user.
type FileInfo struct {
	FileID     string `json:"file_id"`
	FileName   string `json:"file_name"`
	FileSize   int64  `json:"file_size"`
	UploadDate Millis `json:"upload_date"`
}

// PublicKeyInfo describes one SSH key attached to an account. The fingerprint
// is the delete key and must be percent-encoded when placed in a path.
type PublicKeyInfo struct {
	Name        string  `json:"name"`
	Fingerprint string  `json:"fingerprint"`
	AddDate     Millis  `json:"add_date"`
	LastUse     *Millis `json:"last_use"`
}

// User is the admin-facing projection of an account.
type User struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	TotalStorageSpace int64     `json:"total_storage_space"`
	CreatedAt         Millis    `json:"created_at"`
	IsAdmin           bool      `json:"is_admin"`
}
