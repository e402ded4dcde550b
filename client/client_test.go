package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func testCreds() Credentials {
	return Credentials{
		Token:  "tok-123",
		UserID: "8d7b6a51-4c3d-2e1f-9a8b-7c6d5e4f3a2b",
	}
}

func TestLoginCapturesSessionCookies(t *testing.T) {
	userID := uuid.New()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/sessions", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "correct horse", body["password"])

		http.SetCookie(w, &http.Cookie{Name: SessionTokenCookie, Value: "tok-123", Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: SessionUUIDCookie, Value: userID.String(), Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":       "tok-123",
			"user_id":     userID.String(),
			"valid_until": time.Now().Add(time.Hour).UnixMilli(),
		})
	})

	session, err := c.Login(context.Background(), "alice", "correct horse")
	require.NoError(t, err)

	assert.Equal(t, "tok-123", session.Token)
	assert.Equal(t, userID, session.UserID)
	require.Len(t, session.SetCookies, 2)
	assert.Equal(t, SessionTokenCookie, session.SetCookies[0].Name)
	assert.Equal(t, SessionUUIDCookie, session.SetCookies[1].Name)
}

func TestLoginBadCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.True(t, IsBadCredentials(err))
	assert.False(t, IsUnauthenticated(err))
}

func TestLoginUnexpectedStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Login(context.Background(), "alice", "pw")
	require.Error(t, err)
	assert.True(t, IsUnexpected(err))
}

func TestLogoutForwardsCredentialCookies(t *testing.T) {
	var gotToken, gotUUID string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/logout", r.URL.Path)
		if cookie, err := r.Cookie(SessionTokenCookie); err == nil {
			gotToken = cookie.Value
		}
		if cookie, err := r.Cookie(SessionUUIDCookie); err == nil {
			gotUUID = cookie.Value
		}
		w.WriteHeader(http.StatusOK)
	})

	creds := testCreds()
	require.NoError(t, c.Logout(context.Background(), creds))
	assert.Equal(t, creds.Token, gotToken)
	assert.Equal(t, creds.UserID, gotUUID)
}

func TestLogoutExpiredSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := c.Logout(context.Background(), testCreds())
	require.Error(t, err)
	assert.True(t, IsUnauthenticated(err))
}

func TestRegisterSurfacesPolicyReason(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("Registration requires an invite code.\n"))
	})

	_, err := c.Register(context.Background(), "alice", "password123", "")
	require.Error(t, err)
	assert.True(t, IsForbidden(err))
	assert.Contains(t, err.Error(), "Registration requires an invite code.")
}

func TestRegisterTakenUsernameIsConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Username is taken."))
	})

	_, err := c.Register(context.Background(), "alice", "password123", "code")
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestRegisterSendsInviteCode(t *testing.T) {
	var body map[string]string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":       "tok",
			"user_id":     uuid.New().String(),
			"valid_until": time.Now().UnixMilli(),
		})
	})

	_, err := c.Register(context.Background(), "alice", "password123", "welcome-1")
	require.NoError(t, err)
	assert.Equal(t, "welcome-1", body["invite_code"])
}

func TestUsernameAvailable(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		available bool
		wantErr   bool
	}{
		{"free name answers 404", http.StatusNotFound, true, false},
		{"taken name answers 200", http.StatusOK, false, false},
		{"server fault is an error", http.StatusInternalServerError, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/api/usernames/alice", r.URL.Path)
				w.WriteHeader(tt.status)
			})

			available, err := c.UsernameAvailable(context.Background(), "alice")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsUnexpected(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.available, available)
		})
	}
}

func TestUsernameAvailableEscapesCandidate(t *testing.T) {
	// The candidate is user input; a slash or percent must not reshape the
	// request path.
	var gotPath string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	})

	available, err := c.UsernameAvailable(context.Background(), "al/ice%20")
	require.NoError(t, err)
	assert.True(t, available)
	assert.Equal(t, "/api/usernames/al%2Fice%2520", gotPath)
}

func TestChangePasswordMismatchIsBadCredentials(t *testing.T) {
	// The backend validates the session before the password, so a 401 here
	// means the current password was wrong, not that the session expired.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := c.ChangePassword(context.Background(), testCreds(), uuid.New(), "old", "new-password")
	require.Error(t, err)
	assert.True(t, IsBadCredentials(err))
	assert.False(t, IsUnauthenticated(err))
}

func TestSetUsernameConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	err := c.SetUsername(context.Background(), testCreds(), uuid.New(), "bob")
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestIsAdminDecodesVerdict(t *testing.T) {
	userID := uuid.New()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/"+userID.String()+"/admin", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("true"))
	})

	isAdmin, err := c.IsAdmin(context.Background(), testCreds(), userID)
	require.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestIsAdminNeverDefaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.IsAdmin(context.Background(), testCreds(), uuid.New())
	require.Error(t, err)
	assert.True(t, IsUnexpected(err))
}

func TestListFilesDecodesTimestamps(t *testing.T) {
	uploaded := time.Date(2025, time.March, 9, 14, 30, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{{
			"file_id":     "abc123",
			"file_name":   "report.pdf",
			"file_size":   2048,
			"upload_date": uploaded.UnixMilli(),
		}})
	})

	files, err := c.ListFiles(context.Background(), testCreds(), uuid.New())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "abc123", files[0].FileID)
	assert.Equal(t, int64(2048), files[0].FileSize)
	assert.True(t, uploaded.Equal(files[0].UploadDate.Time()))
}

func TestDeleteFileTreatsGoneAsNotFound(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusBadRequest} {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		err := c.DeleteFile(context.Background(), testCreds(), "abc", "file.txt")
		require.Error(t, err)
		assert.True(t, IsNotFound(err), "status %d", status)
	}
}

func TestAddSSHKeyStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"unparseable key", http.StatusUnprocessableEntity, IsInvalidInput},
		{"duplicate fingerprint", http.StatusConflict, IsConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			err := c.AddSSHKey(context.Background(), testCreds(), uuid.New(), "laptop", "ssh-ed25519 AAAA")
			require.Error(t, err)
			assert.True(t, tt.check(err))
		})
	}
}

func TestDeleteSSHKeyEscapesFingerprint(t *testing.T) {
	userID := uuid.New()
	var gotPath string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	})

	err := c.DeleteSSHKey(context.Background(), testCreds(), userID, "SHA512:ab/cd+ef")
	require.NoError(t, err)
	assert.Equal(t, "/api/users/"+userID.String()+"/ssh-keys/SHA512:ab%2Fcd+ef", gotPath)
}

func TestCreateInviteStatusMapping(t *testing.T) {
	t.Run("duplicate code", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		})

		err := c.CreateInvite(context.Background(), testCreds(), "welcome", 3600, 5)
		require.Error(t, err)
		assert.True(t, IsConflict(err))
	})

	t.Run("expiry out of range carries reason", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte("valid_for must be at most 7 days"))
		})

		err := c.CreateInvite(context.Background(), testCreds(), "welcome", 1<<40, 5)
		require.Error(t, err)
		assert.True(t, IsInvalidInput(err))
		assert.Contains(t, err.Error(), "at most 7 days")
	})

	t.Run("payload shape", func(t *testing.T) {
		var body map[string]any
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			w.WriteHeader(http.StatusCreated)
		})

		require.NoError(t, c.CreateInvite(context.Background(), testCreds(), "welcome", 86400, 3))
		assert.Equal(t, "welcome", body["invite_code"])
		assert.Equal(t, float64(86400), body["valid_for"])
		assert.Equal(t, float64(3), body["max_uses"])
	})
}

func TestGetConfigFailsLoudly(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.GetConfig(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnexpected(err))
}

func TestGetConfig(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/config", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"allow_registering":true,"disable_invite_codes":false}`))
	})

	cfg, err := c.GetConfig(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.AllowRegistering)
	assert.False(t, cfg.DisableInviteCodes)
}

func TestFilePaths(t *testing.T) {
	assert.Equal(t, "/api/files/abc/na%20me.txt", FileAPIPath("abc", "na me.txt"))
	assert.Equal(t, "/api/files/abc/na%20me.txt/content", FileContentPath("abc", "na me.txt"))
	assert.Equal(t, "/files/abc/na%20me.txt", FileSharePath("abc", "na me.txt"))
}

func TestMalformedBodyIsUnexpected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("not json"))
	})

	_, err := c.GetConfig(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnexpected(err))
}
