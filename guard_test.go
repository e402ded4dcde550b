package panel

import (
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/beacon-sh/panel/client"
)

func errWithCode(code string) error {
	return goerrors.New("test failure", goerrors.CategoryAuth).WithTextCode(code)
}

func TestRequireSessionAuthorized(t *testing.T) {
	id := uuid.New()
	jar := cookieJar{
		client.SessionTokenCookie: "tok",
		client.SessionUUIDCookie:  id.String(),
	}

	guard := RequireSession(jar)

	session, authorized := guard.Authorized()
	require.True(t, authorized)
	assert.Equal(t, "tok", session.Token)
	assert.Equal(t, id, session.UserID)

	_, redirect := guard.Redirect()
	assert.False(t, redirect)
}

func TestRequireSessionRedirects(t *testing.T) {
	guard := RequireSession(cookieJar{})

	target, redirect := guard.Redirect()
	require.True(t, redirect)
	assert.Equal(t, LoginPath, target)

	_, authorized := guard.Authorized()
	assert.False(t, authorized)
}

func TestGuardedRunsHandlerWithSession(t *testing.T) {
	id := uuid.New()
	ctx := router.NewMockContext()
	ctx.CookiesM[client.SessionTokenCookie] = "tok"
	ctx.CookiesM[client.SessionUUIDCookie] = id.String()

	var got Session
	err := Guarded(ctx, func(session Session) error {
		got = session
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, id, got.UserID)
	ctx.AssertNotCalled(t, "Redirect", mock.Anything, mock.Anything)
}

func TestGuardedRedirectsWithoutSession(t *testing.T) {
	ctx := router.NewMockContext()
	ctx.CookiesM[client.SessionTokenCookie] = ""
	ctx.CookiesM[client.SessionUUIDCookie] = ""
	ctx.On("Redirect", LoginPath, mock.Anything).Return(nil)

	called := false
	err := Guarded(ctx, func(Session) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.False(t, called, "handler must not run without a session")
	ctx.AssertCalled(t, "Redirect", LoginPath, mock.Anything)
}

func TestHandleAuthFailure(t *testing.T) {
	t.Run("unauthenticated redirects to login", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("Redirect", LoginPath, mock.Anything).Return(nil)

		handled, err := HandleAuthFailure(ctx, errWithCode(client.TextCodeUnauthenticated))
		require.True(t, handled)
		require.NoError(t, err)
		ctx.AssertCalled(t, "Redirect", LoginPath, mock.Anything)
	})

	t.Run("other failures are left alone", func(t *testing.T) {
		ctx := router.NewMockContext()

		handled, err := HandleAuthFailure(ctx, errWithCode(client.TextCodeForbidden))
		require.False(t, handled)
		require.NoError(t, err)
		ctx.AssertNotCalled(t, "Redirect", mock.Anything, mock.Anything)
	})

	t.Run("nil error is not consumed", func(t *testing.T) {
		ctx := router.NewMockContext()

		handled, err := HandleAuthFailure(ctx, nil)
		require.False(t, handled)
		require.NoError(t, err)
	})
}
