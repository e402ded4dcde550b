package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationBaseGroups(t *testing.T) {
	groups := Navigation(false)

	require.Len(t, groups, 2)
	assert.Equal(t, "Dashboard", groups[0].Title)
	assert.Equal(t, "Account", groups[1].Title)

	assert.Equal(t, []NavItem{
		{Href: "/panel", Label: "Overview"},
		{Href: "/panel/files", Label: "My Files"},
	}, groups[0].Items)
}

func TestNavigationAdminGroupAppended(t *testing.T) {
	groups := Navigation(true)

	require.Len(t, groups, 3)
	admin := groups[2]
	assert.Equal(t, "Admin", admin.Title)
	assert.Equal(t, []NavItem{
		{Href: "/panel/admin/users", Label: "Users"},
		{Href: "/panel/admin/invites", Label: "Invites"},
	}, admin.Items)

	// Base groups stay identical regardless of role.
	assert.Equal(t, Navigation(false), groups[:2])
}
