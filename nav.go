package panel

// NavItem is one link in the panel's side navigation.
type NavItem struct {
	Href  string
	Label string
}

// NavGroup is a titled, ordered group of navigation items.
type NavGroup struct {
	Title string
	Items []NavItem
}

// Navigation builds the ordered navigation tree. The base groups are fixed
// regardless of role; the Admin group is appended only for a resolved
// administrator.
func Navigation(isAdmin bool) []NavGroup {
	groups := []NavGroup{
		{
			Title: "Dashboard",
			Items: []NavItem{
				{Href: "/panel", Label: "Overview"},
				{Href: "/panel/files", Label: "My Files"},
			},
		},
		{
			Title: "Account",
			Items: []NavItem{
				{Href: "/panel/account/profile", Label: "Profile"},
				{Href: "/panel/account/security", Label: "Security"},
			},
		},
	}

	if isAdmin {
		groups = append(groups, NavGroup{
			Title: "Admin",
			Items: []NavItem{
				{Href: "/panel/admin/users", Label: "Users"},
				{Href: "/panel/admin/invites", Label: "Invites"},
			},
		})
	}

	return groups
}
