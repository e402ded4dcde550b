package panel

import (
	"time"

	"github.com/beacon-sh/panel/client"
	"github.com/dustin/go-humanize"
)

var TemplateNavKey = "nav_groups"

// TemplateHelpers returns the helper functions shared by every panel view,
// registered on the view engine's function map.
//
// In templates:
//
//	{{ format_size(file.FileSize) }}
//	{{ format_date(key.AddDate) }}
//	{{ share_url(file) }}
func TemplateHelpers() map[string]any {
	return map[string]any{
		"format_size":  formatSize,
		"format_date":  formatDate,
		"file_url":     fileURL,
		"download_url": downloadURL,
		"share_url":    shareURL,
	}
}

// TemplateHelpersWithNav returns the shared helpers plus the navigation
// groups resolved for the current user's role.
func TemplateHelpersWithNav(isAdmin bool) map[string]any {
	helpers := TemplateHelpers()
	helpers[TemplateNavKey] = Navigation(isAdmin)
	return helpers
}

func formatSize(size int64) string {
	if size < 0 {
		return humanize.Bytes(0)
	}
	return humanize.Bytes(uint64(size))
}

// formatDate renders timestamps the way the rest of the panel does, as a
// long date like "2 January 2006". A nil or zero value reads "never", which
// covers keys that have not been used yet.
func formatDate(value any) string {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case client.Millis:
		t = v.Time()
	case *client.Millis:
		if v != nil {
			t = v.Time()
		}
	}
	if t.IsZero() {
		return "never"
	}
	return t.Format("2 January 2006")
}

func fileURL(file client.FileInfo) string {
	return client.FileAPIPath(file.FileID, file.FileName)
}

func downloadURL(file client.FileInfo) string {
	return client.FileContentPath(file.FileID, file.FileName)
}

func shareURL(file client.FileInfo) string {
	return client.FileSharePath(file.FileID, file.FileName)
}
