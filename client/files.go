package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// ListFiles returns the files uploaded by the user.
func (c *Client) ListFiles(ctx context.Context, creds Credentials, userID uuid.UUID) ([]FileInfo, error) {
	resp, err := c.get(ctx, "/api/users/"+userID.String()+"/files", &creds)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return nil, errUnauthenticated("list-files")
	case !ok(resp.Status):
		return nil, errUnexpected("list-files", resp.Status, string(resp.Body))
	}

	var files []FileInfo
	if err := resp.decode(&files); err != nil {
		return nil, err
	}
	return files, nil
}

// DeleteFile permanently removes a file. Both the id and the name identify
// the file; the backend rejects a mismatched pair.
func (c *Client) DeleteFile(ctx context.Context, creds Credentials, fileID, fileName string) error {
	resp, err := c.delete(ctx, FileAPIPath(fileID, fileName), &creds)
	if err != nil {
		return err
	}

	switch {
	case resp.Status == http.StatusUnauthorized:
		return errUnauthenticated("delete-file")
	case resp.Status == http.StatusNotFound, resp.Status == http.StatusBadRequest:
		return errNotFound("delete-file")
	case !ok(resp.Status):
		return errUnexpected("delete-file", resp.Status, string(resp.Body))
	}
	return nil
}

// FileAPIPath builds the backend path for a file, derived fresh from the
// file's immutable identifiers.
func FileAPIPath(fileID, fileName string) string {
	return "/api/files/" + url.PathEscape(fileID) + "/" + url.PathEscape(fileName)
}

// FileContentPath is the download path for the raw bytes. The panel links to
// it; the transfer itself is opaque passthrough.
func FileContentPath(fileID, fileName string) string {
	return FileAPIPath(fileID, fileName) + "/content"
}

// FileSharePath is the public shareable URL path for a file.
func FileSharePath(fileID, fileName string) string {
	return "/files/" + url.PathEscape(fileID) + "/" + url.PathEscape(fileName)
}
