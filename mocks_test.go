package panel

import (
	"context"

	"github.com/google/uuid"

	"github.com/beacon-sh/panel/client"
)

// fakePanelAPI implements PanelAPI with per-method hooks. Unset hooks answer
// with harmless defaults so each test only wires what it exercises.
type fakePanelAPI struct {
	login             func(username, password string) (*client.SessionInfo, error)
	register          func(username, password, inviteCode string) (*client.SessionInfo, error)
	logout            func(creds client.Credentials) error
	usernameAvailable func(username string) (bool, error)
	username          func(userID uuid.UUID) (string, error)
	setUsername       func(userID uuid.UUID, username string) error
	changePassword    func(userID uuid.UUID, current, next string) error
	isAdmin           func(userID uuid.UUID) (bool, error)
	listUsers         func() ([]client.User, error)
	deleteUser        func(userID uuid.UUID) error
	listSSHKeys       func(userID uuid.UUID) ([]client.PublicKeyInfo, error)
	addSSHKey         func(userID uuid.UUID, name, publicKey string) error
	deleteSSHKey      func(userID uuid.UUID, fingerprint string) error
	listFiles         func(userID uuid.UUID) ([]client.FileInfo, error)
	deleteFile        func(fileID, fileName string) error
	createInvite      func(code string, validFor int64, maxUses int) error
	getConfig         func() (*client.Config, error)
}

func (f *fakePanelAPI) Login(_ context.Context, username, password string) (*client.SessionInfo, error) {
	if f.login == nil {
		return &client.SessionInfo{}, nil
	}
	return f.login(username, password)
}

func (f *fakePanelAPI) Logout(_ context.Context, creds client.Credentials) error {
	if f.logout == nil {
		return nil
	}
	return f.logout(creds)
}

func (f *fakePanelAPI) Register(_ context.Context, username, password, inviteCode string) (*client.SessionInfo, error) {
	if f.register == nil {
		return &client.SessionInfo{}, nil
	}
	return f.register(username, password, inviteCode)
}

func (f *fakePanelAPI) UsernameAvailable(_ context.Context, username string) (bool, error) {
	if f.usernameAvailable == nil {
		return true, nil
	}
	return f.usernameAvailable(username)
}

func (f *fakePanelAPI) Username(_ context.Context, _ client.Credentials, userID uuid.UUID) (string, error) {
	if f.username == nil {
		return "frodo", nil
	}
	return f.username(userID)
}

func (f *fakePanelAPI) SetUsername(_ context.Context, _ client.Credentials, userID uuid.UUID, username string) error {
	if f.setUsername == nil {
		return nil
	}
	return f.setUsername(userID, username)
}

func (f *fakePanelAPI) ChangePassword(_ context.Context, _ client.Credentials, userID uuid.UUID, current, next string) error {
	if f.changePassword == nil {
		return nil
	}
	return f.changePassword(userID, current, next)
}

func (f *fakePanelAPI) IsAdmin(_ context.Context, _ client.Credentials, userID uuid.UUID) (bool, error) {
	if f.isAdmin == nil {
		return false, nil
	}
	return f.isAdmin(userID)
}

func (f *fakePanelAPI) ListUsers(_ context.Context, _ client.Credentials) ([]client.User, error) {
	if f.listUsers == nil {
		return nil, nil
	}
	return f.listUsers()
}

func (f *fakePanelAPI) DeleteUser(_ context.Context, _ client.Credentials, userID uuid.UUID) error {
	if f.deleteUser == nil {
		return nil
	}
	return f.deleteUser(userID)
}

func (f *fakePanelAPI) ListSSHKeys(_ context.Context, _ client.Credentials, userID uuid.UUID) ([]client.PublicKeyInfo, error) {
	if f.listSSHKeys == nil {
		return nil, nil
	}
	return f.listSSHKeys(userID)
}

func (f *fakePanelAPI) AddSSHKey(_ context.Context, _ client.Credentials, userID uuid.UUID, name, publicKey string) error {
	if f.addSSHKey == nil {
		return nil
	}
	return f.addSSHKey(userID, name, publicKey)
}

func (f *fakePanelAPI) DeleteSSHKey(_ context.Context, _ client.Credentials, userID uuid.UUID, fingerprint string) error {
	if f.deleteSSHKey == nil {
		return nil
	}
	return f.deleteSSHKey(userID, fingerprint)
}

func (f *fakePanelAPI) ListFiles(_ context.Context, _ client.Credentials, userID uuid.UUID) ([]client.FileInfo, error) {
	if f.listFiles == nil {
		return nil, nil
	}
	return f.listFiles(userID)
}

func (f *fakePanelAPI) DeleteFile(_ context.Context, _ client.Credentials, fileID, fileName string) error {
	if f.deleteFile == nil {
		return nil
	}
	return f.deleteFile(fileID, fileName)
}

func (f *fakePanelAPI) CreateInvite(_ context.Context, _ client.Credentials, code string, validFor int64, maxUses int) error {
	if f.createInvite == nil {
		return nil
	}
	return f.createInvite(code, validFor, maxUses)
}

func (f *fakePanelAPI) GetConfig(_ context.Context) (*client.Config, error) {
	if f.getConfig == nil {
		return &client.Config{AllowRegistering: true}, nil
	}
	return f.getConfig()
}
