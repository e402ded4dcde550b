package panel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
	"github.com/google/uuid"

	"github.com/beacon-sh/panel/client"
)

// PanelAPI is the backend surface the controllers depend on. *client.Client
// satisfies it; tests substitute a recording fake.
type PanelAPI interface {
	Login(ctx context.Context, username, password string) (*client.SessionInfo, error)
	Logout(ctx context.Context, creds client.Credentials) error
	Register(ctx context.Context, username, password, inviteCode string) (*client.SessionInfo, error)
	UsernameAvailable(ctx context.Context, username string) (bool, error)
	Username(ctx context.Context, creds client.Credentials, userID uuid.UUID) (string, error)
	SetUsername(ctx context.Context, creds client.Credentials, userID uuid.UUID, username string) error
	ChangePassword(ctx context.Context, creds client.Credentials, userID uuid.UUID, currentPassword, newPassword string) error
	IsAdmin(ctx context.Context, creds client.Credentials, userID uuid.UUID) (bool, error)
	ListUsers(ctx context.Context, creds client.Credentials) ([]client.User, error)
	DeleteUser(ctx context.Context, creds client.Credentials, userID uuid.UUID) error
	ListSSHKeys(ctx context.Context, creds client.Credentials, userID uuid.UUID) ([]client.PublicKeyInfo, error)
	AddSSHKey(ctx context.Context, creds client.Credentials, userID uuid.UUID, name, publicKey string) error
	DeleteSSHKey(ctx context.Context, creds client.Credentials, userID uuid.UUID, fingerprint string) error
	ListFiles(ctx context.Context, creds client.Credentials, userID uuid.UUID) ([]client.FileInfo, error)
	DeleteFile(ctx context.Context, creds client.Credentials, fileID, fileName string) error
	CreateInvite(ctx context.Context, creds client.Credentials, code string, validForSeconds int64, maxUses int) error
	GetConfig(ctx context.Context) (*client.Config, error)
}

func RegisterPanelRoutes[T any](app router.Router[T], opts ...PanelControllerOption) {

	controller := NewPanelController(opts...)

	app.Get(controller.Routes.Home, controller.Home).SetName("home.get")

	app.Get(controller.Routes.Login, controller.LoginShow).SetName("sign-in.get")
	app.Post(controller.Routes.Login, controller.LoginPost).SetName("sign-in.post")

	app.Get(controller.Routes.Register, controller.RegistrationShow).SetName("register.get")
	app.Post(controller.Routes.Register, controller.RegistrationCreate).SetName("register.post")

	app.Post(controller.Routes.Logout, controller.LogOut).SetName("sign-out.post")

	app.Get(fmt.Sprintf("%s/:username", controller.Routes.UsernameCheck), controller.UsernameCheck).
		SetName("username-check.get")

	app.Get(controller.Routes.Panel, controller.Overview).SetName("panel.get")

	app.Get(controller.Routes.Files, controller.FilesShow).SetName("files.get")
	app.Post(fmt.Sprintf("%s/delete", controller.Routes.Files), controller.FileDelete).
		SetName("files-delete.post")

	app.Get(controller.Routes.Profile, controller.ProfileShow).SetName("profile.get")
	app.Post(fmt.Sprintf("%s/username", controller.Routes.Profile), controller.UsernameChange).
		SetName("profile-username.post")

	app.Get(controller.Routes.Security, controller.SecurityShow).SetName("security.get")
	app.Post(fmt.Sprintf("%s/password", controller.Routes.Security), controller.PasswordChange).
		SetName("security-password.post")
	app.Post(fmt.Sprintf("%s/ssh-keys", controller.Routes.Security), controller.SSHKeyAdd).
		SetName("security-ssh-keys.post")
	app.Post(fmt.Sprintf("%s/ssh-keys/delete", controller.Routes.Security), controller.SSHKeyDelete).
		SetName("security-ssh-keys-delete.post")

	app.Get(controller.Routes.AdminUsers, controller.AdminUsersShow).SetName("admin-users.get")
	app.Post(fmt.Sprintf("%s/delete", controller.Routes.AdminUsers), controller.AdminUserDelete).
		SetName("admin-users-delete.post")

	app.Get(controller.Routes.AdminInvites, controller.AdminInvitesShow).SetName("admin-invites.get")
	app.Post(controller.Routes.AdminInvites, controller.AdminInviteCreate).
		SetName("admin-invites.post")
}

type PanelControllerRoutes struct {
	Home          string
	Login         string
	Logout        string
	Register      string
	UsernameCheck string
	Panel         string
	Files         string
	Profile       string
	Security      string
	AdminUsers    string
	AdminInvites  string
}

type PanelControllerViews struct {
	Login        string
	Register     string
	Overview     string
	Files        string
	Profile      string
	Security     string
	AdminUsers   string
	AdminInvites string
}

type PanelController struct {
	Debug        bool
	Logger       Logger
	API          PanelAPI
	Config       *ConfigProvider
	Roles        *RoleResolver
	Routes       *PanelControllerRoutes
	Views        *PanelControllerViews
	ErrorHandler router.ErrorHandler
}

type PanelControllerOption func(*PanelController) *PanelController

func WithPanelAPI(api PanelAPI) PanelControllerOption {
	return func(c *PanelController) *PanelController {
		c.API = api
		return c
	}
}

func WithPanelLogger(logger Logger) PanelControllerOption {
	return func(c *PanelController) *PanelController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithPanelDebug(debug bool) PanelControllerOption {
	return func(c *PanelController) *PanelController {
		c.Debug = debug
		return c
	}
}

func WithPanelErrorHandler(handler router.ErrorHandler) PanelControllerOption {
	return func(c *PanelController) *PanelController {
		if handler != nil {
			c.ErrorHandler = handler
		}
		return c
	}
}

func NewPanelController(opts ...PanelControllerOption) *PanelController {
	c := &PanelController{
		Logger:       defLogger{},
		ErrorHandler: defaultErrHandler,
		Routes: &PanelControllerRoutes{
			Home:          "/",
			Login:         "/login",
			Logout:        "/logout",
			Register:      "/register",
			UsernameCheck: "/usernames",
			Panel:         "/panel",
			Files:         "/panel/files",
			Profile:       "/panel/account/profile",
			Security:      "/panel/account/security",
			AdminUsers:    "/panel/admin/users",
			AdminInvites:  "/panel/admin/invites",
		},
		Views: &PanelControllerViews{
			Login:        "login",
			Register:     "register",
			Overview:     "panel/overview",
			Files:        "panel/files",
			Profile:      "panel/profile",
			Security:     "panel/security",
			AdminUsers:   "panel/admin_users",
			AdminInvites: "panel/admin_invites",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.API == nil {
		panic("Missing backend API in panel controller...")
	}

	if c.Config == nil {
		c.Config = NewConfigProvider(c.API)
	}

	if c.Roles == nil {
		c.Roles = NewRoleResolver(c.API, c.Logger)
	}

	return c
}

// Home routes the bare domain: an authenticated browser lands on the panel,
// everyone else on the login page. Cookie presence only; the panel pages do
// the real check.
func (a *PanelController) Home(ctx router.Context) error {
	if HasSession(ctx) {
		return ctx.Redirect(a.Routes.Panel, router.StatusSeeOther)
	}
	return ctx.Redirect(a.Routes.Login, router.StatusSeeOther)
}

func (a *PanelController) LoginShow(ctx router.Context) error {
	cfg, err := a.Config.Get(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.Render(a.Views.Login, router.ViewContext{
		"form":              Idle(),
		"record":            nil,
		"registration_open": RegistrationOpen(cfg),
	})
}

// LoginRequest payload
type LoginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 20)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 80)),
	)
}

func (a *PanelController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Login, router.ViewContext{
			"form":   ErrorState(UnknownErrorMessage),
			"record": payload,
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(a.Views.Login, router.ViewContext{
			"form":       Idle(),
			"record":     payload,
			"validation": FormatValidationErrorToMap(err),
		})
	}

	if a.Debug {
		a.Logger.Debug("login attempt: %s", print.MaybePrettyJSON(map[string]string{
			"username": payload.Username,
		}))
	}

	var session *client.SessionInfo
	form := NewForm(
		WithErrorMessages(LoginMessages()),
		WithFormLogger(a.Logger),
	)

	state, err := form.Submit(ctx.Context(), func(c context.Context) error {
		created, loginErr := a.API.Login(c, payload.Username, payload.Password)
		if loginErr != nil {
			return loginErr
		}
		session = created
		return nil
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if state.IsError() {
		return ctx.Render(a.Views.Login, router.ViewContext{
			"form":   state,
			"record": payload,
		})
	}

	relaySessionCookies(ctx, session)

	// Land on the root so the home redirect, not the login handler, decides
	// where the fresh session goes.
	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "You have been logged in successfully.",
	}).Redirect(a.Routes.Home, fiber.StatusSeeOther)
}

func (a *PanelController) LogOut(ctx router.Context) error {
	if session, found := GetSession(ctx); found {
		// The backend invalidates the session; clearing the browser's
		// cookie pair still happens even if that call fails.
		BestEffort(a.Logger, "backend logout", func() error {
			err := a.API.Logout(ctx.Context(), session.Credentials())
			if client.IsUnauthenticated(err) {
				return nil
			}
			return err
		})
	}

	clearSessionCookies(ctx)
	return ctx.Redirect(a.Routes.Login, router.StatusSeeOther)
}

func (a *PanelController) RegistrationShow(ctx router.Context) error {
	cfg, err := a.Config.Get(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if !RegistrationOpen(cfg) {
		return ctx.Redirect(a.Routes.Login, router.StatusSeeOther)
	}

	return ctx.Render(a.Views.Register, router.ViewContext{
		"form":            Idle(),
		"record":          RegistrationCreatePayload{},
		"invite_required": InviteRequired(cfg),
	})
}

// RegistrationCreatePayload is the form payload
type RegistrationCreatePayload struct {
	Username        string `form:"username" json:"username"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
	InviteCode      string `form:"invite_code" json:"invite_code"`
}

// Validate will validate the payload
func (r RegistrationCreatePayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required,
			validation.Length(3, 20).Error("Username must be at least 3 characters.")),
		validation.Field(&r.Password, validation.Required,
			validation.Length(8, 80).Error("Password must be at least 8 characters")),
		validation.Field(&r.ConfirmPassword, validation.Required,
			validation.By(ValidateStringEquals(r.Password, "Passwords did not match"))),
	)
}

func (a *PanelController) RegistrationCreate(ctx router.Context) error {
	cfg, err := a.Config.Get(ctx.Context())
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if !RegistrationOpen(cfg) {
		return ctx.Redirect(a.Routes.Login, router.StatusSeeOther)
	}

	payload := new(RegistrationCreatePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload: %v", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Register, router.ViewContext{
			"form":            ErrorState(UnknownErrorMessage),
			"record":          payload,
			"invite_required": InviteRequired(cfg),
		})
	}

	if err := payload.Validate(); err != nil {
		return ctx.Render(a.Views.Register, router.ViewContext{
			"form":            Idle(),
			"record":          payload,
			"validation":      FormatValidationErrorToMap(err),
			"invite_required": InviteRequired(cfg),
		})
	}

	inviteCode := payload.InviteCode
	if !InviteRequired(cfg) {
		inviteCode = ""
	}

	var session *client.SessionInfo
	form := NewForm(
		WithPassthroughCodes(client.TextCodeForbidden),
		WithErrorMessages(map[string]string{
			client.TextCodeConflict: MsgUsernameUnavailable,
		}),
		WithFormLogger(a.Logger),
	)

	state, err := form.Submit(ctx.Context(), func(c context.Context) error {
		created, regErr := a.API.Register(c, payload.Username, payload.Password, inviteCode)
		if regErr != nil {
			return regErr
		}
		session = created
		return nil
	})
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if state.IsError() {
		return ctx.Render(a.Views.Register, router.ViewContext{
			"form":            state,
			"record":          payload,
			"invite_required": InviteRequired(cfg),
		})
	}

	relaySessionCookies(ctx, session)

	return flash.WithSuccess(ctx, router.ViewContext{
		"system_message": "Your account has been created.",
	}).Redirect(a.Routes.Home, fiber.StatusSeeOther)
}

// UsernameCheck serves the async availability probe behind the username
// fields. The verdict is advisory; registration and renames still hit the
// authoritative uniqueness check on submit.
func (a *PanelController) UsernameCheck(ctx router.Context) error {
	validator := NewUsernameValidator(a.API, WithValidatorLogger(a.Logger))

	probe := validator.Submit(ctx.Param("username", ""))
	if probe == nil {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "username is required",
		})
	}

	if err := probe.Run(ctx.Context()); err != nil {
		return ctx.JSON(router.StatusBadGateway, map[string]string{
			"error": "availability check failed",
		})
	}

	result, settled := validator.Result()
	if !settled {
		return ctx.JSON(router.StatusBadGateway, map[string]string{
			"error": "availability check failed",
		})
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"available": result.Available,
		"message":   result.Message,
	})
}

// relaySessionCookies forwards the backend's Set-Cookie pair to the browser
// unmodified. The panel never mints its own credential values.
func relaySessionCookies(ctx router.Context, session *client.SessionInfo) {
	if session == nil {
		return
	}
	for _, cookie := range session.SetCookies {
		ctx.Cookie(&router.Cookie{
			Name:     cookie.Name,
			Value:    cookie.Value,
			Path:     cookiePath(cookie),
			Expires:  cookie.Expires,
			HTTPOnly: cookie.HttpOnly,
			Secure:   cookie.Secure,
			SameSite: sameSiteName(cookie.SameSite),
		})
	}
}

func clearSessionCookies(ctx router.Context) {
	for _, name := range []string{client.SessionTokenCookie, client.SessionUUIDCookie} {
		ctx.Cookie(&router.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  expiredCookieTime(),
			HTTPOnly: true,
		})
	}
}

func cookiePath(cookie *http.Cookie) string {
	if cookie.Path == "" {
		return "/"
	}
	return cookie.Path
}

func sameSiteName(mode http.SameSite) string {
	switch mode {
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteNoneMode:
		return "None"
	default:
		return "Lax"
	}
}

func expiredCookieTime() time.Time {
	return time.Now().Add(-time.Hour * (24 * 365))
}

// ValidateStringEquals checks that both values match.
func ValidateStringEquals(str, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New(message)
		}
		return nil
	}
}
