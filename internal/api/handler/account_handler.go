package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/csemotors/dealership/internal/api/metrics"
	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/core/domain"
	"github.com/csemotors/dealership/internal/core/ports"
)

// AccountHandler serves registration, login and account maintenance pages.
type AccountHandler struct {
	base
	accounts ports.AccountService
	tokens   ports.TokenService
	secure   bool
}

func NewAccountHandler(accounts ports.AccountService, tokens ports.TokenService, inventory ports.InventoryService, secure bool) *AccountHandler {
	return &AccountHandler{
		base:     base{inventory: inventory},
		accounts: accounts,
		tokens:   tokens,
		secure:   secure,
	}
}

type loginForm struct {
	Email    string `form:"account_email" validate:"required,email"`
	Password string `form:"account_password" validate:"required"`
}

func (f loginForm) sticky() map[string]string {
	return map[string]string{"account_email": f.Email}
}

type registerForm struct {
	FirstName string `form:"account_firstname" validate:"required"`
	LastName  string `form:"account_lastname" validate:"required,min=2"`
	Email     string `form:"account_email" validate:"required,email"`
	Password  string `form:"account_password" validate:"required,min=12"`
}

func (f registerForm) sticky() map[string]string {
	return map[string]string{
		"account_firstname": f.FirstName,
		"account_lastname":  f.LastName,
		"account_email":     f.Email,
	}
}

type updateForm struct {
	FirstName string `form:"account_firstname" validate:"required"`
	LastName  string `form:"account_lastname" validate:"required,min=2"`
	Email     string `form:"account_email" validate:"required,email"`
}

func (f updateForm) sticky() map[string]string {
	return map[string]string{
		"account_firstname": f.FirstName,
		"account_lastname":  f.LastName,
		"account_email":     f.Email,
	}
}

type passwordForm struct {
	Current string `form:"current_password" validate:"required"`
	New     string `form:"new_password" validate:"required,min=12"`
}

// ShowLogin renders the login form.
func (h *AccountHandler) ShowLogin(c echo.Context) error {
	p, err := h.page(c, "Login")
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "login", p)
}

// Login authenticates, issues the bearer cookie and redirects to the
// dashboard. Unknown email and wrong password render the identical message.
func (h *AccountHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return h.renderLogin(c, form, nil)
	}
	if err := c.Validate(&form); err != nil {
		fields, _ := fieldMessages(err)
		return h.renderLogin(c, form, fields)
	}

	identity, err := h.accounts.Login(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			flash(c, domain.NoticeError, "Please check your credentials and try again.")
			return h.renderLogin(c, form, nil)
		}
		return err
	}

	token, err := h.tokens.Issue(identity)
	if err != nil {
		return err
	}
	middleware.SetAuthCookie(c, token, h.secure)
	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.Redirect(http.StatusSeeOther, "/account")
}

func (h *AccountHandler) renderLogin(c echo.Context, form loginForm, fields map[string]string) error {
	p, err := h.page(c, "Login")
	if err != nil {
		return err
	}
	p.Form = form.sticky()
	p.Fields = fields
	return c.Render(http.StatusBadRequest, "login", p)
}

// ShowRegister renders the registration form.
func (h *AccountHandler) ShowRegister(c echo.Context) error {
	p, err := h.page(c, "Register")
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "register", p)
}

// Register creates a Client account. Validation failures re-render the form
// with field messages and sticky non-sensitive values; the password is
// never echoed back.
func (h *AccountHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return h.renderRegister(c, form, nil)
	}
	if err := c.Validate(&form); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		fields, _ := fieldMessages(err)
		return h.renderRegister(c, form, fields)
	}

	identity, err := h.accounts.Register(c.Request().Context(), form.FirstName, form.LastName, form.Email, form.Password)
	switch {
	case errors.Is(err, domain.ErrWeakPassword):
		metrics.RegistrationsTotal.WithLabelValues("weak_password").Inc()
		return h.renderRegister(c, form, map[string]string{
			"account_password": "Password does not meet requirements.",
		})
	case errors.Is(err, domain.ErrEmailTaken):
		metrics.RegistrationsTotal.WithLabelValues("email_taken").Inc()
		return h.renderRegister(c, form, map[string]string{
			"account_email": "Email exists. Please log in or use a different email.",
		})
	case err != nil:
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("ok").Inc()
	flash(c, domain.NoticeInfo, "Congratulations, you're registered "+identity.FirstName+". Please log in.")
	return c.Redirect(http.StatusSeeOther, loginPath)
}

func (h *AccountHandler) renderRegister(c echo.Context, form registerForm, fields map[string]string) error {
	p, err := h.page(c, "Register")
	if err != nil {
		return err
	}
	p.Form = form.sticky()
	p.Fields = fields
	return c.Render(http.StatusBadRequest, "register", p)
}

// Dashboard renders the account home page.
func (h *AccountHandler) Dashboard(c echo.Context) error {
	if _, ok := currentIdentity(c); !ok {
		return c.Redirect(http.StatusSeeOther, loginPath)
	}
	p, err := h.page(c, "Account Management")
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "account", p)
}

// ShowUpdate renders the profile form pre-filled from the current snapshot.
func (h *AccountHandler) ShowUpdate(c echo.Context) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, loginPath)
	}
	p, err := h.page(c, "Edit Account")
	if err != nil {
		return err
	}
	p.Form = map[string]string{
		"account_firstname": identity.FirstName,
		"account_lastname":  identity.LastName,
		"account_email":     identity.Email,
	}
	return c.Render(http.StatusOK, "account_update", p)
}

// Update changes name/email and re-issues the bearer cookie so it reflects
// the new data.
func (h *AccountHandler) Update(c echo.Context) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, loginPath)
	}

	var form updateForm
	if err := c.Bind(&form); err != nil {
		return h.renderUpdate(c, form, nil)
	}
	if err := c.Validate(&form); err != nil {
		fields, _ := fieldMessages(err)
		return h.renderUpdate(c, form, fields)
	}

	updated, err := h.accounts.UpdateProfile(c.Request().Context(), identity.ID, form.FirstName, form.LastName, form.Email)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return h.renderUpdate(c, form, map[string]string{
				"account_email": "That email address is already in use by another account.",
			})
		}
		return err
	}

	token, err := h.tokens.Issue(updated)
	if err != nil {
		return err
	}
	middleware.SetAuthCookie(c, token, h.secure)
	flash(c, domain.NoticeInfo, "Your account was updated.")
	return c.Redirect(http.StatusSeeOther, "/account")
}

func (h *AccountHandler) renderUpdate(c echo.Context, form updateForm, fields map[string]string) error {
	p, err := h.page(c, "Edit Account")
	if err != nil {
		return err
	}
	p.Form = form.sticky()
	p.Fields = fields
	return c.Render(http.StatusBadRequest, "account_update", p)
}

// ChangePassword re-verifies the current password, stores the new hash, and
// forces re-authentication: the bearer cookie is cleared rather than
// re-issued. That boundary is deliberate.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, loginPath)
	}

	var form passwordForm
	if err := c.Bind(&form); err != nil {
		return h.renderPasswordError(c, nil)
	}
	if err := c.Validate(&form); err != nil {
		fields, _ := fieldMessages(err)
		return h.renderPasswordError(c, fields)
	}

	err := h.accounts.ChangePassword(c.Request().Context(), identity.ID, form.Current, form.New)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return h.renderPasswordError(c, map[string]string{
			"current_password": "Current password is incorrect.",
		})
	case errors.Is(err, domain.ErrWeakPassword):
		return h.renderPasswordError(c, map[string]string{
			"new_password": "Password does not meet requirements.",
		})
	case err != nil:
		return err
	}

	middleware.ClearAuthCookie(c, h.secure)
	if state := middleware.SessionState(c); state != nil {
		state.ClearIdentity(c)
	}
	flash(c, domain.NoticeInfo, "Your password was changed. Please log in again.")
	return c.Redirect(http.StatusSeeOther, loginPath)
}

func (h *AccountHandler) renderPasswordError(c echo.Context, fields map[string]string) error {
	identity, ok := currentIdentity(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, loginPath)
	}
	p, err := h.page(c, "Edit Account")
	if err != nil {
		return err
	}
	p.Form = map[string]string{
		"account_firstname": identity.FirstName,
		"account_lastname":  identity.LastName,
		"account_email":     identity.Email,
	}
	p.Fields = fields
	return c.Render(http.StatusBadRequest, "account_update", p)
}

// Logout clears the bearer cookie and destroys the session record.
func (h *AccountHandler) Logout(c echo.Context) error {
	middleware.ClearAuthCookie(c, h.secure)
	if state := middleware.SessionState(c); state != nil {
		state.Destroy(c)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// parseID converts a path parameter to an int64 id.
func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "page not found")
	}
	return id, nil
}
