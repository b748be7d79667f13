package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/csemotors/dealership/internal/api/middleware"
	"github.com/csemotors/dealership/internal/api/view"
	"github.com/csemotors/dealership/internal/core/domain"
)

type stubAccountService struct {
	registerFn       func(ctx context.Context, firstName, lastName, email, password string) (domain.Identity, error)
	loginFn          func(ctx context.Context, email, password string) (domain.Identity, error)
	updateFn         func(ctx context.Context, id int64, firstName, lastName, email string) (domain.Identity, error)
	changePasswordFn func(ctx context.Context, id int64, currentPassword, newPassword string) error
}

func (s *stubAccountService) Register(ctx context.Context, firstName, lastName, email, password string) (domain.Identity, error) {
	return s.registerFn(ctx, firstName, lastName, email, password)
}

func (s *stubAccountService) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAccountService) Profile(ctx context.Context, id int64) (domain.Identity, error) {
	return domain.Identity{}, domain.ErrAccountNotFound
}

func (s *stubAccountService) UpdateProfile(ctx context.Context, id int64, firstName, lastName, email string) (domain.Identity, error) {
	return s.updateFn(ctx, id, firstName, lastName, email)
}

func (s *stubAccountService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	return s.changePasswordFn(ctx, id, currentPassword, newPassword)
}

type stubTokenService struct {
	token    string
	identity domain.Identity
	err      error
}

func (s stubTokenService) Issue(domain.Identity) (string, error) { return s.token, nil }

func (s stubTokenService) Verify(string) (domain.Identity, error) {
	if s.err != nil {
		return domain.Identity{}, s.err
	}
	return s.identity, nil
}

// stubInventoryService feeds the nav on every page render; the browse and
// management hooks are set only by the tests that exercise them.
type stubInventoryService struct {
	nav                 []domain.Classification
	classificationFn    func(ctx context.Context, id int64) (*domain.Classification, error)
	addClassificationFn func(ctx context.Context, name string) (*domain.Classification, error)
	vehiclesFn          func(ctx context.Context, classificationID int64) ([]domain.Vehicle, error)
	vehicleFn           func(ctx context.Context, id int64) (*domain.Vehicle, error)
	addVehicleFn        func(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	updateVehicleFn     func(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error)
	deleteVehicleFn     func(ctx context.Context, id int64) error
}

func (s *stubInventoryService) Classifications(context.Context) ([]domain.Classification, error) {
	return s.nav, nil
}

func (s *stubInventoryService) ClassificationByID(ctx context.Context, id int64) (*domain.Classification, error) {
	if s.classificationFn == nil {
		return nil, domain.ErrClassificationNotFound
	}
	return s.classificationFn(ctx, id)
}

func (s *stubInventoryService) AddClassification(ctx context.Context, name string) (*domain.Classification, error) {
	return s.addClassificationFn(ctx, name)
}

func (s *stubInventoryService) VehiclesByClassification(ctx context.Context, classificationID int64) ([]domain.Vehicle, error) {
	if s.vehiclesFn == nil {
		return nil, nil
	}
	return s.vehiclesFn(ctx, classificationID)
}

func (s *stubInventoryService) VehicleByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	if s.vehicleFn == nil {
		return nil, domain.ErrVehicleNotFound
	}
	return s.vehicleFn(ctx, id)
}

func (s *stubInventoryService) AddVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	return s.addVehicleFn(ctx, v)
}

func (s *stubInventoryService) UpdateVehicle(ctx context.Context, v domain.Vehicle) (*domain.Vehicle, error) {
	return s.updateVehicleFn(ctx, v)
}

func (s *stubInventoryService) DeleteVehicle(ctx context.Context, id int64) error {
	return s.deleteVehicleFn(ctx, id)
}

type stubSessionStore struct {
	sessions map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Get(_ context.Context, sid string) (*domain.Session, error) {
	sess, ok := s.sessions[sid]
	if !ok {
		return nil, nil
	}
	clone := *sess
	return &clone, nil
}

func (s *stubSessionStore) Save(_ context.Context, sess *domain.Session) error {
	clone := *sess
	s.sessions[sess.ID] = &clone
	return nil
}

func (s *stubSessionStore) Delete(_ context.Context, sid string) error {
	delete(s.sessions, sid)
	return nil
}

func newTestEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = renderer
	e.Validator = NewValidator()
	return e
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func clientIdentity() domain.Identity {
	return domain.Identity{ID: 7, FirstName: "Ana", LastName: "Diaz", Email: "ana@example.com", Role: domain.RoleClient}
}

func authCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.AuthCookie {
			return cookie
		}
	}
	return nil
}

func TestAccountHandler_Login_Success(t *testing.T) {
	e := newTestEcho(t)
	accounts := &stubAccountService{
		loginFn: func(_ context.Context, email, password string) (domain.Identity, error) {
			if email != "ana@example.com" || password != "StrongPass#2024" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return clientIdentity(), nil
		},
	}
	h := NewAccountHandler(accounts, stubTokenService{token: "token123"}, &stubInventoryService{}, false)

	req := postForm("/account/login", url.Values{
		"account_email":    {"ana@example.com"},
		"account_password": {"StrongPass#2024"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/account" {
		t.Fatalf("redirect = %q, want /account", loc)
	}
	cookie := authCookie(rec)
	if cookie == nil || cookie.Value != "token123" {
		t.Fatalf("bearer cookie not issued: %+v", cookie)
	}
	if !cookie.HttpOnly {
		t.Fatalf("bearer cookie must be HttpOnly")
	}
}

func TestAccountHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho(t)
	accounts := &stubAccountService{
		loginFn: func(context.Context, string, string) (domain.Identity, error) {
			return domain.Identity{}, domain.ErrInvalidCredentials
		},
	}
	h := NewAccountHandler(accounts, stubTokenService{token: "token123"}, &stubInventoryService{}, false)

	req := postForm("/account/login", url.Values{
		"account_email":    {"ana@example.com"},
		"account_password": {"wrong-password-1"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if authCookie(rec) != nil {
		t.Fatalf("bearer cookie must not be issued on failure")
	}
	body := rec.Body.String()
	if !strings.Contains(body, "ana@example.com") {
		t.Fatalf("email not sticky in re-render")
	}
	if strings.Contains(body, "wrong-password-1") {
		t.Fatalf("password echoed back in re-render")
	}
}

func TestAccountHandler_Login_InvalidForm(t *testing.T) {
	e := newTestEcho(t)
	accounts := &stubAccountService{
		loginFn: func(context.Context, string, string) (domain.Identity, error) {
			t.Fatalf("service must not be called")
			return domain.Identity{}, nil
		},
	}
	h := NewAccountHandler(accounts, stubTokenService{}, &stubInventoryService{}, false)

	req := postForm("/account/login", url.Values{
		"account_email":    {"not-an-email"},
		"account_password": {"pw"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "A valid email is required.") {
		t.Fatalf("field message missing from re-render")
	}
}

func TestAccountHandler_Register_Success(t *testing.T) {
	e := newTestEcho(t)
	accounts := &stubAccountService{
		registerFn: func(_ context.Context, firstName, lastName, email, password string) (domain.Identity, error) {
			if firstName != "Ana" || email != "ana@example.com" {
				t.Fatalf("unexpected args: %s %s", firstName, email)
			}
			return clientIdentity(), nil
		},
	}
	h := NewAccountHandler(accounts, stubTokenService{}, &stubInventoryService{}, false)

	req := postForm("/account/register", url.Values{
		"account_firstname": {"Ana"},
		"account_lastname":  {"Diaz"},
		"account_email":     {"ana@example.com"},
		"account_password":  {"StrongPass#2024"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != loginPath {
		t.Fatalf("redirect = %q, want %q", loc, loginPath)
	}
}

func TestAccountHandler_Register_EmailTaken(t *testing.T) {
	e := newTestEcho(t)
	accounts := &stubAccountService{
		registerFn: func(context.Context, string, string, string, string) (domain.Identity, error) {
			return domain.Identity{}, domain.ErrEmailTaken
		},
	}
	h := NewAccountHandler(accounts, stubTokenService{}, &stubInventoryService{}, false)

	req := postForm("/account/register", url.Values{
		"account_firstname": {"Ana"},
		"account_lastname":  {"Diaz"},
		"account_email":     {"taken@example.com"},
		"account_password":  {"StrongPass#2024"},
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Email exists.") {
		t.Fatalf("duplicate-email message missing")
	}
	if !strings.Contains(body, "taken@example.com") {
		t.Fatalf("email not sticky in re-render")
	}
	if strings.Contains(body, "StrongPass#2024") {
		t.Fatalf("password echoed back in re-render")
	}
}

// Password change must end the session: bearer cookie cleared, mirror
// dropped, visitor sent back to login.
func TestAccountHandler_ChangePassword_ForcesReauth(t *testing.T) {
	e := newTestEcho(t)
	accounts := &stubAccountService{
		changePasswordFn: func(_ context.Context, id int64, current, next string) error {
			if id != clientIdentity().ID {
				t.Fatalf("unexpected id: %d", id)
			}
			return nil
		},
	}
	h := NewAccountHandler(accounts, stubTokenService{identity: clientIdentity()}, &stubInventoryService{}, false)

	store := newStubSessionStore()
	identity := clientIdentity()
	store.sessions["sid-1"] = &domain.Session{ID: "sid-1", Identity: &identity}
	bridge := middleware.NewSessionBridge(stubTokenService{identity: identity}, store, false, zerolog.Nop())

	req := postForm("/account/password", url.Values{
		"current_password": {"StrongPass#2024"},
		"new_password":     {"EvenStronger#25"},
	})
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "sid-1"})
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookie, Value: "token123"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := bridge.Middleware()(h.ChangePassword)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != loginPath {
		t.Fatalf("redirect = %q, want %q", loc, loginPath)
	}
	cookie := authCookie(rec)
	if cookie == nil || cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("bearer cookie not cleared: %+v", cookie)
	}
	if store.sessions["sid-1"].Identity != nil {
		t.Fatalf("session mirror survived password change")
	}
}

func TestAccountHandler_ChangePassword_WrongCurrent(t *testing.T) {
	e := newTestEcho(t)
	accounts := &stubAccountService{
		changePasswordFn: func(context.Context, int64, string, string) error {
			return domain.ErrInvalidCredentials
		},
	}
	h := NewAccountHandler(accounts, stubTokenService{identity: clientIdentity()}, &stubInventoryService{}, false)

	bridge := middleware.NewSessionBridge(stubTokenService{identity: clientIdentity()}, newStubSessionStore(), false, zerolog.Nop())

	req := postForm("/account/password", url.Values{
		"current_password": {"nope-not-right"},
		"new_password":     {"EvenStronger#25"},
	})
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookie, Value: "token123"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := bridge.Middleware()(h.ChangePassword)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Current password is incorrect.") {
		t.Fatalf("wrong-password message missing")
	}
	if cookie := authCookie(rec); cookie != nil && cookie.MaxAge < 0 {
		t.Fatalf("bearer cookie must survive a rejected change")
	}
}

func TestAccountHandler_Logout(t *testing.T) {
	e := newTestEcho(t)
	h := NewAccountHandler(&stubAccountService{}, stubTokenService{identity: clientIdentity()}, &stubInventoryService{}, false)

	store := newStubSessionStore()
	identity := clientIdentity()
	store.sessions["sid-1"] = &domain.Session{ID: "sid-1", Identity: &identity}
	bridge := middleware.NewSessionBridge(stubTokenService{identity: identity}, store, false, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/account/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "sid-1"})
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookie, Value: "token123"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := bridge.Middleware()(h.Logout)(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Fatalf("redirect = %q, want /", loc)
	}
	cookie := authCookie(rec)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Fatalf("bearer cookie not cleared: %+v", cookie)
	}
	if _, ok := store.sessions["sid-1"]; ok {
		t.Fatalf("session record not destroyed")
	}
}
