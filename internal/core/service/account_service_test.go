package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/csemotors/dealership/internal/core/domain"
)

type stubAccountRepo struct {
	byEmail map[string]*domain.Account
	nextID  int64
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byEmail: make(map[string]*domain.Account), nextID: 1}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	if a, ok := r.byEmail[email]; ok {
		return cloneAccount(a), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	for _, a := range r.byEmail {
		if a.ID == id {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	if _, exists := r.byEmail[account.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	created := cloneAccount(account)
	created.ID = r.nextID
	r.nextID++
	r.byEmail[created.Email] = cloneAccount(created)
	return created, nil
}

func (r *stubAccountRepo) UpdateProfile(_ context.Context, id int64, firstName, lastName, email string) (*domain.Account, error) {
	for old, a := range r.byEmail {
		if a.ID == id {
			a.FirstName, a.LastName, a.Email = firstName, lastName, email
			a.UpdatedAt = time.Now().UTC()
			delete(r.byEmail, old)
			r.byEmail[email] = a
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	for _, a := range r.byEmail {
		if a.ID == id {
			a.PasswordHash = hash
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

const strongPass = "StrongPass#2024"

func TestAccountService_Register_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo)

	identity, err := svc.Register(context.Background(), "Jane", "Doe", "Jane@X.com", strongPass)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if identity.Email != "jane@x.com" {
		t.Fatalf("email not normalized: %s", identity.Email)
	}
	if identity.Role != domain.RoleClient {
		t.Fatalf("expected client role, got %s", identity.Role)
	}

	stored := repo.byEmail["jane@x.com"]
	if stored == nil {
		t.Fatalf("account not persisted")
	}
	if stored.PasswordHash == strongPass {
		t.Fatalf("password stored in the clear")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(strongPass)); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAccountService_Register_WeakPassword(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo)

	weak := []string{"short#A1", "alllowercase#2024x", "ALLUPPERCASE#2024", "NoSymbols12345", "NoDigitsHere#now"}
	for _, pw := range weak {
		if _, err := svc.Register(context.Background(), "Jane", "Doe", "jane@x.com", pw); !errors.Is(err, domain.ErrWeakPassword) {
			t.Fatalf("Register(%q): expected ErrWeakPassword, got %v", pw, err)
		}
	}
	if len(repo.byEmail) != 0 {
		t.Fatalf("weak-password registration persisted an account")
	}
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo)

	if _, err := svc.Register(context.Background(), "Jane", "Doe", "jane@x.com", strongPass); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Other", "Person", "JANE@x.com", strongPass); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.byEmail) != 1 {
		t.Fatalf("duplicate registration performed an insert")
	}
}

func TestAccountService_Login_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo)

	if _, err := svc.Register(context.Background(), "Jane", "Doe", "jane@x.com", strongPass); err != nil {
		t.Fatalf("register: %v", err)
	}

	identity, err := svc.Login(context.Background(), "Jane@X.com", strongPass)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if identity.FirstName != "Jane" || identity.Email != "jane@x.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestAccountService_Login_NoEnumeration(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo)

	if _, err := svc.Register(context.Background(), "Jane", "Doe", "jane@x.com", strongPass); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPass := svc.Login(context.Background(), "jane@x.com", "WrongPass#2024")
	_, unknown := svc.Login(context.Background(), "ghost@x.com", strongPass)

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("login failures are distinguishable: %q vs %q", wrongPass, unknown)
	}
}

func TestAccountService_UpdateProfile_EmailCollision(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo)

	jane, _ := svc.Register(context.Background(), "Jane", "Doe", "jane@x.com", strongPass)
	if _, err := svc.Register(context.Background(), "John", "Roe", "john@x.com", strongPass); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.UpdateProfile(context.Background(), jane.ID, "Jane", "Doe", "john@x.com"); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Keeping the same email is not a collision.
	updated, err := svc.UpdateProfile(context.Background(), jane.ID, "Janet", "Doe", "jane@x.com")
	if err != nil {
		t.Fatalf("update with own email: %v", err)
	}
	if updated.FirstName != "Janet" {
		t.Fatalf("profile not updated: %+v", updated)
	}
}

func TestAccountService_ChangePassword_WrongCurrent(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo)

	jane, _ := svc.Register(context.Background(), "Jane", "Doe", "jane@x.com", strongPass)
	before := repo.byEmail["jane@x.com"].PasswordHash

	err := svc.ChangePassword(context.Background(), jane.ID, "WrongPass#2024", "AnotherPass#2024")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if repo.byEmail["jane@x.com"].PasswordHash != before {
		t.Fatalf("stored hash changed despite wrong current password")
	}
}

func TestAccountService_ChangePassword_Success(t *testing.T) {
	repo := newStubAccountRepo()
	svc := NewAccountService(repo)

	jane, _ := svc.Register(context.Background(), "Jane", "Doe", "jane@x.com", strongPass)
	if err := svc.ChangePassword(context.Background(), jane.ID, strongPass, "AnotherPass#2024"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Login(context.Background(), "jane@x.com", "AnotherPass#2024"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(context.Background(), "jane@x.com", strongPass); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still works")
	}
}

func TestCheckPasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{strongPass, true},
		{"Aa1#Aa1#Aa1#", true},
		{"Sh0rt#", false},
		{strings.Repeat("a", 20), false},
		{"nouppercase#2024", false},
		{"NOLOWERCASE#2024", false},
		{"NoSymbolsAtAll24", false},
	}
	for _, tc := range cases {
		if got := CheckPasswordStrength(tc.password); got != tc.want {
			t.Fatalf("CheckPasswordStrength(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}
