package profile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kiwari-pos/console/internal/apperr"
)

type mockProfileStore struct {
	profile  Profile
	saves    int
	saveErr  error
	fetchErr error
}

func (m *mockProfileStore) FetchProfile(_ context.Context) (Profile, error) {
	if m.fetchErr != nil {
		return Profile{}, m.fetchErr
	}
	return m.profile, nil
}

func (m *mockProfileStore) SaveProfile(_ context.Context, p Profile) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.profile = p
	return nil
}

func validProfile() Profile {
	return Profile{
		Name:         "Trattoria Roma",
		Description:  "Family-run Italian kitchen.",
		Address:      "Jl. Contoh No. 1, Jakarta",
		Phone:        "+62 812-3456-7890",
		Email:        "hello@trattoria.example.com",
		OpeningHours: "9:00 AM - 10:00 PM",
	}
}

func TestSave_Valid(t *testing.T) {
	store := &mockProfileStore{}
	m := NewManager(store, 0)

	got, err := m.Save(context.Background(), validProfile())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if got.Phone != "+6281234567890" {
		t.Errorf("phone not normalized: %q", got.Phone)
	}
	cur, ok := m.Current()
	if !ok || cur.Name != "Trattoria Roma" {
		t.Fatalf("current: %+v (loaded=%v)", cur, ok)
	}
	if store.profile.Phone != "+6281234567890" {
		t.Fatalf("store got %+v", store.profile)
	}
}

func TestSave_InvalidEmailNotSent(t *testing.T) {
	store := &mockProfileStore{}
	m := NewManager(store, 0)

	p := validProfile()
	p.Email = "not-an-email"
	_, err := m.Save(context.Background(), p)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got: %v", err)
	}
	if !strings.Contains(err.Error(), "email") {
		t.Errorf("message does not name the field: %v", err)
	}
	if store.saves != 0 {
		t.Fatal("store called with invalid profile")
	}
}

func TestSave_MissingRequired(t *testing.T) {
	m := NewManager(&mockProfileStore{}, 0)
	_, err := m.Save(context.Background(), Profile{Name: "  "})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got: %v", err)
	}
	for _, field := range []string{"name is required", "address is required", "phone is required", "email is required"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("missing %q in %v", field, err)
		}
	}
}

func TestSave_StoreFailureKeepsCurrent(t *testing.T) {
	store := &mockProfileStore{profile: validProfile()}
	m := NewManager(store, 0)
	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	store.saveErr = errors.New("503 service unavailable")
	p := validProfile()
	p.Name = "Renamed"
	if _, err := m.Save(context.Background(), p); !errors.Is(err, apperr.ErrTransient) {
		t.Fatalf("expected ErrTransient, got: %v", err)
	}
	if cur, _ := m.Current(); cur.Name != "Trattoria Roma" {
		t.Fatalf("cached profile changed on failure: %q", cur.Name)
	}
}

func TestLoad_Failure(t *testing.T) {
	m := NewManager(&mockProfileStore{fetchErr: errors.New("timeout")}, 0)
	if err := m.Load(context.Background()); !errors.Is(err, apperr.ErrTransient) {
		t.Fatalf("expected ErrTransient, got: %v", err)
	}
	if _, ok := m.Current(); ok {
		t.Fatal("profile marked loaded after failure")
	}
}

func TestOnChange_OnlyAfterSave(t *testing.T) {
	store := &mockProfileStore{}
	m := NewManager(store, 0)
	var got []string
	m.OnChange(func(p Profile) { got = append(got, p.Name) })

	bad := validProfile()
	bad.Email = ""
	m.Save(context.Background(), bad)
	if _, err := m.Save(context.Background(), validProfile()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(got) != 1 || got[0] != "Trattoria Roma" {
		t.Fatalf("notifications: %v", got)
	}
}
