package services

import (
	"errors"
	"testing"

	"github.com/localnerve/unilib/internal/models"
)

const testSecret = "test-secret"

func TestNormalizeDomain(t *testing.T) {
	cases := map[string]string{
		"https://state.edu/": "state.edu",
		"http://State.EDU":   "state.edu",
		"  state.edu  ":      "state.edu",
		"state.edu":          "state.edu",
	}
	for in, want := range cases {
		if got := NormalizeDomain(in); got != want {
			t.Errorf("NormalizeDomain(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEmailDomain(t *testing.T) {
	if got := EmailDomain("Alice@State.EDU"); got != "state.edu" {
		t.Errorf("EmailDomain = %q, want state.edu", got)
	}
	if got := EmailDomain("not-an-email"); got != "" {
		t.Errorf("EmailDomain(bad) = %q, want empty", got)
	}
}

func TestAuthTokenRoundTrip(t *testing.T) {
	user := &models.User{
		UserID:       "user-1",
		Email:        "alice@state.edu",
		Role:         models.RoleStudent,
		UniversityID: "uni-1",
	}

	token, err := GenerateAuthToken(testSecret, user)
	if err != nil {
		t.Fatalf("GenerateAuthToken failed: %v", err)
	}

	scope, err := ParseAuthToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseAuthToken failed: %v", err)
	}
	if scope.UserID != "user-1" || scope.Email != "alice@state.edu" ||
		scope.Role != models.RoleStudent || scope.UniversityID != "uni-1" {
		t.Errorf("Scope = %+v", scope)
	}

	if _, err := ParseAuthToken("wrong-secret", token); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Wrong secret error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := ParseAuthToken(testSecret, "garbage"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Garbage token error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterResolvesUniversityByDomain(t *testing.T) {
	db := setupTestDB(t)
	uni := seedUniversity(t, db, "state.edu", 7, 0.5)

	user, err := Register(db, "Alice@State.edu", "secret123")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.UniversityID != uni.UniversityID {
		t.Errorf("UniversityID = %s, want %s", user.UniversityID, uni.UniversityID)
	}
	if user.Role != models.RoleStudent {
		t.Errorf("Role = %s, want Student", user.Role)
	}
	if user.Email != "alice@state.edu" {
		t.Errorf("Email = %s, want lowercased", user.Email)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Error("Password stored unhashed")
	}

	if _, err := Register(db, "alice@state.edu", "again"); !errors.Is(err, ErrConflict) {
		t.Errorf("Duplicate register error = %v, want ErrConflict", err)
	}
	if _, err := Register(db, "bob@unknown.edu", "secret123"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Unknown domain error = %v, want ErrInvalidInput", err)
	}
	if _, err := Register(db, "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Empty credentials error = %v, want ErrInvalidInput", err)
	}
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	seedUniversity(t, db, "state.edu", 7, 0.5)
	if _, err := Register(db, "alice@state.edu", "secret123"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := Login(db, "ALICE@state.edu", "secret123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Email != "alice@state.edu" {
		t.Errorf("Email = %s", user.Email)
	}

	if _, err := Login(db, "alice@state.edu", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := Login(db, "nobody@state.edu", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Unknown user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterUniversity(t *testing.T) {
	db := setupTestDB(t)

	days := 14
	fine := 1.25
	uni, admin, err := RegisterUniversity(db, OnboardingInput{
		UniversityName:  "State University",
		Domain:          "https://state.edu/",
		AdminEmail:      "Admin@state.edu",
		AdminPassword:   "secret123",
		LoanDaysDefault: &days,
		FinePerDay:      &fine,
	})
	if err != nil {
		t.Fatalf("RegisterUniversity failed: %v", err)
	}
	if uni.Domain != "state.edu" {
		t.Errorf("Domain = %s, want normalized state.edu", uni.Domain)
	}
	if uni.LoanDaysDefault != 14 || uni.FinePerDay != 1.25 {
		t.Errorf("Policy = %d/%v", uni.LoanDaysDefault, uni.FinePerDay)
	}
	if admin.Role != models.RoleAdmin || admin.UniversityID != uni.UniversityID {
		t.Errorf("Admin = %+v", admin)
	}
	if uni.AdminID == nil || *uni.AdminID != admin.UserID {
		t.Error("AdminID not backfilled on the university")
	}

	// Duplicate domain
	_, _, err = RegisterUniversity(db, OnboardingInput{
		UniversityName: "State Again",
		Domain:         "state.edu",
		AdminEmail:     "other@state.edu",
		AdminPassword:  "secret123",
	})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("Duplicate domain error = %v, want ErrConflict", err)
	}

	// Admin email domain must match
	_, _, err = RegisterUniversity(db, OnboardingInput{
		UniversityName: "Tech",
		Domain:         "tech.edu",
		AdminEmail:     "admin@elsewhere.edu",
		AdminPassword:  "secret123",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Domain mismatch error = %v, want ErrInvalidInput", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	db := setupTestDB(t)
	uni := seedUniversity(t, db, "state.edu", 7, 0.5)
	admin := seedUser(t, db, uni, "admin@state.edu", models.RoleAdmin)

	days := 21
	updated, err := UpdateSettings(db, admin, SettingsUpdate{LoanDaysDefault: &days})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if updated.LoanDaysDefault != 21 {
		t.Errorf("LoanDaysDefault = %d, want 21", updated.LoanDaysDefault)
	}
	// Untouched field survives
	if updated.FinePerDay != 0.5 {
		t.Errorf("FinePerDay = %v, want 0.5", updated.FinePerDay)
	}

	zero := 0
	if _, err := UpdateSettings(db, admin, SettingsUpdate{LoanDaysDefault: &zero}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Zero loan days error = %v, want ErrInvalidInput", err)
	}
	negative := -0.5
	if _, err := UpdateSettings(db, admin, SettingsUpdate{FinePerDay: &negative}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Negative fine error = %v, want ErrInvalidInput", err)
	}
}

func TestListNotificationsLimit(t *testing.T) {
	db := setupTestDB(t)
	uni := seedUniversity(t, db, "state.edu", 7, 0.5)
	student := seedUser(t, db, uni, "alice@state.edu", models.RoleStudent)
	book := seedBook(t, db, uni, "SICP", "1", 1)

	for i := 0; i < 5; i++ {
		recordActivity(db, student, book, models.NotificationBorrow, "event")
	}

	views, err := ListNotifications(db, student, 3)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(views) != 3 {
		t.Errorf("len = %d, want 3", len(views))
	}

	// Out-of-range limits are clamped, not errors
	if _, err := ListNotifications(db, student, 0); err != nil {
		t.Errorf("Limit 0 failed: %v", err)
	}
	if _, err := ListNotifications(db, student, 10000); err != nil {
		t.Errorf("Limit 10000 failed: %v", err)
	}
}
