package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/localnerve/unilib/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthTokenTTL is the lifetime of an issued auth cookie
const AuthTokenTTL = 24 * time.Hour

// AuthClaims is the JWT payload carried by the auth_token cookie
type AuthClaims struct {
	Role         string `json:"role"`
	Email        string `json:"email"`
	UniversityID string `json:"universityId"`
	jwt.RegisteredClaims
}

// GenerateAuthToken signs a session token for the user
func GenerateAuthToken(secret string, user *models.User) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret not set")
	}
	now := time.Now().UTC()
	claims := AuthClaims{
		Role:         user.Role,
		Email:        user.Email,
		UniversityID: user.UniversityID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AuthTokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAuthToken validates a session token and converts it to a tenant Scope
func ParseAuthToken(secret, token string) (Scope, error) {
	var claims AuthClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return Scope{}, ErrInvalidCredentials
	}
	return Scope{
		UserID:       claims.Subject,
		Email:        claims.Email,
		Role:         claims.Role,
		UniversityID: claims.UniversityID,
	}, nil
}

// HashPassword hashes a plaintext password with bcrypt
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext candidate against the stored hash
func CheckPassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

// EmailDomain extracts the lowercased domain from an email address
func EmailDomain(email string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(email)), "@")
	if len(parts) != 2 || parts[1] == "" {
		return ""
	}
	return parts[1]
}

// Register self-serves a student account: the email's domain picks the
// university. Fails when the domain is not onboarded or the email is taken.
func Register(db *gorm.DB, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrInvalidInput)
	}

	domain := EmailDomain(email)
	var university models.University
	if err := db.First(&university, "domain = ?", domain).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: email domain not associated with any university", ErrInvalidInput)
		}
		return nil, err
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: user already exists", ErrConflict)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleStudent,
		UniversityID: university.UniversityID,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and returns the user
func Login(db *gorm.DB, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrInvalidInput)
	}

	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
