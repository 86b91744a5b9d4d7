package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// HashPassword hashes password with bcrypt at cost
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hash
func ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PasswordProblems lists every strength rule password breaks
func PasswordProblems(password string) []string {
	var problems []string
	if len(password) < MinPasswordLength {
		problems = append(problems, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}
	if !strings.ContainsFunc(password, isASCIIUpper) {
		problems = append(problems, "Password must contain at least one uppercase letter")
	}
	if !strings.ContainsFunc(password, isASCIILower) {
		problems = append(problems, "Password must contain at least one lowercase letter")
	}
	if !strings.ContainsFunc(password, unicode.IsDigit) {
		problems = append(problems, "Password must contain at least one number")
	}
	return problems
}

func isASCIIUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isASCIILower(r rune) bool { return r >= 'a' && r <= 'z' }

// IsValidEmail performs a structural e-mail check
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// GenerateRandomToken returns n alphanumeric characters from crypto/rand
func GenerateRandomToken(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	limit := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}
		sb.WriteByte(tokenAlphabet[idx.Int64()])
	}
	return sb.String(), nil
}
