package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// PasswordService hashes passwords with bcrypt and enforces the policy.
type PasswordService struct {
	policy     PasswordPolicy
	bcryptCost int
}

func NewPasswordService(policy PasswordPolicy, bcryptCost int) *PasswordService {
	return &PasswordService{policy: policy, bcryptCost: bcryptCost}
}

func (s *PasswordService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *PasswordService) CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword checks password against the configured policy.
func (s *PasswordService) ValidatePassword(password string) error {
	if len(password) < s.policy.MinLength {
		return ErrPasswordTooShort
	}
	if len(password) > s.policy.MaxLength {
		return ErrPasswordTooLong
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		case unicode.IsPunct(ch) || unicode.IsSymbol(ch):
			hasSpecial = true
		}
	}
	if s.policy.RequireUppercase && !hasUpper {
		return ErrPasswordRequireUppercase
	}
	if s.policy.RequireLowercase && !hasLower {
		return ErrPasswordRequireLowercase
	}
	if s.policy.RequireDigit && !hasDigit {
		return ErrPasswordRequireDigit
	}
	if s.policy.RequireSpecialChar && !hasSpecial {
		return ErrPasswordRequireSpecial
	}

	lower := strings.ToLower(password)
	for _, weak := range s.policy.Blacklist {
		if strings.Contains(lower, strings.ToLower(weak)) {
			return ErrPasswordInBlacklist
		}
	}
	return nil
}

func (s *PasswordService) Policy() PasswordPolicy {
	return s.policy
}
