// Package auth provides password authentication, login attempt
// limiting and JWT token issuance.
package auth

import (
	"errors"
	"time"
)

type Config struct {
	Enabled      bool               `mapstructure:"enabled"`       //
	Password     PasswordConfig     `mapstructure:"password"`      //
	LoginAttempt LoginAttemptConfig `mapstructure:"login_attempt"` //
	Token        TokenConfig        `mapstructure:"token"`         //
}

// PasswordConfig controls hashing and the password policy.
type PasswordConfig struct {
	Policy     PasswordPolicy `mapstructure:"policy"`      //
	BcryptCost int            `mapstructure:"bcrypt_cost"` // 4-31, 12 recommended
}

// PasswordPolicy is enforced on registration and password change.
type PasswordPolicy struct {
	MinLength          int      `mapstructure:"min_length"`           //
	MaxLength          int      `mapstructure:"max_length"`           //
	RequireUppercase   bool     `mapstructure:"require_uppercase"`    //
	RequireLowercase   bool     `mapstructure:"require_lowercase"`    //
	RequireDigit       bool     `mapstructure:"require_digit"`        //
	RequireSpecialChar bool     `mapstructure:"require_special_char"` //
	Blacklist          []string `mapstructure:"blacklist"`            // weak password substrings
}

// LoginAttemptConfig throttles brute-force login attempts.
type LoginAttemptConfig struct {
	Enabled         bool          `mapstructure:"enabled"`          //
	MaxAttempts     int           `mapstructure:"max_attempts"`     //
	LockoutDuration time.Duration `mapstructure:"lockout_duration"` //
	Storage         string        `mapstructure:"storage"`          // redis | memory
	RedisKeyPrefix  string        `mapstructure:"redis_key_prefix"` //
}

// TokenConfig controls JWT issuance (HS256).
type TokenConfig struct {
	Secret     string        `mapstructure:"secret"`      //
	Issuer     string        `mapstructure:"issuer"`      //
	AccessTTL  time.Duration `mapstructure:"access_ttl"`  //
	RefreshTTL time.Duration `mapstructure:"refresh_ttl"` //
}

func (c *Config) ApplyDefaults() {
	if c.Password.BcryptCost == 0 {
		c.Password.BcryptCost = 12
	}
	policy := &c.Password.Policy
	if policy.MinLength == 0 {
		policy.MinLength = 8
	}
	if policy.MaxLength == 0 {
		policy.MaxLength = 128
	}

	if c.LoginAttempt.Enabled {
		if c.LoginAttempt.MaxAttempts == 0 {
			c.LoginAttempt.MaxAttempts = 5
		}
		if c.LoginAttempt.LockoutDuration == 0 {
			c.LoginAttempt.LockoutDuration = 30 * time.Minute
		}
		if c.LoginAttempt.Storage == "" {
			c.LoginAttempt.Storage = "memory"
		}
		if c.LoginAttempt.RedisKeyPrefix == "" {
			c.LoginAttempt.RedisKeyPrefix = "auth:login_attempt:"
		}
	}

	if c.Token.Issuer == "" {
		c.Token.Issuer = "yogan"
	}
	if c.Token.AccessTTL == 0 {
		c.Token.AccessTTL = 15 * time.Minute
	}
	if c.Token.RefreshTTL == 0 {
		c.Token.RefreshTTL = 7 * 24 * time.Hour
	}
}

func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	policy := c.Password.Policy
	if policy.MinLength < 1 || policy.MinLength > policy.MaxLength {
		return errors.New("invalid password length policy")
	}
	if c.Password.BcryptCost < 4 || c.Password.BcryptCost > 31 {
		return errors.New("bcrypt cost must be within 4-31")
	}

	if c.LoginAttempt.Enabled {
		if c.LoginAttempt.MaxAttempts < 1 {
			return errors.New("max login attempts must be >= 1")
		}
		if c.LoginAttempt.Storage != "redis" && c.LoginAttempt.Storage != "memory" {
			return errors.New("login attempt storage must be redis or memory")
		}
	}

	if c.Token.Secret == "" {
		return errors.New("token secret is required")
	}
	return nil
}
