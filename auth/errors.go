package auth

import "errors"

var (
	ErrPasswordTooShort         = errors.New("password too short")
	ErrPasswordTooLong          = errors.New("password too long")
	ErrPasswordRequireUppercase = errors.New("password must contain an uppercase letter")
	ErrPasswordRequireLowercase = errors.New("password must contain a lowercase letter")
	ErrPasswordRequireDigit     = errors.New("password must contain a digit")
	ErrPasswordRequireSpecial   = errors.New("password must contain a special character")
	ErrPasswordInBlacklist      = errors.New("password is too common")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrTooManyAttempts    = errors.New("too many login attempts, try again later")

	ErrProviderNotSupported = errors.New("authentication provider not supported")

	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenExpired   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type")
)
