package database

import "errors"

var (
	// ErrInvalidConfig reports a config that cannot open a connection.
	ErrInvalidConfig = errors.New("invalid database config")

	// ErrRecordNotFound replaces gorm.ErrRecordNotFound at the repository boundary.
	ErrRecordNotFound = errors.New("record not found")
)
