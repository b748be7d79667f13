package domain

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. Callers must surface the same message for both so login
	// attempts cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken means the bearer token is malformed or its signature
	// does not verify.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired means the bearer token is past its expiry claim.
	ErrTokenExpired = errors.New("token expired")

	ErrEmailTaken      = errors.New("email already registered")
	ErrAccountNotFound = errors.New("account not found")
	ErrWeakPassword    = errors.New("password does not meet requirements")

	ErrClassificationNotFound = errors.New("classification not found")
	ErrClassificationTaken    = errors.New("classification already exists")
	ErrInvalidClassification  = errors.New("classification name must contain letters only")
	ErrVehicleNotFound        = errors.New("vehicle not found")
	ErrInvalidVehicle         = errors.New("invalid vehicle data")
	ErrInvalidReview          = errors.New("review must be between 3 and 500 characters")
)
