package auth

import "errors"

var (
	// ErrAccountNotFound reports an unknown login email or account id. The
	// split between this and ErrInvalidCredentials is part of the wire
	// contract: only email existence is disclosed, never which credential
	// part was wrong beyond that.
	ErrAccountNotFound = errors.New("account not exist")
	// ErrInvalidCredentials reports a wrong password for a known account.
	ErrInvalidCredentials = errors.New("wrong credentials")
	// ErrEmailTaken reports a duplicate signup email.
	ErrEmailTaken = errors.New("account already exist")
	// ErrInvalidToken reports any unusable token: malformed, expired,
	// wrong kind, or not matching the stored one-time copy.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSignupCompleted rejects re-running signup for an activated doctor.
	ErrSignupCompleted = errors.New("registration already completed")
)
