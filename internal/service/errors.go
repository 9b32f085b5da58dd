package service

import "errors"

// OTP flow specific errors used by handlers for stable status mapping.
var (
	// ErrInvalidOTP covers "no active code for this email" without revealing
	// whether the email is known.
	ErrInvalidOTP  = errors.New("invalid_or_expired_code")
	ErrOTPExpired  = errors.New("code_expired")
	ErrOTPMismatch = errors.New("incorrect_code")
)
