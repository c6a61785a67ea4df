package service

import "errors"

var (
	ErrNotFound           = errors.New("parcel not found")
	ErrDuplicateParcelID  = errors.New("tracking id already exists")
	ErrParcelIDExhausted  = errors.New("no free tracking id available")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalid     = errors.New("admin session invalid")
	ErrUploadFailed       = errors.New("save upload failed")
)
