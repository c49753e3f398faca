package errors

import "fmt"

var (
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrGroupNotFound      = fmt.Errorf("group not found")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrValidation         = fmt.Errorf("invalid entity")
)
