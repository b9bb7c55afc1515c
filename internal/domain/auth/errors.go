package auth

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid token")
	ErrEmployeeIDRequired    = errors.New("token carries no employee id")
	ErrManagerAccessRequired = errors.New("manager or owner access required")
	ErrNotRequestOwner       = errors.New("only the requester or a manager may do this")
)
