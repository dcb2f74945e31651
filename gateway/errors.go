package gateway

import "fmt"

// NetworkError means the request never produced a usable response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError is a non-2xx answer to login or register.
type AuthError struct {
	Status int
	Detail string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth failed (%d): %s", e.Status, e.Detail)
}

// ValidationError is a non-2xx answer to an address call.
type ValidationError struct {
	Status int
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("request rejected (%d): %s", e.Status, e.Detail)
}
