package catalog

import "errors"

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrServiceInactive = errors.New("service is not active")
)
