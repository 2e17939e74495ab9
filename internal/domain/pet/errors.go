package pet

import "errors"

var (
	ErrPetNotFound = errors.New("pet not found")
	ErrPetInactive = errors.New("pet record is not active")
)
