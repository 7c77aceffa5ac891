package domain

import "errors"

var (
	ErrNotFound          = errors.New("crop not found")
	ErrInvalidID         = errors.New("invalid id")
	ErrEmptyUpdate       = errors.New("no fields to update")
	ErrNotOwner          = errors.New("not the owner of this crop")
	ErrOwnInterest       = errors.New("owner cannot submit interest on their own crop")
	ErrDuplicateInterest = errors.New("interest already submitted for this crop")
	ErrInterestNotFound  = errors.New("interest not found")
	ErrInterestDecided   = errors.New("interest already decided")
	ErrInvalidStatus     = errors.New("invalid interest status")
)
