package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrLastMilestone guards the final settlement tranche: it absorbs the
	// contract remainder and is never deletable.
	ErrLastMilestone = errors.New("final settlement milestone cannot be removed")
)
