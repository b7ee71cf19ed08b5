package docstore

import "errors"

var (
	ErrMongoUnreachable = errors.New("mongodb server unreachable")
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrInvalidID        = errors.New("invalid recipe id")
)
