package approvallevel

import "context"

type Repository interface {
	// List returns every level; order is not guaranteed.
	List(ctx context.Context) ([]Level, error)
	// ReplaceAll swaps the whole table for levels.
	ReplaceAll(ctx context.Context, levels []Level) error
}
