package model

import "context"

// Transactor runs fn so that every store write made with the context passed to
// fn is committed together or not at all.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
