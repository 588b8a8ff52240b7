// Package storage defines the contract between a collection and its backing
// store. A collection only ever needs these five operations; anything that
// implements Driver (an in-memory map, a directory of YAML files, a remote
// kagodb server) can back a collection.
package storage

import (
	"context"
	"errors"
)

// Item is a schemaless document: field name to value, as decoded from JSON
// or YAML. The id is external to the item, it is never one of its fields
// unless the caller put it there.
type Item = map[string]interface{}

var ErrNotFound = errors.New("document not found")

// Driver is the minimal backend contract. All operations take a context and
// return explicit errors; Read and Erase fail with ErrNotFound (possibly
// wrapped) when the id is absent.
type Driver interface {
	// Index returns the full id listing, in the backend's enumeration order.
	Index(ctx context.Context) ([]string, error)

	Read(ctx context.Context, id string) (Item, error)
	Write(ctx context.Context, id string, item Item) error
	Erase(ctx context.Context, id string) error
	Exist(ctx context.Context, id string) (bool, error)
}
