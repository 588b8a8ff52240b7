// Package collection layers a uniform document API over any storage.Driver:
// plain CRUD delegation plus Find, which opens a lazy query cursor over the
// whole backend.
package collection

import (
	"context"

	"github.com/google/uuid"

	"github.com/mjunaidi/kagodb/storage"
)

// Item is a schemaless document, see storage.Item.
type Item = storage.Item

type Collection struct {
	driver storage.Driver
}

func New(driver storage.Driver) *Collection {
	return &Collection{
		driver: driver,
	}
}

func (c *Collection) Driver() storage.Driver {
	return c.driver
}

func (c *Collection) Read(ctx context.Context, id string) (Item, error) {
	return c.driver.Read(ctx, id)
}

func (c *Collection) Write(ctx context.Context, id string, item Item) error {
	return c.driver.Write(ctx, id, item)
}

func (c *Collection) Erase(ctx context.Context, id string) error {
	return c.driver.Erase(ctx, id)
}

func (c *Collection) Exist(ctx context.Context, id string) (bool, error) {
	return c.driver.Exist(ctx, id)
}

// Keys returns the backend's full id listing.
func (c *Collection) Keys(ctx context.Context) ([]string, error) {
	return c.driver.Index(ctx)
}

// Count reports the total number of documents, by key listing only.
func (c *Collection) Count(ctx context.Context) (int, error) {
	keys, err := c.driver.Index(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Insert writes the item under a fresh uuid and returns the generated id.
func (c *Collection) Insert(ctx context.Context, item Item) (string, error) {
	id := uuid.New().String()
	err := c.driver.Write(ctx, id, item)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Find opens a cursor over the collection. Condition and projection are
// fixed at construction (source, then condition, then projection); sort,
// offset and limit are added by chaining on the returned cursor, in call
// order. Both arguments accept the function form or the object form, or nil
// for a pass-through.
func (c *Collection) Find(condition, projection interface{}) *Cursor {
	return NewCursor(c.driver, condition, projection)
}
