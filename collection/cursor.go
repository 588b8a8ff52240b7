package collection

import (
	"context"
)

// Cursor is a lazy query plan over a backend: a chain of stages with the
// source innermost, plus memo caches for the first full materialization and
// the first key listing. It is a transient handle, created by Find and alive
// only as long as the caller holds it; two cursors over the same collection
// never share state.
type Cursor struct {
	head   stage
	source *sourceStage
	reader Reader

	arrayCache  []Item
	arrayCached bool
	keysCache   []string
	keysCached  bool
}

// NewCursor builds the fixed inner part of the pipeline: source, then
// condition, then projection. A nil (or empty map) condition or projection
// is a pure pass-through and inserts no stage. Sort, Offset and Limit wrap
// further stages around the current head, in call order.
func NewCursor(reader Reader, condition, projection interface{}) *Cursor {

	source := &sourceStage{reader: reader}

	var head stage = source
	if !emptySpec(condition) {
		head = &conditionStage{upstream: head, spec: condition}
	}
	if !emptySpec(projection) {
		head = &projectionStage{upstream: head, spec: projection}
	}

	return &Cursor{
		head:   head,
		source: source,
		reader: reader,
	}
}

func emptySpec(spec interface{}) bool {
	if spec == nil {
		return true
	}
	if m, ok := spec.(map[string]interface{}); ok {
		return len(m) == 0
	}
	return false
}

// Sort wraps the current head in a sorting stage. The spec may be a
// Comparator (or bare func) or a multi-key field spec; see parseSort.
func (c *Cursor) Sort(spec interface{}) *Cursor {
	c.head = &sortStage{upstream: c.head, spec: spec}
	return c
}

// Offset wraps the current head in a stage that discards the first n items.
// Negative counts behave as zero.
func (c *Cursor) Offset(n int) *Cursor {
	if n < 0 {
		n = 0
	}
	c.head = &offsetStage{upstream: c.head, n: n, remaining: n}
	return c
}

// Limit wraps the current head in a stage that serves at most n items.
// Negative counts behave as zero.
func (c *Cursor) Limit(n int) *Cursor {
	if n < 0 {
		n = 0
	}
	c.head = &limitStage{upstream: c.head, n: n, left: n}
	return c
}

// Next returns the next item of the pipeline, or (nil, nil) once exhausted.
func (c *Cursor) Next(ctx context.Context) (Item, error) {
	if c.head == nil {
		return nil, ErrNoChain
	}
	return c.head.Next(ctx)
}

// Rewind resets the whole chain back to unstarted; the next pull re-fetches
// the key listing and re-drains any sort buffers. The ToArray and Keys memo
// caches are not invalidated.
func (c *Cursor) Rewind() error {
	if c.head == nil {
		return ErrNoChain
	}
	c.head.Rewind()
	return nil
}

// ToArray drains the full chain. The first successful result is memoized for
// the lifetime of the cursor; every call (cached or fresh) returns a
// defensive deep copy, so callers can never corrupt the cache through the
// returned slice. On error nothing is cached and no partial result is
// returned.
func (c *Cursor) ToArray(ctx context.Context) ([]Item, error) {

	if c.arrayCached {
		return cloneItems(c.arrayCache), nil
	}
	if c.head == nil {
		return nil, ErrNoChain
	}

	items := []Item{}
	for {
		item, err := c.head.Next(ctx)
		if err != nil {
			return nil, err
		}
		if item == nil {
			break
		}
		items = append(items, item)
	}

	c.arrayCache = items
	c.arrayCached = true

	return cloneItems(items), nil
}

// Each invokes f once per item, in pipeline order, until the sequence ends,
// the pipeline errors, or f itself returns an error. It does not rewind
// first: it continues from wherever the chain currently is.
func (c *Cursor) Each(ctx context.Context, f func(item Item) error) error {

	if c.head == nil {
		return ErrNoChain
	}

	for {
		item, err := c.head.Next(ctx)
		if err != nil {
			return err
		}
		if item == nil {
			return nil
		}
		err = f(item)
		if err != nil {
			return err
		}
	}
}

// Count reports how many items the pipeline yields. While the head is still
// the bare source (no condition, projection, sort, offset or limit was ever
// added) it counts ids via Keys instead of materializing items; this is a
// performance shortcut, not a semantic guarantee. Any added stage forces the
// ToArray path.
func (c *Cursor) Count(ctx context.Context) (int, error) {

	if c.head == nil {
		return 0, ErrNoChain
	}

	if c.head == stage(c.source) {
		keys, err := c.Keys(ctx)
		if err != nil {
			return 0, err
		}
		return len(keys), nil
	}

	items, err := c.ToArray(ctx)
	if err != nil {
		return 0, err
	}

	return len(items), nil
}

// Keys returns the backend's full id listing. Like ToArray, the first
// successful fetch is memoized and every call returns a fresh copy.
func (c *Cursor) Keys(ctx context.Context) ([]string, error) {

	if c.keysCached {
		return append([]string{}, c.keysCache...), nil
	}
	if c.reader == nil {
		return nil, ErrNoChain
	}

	keys, err := c.reader.Index(ctx)
	if err != nil {
		return nil, err
	}

	c.keysCache = keys
	c.keysCached = true

	return append([]string{}, keys...), nil
}

func cloneItems(items []Item) []Item {
	clone := make([]Item, len(items))
	for i, item := range items {
		clone[i] = cloneItem(item)
	}
	return clone
}

func cloneItem(item Item) Item {
	if item == nil {
		return nil
	}
	clone := make(Item, len(item))
	for k, v := range item {
		clone[k] = cloneValue(v)
	}
	return clone
}

func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return cloneItem(v)
	case []interface{}:
		clone := make([]interface{}, len(v))
		for i, e := range v {
			clone[i] = cloneValue(e)
		}
		return clone
	}
	return value
}
