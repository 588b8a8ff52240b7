package collection

import (
	"context"
	"errors"
	"fmt"
	"testing"

	. "github.com/fulldump/biff"

	"github.com/mjunaidi/kagodb/storage/memory"
)

func newTestCollection() *Collection {

	m := memory.New()

	ctx := context.Background()
	m.Write(ctx, "foo", Item{"string": "FOO", "decimal": 123, "numeric": 45.67})
	m.Write(ctx, "bar", Item{"string": "BAR", "decimal": 111, "numeric": 10.0})
	m.Write(ctx, "baz", Item{"string": "BAZ", "decimal": 999, "numeric": 3.14})
	m.Write(ctx, "qux", Item{"string": "QUX", "decimal": 123, "numeric": 0.99})

	return New(m)
}

func TestCursor_ToArray_ConditionMap(t *testing.T) {

	c := newTestCollection()

	items, err := c.Find(map[string]interface{}{"decimal": 123}, nil).ToArray(context.Background())

	AssertNil(err)
	AssertEqual(len(items), 2)
	for _, item := range items {
		AssertEqual(item["decimal"], 123)
	}
}

func TestCursor_Count_MatchesToArray(t *testing.T) {

	c := newTestCollection()
	ctx := context.Background()

	condition := map[string]interface{}{"decimal": 123}

	items, _ := c.Find(condition, nil).ToArray(ctx)
	n, err := c.Find(condition, nil).Count(ctx)

	AssertNil(err)
	AssertEqual(n, len(items))
	AssertEqual(n, 2)
}

func TestCursor_Count_FastPath(t *testing.T) {

	reads := 0
	r := &fakeReader{
		index: func() ([]string, error) { return []string{"a", "b", "c"}, nil },
		read: func(id string) (Item, error) {
			reads++
			return Item{"id": id}, nil
		},
	}

	n, err := NewCursor(r, nil, nil).Count(context.Background())

	AssertNil(err)
	AssertEqual(n, 3)
	AssertEqual(reads, 0) // bare source counts by keys only

	// any added stage forces materialization
	n, err = NewCursor(r, nil, nil).Limit(2).Count(context.Background())
	AssertNil(err)
	AssertEqual(n, 2)
	AssertEqual(reads, 2)
}

func TestCursor_ConditionFunction(t *testing.T) {

	c := newTestCollection()

	items, err := c.Find(func(item Item) bool {
		return item["string"] == "BAZ"
	}, nil).ToArray(context.Background())

	AssertNil(err)
	AssertEqual(len(items), 1)
	AssertEqual(items[0]["string"], "BAZ")
}

func TestCursor_Projection_Whitelist(t *testing.T) {

	c := newTestCollection()

	items, err := c.Find(nil, map[string]interface{}{"string": 1}).ToArray(context.Background())

	AssertNil(err)
	AssertEqual(len(items), 4)
	for _, item := range items {
		AssertEqual(len(item), 1)
		_, hasString := item["string"]
		AssertTrue(hasString)
	}
}

func TestCursor_Projection_Mapping(t *testing.T) {

	c := newTestCollection()

	items, err := c.Find(nil, func(item Item) Item {
		return Item{"upper": fmt.Sprintf("%v!", item["string"])}
	}).ToArray(context.Background())

	AssertNil(err)
	AssertEqual(len(items), 4)
	AssertEqual(items[0]["upper"], "BAR!")
}

func TestCursor_Sort_SingleFieldAscending(t *testing.T) {

	c := newTestCollection()

	items, err := c.Find(nil, nil).Sort(map[string]interface{}{"string": 1}).ToArray(context.Background())

	AssertNil(err)
	AssertEqual(items[0]["string"], "BAR")
	AssertEqual(items[3]["string"], "QUX")
}

func TestCursor_Sort_Descending(t *testing.T) {

	c := newTestCollection()

	items, err := c.Find(nil, nil).Sort([]SortField{{Field: "decimal", Direction: -1}}).ToArray(context.Background())

	AssertNil(err)
	previous, _ := toFloat(items[0]["decimal"])
	for _, item := range items[1:] {
		current, _ := toFloat(item["decimal"])
		AssertTrue(previous >= current)
		previous = current
	}
}

func TestCursor_Sort_MultiKeyTieBreak(t *testing.T) {

	c := newTestCollection()

	// decimal ties (123) are broken by string, descending
	items, err := c.Find(nil, nil).Sort([]SortField{
		{Field: "decimal", Direction: 1},
		{Field: "string", Direction: -1},
	}).ToArray(context.Background())

	AssertNil(err)
	AssertEqual(items[0]["string"], "BAR") // 111
	AssertEqual(items[1]["string"], "QUX") // 123, tie broken descending
	AssertEqual(items[2]["string"], "FOO") // 123
	AssertEqual(items[3]["string"], "BAZ") // 999
}

func TestCursor_Sort_Comparator(t *testing.T) {

	c := newTestCollection()

	items, err := c.Find(nil, nil).Sort(func(a, b Item) int {
		return compareValues(b["numeric"], a["numeric"])
	}).ToArray(context.Background())

	AssertNil(err)
	AssertEqual(items[0]["numeric"], 45.67)
	AssertEqual(items[3]["numeric"], 0.99)
}

func TestCursor_Offset(t *testing.T) {

	c := newTestCollection()
	ctx := context.Background()

	full, _ := c.Find(nil, nil).ToArray(ctx)
	tail, err := c.Find(nil, nil).Offset(2).ToArray(ctx)

	AssertNil(err)
	AssertEqual(len(tail), 2)
	AssertEqualJson(tail[0], full[2])
	AssertEqualJson(tail[1], full[3])
}

func TestCursor_Offset_PastEnd(t *testing.T) {

	c := newTestCollection()

	items, err := c.Find(nil, nil).Offset(1000).ToArray(context.Background())

	AssertNil(err)
	AssertEqual(len(items), 0)
}

func TestCursor_Limit(t *testing.T) {

	c := newTestCollection()
	ctx := context.Background()

	full, _ := c.Find(nil, nil).ToArray(ctx)
	first, err := c.Find(nil, nil).Limit(3).ToArray(ctx)

	AssertNil(err)
	AssertEqual(len(first), 3)
	for i := range first {
		AssertEqualJson(first[i], full[i])
	}

	all, err := c.Find(nil, nil).Limit(1000).ToArray(ctx)
	AssertNil(err)
	AssertEqual(len(all), 4)
}

func TestCursor_ToArray_Memoized(t *testing.T) {

	c := newTestCollection()
	ctx := context.Background()

	cursor := c.Find(nil, nil)

	first, err := cursor.ToArray(ctx)
	AssertNil(err)

	second, err := cursor.ToArray(ctx)
	AssertNil(err)

	AssertEqualJson(second, first)

	// mutating one returned array must not leak into the other
	first[0]["string"] = "MUTATED"
	delete(first[1], "decimal")

	third, _ := cursor.ToArray(ctx)
	AssertEqual(third[0]["string"], "BAR")
	AssertEqual(third[1]["decimal"], 999)
}

func TestCursor_Rewind_Reproduces(t *testing.T) {

	c := newTestCollection()
	ctx := context.Background()

	cursor := c.Find(nil, nil).Sort(map[string]interface{}{"string": 1})

	first := []Item{}
	err := cursor.Each(ctx, func(item Item) error {
		first = append(first, item)
		return nil
	})
	AssertNil(err)
	AssertEqual(len(first), 4)

	AssertNil(cursor.Rewind())

	second := []Item{}
	err = cursor.Each(ctx, func(item Item) error {
		second = append(second, item)
		return nil
	})
	AssertNil(err)
	AssertEqualJson(second, first)
}

func TestCursor_Each_DoesNotAutoRewind(t *testing.T) {

	c := newTestCollection()
	ctx := context.Background()

	cursor := c.Find(nil, nil)

	n := 0
	cursor.Each(ctx, func(item Item) error { n++; return nil })
	AssertEqual(n, 4)

	// chain is exhausted, a second Each sees nothing
	cursor.Each(ctx, func(item Item) error { n++; return nil })
	AssertEqual(n, 4)
}

func TestCursor_Each_StopsOnCallbackError(t *testing.T) {

	c := newTestCollection()

	boom := errors.New("boom")
	n := 0
	err := c.Find(nil, nil).Each(context.Background(), func(item Item) error {
		n++
		if n == 2 {
			return boom
		}
		return nil
	})

	AssertEqual(err, boom)
	AssertEqual(n, 2)
}

func TestCursor_Next_EndOfSequence(t *testing.T) {

	c := newTestCollection()
	ctx := context.Background()

	cursor := c.Find(nil, nil).Limit(1)

	item, err := cursor.Next(ctx)
	AssertNil(err)
	AssertNotNil(item)

	item, err = cursor.Next(ctx)
	AssertNil(err)
	AssertNil(item)

	// exhaustion is sticky
	item, err = cursor.Next(ctx)
	AssertNil(err)
	AssertNil(item)
}

func TestCursor_NoChain(t *testing.T) {

	cursor := &Cursor{}

	_, err := cursor.Next(context.Background())
	AssertEqual(err, ErrNoChain)

	AssertEqual(cursor.Rewind(), ErrNoChain)
}

func TestCursor_Keys_DefensiveCopy(t *testing.T) {

	c := newTestCollection()
	ctx := context.Background()

	cursor := c.Find(nil, nil)

	keys, err := cursor.Keys(ctx)
	AssertNil(err)
	AssertEqual(len(keys), 4)

	keys[0] = "corrupted"

	again, _ := cursor.Keys(ctx)
	AssertEqual(again[0], "bar")
}

type fakeReader struct {
	index func() ([]string, error)
	read  func(id string) (Item, error)
}

func (f *fakeReader) Index(ctx context.Context) ([]string, error) {
	return f.index()
}

func (f *fakeReader) Read(ctx context.Context, id string) (Item, error) {
	return f.read(id)
}

func TestCursor_BackendErrorOnIndex(t *testing.T) {

	boom := errors.New("backend down")
	r := &fakeReader{
		index: func() ([]string, error) { return nil, boom },
		read:  func(id string) (Item, error) { return nil, nil },
	}

	items, err := NewCursor(r, nil, nil).ToArray(context.Background())

	AssertEqual(err, boom)
	AssertNil(items) // no partial result on error
}

func TestCursor_BackendErrorMidStream(t *testing.T) {

	boom := errors.New("read failed")
	r := &fakeReader{
		index: func() ([]string, error) { return []string{"a", "b", "c"}, nil },
		read: func(id string) (Item, error) {
			if id == "b" {
				return nil, boom
			}
			return Item{"id": id}, nil
		},
	}

	items, err := NewCursor(r, nil, nil).ToArray(context.Background())

	AssertEqual(err, boom)
	AssertNil(items)
}

func TestCursor_SequentialReads(t *testing.T) {

	order := []string{}
	r := &fakeReader{
		index: func() ([]string, error) { return []string{"1", "2", "3"}, nil },
		read: func(id string) (Item, error) {
			order = append(order, id)
			return Item{"id": id}, nil
		},
	}

	cursor := NewCursor(r, nil, nil)
	ctx := context.Background()

	// one read per pull, in enumeration order
	cursor.Next(ctx)
	AssertEqual(len(order), 1)
	cursor.Next(ctx)
	AssertEqual(len(order), 2)
	AssertEqualJson(order, []string{"1", "2"})
}

func TestCursor_InvalidConditionSurfacesOnNext(t *testing.T) {

	c := newTestCollection()

	cursor := c.Find(42, nil) // construction does not fail

	_, err := cursor.Next(context.Background())
	AssertTrue(errors.Is(err, ErrInvalidCondition))

	// and keeps failing the same way
	_, err = cursor.Next(context.Background())
	AssertTrue(errors.Is(err, ErrInvalidCondition))
}

func TestCursor_InvalidSortSurfacesOnNext(t *testing.T) {

	c := newTestCollection()

	cursor := c.Find(nil, nil).Sort(map[string]interface{}{"a": 1, "b": 1})

	_, err := cursor.Next(context.Background())
	AssertTrue(errors.Is(err, ErrInvalidSort))
}
