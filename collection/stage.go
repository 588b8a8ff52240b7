package collection

import (
	"context"
	"sort"
)

// stage is one node of a cursor pipeline. Next returns the next item, or
// (nil, nil) once the sequence is exhausted; exhaustion is sticky until
// Rewind, which resets the stage and propagates upstream. Every stage owns
// exactly one upstream stage; the source owns none.
type stage interface {
	Next(ctx context.Context) (Item, error)
	Rewind()
}

// Reader is what the source stage needs from a backend: the full id listing
// plus one read per id. It is a strict subset of storage.Driver.
type Reader interface {
	Index(ctx context.Context) ([]string, error)
	Read(ctx context.Context, id string) (Item, error)
}

// sourceStage enumerates the backend: one Index call up front (lazily, on
// the first pull), then one Read per pull, strictly sequential. Errors from
// the backend propagate verbatim.
type sourceStage struct {
	reader  Reader
	keys    []string
	fetched bool
	pos     int
}

func (s *sourceStage) Next(ctx context.Context) (Item, error) {

	if !s.fetched {
		keys, err := s.reader.Index(ctx)
		if err != nil {
			return nil, err
		}
		s.keys = keys
		s.fetched = true
		s.pos = 0
	}

	if s.pos >= len(s.keys) {
		return nil, nil
	}

	id := s.keys[s.pos]
	s.pos++

	return s.reader.Read(ctx, id)
}

func (s *sourceStage) Rewind() {
	s.keys = nil
	s.fetched = false
	s.pos = 0
}

// conditionStage skips upstream items that do not match the predicate.
type conditionStage struct {
	upstream   stage
	spec       interface{}
	predicate  predicateFunc
	normalized bool
	specErr    error
}

func (s *conditionStage) Next(ctx context.Context) (Item, error) {

	if !s.normalized {
		s.predicate, s.specErr = parseCondition(s.spec)
		s.normalized = true
	}
	if s.specErr != nil {
		return nil, s.specErr
	}

	for {
		item, err := s.upstream.Next(ctx)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, nil
		}
		if s.predicate == nil {
			return item, nil
		}
		match, err := s.predicate(item)
		if err != nil {
			return nil, err
		}
		if match {
			return item, nil
		}
	}
}

func (s *conditionStage) Rewind() {
	s.upstream.Rewind()
}

// projectionStage transforms each upstream item; end of sequence and errors
// pass through untouched.
type projectionStage struct {
	upstream   stage
	spec       interface{}
	mapping    Mapping
	normalized bool
	specErr    error
}

func (s *projectionStage) Next(ctx context.Context) (Item, error) {

	if !s.normalized {
		s.mapping, s.specErr = parseProjection(s.spec)
		s.normalized = true
	}
	if s.specErr != nil {
		return nil, s.specErr
	}

	item, err := s.upstream.Next(ctx)
	if err != nil || item == nil {
		return nil, err
	}
	if s.mapping == nil {
		return item, nil
	}

	return s.mapping(item), nil
}

func (s *projectionStage) Rewind() {
	s.upstream.Rewind()
}

// sortStage is not streaming: the first pull drains the whole upstream into
// a buffer, sorts it, then replays it one item per pull.
type sortStage struct {
	upstream stage
	spec     interface{}
	buffer   []Item
	drained  bool
	pos      int
}

func (s *sortStage) Next(ctx context.Context) (Item, error) {

	if !s.drained {
		comparator, err := parseSort(s.spec)
		if err != nil {
			return nil, err
		}

		buffer := []Item{}
		for {
			item, err := s.upstream.Next(ctx)
			if err != nil {
				return nil, err
			}
			if item == nil {
				break
			}
			buffer = append(buffer, item)
		}

		sort.SliceStable(buffer, func(i, j int) bool {
			return comparator(buffer[i], buffer[j]) < 0
		})

		s.buffer = buffer
		s.drained = true
		s.pos = 0
	}

	if s.pos >= len(s.buffer) {
		return nil, nil
	}

	item := s.buffer[s.pos]
	s.pos++

	return item, nil
}

func (s *sortStage) Rewind() {
	s.buffer = nil
	s.drained = false
	s.pos = 0
	s.upstream.Rewind()
}

// offsetStage discards the first n upstream items.
type offsetStage struct {
	upstream  stage
	n         int
	remaining int
}

func (s *offsetStage) Next(ctx context.Context) (Item, error) {

	for s.remaining > 0 {
		item, err := s.upstream.Next(ctx)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, nil
		}
		s.remaining--
	}

	return s.upstream.Next(ctx)
}

func (s *offsetStage) Rewind() {
	s.remaining = s.n
	s.upstream.Rewind()
}

// limitStage serves at most n items; once spent it signals end of sequence
// without consulting upstream.
type limitStage struct {
	upstream stage
	n        int
	left     int
}

func (s *limitStage) Next(ctx context.Context) (Item, error) {

	if s.left <= 0 {
		return nil, nil
	}

	item, err := s.upstream.Next(ctx)
	if err != nil || item == nil {
		return nil, err
	}
	s.left--

	return item, nil
}

func (s *limitStage) Rewind() {
	s.left = s.n
	s.upstream.Rewind()
}
