package db

import (
	"github.com/jackc/pgx/v5"
)

// Copyable is a record that can be written with COPY.
type Copyable interface {
	CopyValues() []any
}

// ChannelSource implements pgx.CopyFromSource by reading records from a
// channel. Leading values (a load batch id, say) are prepended to every row.
type ChannelSource[T Copyable] struct {
	ch      <-chan T
	leading []any
	current T
	err     error
}

// NewChannelSource creates a CopyFromSource backed by a channel.
func NewChannelSource[T Copyable](ch <-chan T, leading ...any) *ChannelSource[T] {
	return &ChannelSource[T]{ch: ch, leading: leading}
}

// Next advances to the next row. Returns false when the channel is closed.
func (s *ChannelSource[T]) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the current row's values in COPY column order.
func (s *ChannelSource[T]) Values() ([]any, error) {
	vals := s.current.CopyValues()
	if len(s.leading) == 0 {
		return vals, nil
	}
	out := make([]any, 0, len(s.leading)+len(vals))
	out = append(out, s.leading...)
	return append(out, vals...), nil
}

// Err returns any error encountered during iteration.
func (s *ChannelSource[T]) Err() error {
	return s.err
}

// Feed sends pointers to records on a new channel from a goroutine and
// closes it when done or when stop is closed.
func Feed[T any, PT interface {
	*T
	Copyable
}](records []T, stop <-chan struct{}) <-chan PT {
	ch := make(chan PT, 256)
	go func() {
		defer close(ch)
		for i := range records {
			select {
			case ch <- PT(&records[i]):
			case <-stop:
				return
			}
		}
	}()
	return ch
}

var _ pgx.CopyFromSource = (*ChannelSource[Copyable])(nil)
