package services

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrSuperseded is returned to a fetch whose result was discarded because a
// newer fetch on the same list started after it
var ErrSuperseded = errors.New("list fetch superseded by a newer request")

// FetchFunc loads one page of T for the given filters
type FetchFunc[F, T any] func(ctx context.Context, filters F) ([]T, error)

// ListSnapshot is the {data, loading, error} view of a RemoteList
type ListSnapshot[F, T any] struct {
	Data    []T    `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Filters F      `json:"filters"`
	Err     error  `json:"-"`
}

// RemoteList is a filtered list backed by a remote fetch. Only the most
// recent Refresh is authoritative: starting a new one cancels the previous
// fetch, and a result that arrives after it was superseded is dropped.
type RemoteList[F, T any] struct {
	name   string
	fetch  FetchFunc[F, T]
	logger *logrus.Logger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	data       []T
	loading    bool
	err        error
	filters    F
}

// NewRemoteList creates an empty list
func NewRemoteList[F, T any](name string, fetch FetchFunc[F, T], logger *logrus.Logger) *RemoteList[F, T] {
	return &RemoteList[F, T]{
		name:   name,
		fetch:  fetch,
		logger: logger,
		data:   []T{},
	}
}

// Refresh fetches with filters and replaces the list on success. On failure
// the previous data is kept and the error recorded.
func (l *RemoteList[F, T]) Refresh(ctx context.Context, filters F) (ListSnapshot[F, T], error) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	gen := l.generation
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.loading = true
	l.filters = filters
	l.mu.Unlock()

	data, err := l.fetch(fetchCtx, filters)
	cancel()

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		l.logger.WithFields(logrus.Fields{
			"list":       l.name,
			"generation": gen,
			"latest":     l.generation,
		}).Debug("Discarding superseded list fetch")
		return l.snapshotLocked(), ErrSuperseded
	}

	l.cancel = nil
	l.loading = false
	if err != nil {
		l.err = err
		l.logger.WithField("list", l.name).WithError(err).Warn("List fetch failed")
		return l.snapshotLocked(), err
	}

	if data == nil {
		data = []T{}
	}
	l.data = data
	l.err = nil
	return l.snapshotLocked(), nil
}

// Snapshot returns the current state without fetching
func (l *RemoteList[F, T]) Snapshot() ListSnapshot[F, T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *RemoteList[F, T]) snapshotLocked() ListSnapshot[F, T] {
	s := ListSnapshot[F, T]{
		Data:    append([]T(nil), l.data...),
		Loading: l.loading,
		Filters: l.filters,
		Err:     l.err,
	}
	if s.Data == nil {
		s.Data = []T{}
	}
	if l.err != nil {
		s.Error = UserMessage(l.err, "Failed to load "+l.name)
	}
	return s
}
