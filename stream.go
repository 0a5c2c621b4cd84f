package auth

import (
	"context"
	"sync"
	"time"
)

var _ SessionSource = (*SessionStream)(nil)

// SessionStream is a broadcast, latest-value-replaying stream of Session
// values. Publishing a new value is the only way its visible state changes;
// new subscribers always receive the most recent value immediately, then
// subsequent values in publish order. Only the latest value is retained.
type SessionStream struct {
	logger Logger
	now    func() time.Time

	mu      sync.Mutex
	current Session
	subs    map[chan Session]struct{}
}

type StreamOption func(*SessionStream)

// WithStreamLogger sets the logger used during seeding.
func WithStreamLogger(logger Logger) StreamOption {
	return func(s *SessionStream) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStreamClock injects a custom clock (useful for tests).
func WithStreamClock(clock func() time.Time) StreamOption {
	return func(s *SessionStream) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewSessionStream seeds the stream from the credential store: a present,
// fresh credential seeds an authenticated session; anything else seeds
// unauthenticated and clears the store so stale data does not linger. A nil
// store seeds unauthenticated.
func NewSessionStream(ctx context.Context, store CredentialStore, opts ...StreamOption) *SessionStream {
	s := &SessionStream{
		logger: defLogger{},
		now:    time.Now,
		subs:   make(map[chan Session]struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.current = s.seed(ctx, store)

	return s
}

func (s *SessionStream) seed(ctx context.Context, store CredentialStore) Session {
	if store == nil {
		return Session{}
	}

	rec, err := store.Load(ctx)
	if err != nil {
		s.logger.Warn("session seed: store load failed: %v", err)
		return Session{}
	}
	if rec == nil {
		return Session{}
	}

	claims, err := DecodeToken(rec.Token)
	if err == nil && claims.IsFresh(s.now()) {
		identity := claims.Identity()
		// the stored mirror may carry fields the credential omits
		if identity.DisplayName == "" {
			identity.DisplayName = rec.Identity.DisplayName
		}
		if identity.PhotoURL == "" {
			identity.PhotoURL = rec.Identity.PhotoURL
		}
		return AuthenticatedSession(identity)
	}

	if err != nil {
		s.logger.Info("session seed: discarding undecodable credential: %v", err)
	} else {
		s.logger.Info("session seed: discarding expired credential")
	}

	if err := store.Clear(ctx); err != nil {
		s.logger.Warn("session seed: store clear failed: %v", err)
	}

	return Session{}
}

// Current returns the most recently published value without waiting.
func (s *SessionStream) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Publish replaces the stream's value and delivers it to every subscriber.
// Values are observed in publish order; a slow subscriber only ever misses
// intermediate values, never the latest.
func (s *SessionStream) Publish(next Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = next
	for ch := range s.subs {
		deliverLatest(ch, next)
	}
}

// Subscribe registers a new observer. The latest value is already buffered
// on the returned channel; the unsubscribe func is idempotent and closes the
// channel.
func (s *SessionStream) Subscribe() (func(), <-chan Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Session, 1)
	ch <- s.current
	s.subs[ch] = struct{}{}

	unsub := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; !ok {
			return
		}
		delete(s.subs, ch)
		drainAndClose(ch)
	}

	return unsub, ch
}

// deliverLatest replaces any undelivered value with the newest one. The
// publisher holds the stream lock, so it is the only sender; a racing
// receiver can only empty the channel, which lets the send succeed.
func deliverLatest(ch chan Session, v Session) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// drainAndClose removes any buffered value before closing the channel so
// receivers observe a closed channel immediately.
func drainAndClose(ch chan Session) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}
