package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"codeconnect/internal/catalog"
	"codeconnect/internal/form"

	"github.com/google/uuid"
)

// DefaultSuccessRate is the probability that a simulated publish succeeds.
const DefaultSuccessRate = 0.7

// Delays are the fixed latencies of the simulated calls.
type Delays struct {
	TagLookup  time.Duration
	EmailCheck time.Duration
	Publish    time.Duration
}

// DefaultDelays returns 1s for tag lookups and email checks and 2s for
// publishing.
func DefaultDelays() Delays {
	return Delays{
		TagLookup:  time.Second,
		EmailCheck: time.Second,
		Publish:    2 * time.Second,
	}
}

// Simulated answers from the in-memory catalog after fixed delays.
// Publishing succeeds at random with the configured rate.
type Simulated struct {
	delays      Delays
	successRate float64
	newID       func() uuid.UUID

	mu  sync.Mutex
	rng *rand.Rand
}

// SimulatedOption configures a Simulated backend.
type SimulatedOption func(*Simulated)

// WithDelays overrides the call latencies.
func WithDelays(d Delays) SimulatedOption {
	return func(s *Simulated) { s.delays = d }
}

// WithSuccessRate sets the publish success probability, clamped to [0, 1].
func WithSuccessRate(rate float64) SimulatedOption {
	return func(s *Simulated) { s.successRate = min(max(rate, 0), 1) }
}

// WithRand sets the random source used to decide publish outcomes.
func WithRand(r *rand.Rand) SimulatedOption {
	return func(s *Simulated) { s.rng = r }
}

// WithIDs sets the receipt ID generator.
func WithIDs(gen func() uuid.UUID) SimulatedOption {
	return func(s *Simulated) { s.newID = gen }
}

// NewSimulated creates a simulated backend with the default delays and
// success rate unless overridden.
func NewSimulated(opts ...SimulatedOption) *Simulated {
	s := &Simulated{
		delays:      DefaultDelays(),
		successRate: DefaultSuccessRate,
		newID:       uuid.New,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TagExists reports whether tag is allowed, after the tag lookup delay.
func (s *Simulated) TagExists(ctx context.Context, tag string) (bool, error) {
	if err := sleep(ctx, s.delays.TagLookup); err != nil {
		return false, err
	}
	return catalog.IsAllowedTag(tag), nil
}

// EmailAvailable reports whether email is not yet registered, after the
// email check delay.
func (s *Simulated) EmailAvailable(ctx context.Context, email string) (bool, error) {
	if err := sleep(ctx, s.delays.EmailCheck); err != nil {
		return false, err
	}
	return !catalog.IsRegisteredEmail(email), nil
}

// Publish waits for the publish delay and then succeeds or fails at random.
// Each call is an independent trial.
func (s *Simulated) Publish(ctx context.Context, p form.Project) (Receipt, error) {
	if err := sleep(ctx, s.delays.Publish); err != nil {
		return Receipt{}, err
	}
	if s.roll() >= s.successRate {
		return Receipt{}, ErrPublishFailed
	}
	return Receipt{ID: s.newID(), Message: form.MsgPublished}, nil
}

func (s *Simulated) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
