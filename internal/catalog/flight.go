package catalog

import (
	"context"
	"fmt"

	"github.com/mmcdole/iplay/internal/metrics"
)

// flight is the context shared by every caller waiting on one coalesced fetch
type flight struct {
	ctx     context.Context
	cancel  context.CancelCauseFunc
	waiters int
}

// coalesce runs fn at most once per key among concurrent callers. fn runs on a
// context detached from any single caller; it is cancelled only once every
// waiting caller has returned. Each caller still honors its own ctx.
func (s *Service) coalesce(ctx context.Context, op, key string, fn func(context.Context) (any, error)) (any, error) {
	f := s.join(ctx, key)

	// Keyed by flight so every caller sharing a run also shares its cancellation
	ch := s.group.DoChan(fmt.Sprintf("%s@%p", key, f), func() (any, error) {
		defer s.land(key, f)
		return fn(f.ctx)
	})

	select {
	case res := <-ch:
		s.leave(key, f)
		if res.Shared {
			metrics.CoalescedFetches.WithLabelValues(op).Inc()
		}
		return res.Val, res.Err
	case <-ctx.Done():
		s.leave(key, f)
		return nil, context.Cause(ctx)
	}
}

func (s *Service) join(ctx context.Context, key string) *flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flights[key]
	if !ok {
		fctx, cancel := context.WithCancelCause(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		s.flights[key] = f
	}
	f.waiters++
	return f
}

// land forgets a flight whose fetch finished so the next caller starts fresh
func (s *Service) land(key string, f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flights[key] == f {
		delete(s.flights, key)
	}
}

func (s *Service) leave(key string, f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel(context.Canceled)
	if s.flights[key] == f {
		delete(s.flights, key)
	}
}
