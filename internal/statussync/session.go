package statussync

import (
	"context"

	"github.com/Aayushshr101/digital-menu-backend/internal/models"
)

// Session is a Loop running on its own goroutine.
type Session struct {
	cancel context.CancelFunc
	done   chan struct{}
	order  *models.Order
	err    error
}

// Start runs l in the background. Call Stop to tear it down.
func (l *Loop) Start(ctx context.Context, initial *models.Order) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(s.done)
		s.order, s.err = l.Run(ctx, initial)
	}()

	return s
}

// Done is closed when the loop has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stop cancels the loop and waits for it to exit. It is safe to call more than once.
func (s *Session) Stop() (*models.Order, error) {
	s.cancel()
	<-s.done
	return s.order, s.err
}
