package handshake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Thanush-41/AgriXchange/bidding-client/internal/realtime"
	"github.com/Thanush-41/AgriXchange/shared/logger"
)

// DefaultTimeout bounds each waiting state of an attempt
const DefaultTimeout = 10 * time.Second

// Runner drives a Machine over a realtime connection
type Runner struct {
	// Timeout is the budget for each of the Authenticating and JoiningRoom
	// states. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Run performs the handshake for roomID on conn. Server-reported failures are
// returned as a KindFailed result with a nil error. Timeouts, cancellation and
// connection loss also yield KindFailed, together with a non-nil error.
func (r Runner) Run(ctx context.Context, conn realtime.Conn, token, roomID string) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	m := NewMachine(conn.Generation(), roomID)
	first, err := m.Start(token)
	if err != nil {
		return Failure(SendFailedMessage), err
	}
	if err := conn.Send(first); err != nil {
		m.Fail(SendFailedMessage)
		return m.Result(), fmt.Errorf("handshake: failed to send %s: %w", first.Event, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	events := conn.Events()
	for !m.State().Terminal() {
		select {
		case <-ctx.Done():
			state := m.State()
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				m.Fail(TimeoutMessage)
				return m.Result(), fmt.Errorf("%w while %s", ErrTimeout, state)
			}
			m.Fail(CanceledMessage)
			return m.Result(), fmt.Errorf("%w while %s", ErrCanceled, state)

		case <-timer.C:
			state := m.State()
			m.Fail(TimeoutMessage)
			return m.Result(), fmt.Errorf("%w while %s", ErrTimeout, state)

		case f, ok := <-events:
			if !ok {
				state := m.State()
				m.Fail(ConnectionLostMessage)
				return m.Result(), fmt.Errorf("%w while %s", ErrConnectionClosed, state)
			}

			before := m.State()
			out, handled := m.Handle(f)
			if !handled {
				logger.Debug("ignoring frame", map[string]any{
					"event":      f.Event,
					"state":      before.String(),
					"generation": f.Generation,
				})
				continue
			}
			logger.Debug("handshake transition", map[string]any{
				"event": f.Event,
				"from":  before.String(),
				"to":    m.State().String(),
			})

			if out != nil {
				if err := conn.Send(*out); err != nil {
					m.Fail(SendFailedMessage)
					return m.Result(), fmt.Errorf("handshake: failed to send %s: %w", out.Event, err)
				}
			}
			if m.State() != before && !m.State().Terminal() {
				resetTimer(timer, timeout)
			}
		}
	}

	return m.Result(), nil
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
