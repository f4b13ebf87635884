package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

type State string

const (
	StateUnknown         State = "UNKNOWN"
	StateLoading         State = "LOADING"
	StateTrialActive     State = "TRIAL_ACTIVE"
	StatePaidActive      State = "PAID_ACTIVE"
	StateExpired         State = "EXPIRED"
	StateUnauthenticated State = "UNAUTHENTICATED"
)

// ErrPaywallActive is returned when the paywall overlay cannot be
// dismissed in the current state.
var ErrPaywallActive = errors.New("subscription required: the paywall cannot be dismissed")

// SubscriptionState derives the paywall state from the server's
// subscription-status answer. It is an explicit container the caller
// owns and passes around; there is no package-level instance. The
// server value is authoritative: no date math happens here.
type SubscriptionState struct {
	client *Client

	mu          sync.Mutex
	state       State
	status      *SubscriptionStatus
	modalOpen   bool
	modalForced bool
	message     string
	inflight    chan struct{}
}

func NewSubscriptionState(c *Client) *SubscriptionState {
	return &SubscriptionState{
		client: c,
		state:  StateUnknown,
	}
}

func (s *SubscriptionState) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status returns the last fetched server answer, nil before the first
// successful fetch.
func (s *SubscriptionState) Status() *SubscriptionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *SubscriptionState) ModalOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modalOpen
}

// Message is the last server-provided paywall detail, if any.
func (s *SubscriptionState) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Refresh fetches the subscription status and transitions. Concurrent
// callers share a single in-flight fetch instead of racing.
func (s *SubscriptionState) Refresh(ctx context.Context) (State, error) {
	s.mu.Lock()

	if _, ok := s.client.Store().Get(); !ok {
		s.toUnauthenticatedLocked()
		state := s.state
		s.mu.Unlock()
		return state, nil
	}

	if s.inflight != nil {
		done := s.inflight
		s.mu.Unlock()
		select {
		case <-done:
			return s.Current(), nil
		case <-ctx.Done():
			return s.Current(), ctx.Err()
		}
	}

	done := make(chan struct{})
	s.inflight = done
	prev := s.state
	s.state = StateLoading
	s.mu.Unlock()

	status, err := s.client.SubscriptionStatus(ctx)

	s.mu.Lock()
	defer func() {
		s.inflight = nil
		close(done)
		s.mu.Unlock()
	}()

	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden {
			// The server-side paywall already decided.
			s.state = StateExpired
			s.status = nil
			s.message = apiErr.Detail
			s.forceModalLocked()
			return s.state, nil
		}
		// 401s were handled by the client pipeline; anything else is a
		// transient failure and keeps the previous state.
		s.state = prev
		return s.state, err
	}

	s.apply(status)
	return s.state, nil
}

// apply assumes s.mu is held.
func (s *SubscriptionState) apply(status *SubscriptionStatus) {
	s.status = status
	s.message = ""

	switch {
	case !status.IsValid:
		s.state = StateExpired
		s.forceModalLocked()
	case status.Subscription.IsTrial && status.Subscription.DaysRemaining > 0:
		s.state = StateTrialActive
		s.modalForced = false
	default:
		s.state = StatePaidActive
		s.modalForced = false
	}
}

func (s *SubscriptionState) forceModalLocked() {
	s.modalOpen = true
	s.modalForced = true
}

func (s *SubscriptionState) toUnauthenticatedLocked() {
	s.state = StateUnauthenticated
	s.status = nil
	s.modalOpen = false
	s.modalForced = false
}

// OpenModal shows the paywall overlay voluntarily, e.g. from an
// "upgrade" button.
func (s *SubscriptionState) OpenModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modalOpen = true
}

// CloseModal dismisses the overlay. This is the paywall's enforcement
// point: it only succeeds while the subscription is actually usable.
func (s *SubscriptionState) CloseModal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateTrialActive && s.state != StatePaidActive {
		return ErrPaywallActive
	}
	s.modalOpen = false
	s.modalForced = false
	return nil
}

// OnLogin re-fetches after a successful sign-in.
func (s *SubscriptionState) OnLogin(ctx context.Context) (State, error) {
	return s.Refresh(ctx)
}

// OnLogout resets to a blank slate and closes the overlay.
func (s *SubscriptionState) OnLogout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toUnauthenticatedLocked()
}
