// Package cart owns the per-session cart snapshot and funnels every mutation
// through the commerce backend.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"matcha-storefront/internal/domain"

	"github.com/sirupsen/logrus"
)

// ErrEmptyCart is returned by Checkout when there is nothing to pay for.
var ErrEmptyCart = errors.New("cart is empty")

// Remote is the slice of the commerce backend a session needs.
type Remote interface {
	CreateCart(ctx context.Context, lines []domain.LineInput) (*domain.Cart, error)
	GetCart(ctx context.Context, id string) (*domain.Cart, error)
	AddLines(ctx context.Context, cartID string, lines []domain.LineInput) (*domain.Cart, error)
	UpdateLines(ctx context.Context, cartID string, lines []domain.LineUpdate) (*domain.Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error)
}

// IDStore persists the cart id of a browser session. Get returns
// domain.ErrNotFound when nothing is stored.
type IDStore interface {
	Get(ctx context.Context, sessionID string) (string, error)
	Save(ctx context.Context, sessionID, cartID string) error
	Delete(ctx context.Context, sessionID string) error
}

// State is a read-only view of a session handed to listeners and handlers.
type State struct {
	Cart      *domain.Cart
	ItemCount int
	Loading   bool
	Err       string
}

// Session is the single owner of one shopper's cart. The snapshot is only
// ever replaced wholesale with the backend's response.
type Session struct {
	id     string
	remote Remote
	store  IDStore
	logger logrus.FieldLogger

	// initMu serializes restore attempts. restored is set once the backend
	// gave a definite answer about the stored cart.
	initMu   sync.Mutex
	restored atomic.Bool

	mu        sync.Mutex
	cart      *domain.Cart
	loading   bool
	errMsg    string
	listeners map[int]func(State)
	nextSub   int
}

func NewSession(id string, remote Remote, store IDStore, logger logrus.FieldLogger) *Session {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Session{
		id:        id,
		remote:    remote,
		store:     store,
		logger:    logger.WithField("session", id),
		listeners: make(map[int]func(State)),
	}
}

func (s *Session) ID() string { return s.id }

// Initialize restores the persisted cart. It never fails: a missing or expired
// cart leaves the session empty, and an unreadable one is retried on next use.
func (s *Session) Initialize(ctx context.Context) {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	s.initializeLocked(ctx)
}

func (s *Session) ensureInitialized(ctx context.Context) {
	if s.restored.Load() {
		return
	}
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.restored.Load() {
		return
	}
	s.initializeLocked(ctx)
}

func (s *Session) initializeLocked(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	s.notify()

	cart, settled := s.restore(ctx)

	s.mu.Lock()
	if settled {
		s.cart = cart
	}
	s.loading = false
	s.mu.Unlock()
	if settled {
		s.restored.Store(true)
	}
	s.notify()
}

// restore reports settled=false when the store or backend could not answer,
// so the stored cart id stays untouched for a later attempt.
func (s *Session) restore(ctx context.Context) (*domain.Cart, bool) {
	cartID, err := s.store.Get(ctx, s.id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, true
		}
		s.logger.Warnf("cart session: read stored cart id error=%v", err)
		return nil, false
	}

	cart, err := s.remote.GetCart(ctx, cartID)
	switch {
	case errors.Is(err, domain.ErrCartNotFound):
		s.logger.WithField("cart_id", cartID).Info("cart session: stored cart is gone, starting empty")
		s.forgetCartID(ctx)
		return nil, true
	case err != nil:
		s.logger.WithField("cart_id", cartID).Warnf("cart session: fetch cart error=%v", err)
		return nil, false
	}
	return cart, true
}

// AddItem creates the cart on first use and otherwise lets the backend merge
// the variant into an existing line.
func (s *Session) AddItem(ctx context.Context, variantID string, quantity int) error {
	if variantID == "" {
		return domain.ErrVariantRequired
	}
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	lines := []domain.LineInput{{VariantID: variantID, Quantity: quantity}}
	return s.mutate(ctx, "add item", func(ctx context.Context, current *domain.Cart) (*domain.Cart, error) {
		cartID, err := s.currentCartID(ctx, current)
		if err != nil {
			return nil, err
		}
		if cartID != "" {
			cart, err := s.remote.AddLines(ctx, cartID, lines)
			if !errors.Is(err, domain.ErrCartNotFound) {
				return cart, err
			}
			s.logger.WithField("cart_id", cartID).Info("cart session: cart expired, creating a new one")
		}
		cart, err := s.remote.CreateCart(ctx, lines)
		if err != nil {
			return nil, err
		}
		if err := s.store.Save(ctx, s.id, cart.ID); err != nil {
			s.logger.WithField("cart_id", cart.ID).Errorf("cart session: persist cart id error=%v", err)
		}
		return cart, nil
	})
}

// currentCartID falls back to the store when the snapshot is empty, so a cart
// that could not be restored earlier is added to rather than replaced.
func (s *Session) currentCartID(ctx context.Context, current *domain.Cart) (string, error) {
	if current != nil {
		return current.ID, nil
	}
	cartID, err := s.store.Get(ctx, s.id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "", nil
	case err != nil:
		return "", fmt.Errorf("read stored cart id: %w", err)
	}
	return cartID, nil
}

// UpdateItemQuantity sets a line's quantity. Quantities below one are a caller
// error; removal goes through RemoveItem.
func (s *Session) UpdateItemQuantity(ctx context.Context, lineID string, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	return s.mutateLine(ctx, "update quantity", lineID, func(ctx context.Context, cartID string) (*domain.Cart, error) {
		return s.remote.UpdateLines(ctx, cartID, []domain.LineUpdate{{LineID: lineID, Quantity: quantity}})
	})
}

func (s *Session) RemoveItem(ctx context.Context, lineID string) error {
	return s.mutateLine(ctx, "remove item", lineID, func(ctx context.Context, cartID string) (*domain.Cart, error) {
		return s.remote.RemoveLines(ctx, cartID, []string{lineID})
	})
}

func (s *Session) mutateLine(ctx context.Context, op, lineID string, call func(context.Context, string) (*domain.Cart, error)) error {
	if lineID == "" {
		return fmt.Errorf("line id required: %w", domain.ErrNotFound)
	}
	return s.mutate(ctx, op, func(ctx context.Context, current *domain.Cart) (*domain.Cart, error) {
		if _, ok := current.Line(lineID); !ok {
			return nil, fmt.Errorf("line %s: %w", lineID, domain.ErrNotFound)
		}
		cart, err := call(ctx, current.ID)
		if errors.Is(err, domain.ErrCartNotFound) {
			// The backend dropped the cart; the line went with it.
			s.logger.WithField("cart_id", current.ID).Info("cart session: cart expired, resetting")
			s.forgetCartID(ctx)
			return nil, nil
		}
		return cart, err
	})
}

// Checkout hands out the checkout URL and releases the cart from the session.
func (s *Session) Checkout(ctx context.Context) (string, error) {
	s.ensureInitialized(ctx)

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return "", domain.ErrMutationInFlight
	}
	cart := s.cart
	if cart == nil || len(cart.Lines) == 0 {
		s.mu.Unlock()
		return "", ErrEmptyCart
	}
	s.cart = nil
	s.errMsg = ""
	s.mu.Unlock()

	s.forgetCartID(ctx)
	s.logger.WithField("cart_id", cart.ID).Info("cart session: checkout")
	s.notify()
	return cart.CheckoutURL, nil
}

// mutate runs one backend call. Overlapping calls are rejected rather than
// queued. On failure the previous snapshot pointer is left in place.
func (s *Session) mutate(ctx context.Context, op string, call func(context.Context, *domain.Cart) (*domain.Cart, error)) error {
	s.ensureInitialized(ctx)

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return domain.ErrMutationInFlight
	}
	s.loading = true
	current := s.cart
	s.mu.Unlock()
	s.notify()

	next, err := call(ctx, current)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.errMsg = Message(err)
	} else {
		s.cart = next
		s.errMsg = ""
	}
	s.mu.Unlock()
	if err == nil {
		s.restored.Store(true)
	}
	s.notify()

	if err != nil {
		s.logger.Warnf("cart session: %s error=%v", op, err)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Session) forgetCartID(ctx context.Context) {
	if err := s.store.Delete(ctx, s.id); err != nil {
		s.logger.Warnf("cart session: clear stored cart id error=%v", err)
	}
}

// ItemCount is derived from the current snapshot on every call.
func (s *Session) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itemCount(s.cart)
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err is the message of the last failed mutation, empty when none.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *Session) ClearError() {
	s.mu.Lock()
	changed := s.errMsg != ""
	s.errMsg = ""
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Snapshot returns a deep copy of the cart, nil when the session has none.
func (s *Session) Snapshot() *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		Cart:      s.cart.Clone(),
		ItemCount: itemCount(s.cart),
		Loading:   s.loading,
		Err:       s.errMsg,
	}
}

// Subscribe registers fn to receive a copy of the state after every change.
// The returned func removes the listener.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	if len(s.listeners) == 0 {
		s.mu.Unlock()
		return
	}
	state := s.stateLocked()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

func itemCount(c *domain.Cart) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, line := range c.Lines {
		n += line.Quantity
	}
	return n
}

// Message turns a cart failure into short text fit for a shopper.
func Message(err error) string {
	var ue *domain.UserError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ue):
		return ue.Message
	case errors.Is(err, domain.ErrNotFound):
		return "That item is no longer in your cart."
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The request was interrupted. Please try again."
	default:
		return "Failed to update cart."
	}
}
