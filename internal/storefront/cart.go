package storefront

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/intellibazar/intellibazar/internal/money"
)

// User-facing messages kept in Err.
const (
	MsgLoginToCart     = "Please log in to add items to your cart"
	MsgSessionExpired  = "Your session has expired, please log in again"
	MsgCartLoadFailed  = "Failed to load cart"
	MsgCartWriteFailed = "Failed to update cart"
)

// CartItem is one line as the server returns it.
type CartItem struct {
	ID              string       `json:"id"`
	ProductName     string       `json:"productName"`
	ProductPrice    string       `json:"productPrice"`
	UnitPrice       money.Amount `json:"unitPrice"`
	ProductImage    string       `json:"productImage"`
	ProductCategory string       `json:"productCategory"`
	ProductRating   *float64     `json:"productRating,omitempty"`
	Quantity        int          `json:"quantity"`
}

// Price prefers the server's parsed unit price and falls back to parsing
// the display string.
func (it CartItem) Price() money.Amount {
	if it.UnitPrice > 0 {
		return it.UnitPrice
	}
	a, _ := money.Parse(it.ProductPrice)
	return a
}

func (it CartItem) Product() Product {
	return Product{
		Name:     it.ProductName,
		Price:    it.ProductPrice,
		Image:    it.ProductImage,
		Category: it.ProductCategory,
		Rating:   it.ProductRating,
	}
}

// state is the lock, loading counter and error string shared by the managers.
type state struct {
	mu      sync.Mutex
	loading int
	err     string
}

func (s *state) begin() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
}

func (s *state) end() {
	s.mu.Lock()
	s.loading--
	s.mu.Unlock()
}

func (s *state) setErr(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

func (s *state) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

func (s *state) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// pendingKey is the idempotency key of an add that is still in flight.
type pendingKey struct {
	key  string
	refs int
}

// CartManager owns the signed-in user's cart lines. Every mutation is
// followed by a full Fetch so the local list always ends up as whatever the
// server holds. Methods never return errors; they report success as a bool
// and keep a message in Err.
type CartManager struct {
	state
	client  *Client
	session *Session
	logger  *log.Logger

	items   []CartItem
	pending map[string]*pendingKey
}

func NewCartManager(client *Client, session *Session, logger *log.Logger) *CartManager {
	m := &CartManager{
		client:  client,
		session: session,
		logger:  logger,
		pending: map[string]*pendingKey{},
	}
	session.OnInvalidate(m.reset)
	return m
}

func (m *CartManager) reset() {
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()
}

// fail records err. A 401 ends the session, which empties the cart and
// wishlist through the session listeners.
func (m *CartManager) fail(op string, err error, msg string) {
	if StatusOf(err) == http.StatusUnauthorized {
		m.session.Invalidate()
		m.setErr(MsgSessionExpired)
		return
	}
	m.logger.Printf("cart %s: %v", op, err)
	m.setErr(msg)
}

func (m *CartManager) Items() []CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CartItem(nil), m.items...)
}

// Count is the number of units across all lines.
func (m *CartManager) Count() int {
	n := 0
	for _, it := range m.Items() {
		n += it.Quantity
	}
	return n
}

// Total is Σ(price × quantity).
func (m *CartManager) Total() money.Amount {
	var sum money.Amount
	for _, it := range m.Items() {
		sum += it.Price().Mul(it.Quantity)
	}
	return sum
}

func (m *CartManager) find(id string) (CartItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ID == id {
			return it, true
		}
	}
	return CartItem{}, false
}

// Fetch replaces the local list with the server's. Without a session the
// list is cleared and nothing is sent.
func (m *CartManager) Fetch(ctx context.Context) bool {
	token := m.session.Token()
	if token == "" {
		m.reset()
		return false
	}
	m.begin()
	defer m.end()

	var items []CartItem
	r, _ := jsonRequest(http.MethodGet, "/api/cart", token, nil)
	if _, err := m.client.do(ctx, r, &items); err != nil {
		m.fail("fetch", err, MsgCartLoadFailed)
		return false
	}
	m.mu.Lock()
	m.items = items
	m.err = ""
	m.mu.Unlock()
	return true
}

// claimKey returns the idempotency key for adding name, shared with any add
// of the same product that is still in flight.
func (m *CartManager) claimKey(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pending[name]
	if !ok {
		p = &pendingKey{key: uuid.NewString()}
		m.pending[name] = p
	}
	p.refs++
	return p.key
}

func (m *CartManager) releaseKey(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.pending[name]; ok {
		if p.refs--; p.refs <= 0 {
			delete(m.pending, name)
		}
	}
}

// Add puts one unit of p in the cart. Concurrent adds of the same product
// carry the same Idempotency-Key, so a double submission counts once.
func (m *CartManager) Add(ctx context.Context, p Product) bool {
	if err := p.validate(); err != nil {
		m.setErr(err.Error())
		return false
	}
	token := m.session.Token()
	if token == "" {
		m.setErr(MsgLoginToCart)
		return false
	}

	key := m.claimKey(p.Name)
	defer m.releaseKey(p.Name)

	m.begin()
	r, err := jsonRequest(http.MethodPost, "/api/cart", token, newAddRequest(p, 1))
	if err != nil {
		m.end()
		m.setErr(MsgCartWriteFailed)
		return false
	}
	r.idemKey = key
	var added CartItem
	_, err = m.client.do(ctx, r, &added)
	m.end()

	switch {
	case StatusOf(err) == http.StatusConflict:
		// the same add is still running on the server
	case err != nil:
		m.fail("add", err, "Failed to add item to cart")
		return false
	default:
		m.merge(added)
	}
	m.Fetch(ctx)
	return true
}

// merge replaces the line with the same product name or appends it.
func (m *CartManager) merge(it CartItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ProductName == it.ProductName {
			m.items[i] = it
			return
		}
	}
	m.items = append(m.items, it)
}

func (m *CartManager) Remove(ctx context.Context, id string) bool {
	token := m.session.Token()
	if token == "" {
		m.setErr(MsgLoginToCart)
		return false
	}
	if id == "" {
		m.setErr("Invalid cart item")
		return false
	}

	m.begin()
	r, _ := jsonRequest(http.MethodDelete, "/api/cart/"+url.PathEscape(id), token, nil)
	_, err := m.client.do(ctx, r, nil)
	m.end()
	if err != nil {
		m.fail("remove", err, "Failed to remove item from cart")
		return false
	}
	m.Fetch(ctx)
	return true
}

func (m *CartManager) Increment(ctx context.Context, id string) bool {
	it, ok := m.find(id)
	if !ok {
		return false
	}
	return m.setQuantity(ctx, id, it.Quantity+1)
}

// Decrement lowers the quantity by one. At quantity 1 it does nothing and
// returns false; removing a line is Remove's job.
func (m *CartManager) Decrement(ctx context.Context, id string) bool {
	it, ok := m.find(id)
	if !ok || it.Quantity <= 1 {
		return false
	}
	return m.setQuantity(ctx, id, it.Quantity-1)
}

func (m *CartManager) setQuantity(ctx context.Context, id string, qty int) bool {
	token := m.session.Token()
	if token == "" {
		m.setErr(MsgLoginToCart)
		return false
	}

	m.begin()
	r, _ := jsonRequest(http.MethodPut, "/api/cart/"+url.PathEscape(id), token, map[string]int{"quantity": qty})
	_, err := m.client.do(ctx, r, nil)
	m.end()
	if err != nil {
		m.fail("update quantity", err, "Failed to update quantity")
		return false
	}
	m.Fetch(ctx)
	return true
}

func (m *CartManager) Clear(ctx context.Context) bool {
	token := m.session.Token()
	if token == "" {
		m.setErr(MsgLoginToCart)
		return false
	}

	m.begin()
	r, _ := jsonRequest(http.MethodDelete, "/api/cart", token, nil)
	_, err := m.client.do(ctx, r, nil)
	m.end()
	if err != nil {
		m.fail("clear", err, "Failed to clear cart")
		return false
	}
	m.reset()
	m.setErr("")
	return true
}
