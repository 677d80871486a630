package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/intellibazar/intellibazar/internal/money"
)

const (
	MsgLoginToWishlist   = "Please log in to use your wishlist"
	MsgAlreadyInWishlist = "Item already in wishlist"
	MsgMoveFailed        = "Failed to move item to cart"
)

type WishlistItem struct {
	ID              string       `json:"id"`
	ProductName     string       `json:"productName"`
	ProductPrice    string       `json:"productPrice"`
	UnitPrice       money.Amount `json:"unitPrice"`
	ProductImage    string       `json:"productImage"`
	ProductCategory string       `json:"productCategory"`
	ProductRating   *float64     `json:"productRating,omitempty"`
}

func (it WishlistItem) Product() Product {
	return Product{
		Name:     it.ProductName,
		Price:    it.ProductPrice,
		Image:    it.ProductImage,
		Category: it.ProductCategory,
		Rating:   it.ProductRating,
	}
}

// MoveResult is the outcome of MoveAllToCart.
type MoveResult struct {
	Moved   int    `json:"moved"`
	Failed  int    `json:"failed"`
	Message string `json:"-"`
}

// WishlistManager mirrors CartManager for saved items. It never calls the
// cart directly; MoveToCart takes the add function from its caller.
type WishlistManager struct {
	state
	client  *Client
	session *Session
	logger  *log.Logger

	items []WishlistItem
}

func NewWishlistManager(client *Client, session *Session, logger *log.Logger) *WishlistManager {
	m := &WishlistManager{client: client, session: session, logger: logger}
	session.OnInvalidate(m.reset)
	return m
}

func (m *WishlistManager) reset() {
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()
}

func (m *WishlistManager) fail(op string, err error, msg string) {
	if StatusOf(err) == http.StatusUnauthorized {
		m.session.Invalidate()
		m.setErr(MsgSessionExpired)
		return
	}
	m.logger.Printf("wishlist %s: %v", op, err)
	m.setErr(msg)
}

func (m *WishlistManager) Items() []WishlistItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]WishlistItem(nil), m.items...)
}

func (m *WishlistManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Contains reports whether a product with this name is saved.
func (m *WishlistManager) Contains(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.ProductName == name {
			return true
		}
	}
	return false
}

func (m *WishlistManager) Fetch(ctx context.Context) bool {
	token := m.session.Token()
	if token == "" {
		m.reset()
		return false
	}
	m.begin()
	defer m.end()

	var items []WishlistItem
	r, _ := jsonRequest(http.MethodGet, "/api/wishlist", token, nil)
	if _, err := m.client.do(ctx, r, &items); err != nil {
		m.fail("fetch", err, "Failed to load wishlist")
		return false
	}
	m.mu.Lock()
	m.items = items
	m.err = ""
	m.mu.Unlock()
	return true
}

// Add saves p. A product that is already saved is reported with
// MsgAlreadyInWishlist and leaves the list as it was.
func (m *WishlistManager) Add(ctx context.Context, p Product) bool {
	if err := p.validate(); err != nil {
		m.setErr(err.Error())
		return false
	}
	token := m.session.Token()
	if token == "" {
		m.setErr(MsgLoginToWishlist)
		return false
	}

	m.begin()
	r, err := jsonRequest(http.MethodPost, "/api/wishlist", token, newAddRequest(p, 0))
	if err != nil {
		m.end()
		m.setErr("Failed to add item to wishlist")
		return false
	}
	var added WishlistItem
	_, err = m.client.do(ctx, r, &added)
	m.end()

	switch {
	case StatusOf(err) == http.StatusConflict:
		m.setErr(MsgAlreadyInWishlist)
		return false
	case err != nil:
		m.fail("add", err, "Failed to add item to wishlist")
		return false
	}
	m.mu.Lock()
	m.items = append(m.items, added)
	m.mu.Unlock()
	m.Fetch(ctx)
	return true
}

// Remove deletes the saved item with this product name.
func (m *WishlistManager) Remove(ctx context.Context, name string) bool {
	token := m.session.Token()
	if token == "" {
		m.setErr(MsgLoginToWishlist)
		return false
	}
	if name == "" {
		m.setErr("Invalid wishlist item")
		return false
	}

	m.begin()
	r, _ := jsonRequest(http.MethodDelete, "/api/wishlist/product/"+url.PathEscape(name), token, nil)
	_, err := m.client.do(ctx, r, nil)
	m.end()
	if err != nil {
		m.fail("remove", err, "Failed to remove item from wishlist")
		return false
	}
	m.Fetch(ctx)
	return true
}

func (m *WishlistManager) Clear(ctx context.Context) bool {
	token := m.session.Token()
	if token == "" {
		m.setErr(MsgLoginToWishlist)
		return false
	}

	m.begin()
	r, _ := jsonRequest(http.MethodDelete, "/api/wishlist", token, nil)
	_, err := m.client.do(ctx, r, nil)
	m.end()
	if err != nil {
		m.fail("clear", err, "Failed to clear wishlist")
		return false
	}
	m.reset()
	m.setErr("")
	return true
}

// MoveToCart adds p through addToCart and removes it from the wishlist only
// when that add succeeded. A failure between the two steps leaves the item
// in both lists, never in neither.
func (m *WishlistManager) MoveToCart(ctx context.Context, p Product, addToCart func(context.Context, Product) bool) bool {
	if !m.session.LoggedIn() {
		m.setErr(MsgLoginToWishlist)
		return false
	}
	if !addToCart(ctx, p) {
		m.setErr(MsgMoveFailed)
		return false
	}
	return m.Remove(ctx, p.Name)
}

// MoveAllToCart asks the server to move every saved item in one call, then
// re-fetches the wishlist. The bool is false when nothing could be moved.
func (m *WishlistManager) MoveAllToCart(ctx context.Context) (MoveResult, bool) {
	token := m.session.Token()
	if token == "" {
		m.setErr(MsgLoginToWishlist)
		return MoveResult{}, false
	}

	m.begin()
	r, _ := jsonRequest(http.MethodPost, "/api/wishlist/move-all-to-cart", token, nil)
	var res MoveResult
	msg, err := m.client.do(ctx, r, &res)
	m.end()
	res.Message = msg

	if err != nil {
		var ae *APIError
		if errors.As(err, &ae) && len(ae.Data) > 0 {
			_ = json.Unmarshal(ae.Data, &res)
			res.Message = ae.Message
		}
		m.fail("move all to cart", err, "Failed to move items to cart")
		if StatusOf(err) == http.StatusUnauthorized {
			return res, false
		}
		m.Fetch(ctx)
		return res, false
	}
	m.Fetch(ctx)
	return res, true
}
