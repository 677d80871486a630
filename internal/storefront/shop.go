package storefront

import (
	"context"
	"fmt"
	"log"
	"net/http"
)

type credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Shop wires the session, managers and sidebars the way the storefront
// header and product pages use them: a successful cart or wishlist change
// opens the matching sidebar.
type Shop struct {
	Session  *Session
	Cart     *CartManager
	Wishlist *WishlistManager
	Checkout *Checkout
	Admin    *AdminClient

	CartSidebar     *Sidebar
	WishlistSidebar *Sidebar

	client *Client
}

func NewShop(client *Client, store SessionStore, logger *log.Logger) *Shop {
	session := NewSession(store, logger)
	cart := NewCartManager(client, session, logger)
	return &Shop{
		Session:         session,
		Cart:            cart,
		Wishlist:        NewWishlistManager(client, session, logger),
		Checkout:        NewCheckout(client, session, cart, logger),
		Admin:           NewAdminClient(client, session),
		CartSidebar:     &Sidebar{},
		WishlistSidebar: &Sidebar{},
		client:          client,
	}
}

func (s *Shop) Register(ctx context.Context, name, email, password string) (User, error) {
	return s.authenticate(ctx, "/api/auth/register", credentials{Name: name, Email: email, Password: password})
}

func (s *Shop) Login(ctx context.Context, email, password string) (User, error) {
	return s.authenticate(ctx, "/api/auth/login", credentials{Email: email, Password: password})
}

func (s *Shop) authenticate(ctx context.Context, path string, creds credentials) (User, error) {
	r, err := jsonRequest(http.MethodPost, path, "", creds)
	if err != nil {
		return User{}, err
	}
	var res authResponse
	if _, err := s.client.do(ctx, r, &res); err != nil {
		return User{}, err
	}
	if err := s.Session.SignIn(res.Token, res.User); err != nil {
		return User{}, fmt.Errorf("store session: %w", err)
	}
	s.Refresh(ctx)
	return res.User, nil
}

// Logout ends the shopper session and empties the managers.
func (s *Shop) Logout() {
	s.Session.Invalidate()
	s.CartSidebar.Close()
	s.WishlistSidebar.Close()
}

// Refresh re-fetches cart and wishlist.
func (s *Shop) Refresh(ctx context.Context) {
	s.Cart.Fetch(ctx)
	s.Wishlist.Fetch(ctx)
}

func (s *Shop) AddToCart(ctx context.Context, p Product) bool {
	if !s.Cart.Add(ctx, p) {
		return false
	}
	s.CartSidebar.Open()
	return true
}

func (s *Shop) AddToWishlist(ctx context.Context, p Product) bool {
	if !s.Wishlist.Add(ctx, p) {
		return false
	}
	s.WishlistSidebar.Open()
	return true
}

// MoveToCart moves one saved item into the cart.
func (s *Shop) MoveToCart(ctx context.Context, p Product) bool {
	if !s.Wishlist.MoveToCart(ctx, p, s.Cart.Add) {
		return false
	}
	s.CartSidebar.Open()
	return true
}

// MoveAllToCart moves every saved item and refreshes the cart.
func (s *Shop) MoveAllToCart(ctx context.Context) (MoveResult, bool) {
	res, ok := s.Wishlist.MoveAllToCart(ctx)
	if res.Moved > 0 {
		s.Cart.Fetch(ctx)
		s.WishlistSidebar.Close()
		s.CartSidebar.Open()
	}
	return res, ok
}
