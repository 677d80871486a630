package storefront

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/intellibazar/intellibazar/internal/money"
)

const (
	MsgLoginToCheckout = "Please log in to place an order"
	MsgCartEmpty       = "Your cart is empty"
	MsgOrderPlaced     = "Order placed successfully"
)

// SummaryLine is one row of the checkout page.
type SummaryLine struct {
	Name     string
	Price    money.Amount
	Quantity int
	Subtotal money.Amount
}

type Summary struct {
	Lines []SummaryLine
	Total money.Amount
}

// Order is a placed order as the server returns it.
type Order struct {
	ID           string       `json:"id"`
	Source       string       `json:"source"`
	Total        money.Amount `json:"total"`
	DisplayTotal string       `json:"displayTotal"`
	Status       string       `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	Items        []struct {
		ProductName string `json:"productName"`
		Quantity    int    `json:"quantity"`
	} `json:"items"`
}

// Checkout places orders from the cart or from a single "buy now" product.
// There is no payment step.
type Checkout struct {
	state
	client  *Client
	session *Session
	cart    *CartManager
	logger  *log.Logger
}

func NewCheckout(client *Client, session *Session, cart *CartManager, logger *log.Logger) *Checkout {
	return &Checkout{client: client, session: session, cart: cart, logger: logger}
}

// Summary totals buyNow when it is set, otherwise the current cart.
func (c *Checkout) Summary(buyNow *Product) Summary {
	var s Summary
	add := func(name string, price money.Amount, qty int) {
		line := SummaryLine{Name: name, Price: price, Quantity: qty, Subtotal: price.Mul(qty)}
		s.Lines = append(s.Lines, line)
		s.Total += line.Subtotal
	}
	if buyNow != nil {
		add(buyNow.Name, buyNow.UnitPrice(), 1)
		return s
	}
	for _, it := range c.cart.Items() {
		add(it.ProductName, it.Price(), it.Quantity)
	}
	return s
}

type orderRequest struct {
	Source string      `json:"source"`
	Item   *addRequest `json:"item,omitempty"`
}

// Confirm places the order. A cart order empties the cart on the server and
// the local cart is re-fetched afterwards.
func (c *Checkout) Confirm(ctx context.Context, buyNow *Product) (Order, bool) {
	token := c.session.Token()
	if token == "" {
		c.setErr(MsgLoginToCheckout)
		return Order{}, false
	}

	body := orderRequest{Source: "cart"}
	if buyNow != nil {
		if err := buyNow.validate(); err != nil {
			c.setErr(err.Error())
			return Order{}, false
		}
		item := newAddRequest(*buyNow, 1)
		body = orderRequest{Source: "buy-now", Item: &item}
	} else if len(c.cart.Items()) == 0 {
		c.setErr(MsgCartEmpty)
		return Order{}, false
	}

	c.begin()
	r, _ := jsonRequest(http.MethodPost, "/api/orders", token, body)
	var placed Order
	_, err := c.client.do(ctx, r, &placed)
	c.end()
	if err != nil {
		if StatusOf(err) == http.StatusUnauthorized {
			c.session.Invalidate()
			c.setErr(MsgSessionExpired)
			return Order{}, false
		}
		c.logger.Printf("checkout: %v", err)
		var ae *APIError
		if errors.As(err, &ae) && ae.Status == http.StatusBadRequest {
			c.setErr(ae.Message)
		} else {
			c.setErr("Failed to place order")
		}
		return Order{}, false
	}

	c.setErr("")
	if buyNow == nil {
		c.cart.Fetch(ctx)
	}
	return placed, true
}

// Orders lists the signed-in user's past orders, newest first.
func (c *Checkout) Orders(ctx context.Context) ([]Order, bool) {
	token := c.session.Token()
	if token == "" {
		c.setErr(MsgLoginToCheckout)
		return nil, false
	}
	r, _ := jsonRequest(http.MethodGet, "/api/orders", token, nil)
	var orders []Order
	if _, err := c.client.do(ctx, r, &orders); err != nil {
		if StatusOf(err) == http.StatusUnauthorized {
			c.session.Invalidate()
			c.setErr(MsgSessionExpired)
			return nil, false
		}
		c.logger.Printf("list orders: %v", err)
		c.setErr("Failed to load orders")
		return nil, false
	}
	return orders, true
}
