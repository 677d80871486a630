package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/intellibazar/intellibazar/internal/money"
)

// ErrNoAdminSession is returned by AdminClient calls made before Login.
var ErrNoAdminSession = errors.New("seller login required")

type Specifications struct {
	Brand    string   `json:"brand,omitempty"`
	Model    string   `json:"model,omitempty"`
	Color    string   `json:"color,omitempty"`
	Size     string   `json:"size,omitempty"`
	Weight   string   `json:"weight,omitempty"`
	Warranty string   `json:"warranty,omitempty"`
	Features []string `json:"features,omitempty"`
}

// ManagedProduct is a product in the admin panel.
type ManagedProduct struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	Price              money.Amount   `json:"price"`
	OriginalPrice      money.Amount   `json:"originalPrice"`
	DiscountPercentage int            `json:"discountPercentage"`
	DisplayPrice       string         `json:"displayPrice"`
	Category           string         `json:"category"`
	Stock              int            `json:"stock"`
	Specifications     Specifications `json:"specifications"`
	Tags               []string       `json:"tags"`
	Images             []string       `json:"images"`
	SellerID           string         `json:"sellerId"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

// Upload is an image attached to a product form.
type Upload struct {
	Filename string
	Content  io.Reader
}

// ProductForm is what a seller submits. Prices are display strings.
type ProductForm struct {
	Name               string
	Description        string
	Price              string
	OriginalPrice      string
	DiscountPercentage int
	Category           string
	Stock              int
	Specifications     Specifications
	Tags               []string
	Images             []Upload
}

func (f ProductForm) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	specs, err := json.Marshal(f.Specifications)
	if err != nil {
		return nil, "", err
	}
	fields := [][2]string{
		{"name", f.Name},
		{"description", f.Description},
		{"price", f.Price},
		{"originalPrice", f.OriginalPrice},
		{"discountPercentage", strconv.Itoa(f.DiscountPercentage)},
		{"category", f.Category},
		{"stock", strconv.Itoa(f.Stock)},
		{"specifications", string(specs)},
		{"tags", strings.Join(f.Tags, ",")},
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	for _, img := range f.Images {
		part, err := w.CreateFormFile("images", img.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, img.Content); err != nil {
			return nil, "", fmt.Errorf("attach %s: %w", img.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// AdminClient drives the seller panel with the adminToken namespace. Unlike
// the shopper managers it returns errors, since a form needs the reason.
type AdminClient struct {
	client  *Client
	session *Session
}

func NewAdminClient(client *Client, session *Session) *AdminClient {
	return &AdminClient{client: client, session: session}
}

type authResponse struct {
	Token      string `json:"token"`
	AdminToken string `json:"adminToken"`
	User       User   `json:"user"`
}

// Login signs in a seller or admin and stores the adminToken.
func (a *AdminClient) Login(ctx context.Context, email, password string) (User, error) {
	r, err := jsonRequest(http.MethodPost, "/api/auth/seller/login", "", credentials{Email: email, Password: password})
	if err != nil {
		return User{}, err
	}
	var res authResponse
	if _, err := a.client.do(ctx, r, &res); err != nil {
		return User{}, err
	}
	if err := a.session.SetAdminToken(res.AdminToken); err != nil {
		return User{}, fmt.Errorf("store admin token: %w", err)
	}
	return res.User, nil
}

func (a *AdminClient) Logout() { a.session.InvalidateAdmin() }

func (a *AdminClient) call(ctx context.Context, r request, out any) error {
	if r.token == "" {
		return ErrNoAdminSession
	}
	_, err := a.client.do(ctx, r, out)
	if StatusOf(err) == http.StatusUnauthorized {
		a.session.InvalidateAdmin()
	}
	return err
}

// Products lists the seller's own products, or all of them for an admin.
func (a *AdminClient) Products(ctx context.Context) ([]ManagedProduct, error) {
	r, _ := jsonRequest(http.MethodGet, "/api/admin/products", a.session.AdminToken(), nil)
	var out []ManagedProduct
	err := a.call(ctx, r, &out)
	return out, err
}

func (a *AdminClient) Create(ctx context.Context, f ProductForm) (ManagedProduct, error) {
	return a.submit(ctx, http.MethodPost, "/api/admin/products", f)
}

func (a *AdminClient) Update(ctx context.Context, id string, f ProductForm) (ManagedProduct, error) {
	return a.submit(ctx, http.MethodPut, "/api/admin/products/"+url.PathEscape(id), f)
}

func (a *AdminClient) submit(ctx context.Context, method, path string, f ProductForm) (ManagedProduct, error) {
	body, contentType, err := f.encode()
	if err != nil {
		return ManagedProduct{}, fmt.Errorf("encode product form: %w", err)
	}
	r := request{method: method, path: path, token: a.session.AdminToken(), body: body, contentType: contentType}
	var out ManagedProduct
	err = a.call(ctx, r, &out)
	return out, err
}

func (a *AdminClient) Delete(ctx context.Context, id string) error {
	r, _ := jsonRequest(http.MethodDelete, "/api/admin/products/"+url.PathEscape(id), a.session.AdminToken(), nil)
	return a.call(ctx, r, nil)
}

// Export downloads the product list as an .xlsx workbook.
func (a *AdminClient) Export(ctx context.Context) ([]byte, error) {
	token := a.session.AdminToken()
	if token == "" {
		return nil, ErrNoAdminSession
	}
	b, err := a.client.raw(ctx, request{method: http.MethodGet, path: "/api/admin/products/export", token: token})
	if StatusOf(err) == http.StatusUnauthorized {
		a.session.InvalidateAdmin()
	}
	return b, err
}
