package storefront

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/intellibazar/intellibazar/internal/money"
	"github.com/intellibazar/intellibazar/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminClient_ProductLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := t.Context()
	_, err := h.app.Users.RegisterSeller(ctx, user.RegisterInput{Name: "Seller", Email: "seller@example.com", Password: "secret123"})
	require.NoError(t, err)

	admin := h.shop.Admin
	_, err = admin.Products(ctx)
	assert.ErrorIs(t, err, ErrNoAdminSession)

	u, err := admin.Login(ctx, "seller@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, u.Role)
	assert.NotEmpty(t, h.shop.Session.AdminToken())
	assert.Empty(t, h.shop.Session.Token(), "seller login must not sign in the shopper")

	created, err := admin.Create(ctx, ProductForm{
		Name:           "Trail Backpack",
		Description:    "30L",
		Price:          "₹2,499",
		OriginalPrice:  "₹2,999",
		Category:       "sports",
		Stock:          12,
		Specifications: Specifications{Brand: "Peak", Features: []string{"rain cover"}},
		Tags:           []string{"outdoor", "travel"},
		Images:         []Upload{{Filename: "pack.png", Content: bytes.NewReader([]byte("png-bytes"))}},
	})
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(2499), created.Price)
	assert.Equal(t, "Peak", created.Specifications.Brand)
	assert.Equal(t, []string{"outdoor", "travel"}, created.Tags)
	require.Len(t, created.Images, 1)

	res, err := http.Get(h.base + created.Images[0])
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	updated, err := admin.Update(ctx, created.ID, ProductForm{
		Name: "Trail Backpack", Price: "₹2,199", Category: "sports", Stock: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, money.FromMajor(2199), updated.Price)

	list, err := admin.Products(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	book, err := admin.Export(ctx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(book, []byte("PK")), "xlsx is a zip archive")

	require.NoError(t, admin.Delete(ctx, created.ID))
	list, err = admin.Products(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.Equal(t, http.StatusNotFound, StatusOf(admin.Delete(ctx, created.ID)))
}

func TestAdminClient_CustomerIsForbidden(t *testing.T) {
	h := newHarness(t)
	h.signUp(t, "shopper@example.com")

	_, err := h.shop.Admin.Login(t.Context(), "shopper@example.com", "secret123")
	assert.Equal(t, http.StatusForbidden, StatusOf(err))
	assert.Empty(t, h.shop.Session.AdminToken())
}

func TestAdminClient_RejectedTokenIsDropped(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.shop.Session.SetAdminToken("forged"))

	_, err := h.shop.Admin.Products(t.Context())
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Empty(t, h.shop.Session.AdminToken())
}
