package product

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/intellibazar/intellibazar/internal/auth"
	"github.com/intellibazar/intellibazar/internal/respond"
)

const uploadURLPrefix = "/uploads/"

type Handler struct {
	service   *Service
	uploadDir string
	logger    *log.Logger
}

func NewHandler(service *Service, uploadDir string, logger *log.Logger) *Handler {
	return &Handler{service: service, uploadDir: uploadDir, logger: logger}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Get("/api/products", h.getProducts)
	r.Get("/api/products/:id", h.getProduct)
}

// RegisterAdminRoutes expects r to carry the admin token middleware and a
// seller/admin role check.
func (h *Handler) RegisterAdminRoutes(r fiber.Router) {
	r.Get("/api/admin/products", h.listOwned)
	r.Get("/api/admin/products/export", h.export)
	r.Post("/api/admin/products", h.createProduct)
	r.Put("/api/admin/products/:id", h.updateProduct)
	r.Delete("/api/admin/products/:id", h.deleteProduct)
}

func filterFromQuery(c *fiber.Ctx) Filter {
	return Filter{Category: c.Query("category"), Query: c.Query("q"), Sort: c.Query("sort")}
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext(), filterFromQuery(c))
	if err != nil {
		h.logger.Printf("list products: %v", err)
		return respond.Fail(c, fiber.StatusInternalServerError, "failed to list products")
	}
	return respond.OK(c, fiber.StatusOK, "", products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	p, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "", p)
}

func owner(c *fiber.Ctx) (Owner, error) {
	claims, err := auth.ClaimsFromCtx(c)
	if err != nil {
		return Owner{}, err
	}
	return Owner{ID: claims.UserID, Role: claims.Role}, nil
}

func (h *Handler) listOwned(c *fiber.Ctx) error {
	o, err := owner(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	products, err := h.service.ListOwned(c.UserContext(), o, filterFromQuery(c))
	if err != nil {
		h.logger.Printf("list products for %s: %v", o.ID, err)
		return respond.Fail(c, fiber.StatusInternalServerError, "failed to list products")
	}
	return respond.OK(c, fiber.StatusOK, "", products)
}

func (h *Handler) export(c *fiber.Ctx) error {
	o, err := owner(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	var buf bytes.Buffer
	if err := h.service.Export(c.UserContext(), o, &buf); err != nil {
		h.logger.Printf("export products for %s: %v", o.ID, err)
		return respond.Fail(c, fiber.StatusInternalServerError, "failed to export products")
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	return c.Send(buf.Bytes())
}

// upload is an "images" file named but not yet written to disk.
type upload struct {
	file *multipart.FileHeader
	name string
}

// parseInput accepts either a JSON body or a multipart form. Multipart
// submissions carry specifications as a JSON string, tags comma separated
// and any number of "images" files. Image URLs are assigned here; the files
// are written by saveUploads once the input has been validated.
func (h *Handler) parseInput(c *fiber.Ctx) (Input, []upload, error) {
	var in Input
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		err := c.BodyParser(&in)
		return in, nil, err
	}

	if err := c.BodyParser(&in); err != nil {
		return in, nil, err
	}
	if raw := c.FormValue("specifications"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Specifications); err != nil {
			return in, nil, fmt.Errorf("specifications: %w", err)
		}
	}
	for _, t := range strings.Split(c.FormValue("tags"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			in.Tags = append(in.Tags, t)
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		return in, nil, err
	}
	var uploads []upload
	for _, fh := range form.File["images"] {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		uploads = append(uploads, upload{file: fh, name: name})
		in.Images = append(in.Images, uploadURLPrefix+name)
	}
	return in, uploads, nil
}

func (h *Handler) saveUploads(c *fiber.Ctx, uploads []upload) error {
	for i, u := range uploads {
		if err := c.SaveFile(u.file, filepath.Join(h.uploadDir, u.name)); err != nil {
			h.discardUploads(uploads[:i])
			return fmt.Errorf("save %s: %w", u.file.Filename, err)
		}
	}
	return nil
}

func (h *Handler) discardUploads(uploads []upload) {
	for _, u := range uploads {
		if err := os.Remove(filepath.Join(h.uploadDir, u.name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			h.logger.Printf("remove upload %s: %v", u.name, err)
		}
	}
}

// readInput parses and validates a product submission, then stores its
// images. It writes the error response itself and reports ok=false when the
// request should stop there.
func (h *Handler) readInput(c *fiber.Ctx) (Input, []upload, bool, error) {
	in, uploads, err := h.parseInput(c)
	if err != nil {
		return in, nil, false, respond.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	if errs := Validate(in); len(errs) > 0 {
		return in, nil, false, respond.Invalid(c, errs)
	}
	if err := h.saveUploads(c, uploads); err != nil {
		h.logger.Printf("product upload: %v", err)
		return in, nil, false, respond.Fail(c, fiber.StatusInternalServerError, "failed to store images")
	}
	return in, uploads, true, nil
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	o, err := owner(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	in, uploads, ok, err := h.readInput(c)
	if !ok {
		return err
	}

	created, err := h.service.Create(c.UserContext(), o, in)
	if err != nil {
		h.discardUploads(uploads)
		return h.fail(c, err)
	}
	return respond.OK(c, fiber.StatusCreated, "Product created", created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	o, err := owner(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	in, uploads, ok, err := h.readInput(c)
	if !ok {
		return err
	}

	updated, err := h.service.Update(c.UserContext(), o, c.Params("id"), in)
	if err != nil {
		h.discardUploads(uploads)
		return h.fail(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "Product updated", updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	o, err := owner(c)
	if err != nil {
		return respond.Fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if err := h.service.Delete(c.UserContext(), o, c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "Product deleted", nil)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return respond.Fail(c, fiber.StatusNotFound, "Product not found")
	case errors.Is(err, ErrForbidden):
		return respond.Fail(c, fiber.StatusForbidden, "forbidden")
	default:
		h.logger.Printf("product request %s %s: %v", c.Method(), c.Path(), err)
		return respond.Fail(c, fiber.StatusInternalServerError, "internal server error")
	}
}
