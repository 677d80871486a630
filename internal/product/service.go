package product

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/intellibazar/intellibazar/internal/auth"
	"github.com/intellibazar/intellibazar/internal/category"
	"github.com/intellibazar/intellibazar/internal/money"
	"github.com/tealeg/xlsx"
)

// Owner identifies the seller acting on the admin panel. Admins may touch
// every product; sellers only their own.
type Owner struct {
	ID   string
	Role string
}

func (o Owner) canEdit(p Product) bool {
	return o.Role == auth.RoleAdmin || p.SellerID == o.ID
}

// scope narrows a filter to the products the owner is allowed to see.
func (o Owner) scope(f Filter) Filter {
	if o.Role != auth.RoleAdmin {
		f.SellerID = o.ID
	}
	return f
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	if f.Category != "" {
		slug, ok := category.Normalize(f.Category)
		if !ok {
			return []Product{}, nil
		}
		f.Category = slug
	}
	products, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	sortProducts(products, f.Sort)
	for i := range products {
		products[i] = withDisplay(products[i])
	}
	return products, nil
}

func sortProducts(products []Product, by string) {
	switch by {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortNameAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	default:
		sort.SliceStable(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	}
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return withDisplay(p), nil
}

// Validate checks the payload and returns field errors keyed by JSON name.
func Validate(in Input) map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = "name is required"
	}
	if _, err := money.Parse(in.Price); err != nil {
		errs["price"] = "price must be a positive amount"
	}
	if in.OriginalPrice != "" {
		if _, err := money.Parse(in.OriginalPrice); err != nil {
			errs["originalPrice"] = "originalPrice must be a positive amount"
		}
	}
	if in.DiscountPercentage < 0 || in.DiscountPercentage > 100 {
		errs["discountPercentage"] = "discountPercentage must be between 0 and 100"
	}
	if _, ok := category.Normalize(in.Category); !ok {
		errs["category"] = "invalid category"
	}
	if in.Stock < 0 {
		errs["stock"] = "stock must be >= 0"
	}
	return errs
}

func apply(p Product, in Input) Product {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price, _ = money.Parse(in.Price)
	p.OriginalPrice = p.Price
	if in.OriginalPrice != "" {
		p.OriginalPrice, _ = money.Parse(in.OriginalPrice)
	}
	p.DiscountPercentage = in.DiscountPercentage
	p.Category, _ = category.Normalize(in.Category)
	p.Stock = in.Stock
	p.Specifications = in.Specifications
	p.Tags = in.Tags
	if len(in.Images) > 0 {
		p.Images = in.Images
	}
	return p
}

// Create stores a new product owned by o. Callers validate in first.
func (s *Service) Create(ctx context.Context, o Owner, in Input) (Product, error) {
	now := s.now().UTC()
	p := apply(Product{ID: uuid.NewString(), SellerID: o.ID, CreatedAt: now}, in)
	p.UpdatedAt = now
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Product{}, err
	}
	return withDisplay(created), nil
}

// Update replaces the editable fields. Images are kept when in carries none.
func (s *Service) Update(ctx context.Context, o Owner, id string, in Input) (Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if !o.canEdit(existing) {
		return Product{}, ErrForbidden
	}
	p := apply(existing, in)
	p.UpdatedAt = s.now().UTC()
	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return Product{}, err
	}
	return withDisplay(updated), nil
}

func (s *Service) Delete(ctx context.Context, o Owner, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !o.canEdit(existing) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// ListOwned is List restricted to what o may manage.
func (s *Service) ListOwned(ctx context.Context, o Owner, f Filter) ([]Product, error) {
	return s.List(ctx, o.scope(f))
}

var exportHeaders = []string{
	"ID", "Name", "Category", "Price", "OriginalPrice", "Discount%",
	"Stock", "Brand", "Tags", "Images", "SellerID", "CreatedAt", "UpdatedAt",
}

// Export writes the products visible to o as an .xlsx workbook.
func (s *Service) Export(ctx context.Context, o Owner, w io.Writer) error {
	products, err := s.ListOwned(ctx, o, Filter{Sort: SortNameAsc})
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Category)
		row.AddCell().SetString(p.Price.String())
		row.AddCell().SetString(p.OriginalPrice.String())
		row.AddCell().SetInt(p.DiscountPercentage)
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(p.Specifications.Brand)
		row.AddCell().SetString(strings.Join(p.Tags, ","))
		row.AddCell().SetString(strings.Join(p.Images, ","))
		row.AddCell().SetString(p.SellerID)
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Seed inserts samples when the catalog is empty. It reports how many
// products were written.
func (s *Service) Seed(ctx context.Context, samples []Product) (int, error) {
	existing, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	now := s.now().UTC()
	for i, p := range samples {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.CreatedAt = now.Add(-time.Duration(i) * time.Minute)
		p.UpdatedAt = p.CreatedAt
		if _, err := s.repo.Create(ctx, p); err != nil {
			return i, fmt.Errorf("seed %s: %w", strconv.Quote(p.Name), err)
		}
	}
	return len(samples), nil
}
