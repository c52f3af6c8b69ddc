package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"jewelry-backend/internal/imaging"
	"jewelry-backend/internal/models"
	"jewelry-backend/internal/store"
	"jewelry-backend/internal/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	// PlaceholderImage is substituted when a product has no valid image
	PlaceholderImage = "/images/placeholder.png"

	// maxListingImages caps the images returned by customer-facing
	// listing endpoints. The cap applies on read, not on write.
	maxListingImages = 4

	defaultSearchLimit = 12
	maxSearchLimit     = 100
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// demographics are the recognized peopleCategory values
var demographics = map[string]bool{
	"male":    true,
	"female":  true,
	"kids":    true,
	"unisex":  true,
	"couples": true,
}

// ProductService handles catalog business logic
type ProductService struct {
	store   *store.Store
	uploads *UploadService
	logger  *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(store *store.Store, uploads *UploadService) *ProductService {
	return &ProductService{
		store:   store,
		uploads: uploads,
		logger:  util.GetLogger(),
	}
}

// ProductInput is the payload for product creation. Images may arrive as
// data-URIs or as already-resolved URLs; EmbedImages keeps data-URIs inline
// in the document instead of storing them as files.
type ProductInput struct {
	Name            string           `json:"name" binding:"required"`
	Description     string           `json:"description"`
	Price           float64          `json:"price"`
	Weight          float64          `json:"weight"`
	PeopleCategory  string           `json:"peopleCategory"`
	ProductCategory string           `json:"productCategory"`
	ProductType     string           `json:"productType"`
	PriceRange      string           `json:"priceRange"`
	Stock           int              `json:"stock"`
	CustomOption    string           `json:"customOption"`
	Images          models.ImageList `json:"images"`
	EmbedImages     bool             `json:"-"`
}

// SearchResult is the paginated search response shape
type SearchResult struct {
	Count       int                        `json:"count"`
	Total       int64                      `json:"total"`
	TotalPages  int64                      `json:"totalPages"`
	CurrentPage int64                      `json:"currentPage"`
	Products    []models.StorefrontProduct `json:"products"`
}

// parseObjectID validates the 24-hex identifier shape before any store
// query; malformed ids fail fast.
func parseObjectID(id string) (primitive.ObjectID, error) {
	if !objectIDPattern.MatchString(id) {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// List retrieves products matching a filter
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.List")
	defer span.End()

	return s.store.ListProducts(ctx, filter)
}

// demographicFilter builds the listing filter for one demographic segment.
// Every segment except unisex hides products without a customization
// option.
func demographicFilter(demographic string) (models.ProductFilter, error) {
	demographic = strings.ToLower(strings.TrimSpace(demographic))
	if !demographics[demographic] {
		return models.ProductFilter{}, fmt.Errorf("%w: %q", ErrInvalidCategory, demographic)
	}
	return models.ProductFilter{
		PeopleCategory:   demographic,
		CustomizableOnly: demographic != "unisex",
	}, nil
}

// ListByDemographic retrieves the storefront view of one demographic
// segment.
func (s *ProductService) ListByDemographic(ctx context.Context, demographic string) ([]models.StorefrontProduct, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.ListByDemographic")
	defer span.End()

	filter, err := demographicFilter(demographic)
	if err != nil {
		return nil, err
	}

	products, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.projectAll(products), nil
}

// Search retrieves a paginated storefront listing
func (s *ProductService) Search(ctx context.Context, filter models.ProductFilter, page, limit int64) (*SearchResult, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Search")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	total, err := s.store.CountProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	filter.Skip = (page - 1) * limit
	filter.Limit = limit

	products, err := s.store.ListProducts(ctx, filter)
	if err != nil {
		return nil, err
	}

	projected := s.projectAll(products)
	return &SearchResult{
		Count:       len(projected),
		Total:       total,
		TotalPages:  int64(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
		Products:    projected,
	}, nil
}

// Get retrieves a product by its id string
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Get")
	defer span.End()

	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	product, err := s.store.GetProduct(ctx, oid)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// Create persists a new product, running image fields through the
// ingestion pipeline and keeping customizationType in sync.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Create")
	defer span.End()

	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must be non-negative", ErrValidation)
	}
	if in.Weight < 0 {
		return nil, fmt.Errorf("%w: weight must be non-negative", ErrValidation)
	}
	if in.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must be non-negative", ErrValidation)
	}

	images, err := s.resolveImages(ctx, in.Images, in.EmbedImages)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	product := &models.Product{
		Name:              strings.TrimSpace(in.Name),
		Description:       in.Description,
		Price:             in.Price,
		Weight:            in.Weight,
		PeopleCategory:    in.PeopleCategory,
		ProductCategory:   in.ProductCategory,
		ProductType:       in.ProductType,
		PriceRange:        in.PriceRange,
		Stock:             in.Stock,
		InStock:           in.Stock > 0,
		CustomOption:      in.CustomOption,
		CustomizationType: models.CustomizationLabel(in.CustomOption),
		Images:            images,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.store.InsertProduct(ctx, product); err != nil {
		return nil, err
	}

	util.ProductsCreatedTotal.Inc()
	s.logger.Info("Product created",
		zap.String("product_id", product.ID.Hex()),
		zap.String("name", product.Name))
	return product, nil
}

// Update applies a partial update. The final image sequence is the
// existing images minus the deleted indices plus newly ingested ones.
func (s *ProductService) Update(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.Update")
	defer span.End()

	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetProduct(ctx, oid)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		set["name"] = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Price != nil {
		if *upd.Price < 0 {
			return nil, fmt.Errorf("%w: price must be non-negative", ErrValidation)
		}
		set["price"] = *upd.Price
	}
	if upd.Weight != nil {
		if *upd.Weight < 0 {
			return nil, fmt.Errorf("%w: weight must be non-negative", ErrValidation)
		}
		set["weight"] = *upd.Weight
	}
	if upd.PeopleCategory != nil {
		set["peopleCategory"] = *upd.PeopleCategory
	}
	if upd.ProductCategory != nil {
		set["productCategory"] = *upd.ProductCategory
	}
	if upd.ProductType != nil {
		set["productType"] = *upd.ProductType
	}
	if upd.PriceRange != nil {
		set["priceRange"] = *upd.PriceRange
	}
	if upd.Stock != nil {
		if *upd.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must be non-negative", ErrValidation)
		}
		set["stock"] = *upd.Stock
		set["inStock"] = *upd.Stock > 0
	}
	if upd.CustomOption != nil {
		// customizationType is kept in sync on every write
		set["customOption"] = *upd.CustomOption
		set["customizationType"] = models.CustomizationLabel(*upd.CustomOption)
	}

	if len(upd.DeleteImages) > 0 || len(upd.Images) > 0 {
		final := spliceImages(existing.Images, upd.DeleteImages)
		added, err := s.resolveImages(ctx, upd.Images, false)
		if err != nil {
			return nil, err
		}
		set["images"] = append(final, added...)
	}

	product, err := s.store.UpdateProduct(ctx, oid, set)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	util.ProductsUpdatedTotal.Inc()
	return product, nil
}

// Delete removes a product by id
func (s *ProductService) Delete(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "ProductService.Delete")
	defer span.End()

	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	deleted, err := s.store.DeleteProduct(ctx, oid)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	util.ProductsDeletedTotal.Inc()
	return nil
}

// resolveImages runs incoming image values through the ingestion pipeline.
// Data-URIs are stored as files and replaced by their public URLs unless
// the caller embeds them; other values pass through untouched.
func (s *ProductService) resolveImages(ctx context.Context, images []string, embed bool) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}

	resolved := make([]string, 0, len(images))
	for _, img := range images {
		if !imaging.IsImageDataURI(img) {
			if strings.HasPrefix(img, "data:") {
				return nil, ErrInvalidFormat
			}
			resolved = append(resolved, img)
			continue
		}
		if embed {
			resolved = append(resolved, img)
			continue
		}
		url, _, err := s.uploads.StoreBase64(ctx, img, "img")
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, url)
	}
	return resolved, nil
}

// spliceImages removes the given indices from an image sequence,
// preserving order. Out-of-range indices are ignored.
func spliceImages(images []string, deleteIdx []int) []string {
	if len(deleteIdx) == 0 {
		return append([]string{}, images...)
	}

	drop := make(map[int]bool, len(deleteIdx))
	for _, i := range deleteIdx {
		drop[i] = true
	}

	kept := make([]string, 0, len(images))
	for i, img := range images {
		if !drop[i] {
			kept = append(kept, img)
		}
	}
	return kept
}

func (s *ProductService) projectAll(products []models.Product) []models.StorefrontProduct {
	out := make([]models.StorefrontProduct, 0, len(products))
	for i := range products {
		out = append(out, Storefront(&products[i]))
	}
	return out
}

// Storefront projects a product into its customer-facing shape. Invalid
// image entries are dropped; the images list is capped and never empty.
func Storefront(p *models.Product) models.StorefrontProduct {
	images := make([]string, 0, maxListingImages)
	for _, img := range p.Images {
		if !isUsableImage(img) {
			continue
		}
		images = append(images, img)
		if len(images) == maxListingImages {
			break
		}
	}
	if len(images) == 0 {
		images = append(images, PlaceholderImage)
	}

	customization := p.CustomizationType
	if customization == "" {
		customization = models.CustomizationLabel(p.CustomOption)
	}

	description := p.Description
	if description == "" {
		description = defaultDescription(p.ProductCategory)
	}

	return models.StorefrontProduct{
		ID:                p.ID.Hex(),
		Name:              p.Name,
		Price:             fmt.Sprintf("%.2f", p.Price),
		MainImage:         images[0],
		Images:            images,
		InStock:           p.InStock,
		CustomizationType: customization,
		Description:       description,
	}
}

// isUsableImage accepts data-URIs and stored or external URL paths
func isUsableImage(img string) bool {
	if imaging.IsImageDataURI(img) {
		return true
	}
	if img == PlaceholderImage {
		return true
	}
	return strings.HasPrefix(img, "/") ||
		strings.HasPrefix(img, "http://") ||
		strings.HasPrefix(img, "https://")
}

func defaultDescription(productCategory string) string {
	switch strings.ToLower(productCategory) {
	case "ring", "rings":
		return "A handcrafted ring from our jewelry collection."
	case "pendant", "pendants":
		return "A handcrafted pendant from our jewelry collection."
	case "bracelet", "bracelets":
		return "A handcrafted bracelet from our jewelry collection."
	case "earring", "earrings":
		return "Handcrafted earrings from our jewelry collection."
	case "chain", "chains":
		return "A handcrafted chain from our jewelry collection."
	default:
		return "A handcrafted piece from our jewelry collection."
	}
}
