package api

import (
	"net/http"
	"strconv"
	"strings"

	"jewelry-backend/internal/models"
	"jewelry-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// categorySlugs maps public route segments to stored peopleCategory values
var categorySlugs = map[string]string{
	"men":     "male",
	"women":   "female",
	"kids":    "kids",
	"unisex":  "unisex",
	"couples": "couples",
}

// listProducts handles the generic catalog listing. Unlike the demographic
// routes it applies no customization filter.
func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.products.List(c.Request.Context(), parseProductFilter(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// listProductsByCategory handles the demographic storefront views
func (h *Handler) listProductsByCategory(c *gin.Context) {
	slug := strings.ToLower(c.Param("category"))
	demographic, ok := categorySlugs[slug]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product category"})
		return
	}

	products, err := h.products.ListByDemographic(c.Request.Context(), demographic)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// searchProducts handles the paginated storefront search
func (h *Handler) searchProducts(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "0"), 10, 64)

	result, err := h.products.Search(c.Request.Context(), parseProductFilter(c), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// createProduct handles product creation. JSON bodies carry images as
// base64 data-URIs which are stored as files; multipart forms carry image
// files which are embedded inline in the document.
func (h *Handler) createProduct(c *gin.Context) {
	var in service.ProductInput

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
			return
		}

		in = service.ProductInput{
			Name:            c.PostForm("name"),
			Description:     c.PostForm("description"),
			Price:           formFloat(c, "price"),
			Weight:          formFloat(c, "weight"),
			PeopleCategory:  c.PostForm("peopleCategory"),
			ProductCategory: c.PostForm("productCategory"),
			ProductType:     c.PostForm("productType"),
			PriceRange:      c.PostForm("priceRange"),
			Stock:           formInt(c, "stock"),
			CustomOption:    c.PostForm("customOption"),
			EmbedImages:     true,
		}

		for _, fh := range form.File["images"] {
			dataURI, err := h.uploads.InlineMultipart(c.Request.Context(), fh)
			if err != nil {
				h.respondError(c, err)
				return
			}
			in.Images = append(in.Images, dataURI)
		}
	} else if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	product, err := h.products.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// updateProduct handles partial product updates
func (h *Handler) updateProduct(c *gin.Context) {
	var upd models.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	product, err := h.products.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// deleteProduct handles product deletion
func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// parseProductFilter reads the optional query filters. Absent or
// malformed values are no-ops, never errors.
func parseProductFilter(c *gin.Context) models.ProductFilter {
	f := models.ProductFilter{
		PeopleCategory:  c.Query("peopleCategory"),
		ProductCategory: c.Query("productCategory"),
		ProductType:     c.Query("productType"),
		PriceRange:      c.Query("priceRange"),
		CustomOption:    c.Query("customOption"),
		Sort:            c.Query("sort"),
	}

	f.Search = c.Query("q")
	if f.Search == "" {
		f.Search = c.Query("search")
	}

	f.MinPrice = queryFloat(c, "minPrice")
	f.MaxPrice = queryFloat(c, "maxPrice")
	f.MinWeight = queryFloat(c, "minWeight")
	f.MaxWeight = queryFloat(c, "maxWeight")

	if v := c.Query("inStock"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			f.InStock = &b
		}
	}

	return f
}

func queryFloat(c *gin.Context, key string) *float64 {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func formFloat(c *gin.Context, key string) float64 {
	parsed, _ := strconv.ParseFloat(c.PostForm(key), 64)
	return parsed
}

func formInt(c *gin.Context, key string) int {
	parsed, _ := strconv.Atoi(c.PostForm(key))
	return parsed
}
