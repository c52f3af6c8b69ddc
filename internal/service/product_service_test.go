package service

import (
	"context"
	"strings"
	"testing"

	"jewelry-backend/internal/imaging"
	"jewelry-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseObjectID(t *testing.T) {
	valid := "507f1f77bcf86cd799439011"
	oid, err := parseObjectID(valid)
	require.NoError(t, err)
	assert.Equal(t, valid, oid.Hex())

	// uppercase hex is a valid identifier shape
	_, err = parseObjectID("507F1F77BCF86CD799439011")
	assert.NoError(t, err)
}

func TestParseObjectIDFailsFast(t *testing.T) {
	invalid := []string{
		"",
		"search",
		"recent",
		"507f1f77bcf86cd79943901",   // 23 chars
		"507f1f77bcf86cd7994390111", // 25 chars
		"507f1f77bcf86cd79943901g",  // non-hex
		"../../etc/passwd",
	}

	for _, id := range invalid {
		_, err := parseObjectID(id)
		assert.ErrorIs(t, err, ErrInvalidID, "id %q", id)
	}
}

func TestDemographicFilterHidesNonCustomizable(t *testing.T) {
	// every segment except unisex hides products whose customOption is
	// absent or None
	for _, demo := range []string{"male", "female", "kids", "couples"} {
		f, err := demographicFilter(demo)
		require.NoError(t, err, "demographic %q", demo)
		assert.Equal(t, demo, f.PeopleCategory)
		assert.True(t, f.CustomizableOnly, "demographic %q", demo)
	}

	f, err := demographicFilter("unisex")
	require.NoError(t, err)
	assert.Equal(t, "unisex", f.PeopleCategory)
	assert.False(t, f.CustomizableOnly)
}

func TestDemographicFilterNormalizesInput(t *testing.T) {
	f, err := demographicFilter("  Male ")
	require.NoError(t, err)
	assert.Equal(t, "male", f.PeopleCategory)
	assert.True(t, f.CustomizableOnly)
}

func TestDemographicFilterRejectsUnknownSegment(t *testing.T) {
	for _, demo := range []string{"", "pets", "men", "women"} {
		_, err := demographicFilter(demo)
		assert.ErrorIs(t, err, ErrInvalidCategory, "demographic %q", demo)
	}
}

func TestSpliceImages(t *testing.T) {
	images := []string{"a", "b", "c", "d"}

	assert.Equal(t, []string{"a", "c", "d"}, spliceImages(images, []int{1}))
	assert.Equal(t, []string{"b", "d"}, spliceImages(images, []int{0, 2}))
	assert.Equal(t, []string{}, spliceImages(images, []int{0, 1, 2, 3}))
	// out-of-range indices are ignored
	assert.Equal(t, []string{"a", "b", "c", "d"}, spliceImages(images, []int{7, -1}))
	assert.Equal(t, []string{"a", "b", "c", "d"}, spliceImages(images, nil))
}

func TestResolveImagesStoresDataURIs(t *testing.T) {
	uploads := newTestUploadService(t)
	s := NewProductService(nil, uploads)

	dataURI := imaging.EncodeDataURI("image/png", []byte("pixels"))
	resolved, err := s.resolveImages(context.Background(), []string{dataURI, "/uploads/existing.png"}, false)
	require.NoError(t, err)

	require.Len(t, resolved, 2)
	assert.True(t, strings.HasPrefix(resolved[0], "/uploads/img-"))
	assert.Equal(t, "/uploads/existing.png", resolved[1])
	assert.Len(t, dirEntries(t, uploads.uploadDir), 1)
}

func TestResolveImagesEmbedKeepsDataURIsInline(t *testing.T) {
	uploads := newTestUploadService(t)
	s := NewProductService(nil, uploads)

	dataURI := imaging.EncodeDataURI("image/jpeg", []byte("pixels"))
	resolved, err := s.resolveImages(context.Background(), []string{dataURI}, true)
	require.NoError(t, err)

	assert.Equal(t, []string{dataURI}, resolved)
	assert.Empty(t, dirEntries(t, uploads.uploadDir))
}

func TestResolveImagesRejectsNonImageDataURI(t *testing.T) {
	s := NewProductService(nil, newTestUploadService(t))

	_, err := s.resolveImages(context.Background(), []string{"data:application/pdf;base64,aGVsbG8="}, false)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestStorefrontProjection(t *testing.T) {
	dataURI := imaging.EncodeDataURI("image/png", []byte("pixels"))
	p := &models.Product{
		ID:           primitive.NewObjectID(),
		Name:         "Gold Ring",
		Price:        1234.5,
		Stock:        2,
		InStock:      true,
		CustomOption: "Engraving",
		Images:       []string{"garbage-entry", dataURI, "/uploads/a.png", "http://cdn.example.com/b.jpg", "/uploads/c.png", "/uploads/d.png"},
		Description:  "A very nice ring",
	}

	v := Storefront(p)
	assert.Equal(t, p.ID.Hex(), v.ID)
	assert.Equal(t, "1234.50", v.Price)
	assert.Equal(t, "engraving", v.CustomizationType)
	assert.Equal(t, "A very nice ring", v.Description)
	assert.True(t, v.InStock)

	// invalid entry dropped, remainder capped at 4
	require.Len(t, v.Images, 4)
	assert.Equal(t, dataURI, v.MainImage)
	assert.Equal(t, dataURI, v.Images[0])
	assert.NotContains(t, v.Images, "garbage-entry")
	assert.NotContains(t, v.Images, "/uploads/d.png")
}

func TestStorefrontProjectionPlaceholderFallback(t *testing.T) {
	p := &models.Product{
		ID:              primitive.NewObjectID(),
		Name:            "Plain Band",
		Price:           500,
		ProductCategory: "Ring",
		Images:          []string{"not an image", "also not"},
	}

	v := Storefront(p)
	assert.Equal(t, PlaceholderImage, v.MainImage)
	assert.Equal(t, []string{PlaceholderImage}, v.Images)
	assert.Equal(t, "none", v.CustomizationType)
	assert.NotEmpty(t, v.Description)
}

func TestStorefrontDefaultDescriptionPerCategory(t *testing.T) {
	assert.Contains(t, defaultDescription("Ring"), "ring")
	assert.Contains(t, defaultDescription("Pendants"), "pendant")
	assert.Contains(t, defaultDescription("Bracelets"), "bracelet")
	assert.NotEmpty(t, defaultDescription("Something Else"))
}
