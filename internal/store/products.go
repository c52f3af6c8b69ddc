package store

import (
	"context"
	"fmt"
	"regexp"

	"jewelry-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// buildProductQuery translates a typed product filter into one bson filter.
// Unset fields contribute nothing; all set fields are ANDed together.
func buildProductQuery(f models.ProductFilter) bson.M {
	query := bson.M{}

	if f.PeopleCategory != "" {
		// source data contains mixed casing, so the match is anchored and
		// case-insensitive
		query["peopleCategory"] = primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(f.PeopleCategory) + "$",
			Options: "i",
		}
	}
	if f.ProductCategory != "" {
		query["productCategory"] = f.ProductCategory
	}
	if f.ProductType != "" {
		query["productType"] = f.ProductType
	}
	if f.PriceRange != "" {
		query["priceRange"] = f.PriceRange
	}
	if f.CustomOption != "" {
		query["customOption"] = f.CustomOption
	}
	if f.CustomizableOnly {
		// hide non-customizable items: customOption absent or "None"
		query["customOption"] = bson.M{"$exists": true, "$nin": bson.A{"None", ""}}
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		query["price"] = price
	}
	if f.MinWeight != nil || f.MaxWeight != nil {
		weight := bson.M{}
		if f.MinWeight != nil {
			weight["$gte"] = *f.MinWeight
		}
		if f.MaxWeight != nil {
			weight["$lte"] = *f.MaxWeight
		}
		query["weight"] = weight
	}
	if f.InStock != nil {
		query["inStock"] = *f.InStock
	}

	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"peopleCategory": re},
			bson.M{"productCategory": re},
		}
	}

	return query
}

// sortForKey maps a filter sort key to a mongo sort document. Newest first
// is the default.
func sortForKey(key string) bson.D {
	switch key {
	case models.SortNameAsc:
		return bson.D{{Key: "name", Value: 1}}
	case models.SortNameDesc:
		return bson.D{{Key: "name", Value: -1}}
	case models.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case models.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}

// ListProducts retrieves products matching the filter
func (s *Store) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, error) {
	opts := options.Find().SetSort(sortForKey(f.Sort))
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := s.products.Find(ctx, buildProductQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// CountProducts counts products matching the filter, ignoring pagination
func (s *Store) CountProducts(ctx context.Context, f models.ProductFilter) (int64, error) {
	return s.products.CountDocuments(ctx, buildProductQuery(f))
}

// GetProduct retrieves a product by ID. Returns (nil, nil) when absent.
func (s *Store) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// InsertProduct inserts a new product and fills in its assigned ID
func (s *Store) InsertProduct(ctx context.Context, product *models.Product) error {
	res, err := s.products.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

// UpdateProduct applies a $set update and returns the updated document.
// Returns (nil, nil) when the product does not exist.
func (s *Store) UpdateProduct(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Product, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err := s.products.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&product)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

// DeleteProduct removes a product by ID, reporting whether it existed
func (s *Store) DeleteProduct(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, fmt.Errorf("failed to delete product: %w", err)
	}
	return res.DeletedCount > 0, nil
}
