// Package store persists the product set as a single ordered JSON array
// under one well-known key, the same layout the original tracker kept in
// browser local storage. Two backends share the contract: a bolt file
// (default) and a SQL key/value row for deployments that already run a
// database.
package store

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/bjo163/expiryexpert/internal/domain"
)

// ProductsKey is the well-known key the serialized array lives under.
const ProductsKey = "products"

// Event topics published on the application bus after successful writes.
// TopicProductsSaved carries the persisted set size after the post-save
// sweep; TopicProductRemoved carries the removed product id.
const (
	TopicProductsSaved  = "store.products.saved"
	TopicProductRemoved = "store.product.removed"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store is the product persistence contract.
//
// Load never fails: missing or unparsable data degrades to an empty set.
// Save is atomic from the caller's perspective and runs an expiry sweep
// after every successful write of new content.
type Store interface {
	// Load returns the persisted set in insertion order.
	Load() []domain.Product
	// Save overwrites the persisted set, then sweeps expired records.
	Save(products []domain.Product) error
	// Upsert replaces the product with the same id or appends it.
	// The record always ends up at the tail of the sequence.
	Upsert(p domain.Product) error
	// Remove deletes the product with the given id; no-op when absent.
	Remove(id int64) error
	// SweepExpired removes every product whose expiry date is strictly
	// before ref and returns how many were dropped.
	SweepExpired(ref domain.Date) (int, error)
	Close() error
}

func encodeProducts(products []domain.Product) ([]byte, error) {
	if products == nil {
		products = []domain.Product{}
	}
	return json.Marshal(products)
}

func decodeProducts(data []byte) ([]domain.Product, bool) {
	if len(data) == 0 {
		return []domain.Product{}, true
	}
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return []domain.Product{}, false
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, true
}

// upsertSet removes any entry sharing the id and appends the product,
// matching the original filter-then-append behavior.
func upsertSet(products []domain.Product, p domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products)+1)
	for _, existing := range products {
		if existing.ID != p.ID {
			out = append(out, existing)
		}
	}
	return append(out, p)
}

// sweepSet keeps products expiring today or later.
func sweepSet(products []domain.Product, ref domain.Date) ([]domain.Product, int) {
	kept := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !p.ExpiryDate.Before(ref) {
			kept = append(kept, p)
		}
	}
	return kept, len(products) - len(kept)
}
