package domain

import "time"

// Stored categories. "Expiring Soon" and "Expired" are derived views
// computed from the expiry date and are never stored on a product.
const (
	CategoryExpiringSoon = "Expiring Soon"
	CategoryFood         = "Food"
	CategoryMedicine     = "Medicine"
	CategoryCosmetics    = "Cosmetics"
	CategoryOthers       = "Others"
	CategoryExpired      = "Expired"
)

// StoredCategories lists the labels a product may carry.
var StoredCategories = []string{
	CategoryFood,
	CategoryMedicine,
	CategoryCosmetics,
	CategoryOthers,
}

// IsDerivedCategory reports whether the label is a computed view rather
// than a storable attribute.
func IsDerivedCategory(category string) bool {
	return category == CategoryExpiringSoon || category == CategoryExpired
}

type Status string

const (
	StatusExpired    Status = "Expired"
	StatusNotExpired Status = "Not Expired"
)

// Product represents a perishable inventory item.
type Product struct {
	ID         int64  `json:"id,string"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	ExpiryDate Date   `json:"expiry_date"`
	// ExtractedText carries raw OCR/speech output attached to the record (optional)
	ExtractedText string `json:"extracted_text,omitempty"`
	// ImageRef is an opaque handle to a captured image; never interpreted here
	ImageRef  string    `json:"image_ref,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductStatus is a product decorated with its derived expiry status.
type ProductStatus struct {
	Product
	Status Status `json:"status"`
}
