// Package catalog implements the client for the product catalog query
// service (Shopify Admin GraphQL).
package catalog

// ProductSummary is the lightweight search-result shape: enough to show a
// candidate list and fetch detail later.
type ProductSummary struct {
	ID     string
	Title  string
	Handle string

	// Populated only by the criteria/date searches, which request the
	// richer summary fields.
	Status      string
	ProductType string
	Tags        []string
	Vendor      string
	CreatedAt   string
	UpdatedAt   string
}

// MatchSet is an ordered catalog search result. Zero, one, or many entries;
// many entries always trigger a clarification upstream.
type MatchSet []ProductSummary

// ProductDetail is the full product record with variants and inventory.
type ProductDetail struct {
	ID             string
	Title          string
	Handle         string
	Status         string
	Vendor         string
	ProductType    string
	Tags           []string
	CreatedAt      string
	UpdatedAt      string
	OnlineStoreURL string
	Description    string // plain text, derived from the HTML body
	ImageURL       string
	Variants       []Variant
}

// Variant is a purchasable configuration of a product.
type Variant struct {
	ID                string
	SKU               string
	Title             string
	Price             string
	InventoryQuantity int
	InventoryItem     InventoryItem
}

// InventoryItem is the stock-tracking record backing a variant.
type InventoryItem struct {
	ID       string
	UnitCost Money
	Tracked  bool
	Weight   Weight
}

// Money is a catalog money amount. Amount stays a decimal string; the
// finance package owns parsing.
type Money struct {
	Amount   string
	Currency string
}

// Weight is a measured weight with its unit, e.g. 5.2 KILOGRAMS.
type Weight struct {
	Value float64
	Unit  string
}

// InventoryTimestamp reports when an inventory item last changed, with the
// cost recorded at that time.
type InventoryTimestamp struct {
	UpdatedAt string
	Cost      string
	Currency  string
}

// DateCondition constrains a creation-date search.
type DateCondition string

const (
	DateAfter  DateCondition = "after"
	DateBefore DateCondition = "before"
	DateOn     DateCondition = "on"
)

// HasCost reports whether the variant carries a unit cost.
func (v Variant) HasCost() bool {
	return v.InventoryItem.UnitCost.Amount != ""
}

// Titles returns the candidate titles of a match set, in order.
func (m MatchSet) Titles() []string {
	titles := make([]string, len(m))
	for i, p := range m {
		titles[i] = p.Title
	}
	return titles
}

// FindByTitle returns the entry with the exact title, if present.
func (m MatchSet) FindByTitle(title string) (ProductSummary, bool) {
	for _, p := range m {
		if p.Title == title {
			return p, true
		}
	}
	return ProductSummary{}, false
}

// VariantTitles returns the variant titles of a product, in order.
func (d *ProductDetail) VariantTitles() []string {
	titles := make([]string, len(d.Variants))
	for i, v := range d.Variants {
		titles[i] = v.Title
	}
	return titles
}

// FindVariantByTitle returns the variant with the exact title, if present.
func (d *ProductDetail) FindVariantByTitle(title string) (Variant, bool) {
	for _, v := range d.Variants {
		if v.Title == title {
			return v, true
		}
	}
	return Variant{}, false
}
