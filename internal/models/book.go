package models

type Category string

const (
	CategoryScience   Category = "Science"
	CategoryArt       Category = "Art"
	CategoryReligion  Category = "Religion"
	CategoryHistory   Category = "History"
	CategoryGeography Category = "Geography"
)

type Book struct {
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title"`
	Authors       string   `json:"authors"`
	PublisherName string   `json:"publisher_name"`
	Category      Category `json:"category"`
	SellingPrice  float64  `json:"selling_price"`
	Stock         int      `json:"stock"`
}

// InStock gates whether the storefront offers an add-to-cart action for
// this book. The upstream API re-checks stock on every add.
func (b *Book) InStock() bool {
	return b.Stock > 0
}

// SearchQuery holds the catalog filter criteria. Empty fields are omitted
// from the upstream request.
type SearchQuery struct {
	Query     string `json:"query"`
	Category  string `json:"category"`
	Author    string `json:"author"`
	Publisher string `json:"publisher"`
}

type SearchResponse struct {
	Books []Book `json:"books"`
}
