package api

// Wire types for the storefront REST API. The backend owns all of these;
// the client never computes prices or discounts, it only displays them.

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Color       string  `json:"color,omitempty"`
	Size        string  `json:"size,omitempty"`
	Material    string  `json:"material,omitempty"`
}

type CartRef struct {
	ID int64 `json:"id"`
}

type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Cart     *CartRef `json:"cart,omitempty"`
}

// PriceSummary is the server's computed pricing for a cart. Opaque to the
// client: displayed verbatim, never recomputed locally.
type PriceSummary struct {
	OriginalPrice float64 `json:"originalPrice"`
	Discount      float64 `json:"discount"`
	FinalPrice    float64 `json:"finalPrice"`
	Message       string  `json:"message"`
}

type Order struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"userId"`
	Products []Product `json:"products"`
	Total    float64   `json:"total"`
}
