package domain

// Rating is the aggregate review score the catalog attaches to a product.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is immutable once fetched; carts copy it by value.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      *Rating `json:"rating,omitempty"`
}

type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// LineTotal is price times quantity for a single line.
func (i CartItem) LineTotal() float64 { return i.Product.Price * float64(i.Quantity) }

// Cart is the persisted blob. Total is written on save but never trusted on read.
type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

type Order struct {
	ID        string  `db:"id"`
	Origin    string  `db:"origin"`
	Username  string  `db:"username"`
	Name      string  `db:"customer_name"`
	Email     string  `db:"customer_email"`
	Address   string  `db:"address"`
	ItemsJSON string  `db:"items_json"`
	Total     float64 `db:"total"`
	CreatedAt string  `db:"created_at"`
}
