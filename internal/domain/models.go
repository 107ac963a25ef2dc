package domain

// Product is a catalog entry. ID is unique within a catalog.
type Product struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Price           float64        `json:"price"`
	Category        string         `json:"category"`
	Image           string         `json:"image"`
	ImageComingSoon bool           `json:"image_coming_soon,omitempty"`
	ComingSoonImage string         `json:"coming_soon_image,omitempty"`
	Description     string         `json:"description"`
	Inventory       map[string]int `json:"inventory,omitempty"` // size -> count
	Featured        bool           `json:"featured"`
}

// CartItem is a product snapshot plus the purchase fields.
// CartID is ProductID + "-" + SelectedSize and is unique within a cart.
type CartItem struct {
	Product
	SelectedSize string `json:"selectedSize"`
	Quantity     int    `json:"quantity"`
	CartID       string `json:"cartId"`
}

// Cart keeps insertion order for display.
type Cart []CartItem

type Settings struct {
	ID            string `json:"id"`
	GymName       string `json:"gym_name"`
	Tagline       string `json:"tagline"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Hours         string `json:"hours"`
	InstagramURL  string `json:"instagram_url"`
	FacebookURL   string `json:"facebook_url"`
	GooglePlaceID string `json:"google_place_id"`
}

type HomeContent struct {
	ID          string `json:"id"`
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTAText     string `json:"cta_text"`
	CTALink     string `json:"cta_link"`
	HeroImage   string `json:"hero_image"`
	About       string `json:"about"`
}

const (
	SourceSite   = "site"
	SourceGoogle = "google"
)

// Testimonial ids are unique; reviews pulled from the third-party API carry
// their external id as ID.
type Testimonial struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Quote  string `json:"quote"`
	Source string `json:"source,omitempty"`
}

// Availability is the stock view of one product size.
type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}
