package domain

// Classification groups vehicles on the public site; one classification per
// nav entry.
type Classification struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Vehicle is a single inventory item.
type Vehicle struct {
	ID               int64   `json:"id"`
	ClassificationID int64   `json:"classification_id"`
	Make             string  `json:"make"`
	Model            string  `json:"model"`
	Year             int     `json:"year"`
	Description      string  `json:"description"`
	Image            string  `json:"image"`
	Thumbnail        string  `json:"thumbnail"`
	Price            float64 `json:"price"`
	Miles            int64   `json:"miles"`
	Color            string  `json:"color"`
}
