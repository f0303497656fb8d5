package domain

// ServiceEntry is a catalog item describing an offered legal service.
type ServiceEntry struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
}
