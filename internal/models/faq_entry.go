package models

import "time"

// FAQEntry backs the FAQ page. Entries are seeded via cmd/seed and
// ordered by Position within a category.
type FAQEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Category  string    `json:"category"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Position  int       `json:"position"`
	Published bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
