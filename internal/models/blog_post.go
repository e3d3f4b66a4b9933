package models

import "time"

// BlogPost is the indexed form of a markdown post under the content
// directory. The index is rebuilt from disk, so rows carry everything the
// list and detail endpoints need.
type BlogPost struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	Slug        string    `gorm:"uniqueIndex" json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Image       string    `json:"image,omitempty"`
	ReadingTime string    `json:"readingTime"`
	Content     string    `json:"content,omitempty"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
