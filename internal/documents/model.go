package documents

import "time"

// Document is a stored resume: the original blob lives in object storage
// under StorageKey, the extracted text lives in the database row.
type Document struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	StorageKey    string    `json:"-"`
	ExtractedText string    `json:"-"`
	SizeBytes     int64     `json:"sizeBytes"`
	Format        string    `json:"format"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
