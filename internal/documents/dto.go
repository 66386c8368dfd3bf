package documents

import "time"

// documentSummary is the list/detail representation; extracted text is
// served by the dedicated text endpoint.
type documentSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Format    string    `json:"format"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type documentText struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func toSummary(doc Document) documentSummary {
	return documentSummary{
		ID:        doc.ID,
		Title:     doc.Title,
		Format:    doc.Format,
		SizeBytes: doc.SizeBytes,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}
