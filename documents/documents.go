package documents

import "time"

// Document is a signature-flow document as the dashboard sees it.
type Document struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	FileName  string    `json:"fileName"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Document signature states as reported by the backend.
const (
	StatusPending  = "pending"
	StatusSigned   = "signed"
	StatusRejected = "rejected"
)
