package document

import (
	"time"

	"github.com/dms/backend/internal/domain/document"
)

// Generated is a freshly rendered and stored document
type Generated struct {
	Record   *document.Record
	FileName string
	Content  []byte
}

// DownloadLink is a time-limited URL to a stored document
type DownloadLink struct {
	DocumentID string    `json:"document_id"`
	FileName   string    `json:"file_name"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// DocumentResponse is the listing shape of a registry record
type DocumentResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Code      string    `json:"code"`
	OrderID   string    `json:"order_id,omitempty"`
	FileName  string    `json:"file_name"`
	SizeBytes int64     `json:"size_bytes"`
	Checksum  string    `json:"checksum"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toDocumentResponse(r *document.Record) DocumentResponse {
	return DocumentResponse{
		ID:        r.ID.String(),
		Kind:      r.Kind.String(),
		Code:      r.Code,
		OrderID:   r.OrderID,
		FileName:  r.FileName,
		SizeBytes: r.SizeBytes,
		Checksum:  r.Checksum,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
}
