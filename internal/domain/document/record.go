package document

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is the registry entry of a generated PDF
type Record struct {
	ID          uuid.UUID `json:"id"`
	Kind        Kind      `json:"kind"`
	Code        string    `json:"code"`
	OrderID     string    `json:"order_id,omitempty"`
	FileName    string    `json:"file_name"`
	StorageKey  string    `json:"storage_key"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Checksum    string    `json:"checksum"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRecord creates a registry entry with a fresh id
func NewRecord(kind Kind, code, orderID, storageKey string, size int64, checksum, createdBy string) *Record {
	return &Record{
		ID:          uuid.New(),
		Kind:        kind,
		Code:        code,
		OrderID:     orderID,
		FileName:    kind.FileName(code),
		StorageKey:  storageKey,
		ContentType: "application/pdf",
		SizeBytes:   size,
		Checksum:    checksum,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}
}

// Repository persists generated document records
type Repository interface {
	Save(ctx context.Context, record *Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	FindByOrder(ctx context.Context, orderID string) ([]Record, error)
}
