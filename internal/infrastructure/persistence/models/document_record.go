// Package models contains the GORM models of the document registry.
package models

import (
	"time"

	"github.com/dms/backend/internal/domain/document"
	"github.com/google/uuid"
)

// DocumentRecordModel is the GORM model for generated_documents
type DocumentRecordModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	Kind        string    `gorm:"type:varchar(20);not null;index:idx_generated_documents_order_kind,priority:2"`
	Code        string    `gorm:"type:varchar(100);not null"`
	OrderID     string    `gorm:"column:order_id;type:varchar(64);index:idx_generated_documents_order_kind,priority:1"`
	FileName    string    `gorm:"column:file_name;type:varchar(255);not null"`
	StorageKey  string    `gorm:"column:storage_key;type:varchar(512);not null;uniqueIndex"`
	ContentType string    `gorm:"column:content_type;type:varchar(100);not null"`
	SizeBytes   int64     `gorm:"column:size_bytes;not null"`
	Checksum    string    `gorm:"type:varchar(64);not null"`
	CreatedBy   string    `gorm:"column:created_by;type:varchar(64)"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for DocumentRecordModel
func (DocumentRecordModel) TableName() string {
	return "generated_documents"
}

// ToDomain converts the model to a domain Record
func (m *DocumentRecordModel) ToDomain() *document.Record {
	return &document.Record{
		ID:          m.ID,
		Kind:        document.Kind(m.Kind),
		Code:        m.Code,
		OrderID:     m.OrderID,
		FileName:    m.FileName,
		StorageKey:  m.StorageKey,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		Checksum:    m.Checksum,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// DocumentRecordModelFromDomain converts a domain Record to the model
func DocumentRecordModelFromDomain(r *document.Record) *DocumentRecordModel {
	return &DocumentRecordModel{
		ID:          r.ID,
		Kind:        string(r.Kind),
		Code:        r.Code,
		OrderID:     r.OrderID,
		FileName:    r.FileName,
		StorageKey:  r.StorageKey,
		ContentType: r.ContentType,
		SizeBytes:   r.SizeBytes,
		Checksum:    r.Checksum,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
}
