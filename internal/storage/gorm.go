package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record is one persisted blob.
type Record struct {
	Key       string         `gorm:"primaryKey;type:text"`
	Blob      datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (Record) TableName() string { return "kv_records" }

type gormStore struct {
	db *gorm.DB
}

// NewGormStore opens the blob table on the given connection.
func NewGormStore(db *gorm.DB) (Store, error) {
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &gormStore{db: db}, nil
}

func (s *gormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rec Record
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(rec.Blob), true, nil
}

func (s *gormStore) Set(ctx context.Context, key string, blob []byte) error {
	rec := Record{
		Key:       key,
		Blob:      datatypes.JSON(blob),
		UpdatedAt: time.Now().UTC(),
	}
	return s.db.WithContext(ctx).Save(&rec).Error
}
