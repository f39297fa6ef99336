package database

import (
	"number-cruncher/internal/facts"
	"number-cruncher/internal/models"

	"gorm.io/gorm"
)

// AuditStore mirrors requester log entries into the fetch_log table.
// It implements facts.LogSink.
type AuditStore struct {
	db *gorm.DB
}

// AuditQuery selects a page of audit records.
type AuditQuery struct {
	Page      int // 1-based
	Limit     int
	Ascending bool
	Result    string // SUCCESS, FAILURE or empty for both
}

func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

// Record implements facts.LogSink.
func (s *AuditStore) Record(entry facts.LogEntry) error {
	rec := models.AuditRecord{
		RequestNumber: entry.RequestNumber,
		CallTime:      entry.CallTime,
		EndPoint:      entry.EndPoint,
		Result:        string(entry.Result),
		Number:        entry.Number,
		ErrorCode:     entry.ErrorCode,
	}
	return s.db.Create(&rec).Error
}

// List returns the requested page and the total number of matching records.
func (s *AuditStore) List(q AuditQuery) ([]models.AuditRecord, int64, error) {
	query := s.db.Model(&models.AuditRecord{})
	if q.Result != "" {
		query = query.Where("result = ?", q.Result)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "id desc"
	if q.Ascending {
		order = "id asc"
	}

	records := make([]models.AuditRecord, 0, q.Limit)
	err := query.Order(order).Offset((q.Page - 1) * q.Limit).Limit(q.Limit).Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

var _ facts.LogSink = (*AuditStore)(nil)
