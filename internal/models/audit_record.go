package models

import (
	"time"
)

// AuditRecord mirrors one fetch attempt from the requester's log
type AuditRecord struct {
	ID            uint      `json:"-" gorm:"primaryKey"`
	RequestNumber int       `json:"request_number" gorm:"column:request_number;index;not null"`
	CallTime      time.Time `json:"call_time" gorm:"column:call_time;index"`
	EndPoint      string    `json:"end_point" gorm:"column:end_point;not null"`
	Result        string    `json:"result" gorm:"not null"`
	Number        *int      `json:"number,omitempty"`
	ErrorCode     *int      `json:"error_code,omitempty" gorm:"column:error_code"`
	CreatedAt     time.Time `json:"-"`
}

// TableName specifies the table name for AuditRecord Model
func (AuditRecord) TableName() string {
	return "fetch_log"
}
