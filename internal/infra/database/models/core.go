package models

import (
	"time"

	"github.com/lib/pq"
)

type TransactionLog struct {
	ID          string         `json:"id" gorm:"primaryKey;type:text"`
	Kind        string         `json:"kind" gorm:"type:text;not null;index"`
	Transaction string         `json:"transaction" gorm:"type:text;not null;index"`
	Args        pq.StringArray `json:"args" gorm:"type:text[]"`
	Success     bool           `json:"success" gorm:"type:boolean;not null;default:false"`
	ErrorKind   string         `json:"errorKind" gorm:"type:text"`
	Error       string         `json:"error" gorm:"type:text"`
	DurationMs  int64          `json:"durationMs" gorm:"type:bigint;not null;default:0"`
	CDate       time.Time      `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp();index"`
}
