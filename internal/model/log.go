package model

import "time"

const (
	LogInfo  = "info"
	LogWarn  = "warn"
	LogError = "error"
)

type LogEntry struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Level     string    `gorm:"size:8;not null" json:"level"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Context   string    `json:"context,omitempty"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (LogEntry) TableName() string {
	return "logs"
}
