package domain

import (
	"time"
)

// SysKv is a generic key/value row used by the database storage backend.
// The full product set is persisted as one serialized array under a
// single well-known key, mirroring the bolt backend layout.
type SysKv struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (SysKv) TableName() string {
	return "sys_kv"
}
