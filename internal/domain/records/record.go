package records

import (
	"time"

	"gorm.io/datatypes"
)

// Record is the append-only storage envelope for every entry. Address is
// derived from (Type, Content, Replaces); Origin is the address of the first
// version of the chain and stays stable across supersedes.
type Record struct {
	Address  string         `gorm:"column:address;primaryKey" json:"address"`
	Origin   string         `gorm:"column:origin;not null;index:idx_record_origin_version,priority:1" json:"origin"`
	Version  int64          `gorm:"column:version;not null;index:idx_record_origin_version,priority:2" json:"version"`
	Type     string         `gorm:"column:type;not null;index" json:"type"`
	Author   string         `gorm:"column:author;not null;index" json:"author"`
	Content  datatypes.JSON `gorm:"column:content;not null" json:"content"`
	Replaces *string        `gorm:"column:replaces" json:"replaces,omitempty"`

	// SupersededBy is set on the predecessor when a new version is written.
	// Concurrent supersedes overwrite it; the latest version is resolved by
	// (Origin, Version, CreatedAt).
	SupersededBy *string `gorm:"column:superseded_by" json:"superseded_by,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index" json:"created_at"`
}

func (Record) TableName() string { return "record" }

func (r *Record) IsSuperseded() bool {
	return r != nil && r.SupersededBy != nil && *r.SupersededBy != ""
}

// Clone returns a deep copy so callers never share Content buffers.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.Content != nil {
		out.Content = append(datatypes.JSON(nil), r.Content...)
	}
	if r.Replaces != nil {
		v := *r.Replaces
		out.Replaces = &v
	}
	if r.SupersededBy != nil {
		v := *r.SupersededBy
		out.SupersededBy = &v
	}
	return &out
}
