package records

import (
	"time"

	"github.com/google/uuid"
)

// Link is one directed, tagged edge of the adjacency list. Seq is allocated
// per (Source, Tag) and is unique within that pair.
type Link struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Source    string    `gorm:"column:source;not null;uniqueIndex:idx_link_source_tag_seq,priority:1" json:"source"`
	Tag       string    `gorm:"column:tag;not null;uniqueIndex:idx_link_source_tag_seq,priority:2" json:"tag"`
	Seq       int64     `gorm:"column:seq;not null;uniqueIndex:idx_link_source_tag_seq,priority:3" json:"seq"`
	Target    string    `gorm:"column:target;not null;index" json:"target"`
	Role      string    `gorm:"column:role" json:"role,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
}

func (Link) TableName() string { return "link" }
