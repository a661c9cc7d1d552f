package types

import (
	"time"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
)

// metadata
type Metadata struct {
	SchemaVersion uint       `json:"schema_version,omitempty"`
	CreatedBy     string     `json:"created_by,omitempty"`
	LastModified  time.Time  `json:"last_modified,omitempty"`
	Downloaded    *time.Time `json:"downloaded,omitempty"`
}

// Month is one cached MSRC monthly bucket. Published months never change, so
// a cached month is served as-is on later scans.
type Month struct {
	ID        string          `json:"id,omitempty"`
	KBEntries []types.KBEntry `json:"kb_entries,omitempty"`
	FetchedAt time.Time       `json:"fetched_at,omitempty"`
}
