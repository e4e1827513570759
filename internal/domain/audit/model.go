package audit

import (
	"time"

	"github.com/xSp1der42/disk-site-sub000/internal/domain/auth"
)

// Entry is one append-only audit record: a single successful mutation.
// IDs are ULIDs, so lexicographic order matches time order.
type Entry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Role      auth.Role `json:"role"`
	Category  string    `json:"category"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}

// PageSize is the fixed page length for audit queries.
const PageSize = 50

// DefaultRetention is the window kept by the periodic purge.
const DefaultRetention = 31 * 24 * time.Hour
