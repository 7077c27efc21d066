// AngelaMos | 2026
// entity.go

package asset

import (
	"strings"
	"time"

	"github.com/carterperez-dev/maintenance-tracker/internal/schedule"
)

type Asset struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	Type         string         `db:"type"`
	Description  *string        `db:"description"`
	PurchaseDate *schedule.Date `db:"purchasedate"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

const (
	BucketEquipment = "equipment"
	BucketVehicle   = "vehicle"
	BucketBuilding  = "building"
	BucketMachinery = "machinery"
	BucketTool      = "tool"
	BucketOther     = "other"
)

var knownBuckets = map[string]struct{}{
	BucketEquipment: {},
	BucketVehicle:   {},
	BucketBuilding:  {},
	BucketMachinery: {},
	BucketTool:      {},
}

// TypeBucket groups the free-text asset type for colour coding. Only an
// exact match on the lower-cased type counts, so "Tools" is other.
func TypeBucket(assetType string) string {
	t := strings.ToLower(assetType)
	if _, ok := knownBuckets[t]; ok {
		return t
	}
	return BucketOther
}

func (a *Asset) TypeBucket() string {
	return TypeBucket(a.Type)
}

type Stats struct {
	Total            int `db:"total"             json:"total"`
	DistinctTypes    int `db:"distinct_types"    json:"distinct_types"`
	RecentlyAdded    int `db:"recently_added"    json:"recently_added"`
	WithPurchaseDate int `db:"with_purchase_date" json:"with_purchase_date"`
}
