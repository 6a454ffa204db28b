package model

import "time"

// ItemStatus is the lifecycle state of an inventory item.
type ItemStatus string

// Item statuses. Matching is case-sensitive.
const (
	StatusAvailable   ItemStatus = "Available"
	StatusInUse       ItemStatus = "In Use"
	StatusUnderRepair ItemStatus = "Under Repair"
	StatusDisposed    ItemStatus = "Disposed"
)

// ItemStatuses lists every valid status in display order.
var ItemStatuses = []ItemStatus{StatusAvailable, StatusInUse, StatusUnderRepair, StatusDisposed}

// Valid reports whether s is one of the known statuses.
func (s ItemStatus) Valid() bool {
	for _, known := range ItemStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Item is a tracked inventory item. Optional text fields are empty when unset.
type Item struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	SKU             string     `json:"sku"`
	AssetTag        string     `json:"assetTag"`
	Location        string     `json:"location"`
	Quantity        int64      `json:"quantity"`
	AcquisitionDate string     `json:"acquisitionDate"`
	Status          ItemStatus `json:"status"`
	AssignedTo      string     `json:"assignedTo"`
	Notes           string     `json:"notes"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// ItemInput holds the client-settable fields of an item. It is used for both
// create and full-replace update.
type ItemInput struct {
	Name            string
	Description     string
	SKU             string
	AssetTag        string
	Location        string
	Quantity        int64
	AcquisitionDate string
	Status          ItemStatus
	AssignedTo      string
	Notes           string
}

// ItemStats summarizes the inventory.
type ItemStats struct {
	Items    int64                `json:"items"`
	Quantity int64                `json:"quantity"`
	ByStatus map[ItemStatus]int64 `json:"byStatus"`
}
