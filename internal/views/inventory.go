package views

import (
	"github.com/samber/lo"

	"github.com/ehr/hms/internal/domain/inventory"
)

// IsLowStock reports quantity <= minimum_stock. The boundary is low.
func IsLowStock(item *inventory.Item) bool {
	return item.Quantity <= item.MinimumStock
}

// LowStock returns the low-stock items in collection order.
func LowStock(items []*inventory.Item) []*inventory.Item {
	return lo.Filter(items, func(it *inventory.Item, _ int) bool { return IsLowStock(it) })
}

type InventoryStats struct {
	Items      int     `json:"items"`
	InStock    int     `json:"in_stock"`
	LowStock   int     `json:"low_stock"`
	TotalValue float64 `json:"total_value"`
}

func ComputeInventoryStats(items []*inventory.Item) InventoryStats {
	return InventoryStats{
		Items: len(items),
		InStock: lo.CountBy(items, func(it *inventory.Item) bool {
			return it.Status == inventory.StatusInStock
		}),
		LowStock:   lo.CountBy(items, IsLowStock),
		TotalValue: lo.SumBy(items, (*inventory.Item).Value),
	}
}
