package inventory

type Status string

const (
	StatusInStock    Status = "In Stock"
	StatusOutOfStock Status = "Out of Stock"
	StatusLowStock   Status = "Low Stock"
)

var Statuses = []Status{StatusInStock, StatusOutOfStock, StatusLowStock}

func (s Status) Known() bool {
	for _, k := range Statuses {
		if s == k {
			return true
		}
	}
	return false
}

var Categories = []string{"Medicine", "Equipment", "Supplies", "Other"}

// Item is one record of the inventory collection. Status is stored as
// entered and is not recomputed when quantities change.
type Item struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Type         string  `json:"type"`
	Quantity     int     `json:"quantity"`
	Unit         string  `json:"unit"`
	PricePerUnit float64 `json:"price_per_unit"`
	Supplier     string  `json:"supplier"`
	ExpiryDate   *string `json:"expiry_date"`
	MinimumStock int     `json:"minimum_stock"`
	Status       Status  `json:"status"`
	CreatedDate  string  `json:"created_date"`
}

// Value is the stock value of the item.
func (i *Item) Value() float64 {
	return float64(i.Quantity) * i.PricePerUnit
}

// StockStatus derives a status from the current quantities.
func StockStatus(quantity, minimum int) Status {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity <= minimum:
		return StatusLowStock
	default:
		return StatusInStock
	}
}
