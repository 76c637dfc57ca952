package savings

import (
	"encoding/json"

	"github.com/etnz/savings/date"
)

// MetalHolding is physical or digital metal bought at a price per gram.
type MetalHolding struct {
	ID            ID
	Metal         string
	Date          date.Date
	Grams         Quantity
	PurchasePrice Money
	CurrentPrice  Money

	extra extras
}

func (h MetalHolding) Invested() Money { return h.PurchasePrice.Mul(h.Grams) }
func (h MetalHolding) Value() Money    { return h.CurrentPrice.Mul(h.Grams) }

func (h MetalHolding) Totals() Totals { return NewTotals(h.Invested(), h.Value()) }

var metalHoldingFields = []string{"id", "metal", "date", "grams", "purchasePrice", "currentPrice"}

// MarshalJSON implements the json.Marshaler interface for MetalHolding.
func (h MetalHolding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", h.ID)
	w.Append("metal", h.Metal)
	w.Append("date", h.Date)
	w.Append("grams", h.Grams)
	w.Append("purchasePrice", h.PurchasePrice)
	w.Append("currentPrice", h.CurrentPrice)
	w.Extras(h.extra)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for MetalHolding.
func (h *MetalHolding) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID            ID        `json:"id"`
		Metal         string    `json:"metal"`
		Date          date.Date `json:"date"`
		Grams         Quantity  `json:"grams"`
		PurchasePrice Money     `json:"purchasePrice"`
		CurrentPrice  Money     `json:"currentPrice"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	extra, err := decodeExtras(data, metalHoldingFields...)
	if err != nil {
		return err
	}
	*h = MetalHolding{
		ID:            temp.ID,
		Metal:         temp.Metal,
		Date:          temp.Date,
		Grams:         temp.Grams,
		PurchasePrice: temp.PurchasePrice,
		CurrentPrice:  temp.CurrentPrice,
		extra:         extra,
	}
	return nil
}
