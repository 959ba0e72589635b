package order

import "github.com/shopspring/decimal"

// Zone is a delivery area with a fixed shipping charge. The set of zones is
// closed: a fee that is not one of the zone fees is rejected at submission.
type Zone struct {
	Label string
	Fee   decimal.Decimal
}

// Zones is the fixed list of delivery zones, in display order.
var Zones = []Zone{
	{Label: "Inside Dhaka", Fee: decimal.NewFromInt(60)},
	{Label: "Dhaka Sub Area", Fee: decimal.NewFromInt(100)},
	{Label: "Outside Dhaka", Fee: decimal.NewFromInt(120)},
}

// DefaultZone is the zone pre-selected on a fresh draft.
var DefaultZone = Zones[2]

// ValidZoneFee reports whether fee is one of the enumerated zone fees.
func ValidZoneFee(fee decimal.Decimal) bool {
	for _, z := range Zones {
		if z.Fee.Equal(fee) {
			return true
		}
	}
	return false
}
