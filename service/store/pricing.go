package store

import (
	"fmt"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
)

const (
	DeliveryAreaInsideCity  = "inside_city"
	DeliveryAreaOutsideCity = "outside_city"

	// used when no contact settings row exists yet
	DefaultOutsideCityFee = 100
)

// DeliveryCharge applies the two-tier delivery rule: free inside the city,
// a flat fee outside it.
func DeliveryCharge(area string, outsideCityFee float64) (float64, error) {
	switch area {
	case DeliveryAreaInsideCity:
		return 0, nil
	case DeliveryAreaOutsideCity:
		return outsideCityFee, nil
	default:
		return 0, fmt.Errorf("unknown delivery area: %s", area)
	}
}

// UnitPrice returns the effective price of a product, preferring an active
// sale price.
func UnitPrice(p models.Product) float64 {
	if p.SalePrice != nil && *p.SalePrice > 0 && *p.SalePrice < p.Price {
		return *p.SalePrice
	}
	return p.Price
}
