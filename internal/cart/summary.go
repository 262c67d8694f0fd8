package cart

import (
	"math"

	"github.com/mercaditoapp/mercadito-backend/pkg/db/models"
)

// BusinessSummary projects the reseller economics of buying a product at
// wholesale cost and selling it at the suggested retail price. Monetary
// amounts are integer cents.
type BusinessSummary struct {
	Quantity               int   `json:"quantity"`
	CostCents              int64 `json:"cost_cents"`
	PVPCents               int64 `json:"pvp_cents"`
	ProfitPerUnitCents     int64 `json:"profit_per_unit_cents"`
	ProfitPercentage       int   `json:"profit_percentage"`
	TotalInvestmentCents   int64 `json:"total_investment_cents"`
	PotentialRevenueCents  int64 `json:"potential_revenue_cents"`
	PotentialProfitCents   int64 `json:"potential_profit_cents"`
}

// ComputeBusinessSummary derives the summary from the product's wholesale
// cost and suggested retail price.
func ComputeBusinessSummary(product *models.Product, quantity int) *BusinessSummary {
	cost := product.CostB2BCents
	pvp := product.PVPCents
	profitPerUnit := pvp - cost

	percentage := 0
	if cost > 0 {
		percentage = int(math.Round(float64(profitPerUnit) / float64(cost) * 100))
	}

	qty := int64(quantity)
	return &BusinessSummary{
		Quantity:              quantity,
		CostCents:             cost,
		PVPCents:              pvp,
		ProfitPerUnitCents:    profitPerUnit,
		ProfitPercentage:      percentage,
		TotalInvestmentCents:  qty * cost,
		PotentialRevenueCents: qty * pvp,
		PotentialProfitCents:  qty * profitPerUnit,
	}
}
