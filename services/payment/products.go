package payment

import (
	"strings"

	"purposeful/config"
	"purposeful/models"
)

// Coaching package catalogue. Prices are monthly cents; the enterprise tier
// has no Stripe price and routes through sales instead.
func catalogue() []models.Product {
	return []models.Product{
		{
			ID:            "starter",
			Name:          "Starter Package",
			Description:   "Perfect for small teams and pilot programs - Up to 50 users with core emotional tracking",
			PriceMonthly:  250000,
			StripePriceID: config.AppConfig.StripePriceStarter,
			Features: []string{
				"Up to 50 users",
				"Core emotional tracking",
				"Monthly reporting",
				"Email support",
				"Basic AI insights",
			},
		},
		{
			ID:            "professional",
			Name:          "Professional Package",
			Description:   "Comprehensive solution for growing organizations - Up to 250 users with advanced analytics",
			PriceMonthly:  750000,
			StripePriceID: config.AppConfig.StripePriceProfessional,
			Features: []string{
				"Up to 250 users",
				"Advanced analytics",
				"Weekly reporting",
				"Priority support",
				"Full AI insights",
				"Custom integrations",
				"Dedicated coach",
			},
			Featured: true,
		},
		{
			ID:           "enterprise",
			Name:         "Enterprise Package",
			Description:  "Tailored solutions for large organizations - Unlimited users with white-label options",
			PriceMonthly: 0,
			Features: []string{
				"Unlimited users",
				"White-label option",
				"Real-time dashboards",
				"24/7 support",
				"Full customization",
				"API access",
				"Dedicated team",
				"Insurance integration",
			},
			ContactSales: true,
		},
	}
}

// Products returns the full catalogue, including contact-sales tiers.
func Products() []models.Product {
	return catalogue()
}

// PurchasableProducts returns only tiers that can go through checkout.
func PurchasableProducts() []models.Product {
	var out []models.Product
	for _, p := range catalogue() {
		if p.Purchasable() {
			out = append(out, p)
		}
	}
	return out
}

// GetProduct looks a product up by its ID, case-insensitively.
func GetProduct(id string) (models.Product, bool) {
	for _, p := range catalogue() {
		if strings.EqualFold(p.ID, id) {
			return p, true
		}
	}
	return models.Product{}, false
}
