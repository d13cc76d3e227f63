package catalog

import "twyst/internal/domain"

// Default собирает каталог с демонстрационными данными магазина
func Default() *Catalog {
	return New(seedProducts, seedCoupons, seedShipping, seedTiers)
}

var seedProducts = []domain.Product{
	{
		ID:          1,
		Name:        "Silk Wrap Blouse",
		Price:       120,
		Category:    "Apparel",
		Image:       "https://picsum.photos/id/338/600/800",
		Description: "Luxurious 100% silk wrap blouse in a soft blush tone. Perfect for office looks or an elegant dinner.",
		Tags:        []domain.Tag{domain.TagBestSeller},
	},
	{
		ID:          2,
		Name:        "High-Waist Linen Trousers",
		Price:       85,
		Category:    "Apparel",
		Image:       "https://picsum.photos/id/1005/600/800",
		Description: "Breathable linen trousers with a flattering high waist and wide-leg cut. Effortless casual style.",
		Tags:        []domain.Tag{domain.TagNew},
	},
	{
		ID:          3,
		Name:        "Floral Midi Summer Dress",
		Price:       145,
		Category:    "Apparel",
		Image:       "https://picsum.photos/id/349/600/800",
		Description: "This delicate floral dress captures the essence of summer. Adjustable straps and an invisible side zip.",
		Tags:        []domain.Tag{domain.TagNew, domain.TagBestSeller},
	},
	{
		ID:          4,
		Name:        "Minimalist Gold Necklace",
		Price:       210,
		Category:    "Jewelry",
		Image:       "https://picsum.photos/id/64/600/800",
		Description: "18k gold-plated pendant on a fine chain. A timeless piece that adds polish to any outfit.",
		Tags:        []domain.Tag{domain.TagBestSeller},
	},
	{
		ID:          5,
		Name:        "Classic Leather Tote",
		Price:       295,
		Category:    "Accessories",
		Image:       "https://picsum.photos/id/1011/600/800",
		Description: "Handcrafted from Italian leather. Roomy enough for a laptop and daily essentials without losing its shape.",
		Tags:        []domain.Tag{domain.TagSale},
	},
	{
		ID:          6,
		Name:        "Cashmere Blend Scarf",
		Price:       65,
		Category:    "Accessories",
		Image:       "https://picsum.photos/id/823/600/800",
		Description: "Ultra-soft cashmere and wool blend scarf in a neutral beige. The perfect companion for cold evenings.",
		Tags:        []domain.Tag{domain.TagSale},
	},
	{
		ID:          7,
		Name:        "Tailored Blazer",
		Price:       180,
		Category:    "Apparel",
		Image:       "https://picsum.photos/id/445/600/800",
		Description: "A sharply cut blazer that makes you the focal point. Fully lined with functional pockets.",
		Tags:        []domain.Tag{domain.TagNew},
	},
	{
		ID:          8,
		Name:        "Pearl Drop Earrings",
		Price:       90,
		Category:    "Jewelry",
		Image:       "https://picsum.photos/id/201/600/800",
		Description: "Freshwater pearls suspended from gold hooks. Elegant, classic and suitable for sensitive skin.",
		Tags:        []domain.Tag{domain.TagNew},
	},
}

var seedCoupons = []domain.Coupon{
	{
		Code:         "WELCOME10",
		Description:  "10% off the first order for new members",
		DiscountType: domain.DiscountPercent,
		Value:        0.9,
		MinSpend:     0,
	},
	{
		Code:         "SUMMER2024",
		Description:  "Summer sale: $30 off orders over $200",
		DiscountType: domain.DiscountFixed,
		Value:        30,
		MinSpend:     200,
	},
	{
		Code:         "VIP50",
		Description:  "VIP exclusive $50 discount",
		DiscountType: domain.DiscountFixed,
		Value:        50,
		MinSpend:     300,
	},
}

var seedShipping = []domain.ShippingOption{
	{ID: "711", Name: "7-11 Pickup", Price: 60, Description: "Arrives in 2-3 days (simulated)"},
	{ID: "home", Name: "Home Delivery", Price: 100, Description: "Courier, next-day delivery"},
	{ID: "shopee", Name: "Store-to-Store", Price: 45, Description: "Arrives in 3-5 days (simulated)"},
}

var seedTiers = []Tier{
	{
		Name:      domain.TierStandard,
		Threshold: 0,
		Benefits:  []string{"Early access to new arrivals", "5% off during birthday month", "Earn points on purchases"},
	},
	{
		Name:      domain.TierSilver,
		Threshold: 500,
		Benefits:  []string{"5% off storewide", "$20 birthday gift", "Seasonal coupons", "Free shipping over $100"},
	},
	{
		Name:      domain.TierGold,
		Threshold: 1500,
		Benefits:  []string{"10% off storewide", "$50 birthday gift", "Pre-order access", "Free shipping, no minimum", "Priority support"},
	},
	{
		Name:      domain.TierDiamond,
		Threshold: 3000,
		Benefits:  []string{"15% off storewide", "$100 birthday gift", "Personal AI stylist", "Free returns", "Annual VIP box"},
	},
}
