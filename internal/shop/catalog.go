package shop

// Demo account credentials.
const (
	DemoEmail    = "demo@storefront.test"
	DemoPassword = "demo"
)

// DemoCatalog returns the catalog the demo backend starts with.
func DemoCatalog() []Product {
	return []Product{
		{
			ID:           "pixel-9",
			Name:         "Pixel 9",
			Brand:        "Google",
			Category:     "phones",
			Description:  "6.3-inch Actua display, Tensor G4, 128 GB.",
			Price:        Dollars(799, 0),
			Image:        "products/pixel-9.jpg",
			Stock:        12,
			TradeInValue: Dollars(420, 0),
		},
		{
			ID:           "iphone-16",
			Name:         "iPhone 16",
			Brand:        "Apple",
			Category:     "phones",
			Description:  "6.1-inch Super Retina XDR, A18, 128 GB.",
			Price:        Dollars(829, 0),
			Image:        "products/iphone-16.jpg",
			Stock:        8,
			TradeInValue: Dollars(470, 0),
		},
		{
			ID:           "galaxy-s24",
			Name:         "Galaxy S24",
			Brand:        "Samsung",
			Category:     "phones",
			Description:  "6.2-inch Dynamic AMOLED 2X, 256 GB.",
			Price:        Dollars(759, 99),
			Image:        "products/galaxy-s24.jpg",
			Stock:        5,
			TradeInValue: Dollars(380, 0),
		},
		{
			ID:           "ipad-air",
			Name:         "iPad Air 11",
			Brand:        "Apple",
			Category:     "tablets",
			Description:  "M2 chip, Liquid Retina display, 128 GB.",
			Price:        Dollars(599, 0),
			Image:        "products/ipad-air.jpg",
			Stock:        6,
			TradeInValue: Dollars(300, 0),
		},
		{
			ID:           "tab-s9",
			Name:         "Galaxy Tab S9",
			Brand:        "Samsung",
			Category:     "tablets",
			Description:  "11-inch AMOLED, IP68, S Pen included.",
			Price:        Dollars(719, 50),
			Image:        "products/tab-s9.jpg",
			Stock:        3,
			TradeInValue: Dollars(310, 0),
		},
		{
			ID:          "buds-pro",
			Name:        "Pixel Buds Pro 2",
			Brand:       "Google",
			Category:    "audio",
			Description: "Active noise cancellation, 8 hours of listening.",
			Price:       Dollars(229, 0),
			Image:       "products/buds-pro.jpg",
			Stock:       20,
		},
		{
			ID:          "charger-45w",
			Name:        "45W USB-C Charger",
			Brand:       "Storefront",
			Category:    "accessories",
			Description: "GaN charger with a 1 m cable.",
			Price:       Dollars(34, 99),
			Image:       "products/charger-45w.jpg",
			Stock:       50,
		},
	}
}
