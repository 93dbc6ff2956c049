package catalog

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/careplus/pharmacy-api/internal/model"
)

// Demo catalog generation. Runs once against a fresh store; the result is
// persisted and reused on every later start, so the catalog is stable for
// the lifetime of the data.

var categories = []string{"medicines", "wellness", "personal-care", "devices"}

var brands = []string{
	"PharmaCorp", "HealthPlus", "MediMax", "WellCare",
	"VitaLife", "CarePlus", "MediCore", "LifeScience",
}

var productNames = map[string][]string{
	"medicines": {
		"Aspirin 100mg", "Ibuprofen 200mg", "Paracetamol 500mg", "Amoxicillin 250mg",
		"Metformin 500mg", "Lisinopril 10mg", "Atorvastatin 20mg", "Omeprazole 20mg",
		"Amlodipine 5mg", "Levothyroxine 50mcg", "Metoprolol 25mg", "Hydrochlorothiazide 25mg",
		"Gabapentin 300mg", "Prednisone 10mg", "Albuterol Inhaler", "Insulin Glargine",
	},
	"wellness": {
		"Vitamin D3 1000 IU", "Omega-3 Fish Oil", "Calcium Carbonate", "Multivitamin Plus",
		"Vanilla Protein Powder", "Chocolate Whey Isolate", "BCAA Energy Drink",
		"Green Tea Extract", "Turmeric Curcumin", "Daily Probiotic", "Collagen Peptides",
		"Magnesium Complex", "Vitamin B12", "Iron Supplement", "Zinc Tablets",
		"CoQ10 100mg", "Biotin 5000mcg", "Vitamin C 1000mg", "Melatonin 3mg",
	},
	"personal-care": {
		"Moisturizing Lotion", "Sunscreen SPF 50", "Anti-Aging Serum", "Vitamin C Cream",
		"Gentle Face Wash", "Hair Growth Shampoo", "Sensitive Skin Body Wash", "Hand Sanitizer",
		"Lip Balm SPF 15", "Eye Cream", "Acne Treatment Gel", "Hydrating Toner",
		"Body Lotion", "Deodorant", "Whitening Toothpaste", "Antiseptic Mouthwash",
	},
	"devices": {
		"Digital Thermometer", "Blood Pressure Monitor", "Glucose Meter Kit",
		"Pulse Oximeter", "Nebulizer Machine", "Electric Heating Pad", "First Aid Kit",
		"Digital Scale", "Stethoscope", "Blood Glucose Test Strips", "Compression Socks",
		"Pill Organizer", "Ice Pack", "Elastic Bandage", "Digital Wrist BP Cuff",
	},
}

// curatedPrices pins a handful of well-known items to realistic prices;
// everything else gets a random price in a sane band.
var curatedPrices = map[string]float64{
	"Aspirin 100mg":          78.00,
	"Ibuprofen 200mg":        29.00,
	"Paracetamol 500mg":      22.00,
	"Amoxicillin 250mg":      28.00,
	"Metformin 500mg":        8.00,
	"Lisinopril 10mg":        51.00,
	"Vitamin D3 1000 IU":     200.00,
	"Omega-3 Fish Oil":       135.00,
	"Moisturizing Lotion":    534.75,
	"Sunscreen SPF 50":       275.00,
	"Digital Thermometer":    80.00,
	"Blood Pressure Monitor": 2999.00,
}

var categoryTags = map[string][]string{
	"medicines":     {"pain relief", "health", "medicine", "prescription"},
	"wellness":      {"supplement", "nutrition", "vitamin", "health"},
	"personal-care": {"skincare", "beauty", "personal", "care"},
	"devices":       {"medical", "device", "health", "monitoring"},
}

var categoryImages = map[string]string{
	"medicines":     "https://images.pexels.com/photos/3683051/pexels-photo-3683051.jpeg",
	"wellness":      "https://images.pexels.com/photos/4173624/pexels-photo-4173624.jpeg",
	"personal-care": "https://images.pexels.com/photos/4465829/pexels-photo-4465829.jpeg",
	"devices":       "https://images.pexels.com/photos/4386467/pexels-photo-4386467.jpeg",
}

// Generate builds the demo catalog. Ids are a monotonically increasing
// counter; the seed makes a fresh store reproducible.
func Generate(seed int64) []model.Product {
	rng := rand.New(rand.NewSource(seed))
	var products []model.Product
	var id int64 = 1

	for _, category := range categories {
		for _, name := range productNames[category] {
			basePrice, curated := curatedPrices[name]
			if !curated {
				basePrice = rng.Float64()*500 + 10
			}

			hasDiscount := rng.Float64() > 0.8
			var discountRate float64
			if hasDiscount {
				discountRate = rng.Float64()*0.3 + 0.1 // 10-40%
			}

			base := decimal.NewFromFloat(basePrice).Round(2)
			price := base
			var originalPrice *decimal.Decimal
			discountPct := 0
			if hasDiscount {
				discountPct = int(discountRate*100 + 0.5)
				price = base.Mul(decimal.NewFromFloat(1 - discountRate)).Round(2)
				op := base
				originalPrice = &op
			}

			brand := brands[rng.Intn(len(brands))]
			products = append(products, model.Product{
				ID:            id,
				Title:         name,
				Brand:         brand,
				Category:      category,
				Price:         price,
				OriginalPrice: originalPrice,
				Discount:      discountPct,
				Image:         categoryImages[category],
				Description: fmt.Sprintf(
					"High quality %s from %s. Trusted by healthcare professionals worldwide.",
					name, brand),
				InStock:      rng.Float64() > 0.1,
				Prescription: category == "medicines" && rng.Float64() > 0.6,
				Featured:     rng.Float64() > 0.8,
				Rating:       float64(int((rng.Float64()*2+3)*10)) / 10,
				Reviews:      rng.Intn(1000) + 5,
				Tags:         categoryTags[category],
			})
			id++
		}
	}

	return products
}

// GenerateFAQ builds the canned FAQ entries shown as chat suggestions.
func GenerateFAQ() []model.FAQ {
	return []model.FAQ{
		{
			ID:       1,
			Question: "What are your opening hours?",
			Answer:   "Our stores are open Monday to Friday, 8am to 10pm. Online ordering is available 24/7.",
			Keywords: []string{"hours", "open", "close", "when"},
		},
		{
			ID:       2,
			Question: "Do you offer home delivery?",
			Answer:   "Yes! We offer same-day delivery in most areas. Delivery is free on orders above the free-shipping threshold.",
			Keywords: []string{"delivery", "shipping", "home", "tracking", "free delivery"},
		},
		{
			ID:       3,
			Question: "How do I order prescription medicines?",
			Answer:   "Upload a photo or scan of your prescription and our pharmacist will review it and call you to confirm the order.",
			Keywords: []string{"prescription", "upload", "medicine", "order"},
		},
		{
			ID:       4,
			Question: "Can I return a product?",
			Answer:   "Unopened non-prescription products can be returned within 14 days. Prescription medicines cannot be returned.",
			Keywords: []string{"return", "refund", "exchange"},
		},
	}
}
