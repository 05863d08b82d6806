package sources

import "sort"

// Table maps source ids to adapters.
type Table map[string]Adapter

// Generic reads items that already use the canonical wire names. It serves
// sources without an adapter of their own.
var Generic = Adapter{
	Paths: Paths{
		Article:          "article",
		Brand:            "brand",
		Description:      "description",
		Availability:     "availability",
		Price:            "price",
		ImageURL:         "imageUrl",
		WarehouseID:      "warehouseId",
		InnerProductCode: "innerProductCode",
		Packing:          "multiplicity",
		NoReturn:         "noReturn",
		AllowReturn:      "allowReturn",
	},
	Extra:               map[string]string{"apiDate": "deliveryDate"},
	WarehouseName:       WarehouseFromField("warehouseName", ""),
	DeliveryProbability: ProbabilityFromField("deliveryProbability", 0),
	Deadline:            DeadlineFromFields("deadlineHours", "deadlineMaxHours"),
}

// Builtin returns a fresh copy of the adapters shipped with partscope.
func Builtin() Table {
	return Table{
		// apex returns its own delivery date and a probability per offer.
		"apex": {
			Paths: Paths{
				Article:          "code",
				Brand:            "producer",
				Description:      "name",
				Availability:     "stock",
				Price:            "price.value",
				ImageURL:         "images.0",
				WarehouseID:      "store.id",
				InnerProductCode: "sku",
				Packing:          "minOrder",
				NoReturn:         "flags.noReturn",
				AllowReturn:      "flags.returnable",
			},
			Extra: map[string]string{
				"apiDate":  "delivery.date",
				"supplier": "store.supplier",
			},
			WarehouseName:       WarehouseFromField("store.name", "Apex"),
			DeliveryProbability: ProbabilityFromField("delivery.probability", 0),
			Deadline:            DeadlineFromFields("delivery.minHours", "delivery.maxHours"),
		},

		// northgate describes delivery as a free-text rule.
		"northgate": {
			Paths: Paths{
				Article:      "article",
				Brand:        "brand",
				Description:  "title",
				Availability: "qty",
				Price:        "price",
				WarehouseID:  "warehouse",
				Packing:      "pack",
				NoReturn:     "no_return",
			},
			Extra:               map[string]string{"deliveryRule": "delivery_rule"},
			WarehouseName:       WarehouseFromField("warehouse_title", "Northgate"),
			DeliveryProbability: ProbabilityFromField("reliability", 90),
			Deadline:            DeadlineFromRule("delivery_rule", DeadlineFromFields("days_min", "days_max")),
		},

		// tradepoint ships from its own warehouse on a fixed weekly schedule.
		"tradepoint": {
			Paths: Paths{
				Article:          "partNumber",
				Brand:            "manufacturer",
				Description:      "description",
				Availability:     "available",
				Price:            "priceRub",
				InnerProductCode: "id",
				Packing:          "multiplicity",
				AllowReturn:      "returnAllowed",
			},
			WarehouseName:       WarehouseConst("Tradepoint"),
			DeliveryProbability: ProbabilityConst(95),
			Deadline:            DeadlineFromFields("deliveryHours", "deliveryHoursMax"),
		},

		// depot24 ships partner stock to its hub on shipment days.
		"depot24": {
			Paths: Paths{
				Article:      "oem",
				Brand:        "brand",
				Description:  "name",
				Availability: "rest",
				Price:        "cost",
				WarehouseID:  "partner",
				NoReturn:     "nonReturnable",
			},
			Extra:               map[string]string{"partner": "partner"},
			WarehouseName:       WarehouseFromField("partnerName", "Depot24"),
			DeliveryProbability: ProbabilityFromField("stat", 85),
			Deadline:            DeadlineFromFields("term", "termMax"),
		},

		// cornerstore is scraped; rows come from the storefront decoder.
		"cornerstore": {
			Paths: Paths{
				Article:      "article",
				Brand:        "brand",
				Description:  "description",
				Availability: "availability",
				Price:        "price",
				ImageURL:     "imageUrl",
			},
			WarehouseName:       WarehouseFromField("warehouseName", "Corner store"),
			DeliveryProbability: ProbabilityConst(99),
			Deadline:            DeadlineFromRule("delivery", nil),
		},
	}
}

// Lookup returns the adapter for a source, or Generic and false.
func (t Table) Lookup(sourceID string) (Adapter, bool) {
	if a, ok := t[sourceID]; ok {
		return a, true
	}
	return Generic, false
}

// Names lists the table's sources in sorted order.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
