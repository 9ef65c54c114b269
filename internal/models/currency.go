package models

// SupportedCurrencies maps currency codes to display labels. Amounts are never
// converted between currencies; the codes are labels only.
var SupportedCurrencies = map[string]string{
	"ZMW": "Zambian Kwacha",
	"USD": "US Dollar",
	"EUR": "Euro",
	"GBP": "British Pound",
	"ZAR": "South African Rand",
}

func IsSupportedCurrency(code string) bool {
	_, ok := SupportedCurrencies[code]
	return ok
}
