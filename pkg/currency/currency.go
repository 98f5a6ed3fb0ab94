// Package currency provides the supported currency codes for user profiles.
// Monetary amounts themselves are decimal.Decimal everywhere; conversion and
// localization are out of scope.
package currency

// Currency represents an ISO 4217 currency code.
type Currency string

// Supported currencies.
const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	INR Currency = "INR"
	JPY Currency = "JPY"
	SGD Currency = "SGD"
	AUD Currency = "AUD"
	CAD Currency = "CAD"
)

// DefaultCurrency is used when a user does not specify one.
const DefaultCurrency = USD

var supported = map[Currency]struct{}{
	USD: {}, EUR: {}, GBP: {}, INR: {}, JPY: {}, SGD: {}, AUD: {}, CAD: {},
}

// SupportedCurrencies returns all supported currency codes.
func SupportedCurrencies() []Currency {
	return []Currency{USD, EUR, GBP, INR, JPY, SGD, AUD, CAD}
}

// SupportedCurrencyCodes returns all supported currency codes as strings.
func SupportedCurrencyCodes() []string {
	codes := SupportedCurrencies()
	result := make([]string, len(codes))
	for i, c := range codes {
		result[i] = string(c)
	}
	return result
}

// IsValid checks if a currency code is supported.
func IsValid(code string) bool {
	_, ok := supported[Currency(code)]
	return ok
}
