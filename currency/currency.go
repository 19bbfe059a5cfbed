package currency

import (
	"math"
	"strings"
)

// Config describes how a single currency is rounded and displayed.
// Every amount the engine stores or compares must pass through Round first;
// raw floating-point results never reach persistence.
type Config struct {
	Code               string `json:"code"`
	Symbol             string `json:"symbol"`
	SymbolPosition     string `json:"symbol_position"`
	DecimalPlaces      int    `json:"decimal_places"`
	DecimalSeparator   string `json:"decimal_separator"`
	ThousandsSeparator string `json:"thousands_separator"`
	Name               string `json:"name"`
}

var supported = []Config{
	{Code: "AUD", Symbol: "A$", SymbolPosition: "prefix", DecimalPlaces: 2, DecimalSeparator: ".", ThousandsSeparator: ",", Name: "Australian Dollar"},
	{Code: "BRL", Symbol: "R$", SymbolPosition: "prefix", DecimalPlaces: 2, DecimalSeparator: ",", ThousandsSeparator: ".", Name: "Brazilian Real"},
	{Code: "CAD", Symbol: "C$", SymbolPosition: "prefix", DecimalPlaces: 2, DecimalSeparator: ".", ThousandsSeparator: ",", Name: "Canadian Dollar"},
	{Code: "DKK", Symbol: "kr", SymbolPosition: "suffix", DecimalPlaces: 2, DecimalSeparator: ",", ThousandsSeparator: ".", Name: "Danish Krone"},
	{Code: "EUR", Symbol: "€", SymbolPosition: "prefix", DecimalPlaces: 2, DecimalSeparator: ",", ThousandsSeparator: ".", Name: "Euro"},
	{Code: "GBP", Symbol: "£", SymbolPosition: "prefix", DecimalPlaces: 2, DecimalSeparator: ".", ThousandsSeparator: ",", Name: "British Pound"},
	{Code: "INR", Symbol: "₹", SymbolPosition: "prefix", DecimalPlaces: 2, DecimalSeparator: ".", ThousandsSeparator: ",", Name: "Indian Rupee"},
	{Code: "JPY", Symbol: "¥", SymbolPosition: "prefix", DecimalPlaces: 0, DecimalSeparator: ".", ThousandsSeparator: ",", Name: "Japanese Yen"},
	{Code: "USD", Symbol: "$", SymbolPosition: "prefix", DecimalPlaces: 2, DecimalSeparator: ".", ThousandsSeparator: ",", Name: "US Dollar"},
}

// Default is the fallback configuration used when a group carries no
// currency code or an unknown one.
func Default() Config {
	cfg, _ := Lookup("USD")
	return cfg
}

func Lookup(code string) (Config, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range supported {
		if c.Code == code {
			return c, true
		}
	}
	return Config{}, false
}

// LookupOrDefault resolves a group's currency code, falling back to USD.
func LookupOrDefault(code string) Config {
	if cfg, ok := Lookup(code); ok {
		return cfg
	}
	return Default()
}

func Supported() []Config {
	out := make([]Config, len(supported))
	copy(out, supported)
	return out
}

// Round rounds to the currency's decimal precision.
func (c Config) Round(x float64) float64 {
	f := math.Pow10(c.DecimalPlaces)
	return math.Round(x*f) / f
}

// SmallestIncrement returns the currency's minimal representable unit,
// e.g. 0.01 for two decimal places, 1 for zero.
func (c Config) SmallestIncrement() float64 {
	return 1 / math.Pow10(c.DecimalPlaces)
}

// MinorUnits converts an amount to an exact count of minor units. The
// remainder walk in the allocation engine counts steps in minor units so
// that float drift can never stall or overshoot the loop.
func (c Config) MinorUnits(x float64) int64 {
	return int64(math.Round(x * math.Pow10(c.DecimalPlaces)))
}
