package model

import "strconv"

// Setting is a key/value row. Values are untyped strings.
type Setting struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

const (
	SettingStoreName       = "storeName"
	SettingCurrency        = "currency"
	SettingContactPhone    = "contactPhone"
	SettingPublicCatalog   = "publicCatalog"
	SettingPriceComparison = "priceComparison"
)

// DefaultSettings are the values the back-office falls back to when a key
// has never been saved.
func DefaultSettings() map[string]string {
	return map[string]string{
		SettingStoreName:       "O&U Gadgets",
		SettingCurrency:        "₦",
		SettingContactPhone:    "+234 800 000 0000",
		SettingPublicCatalog:   "true",
		SettingPriceComparison: "true",
	}
}

// StoreSettings is a typed view over the settings map.
type StoreSettings struct {
	StoreName       string
	Currency        string
	ContactPhone    string
	PublicCatalog   bool
	PriceComparison bool
}

// ParseStoreSettings reads the known keys, using defaults for missing or
// empty values. Booleans are true only for the literal "true".
func ParseStoreSettings(m map[string]string) StoreSettings {
	defaults := DefaultSettings()
	get := func(key string) string {
		if v, ok := m[key]; ok && v != "" {
			return v
		}
		return defaults[key]
	}
	return StoreSettings{
		StoreName:       get(SettingStoreName),
		Currency:        get(SettingCurrency),
		ContactPhone:    get(SettingContactPhone),
		PublicCatalog:   get(SettingPublicCatalog) == "true",
		PriceComparison: get(SettingPriceComparison) == "true",
	}
}

// Map serializes the view back to the wire format.
func (s StoreSettings) Map() map[string]string {
	return map[string]string{
		SettingStoreName:       s.StoreName,
		SettingCurrency:        s.Currency,
		SettingContactPhone:    s.ContactPhone,
		SettingPublicCatalog:   strconv.FormatBool(s.PublicCatalog),
		SettingPriceComparison: strconv.FormatBool(s.PriceComparison),
	}
}
