package verification

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

// DefaultCountryCode is preselected in the phone entry step.
const DefaultCountryCode = "+91"

// Country is one entry of the fixed country-code catalog.
type Country struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Flag   string `json:"flag"`
	Region string `json:"region"`
}

// The catalog is intentionally small and static. Dial codes are derived from
// libphonenumber metadata so the list cannot drift from reality.
var catalogRegions = []struct {
	region string
	name   string
	flag   string
}{
	{"US", "US", "\U0001F1FA\U0001F1F8"},
	{"IN", "India", "\U0001F1EE\U0001F1F3"},
	{"GB", "UK", "\U0001F1EC\U0001F1E7"},
	{"DE", "Germany", "\U0001F1E9\U0001F1EA"},
	{"FR", "France", "\U0001F1EB\U0001F1F7"},
	{"CN", "China", "\U0001F1E8\U0001F1F3"},
	{"JP", "Japan", "\U0001F1EF\U0001F1F5"},
	{"KR", "South Korea", "\U0001F1F0\U0001F1F7"},
	{"AU", "Australia", "\U0001F1E6\U0001F1FA"},
	{"BR", "Brazil", "\U0001F1E7\U0001F1F7"},
}

var catalog = buildCatalog()

func buildCatalog() []Country {
	countries := make([]Country, 0, len(catalogRegions))
	for _, r := range catalogRegions {
		countries = append(countries, Country{
			Code:   fmt.Sprintf("+%d", phonenumbers.GetCountryCodeForRegion(r.region)),
			Name:   r.name,
			Flag:   r.flag,
			Region: r.region,
		})
	}
	return countries
}

// Countries returns the catalog offered to the phone entry step.
func Countries() []Country {
	out := make([]Country, len(catalog))
	copy(out, catalog)
	return out
}

// ValidDialCode reports whether the code is part of the catalog.
func ValidDialCode(code string) bool {
	for _, c := range catalog {
		if c.Code == code {
			return true
		}
	}
	return false
}
