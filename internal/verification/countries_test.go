package verification

import "testing"

func TestCatalogDialCodes(t *testing.T) {
	want := map[string]string{
		"US": "+1",
		"IN": "+91",
		"GB": "+44",
		"DE": "+49",
		"FR": "+33",
		"CN": "+86",
		"JP": "+81",
		"KR": "+82",
		"AU": "+61",
		"BR": "+55",
	}

	countries := Countries()
	if len(countries) != len(want) {
		t.Fatalf("expected %d countries, got %d", len(want), len(countries))
	}
	for _, c := range countries {
		if want[c.Region] != c.Code {
			t.Fatalf("region %s: expected dial code %s, got %s", c.Region, want[c.Region], c.Code)
		}
	}
}

func TestDefaultCountryCodeInCatalog(t *testing.T) {
	if !ValidDialCode(DefaultCountryCode) {
		t.Fatalf("default country code %s missing from catalog", DefaultCountryCode)
	}
}

func TestValidDialCodeRejectsUnknown(t *testing.T) {
	if ValidDialCode("+999") {
		t.Fatal("expected +999 to be rejected")
	}
	if ValidDialCode("91") {
		t.Fatal("expected bare 91 to be rejected")
	}
}
