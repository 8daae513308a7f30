package verification

import "strings"

// Rules parameterize the contact collector. The product's historical flow
// variants differ only in these knobs, so they are presets here rather than
// separate code paths.
type Rules struct {
	RequireName bool
	Channels    []Channel
}

// DefaultRules requires a name and offers both channels.
func DefaultRules() Rules {
	return Rules{RequireName: true, Channels: []Channel{ChannelEmail, ChannelPhone}}
}

// ClassicRules matches the earliest flow variant, which collected no name.
func ClassicRules() Rules {
	return Rules{RequireName: false, Channels: []Channel{ChannelEmail, ChannelPhone}}
}

// Allows reports whether the channel is enabled by these rules.
func (r Rules) Allows(ch Channel) bool {
	for _, c := range r.Channels {
		if c == ch {
			return true
		}
	}
	return false
}

// Validate checks a draft against the rules and returns the first violation.
// Order: name, channel, then the channel-specific contact fields. Errors are
// never aggregated.
func (r Rules) Validate(d Draft) error {
	if r.RequireName && strings.TrimSpace(d.Name) == "" {
		return &MissingFieldError{Field: "name"}
	}

	switch d.Channel {
	case ChannelEmail, ChannelPhone:
	default:
		return &MissingFieldError{Field: "channel"}
	}
	if !r.Allows(d.Channel) {
		return &UnsupportedChannelError{Channel: d.Channel}
	}

	if d.Channel == ChannelEmail {
		if strings.TrimSpace(d.Email) == "" {
			return &MissingFieldError{Field: "email"}
		}
		return nil
	}

	if d.CountryCode == "" {
		return &MissingFieldError{Field: "country_code"}
	}
	if !ValidDialCode(d.CountryCode) {
		return &UnknownCountryCodeError{Code: d.CountryCode}
	}
	if DigitsOnly(d.PhoneNumber) == "" {
		return &MissingFieldError{Field: "phone_number"}
	}
	return nil
}
