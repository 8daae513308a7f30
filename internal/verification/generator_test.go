package verification

import "testing"

func TestRandomIssuerLengthAndCharset(t *testing.T) {
	issuer := RandomIssuer{}

	cases := []struct {
		channel Channel
		want    int
	}{
		{ChannelEmail, 6},
		{ChannelPhone, 4},
	}

	for _, tc := range cases {
		for i := 0; i < 50; i++ {
			code := issuer.Issue(tc.channel)
			if len(code) != tc.want {
				t.Fatalf("channel %s: expected %d digits, got %q", tc.channel, tc.want, code)
			}
			for _, r := range code {
				if r < '0' || r > '9' {
					t.Fatalf("channel %s: non-digit %q in code %q", tc.channel, r, code)
				}
			}
		}
	}
}

func TestFixedIssuerReturnsConfiguredCodes(t *testing.T) {
	issuer := FixedIssuer{EmailCode: "123456", PhoneCode: "1234"}

	if got := issuer.Issue(ChannelEmail); got != "123456" {
		t.Fatalf("expected email code 123456, got %q", got)
	}
	if got := issuer.Issue(ChannelPhone); got != "1234" {
		t.Fatalf("expected phone code 1234, got %q", got)
	}
}

func TestCodeLength(t *testing.T) {
	if got := CodeLength(ChannelEmail); got != EmailCodeLength {
		t.Fatalf("expected %d, got %d", EmailCodeLength, got)
	}
	if got := CodeLength(ChannelPhone); got != PhoneCodeLength {
		t.Fatalf("expected %d, got %d", PhoneCodeLength, got)
	}
}
