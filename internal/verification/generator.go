package verification

import (
	"crypto/rand"
	"math/big"
)

// Code lengths per channel.
const (
	EmailCodeLength = 6
	PhoneCodeLength = 4
)

// CodeLength returns the expected code length for a channel.
func CodeLength(ch Channel) int {
	if ch == ChannelPhone {
		return PhoneCodeLength
	}
	return EmailCodeLength
}

// Issuer produces verification codes. Implementations must always succeed.
type Issuer interface {
	Issue(ch Channel) string
}

// RandomIssuer draws each digit independently and uniformly from 0-9.
type RandomIssuer struct{}

// Issue generates a fresh decimal code of the channel's expected length.
func (RandomIssuer) Issue(ch Channel) string {
	n := CodeLength(ch)
	buf := make([]byte, n)
	for i := range buf {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken.
			panic(err)
		}
		buf[i] = byte('0' + d.Int64())
	}
	return string(buf)
}

// FixedIssuer returns preconfigured codes, one per channel. Used in demo
// deployments where the expected code is publicly known configuration.
type FixedIssuer struct {
	EmailCode string
	PhoneCode string
}

// Issue returns the configured code for the channel.
func (f FixedIssuer) Issue(ch Channel) string {
	if ch == ChannelPhone {
		return f.PhoneCode
	}
	return f.EmailCode
}
