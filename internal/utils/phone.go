package utils

import "strings"

// NormalizeMSISDN trims whitespace around a subscriber number as
// received from the channel gateway.
func NormalizeMSISDN(msisdn string) string {
	return strings.TrimSpace(msisdn)
}

// PaymentEmail derives the synthetic customer email Paystack requires
// from a subscriber number, e.g. "+233247112620" -> "233247112620@provigo.app".
func PaymentEmail(msisdn string) string {
	return strings.TrimPrefix(NormalizeMSISDN(msisdn), "+") + "@provigo.app"
}
