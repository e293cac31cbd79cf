package utils

import (
	"fmt"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used when a mobile number carries no country code.
const DefaultPhoneRegion = "IN"

// NormalizeMobile validates a mobile number and returns its national significant number,
// which is the form admin records are stored and looked up under. That form drops the
// country code, so numbers from any country other than region are rejected rather than
// folded onto a national number they do not own.
func NormalizeMobile(raw, region string) (string, error) {
	if region == "" {
		region = DefaultPhoneRegion
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("parse mobile number: %w", err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("mobile number %q is not valid for region %s", raw, region)
	}
	if int(num.GetCountryCode()) != phonenumbers.GetCountryCodeForRegion(region) {
		return "", fmt.Errorf("mobile number %q does not belong to region %s", raw, region)
	}
	return phonenumbers.GetNationalSignificantNumber(num), nil
}
