package validation

import (
	"regexp"
)

// Identity field patterns used on student profiles. These sit outside the
// struct-tag validators because the fields are optional pointers and their
// formats are domain rules, not transport rules.
var (
	// Aadhaar numbers are 12 digits and never start with 0 or 1
	AadharPattern = `^[2-9][0-9]{11}$`

	// PAN follows the fixed AAAAA9999A layout
	PANPattern = `^[A-Z]{5}[0-9]{4}[A-Z]$`

	// Indian postal codes are 6 digits, first digit non-zero
	PincodePattern = `^[1-9][0-9]{5}$`

	// Phone accepts a 10-digit mobile number with an optional +91 prefix
	PhonePattern = `^(\+91)?[6-9][0-9]{9}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Aadhar  *regexp.Regexp
	PAN     *regexp.Regexp
	Pincode *regexp.Regexp
	Phone   *regexp.Regexp
}{
	Aadhar:  regexp.MustCompile(AadharPattern),
	PAN:     regexp.MustCompile(PANPattern),
	Pincode: regexp.MustCompile(PincodePattern),
	Phone:   regexp.MustCompile(PhonePattern),
}

// IsValidAadhar reports whether s is a plausible Aadhaar number.
func IsValidAadhar(s string) bool {
	return CompiledPatterns.Aadhar.MatchString(s)
}

// IsValidPAN reports whether s is a well-formed PAN.
func IsValidPAN(s string) bool {
	return CompiledPatterns.PAN.MatchString(s)
}

// IsValidPincode reports whether s is a valid postal code.
func IsValidPincode(s string) bool {
	return CompiledPatterns.Pincode.MatchString(s)
}

// IsValidPhone reports whether s is a valid mobile number.
func IsValidPhone(s string) bool {
	return CompiledPatterns.Phone.MatchString(s)
}
