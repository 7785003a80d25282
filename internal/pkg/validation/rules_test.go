package validation

import "testing"

func TestIsValidAadhar(t *testing.T) {
	valid := []string{"234512349876", "998877665544"}
	invalid := []string{"123456789012", "23451234987", "2345123498761", "23451234987a", ""}

	for _, s := range valid {
		if !IsValidAadhar(s) {
			t.Errorf("IsValidAadhar(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidAadhar(s) {
			t.Errorf("IsValidAadhar(%q) = true, want false", s)
		}
	}
}

func TestIsValidPAN(t *testing.T) {
	valid := []string{"ABCDE1234F", "ZYXWV9876A"}
	invalid := []string{"abcde1234f", "ABCD1234F", "ABCDE12345", "ABCDE1234FG", ""}

	for _, s := range valid {
		if !IsValidPAN(s) {
			t.Errorf("IsValidPAN(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidPAN(s) {
			t.Errorf("IsValidPAN(%q) = true, want false", s)
		}
	}
}

func TestIsValidPincode(t *testing.T) {
	if !IsValidPincode("560001") {
		t.Error("expected 560001 to be a valid pincode")
	}
	for _, s := range []string{"060001", "56001", "5600011", "56000a"} {
		if IsValidPincode(s) {
			t.Errorf("IsValidPincode(%q) = true, want false", s)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	valid := []string{"9876543210", "+919876543210", "6123456789"}
	invalid := []string{"1234567890", "987654321", "98765432101", "+929876543210"}

	for _, s := range valid {
		if !IsValidPhone(s) {
			t.Errorf("IsValidPhone(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidPhone(s) {
			t.Errorf("IsValidPhone(%q) = true, want false", s)
		}
	}
}
