package patterns

import (
	"testing"
)

func TestDetect_ByColumnName(t *testing.T) {
	detected := Detect("national_id", nil)
	if len(detected) != 1 || detected[0] != "national_id" {
		t.Errorf("expected [national_id], got %v", detected)
	}
}

func TestDetect_ByValue(t *testing.T) {
	detected := Detect("col1", []string{"1234567890", "2987654321"})
	if len(detected) != 1 || detected[0] != "national_id" {
		t.Errorf("expected [national_id], got %v", detected)
	}
}

func TestDetect_IBANValue(t *testing.T) {
	detected := Detect("account_ref", []string{"SA0380000000608010167519"})
	found := false
	for _, d := range detected {
		if d == "iban" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected iban in %v", detected)
	}
}

func TestDetect_NoDuplicates(t *testing.T) {
	// Name and value both match the email pattern; one entry expected.
	detected := Detect("email", []string{"user@example.com", "other@example.com"})
	count := 0
	for _, d := range detected {
		if d == "email" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected email exactly once, got %v", detected)
	}
}

func TestDetect_NothingSensitive(t *testing.T) {
	detected := Detect("order_status", []string{"shipped", "pending"})
	if len(detected) != 0 {
		t.Errorf("expected no patterns, got %v", detected)
	}
}

func TestDetect_MultiplePatterns(t *testing.T) {
	detected := Detect("patient_email", []string{"user@example.com"})
	if len(detected) < 2 {
		t.Fatalf("expected email and medical, got %v", detected)
	}
}

func TestIsHighRisk(t *testing.T) {
	if !IsHighRisk("national_id") {
		t.Error("national_id should be high risk")
	}
	if !IsHighRisk("credit_card") {
		t.Error("credit_card should be high risk")
	}
	if IsHighRisk("phone") {
		t.Error("phone should not be high risk")
	}
	if IsHighRisk("unknown_pattern") {
		t.Error("unknown patterns should not be high risk")
	}
}

func TestCountHighRisk(t *testing.T) {
	n := CountHighRisk([]string{"national_id", "phone", "iban", "email"})
	if n != 2 {
		t.Errorf("expected 2 high-risk patterns, got %d", n)
	}
	if CountHighRisk(nil) != 0 {
		t.Error("empty input should count zero")
	}
}
