package utils

import (
	"regexp"
	"testing"
)

func TestGenerateInvoiceNoFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^INV-[0-9A-F]{8}$`)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		no := GenerateInvoiceNo()
		if !pattern.MatchString(no) {
			t.Fatalf("invoice number %q does not match %s", no, pattern)
		}
		if seen[no] {
			t.Fatalf("duplicate invoice number %q", no)
		}
		seen[no] = true
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Lavender Oil", "lavender-oil"},
		{"  Rose & Geranium  ", "rose-geranium"},
		{"10ml Amber Bottle", "10ml-amber-bottle"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
