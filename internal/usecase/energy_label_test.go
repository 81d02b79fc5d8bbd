package usecase

import (
	"errors"
	"testing"

	"github.com/productscout/backend/internal/domain"
)

func TestParseEnergyLabel(t *testing.T) {
	testCases := []struct {
		name    string
		alt     string
		src     string
		text    string
		want    string
		wantErr bool
	}{
		{name: "class from alt", alt: "A+", src: "https://i.shop.example/pl_eek_b.svg", want: "A+"},
		{name: "class from src", alt: "Energielabel", src: "https://i.shop.example/pl_eek_c.svg", want: "C"},
		{name: "class from text", text: "Energieeffizienzklasse B\nSkala A bis G", want: "B"},
		{name: "word is not a class", text: "Gut", wantErr: true},
		{name: "nothing", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseEnergyLabel(tc.alt, tc.src, tc.text)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrFieldNotFound) {
					t.Fatalf("expected ErrFieldNotFound, got %v (%q)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseEnergyLabel() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFirstSrcsetURL(t *testing.T) {
	testCases := []struct {
		srcset string
		src    string
		want   string
	}{
		{"https://i.shop.example/i/a1 2x", "https://i.shop.example/i/a0", "https://i.shop.example/i/a1"},
		{"https://i.shop.example/i/a1, https://i.shop.example/i/a2 2x", "", "https://i.shop.example/i/a1"},
		{"", "https://i.shop.example/i/a0", "https://i.shop.example/i/a0"},
		{"/relative 2x", "/relative", ""},
		{"", "", ""},
	}
	for _, tc := range testCases {
		if got := FirstSrcsetURL(tc.srcset, tc.src); got != tc.want {
			t.Errorf("FirstSrcsetURL(%q, %q) = %q, want %q", tc.srcset, tc.src, got, tc.want)
		}
	}
}
