package usecase

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestPopupParser_Parse(t *testing.T) {
	p := NewPopupParser(DefaultPopupVocabulary(), zerolog.Nop())

	testCases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "marker line ending in colon",
			text: "Details zur Produktsicherheit\nHersteller:\nApple Inc.\n" +
				"Informationen zum in der EU ansässigen Wirtschaftsakteur:\n" +
				"Apple Distribution International Ltd.\nHollyhill Industrial Estate\nCork, Irland\n" +
				"Wichtige Informationen\nMehr erfahren",
			want: "Apple Distribution International Ltd. Hollyhill Industrial Estate Cork, Irland",
		},
		{
			name: "value seeded on the marker line",
			text: "Verantwortliche Person: Samsung Electronics GmbH\nAm Kronberger Hang 6\n65824 Schwalbach\nhttps://www.samsung.de",
			want: "Samsung Electronics GmbH Am Kronberger Hang 6 65824 Schwalbach",
		},
		{
			name: "ui chrome is skipped",
			text: "Economic operator located in the EU:\n×\nClose\nGoogle Ireland Ltd.\nOK\nGordon House\nDublin 4",
			want: "Google Ireland Ltd. Gordon House Dublin 4",
		},
		{
			name: "fallback marker without colon",
			text: "Verantwortlich für dieses Produkt\nNothing Technology Ltd.\nLondon",
			want: "Nothing Technology Ltd. London",
		},
		{
			name: "collection is bounded",
			text: "Responsible person:\nL1 Company\nL2 Street\nL3 City\nL4 Country\nL5 Phone\nL6 Mail\nL7 Web\nL8 Overflow",
			want: "L1 Company L2 Street L3 City L4 Country L5 Phone L6 Mail L7 Web",
		},
		{
			name: "no anchor",
			text: "Produktbeschreibung\nFarbe: Blau",
			want: "",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.Parse(tc.text); got != tc.want {
				t.Errorf("Parse() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPopupParser_SkipsOverlongLines(t *testing.T) {
	p := NewPopupParser(DefaultPopupVocabulary(), zerolog.Nop())
	text := "Responsible person:\n" + strings.Repeat("a", 201) + "\nApple Ltd"

	if got := p.Parse(text); got != "Apple Ltd" {
		t.Errorf("Parse() = %q, want Apple Ltd", got)
	}
}
