package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/productscout/backend/internal/domain"
)

// Package-level compiled regex patterns for the product page energy label
var (
	labelSrcClassPattern  = regexp.MustCompile(`(?i)pl_eek_([a-g])`)
	labelTextClassPattern = regexp.MustCompile(`\b([A-G]\+{0,3})(?:[^\p{L}\p{N}+]|$)`)
)

// ParseEnergyLabel reads the class shown by a product page energy label: the
// image alt text when it is a class, else the class letter encoded in the image
// src, else the first class in the label text.
func ParseEnergyLabel(alt, src, text string) (string, error) {
	if alt = strings.TrimSpace(alt); IsEnergyClass(alt) {
		return alt, nil
	}
	if m := labelSrcClassPattern.FindStringSubmatch(src); m != nil {
		return strings.ToUpper(m[1]), nil
	}
	if m := labelTextClassPattern.FindStringSubmatch(text); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("%w: energy label", domain.ErrFieldNotFound)
}

// FirstSrcsetURL returns the first http(s) URL of an img srcset, else src when it is absolute
func FirstSrcsetURL(srcset, src string) string {
	if fields := strings.Fields(srcset); len(fields) > 0 && strings.HasPrefix(fields[0], "http") {
		return strings.TrimSuffix(fields[0], ",")
	}
	if src = strings.TrimSpace(src); strings.HasPrefix(src, "http") {
		return src
	}
	return ""
}
