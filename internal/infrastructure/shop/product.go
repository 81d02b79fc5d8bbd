package shop

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/productscout/backend/internal/domain"
	"github.com/productscout/backend/internal/usecase"
)

var (
	datasheetLabels = []string{"produktdatenblatt", "product data sheet"}

	recoClassPattern = regexp.MustCompile(`reco|alternative|similar|suggest|passend|fittingly|interessant|sponsored|anzeige`)
	recoIDPattern    = regexp.MustCompile(`reco|alternative|similar`)
	recoHeadings     = []string{
		"alternative", "passend", "interessant", "interesting",
		"ähnlich", "similar", "fittingly", "zubehör",
	}

	panelSelectors = []string{
		"[role='dialog']", "[aria-modal='true']",
		"[class*='modal']", "[class*='Modal']",
		"[class*='dialog']", "[class*='Dialog']",
		"[class*='overlay']", "[class*='Overlay']",
		"[class*='slide']", "[class*='panel']",
		"[class*='drawer']", "[class*='Drawer']",
	}
	panelMarkers = []string{"responsible", "verantwortlich", "wirtschaftsakteur", "economic operator"}
)

// parseProductPage extracts the datasheet link, the energy label panel and
// the product safety panel text from a product page
func parseProductPage(doc *goquery.Document, pageURL string) *domain.ProductPage {
	page := &domain.ProductPage{
		URL:          pageURL,
		DatasheetURL: datasheetLink(doc),
	}

	label := doc.Find(".pdp_eek__label").First()
	if label.Length() > 0 {
		img := label.Find("img.pdp_eek__label-img").First()
		page.EnergyLabelAlt = strings.TrimSpace(img.AttrOr("alt", ""))
		page.EnergyLabelSrc = img.AttrOr("src", "")
		page.EnergyLabelText = innerText(label)
	}
	page.EnergyLabelImage = energyImageLink(doc)
	page.SafetyPanelText = safetyPanelText(doc)

	return page
}

// datasheetLink returns the href of the first datasheet anchor in the main
// product area. Anchors inside recommendation blocks belong to other products.
func datasheetLink(doc *goquery.Document) string {
	var link string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := strings.ToLower(oneLine(a))
		if !containsAny(text, datasheetLabels) {
			return true
		}
		href := a.AttrOr("href", "")
		if !strings.Contains(strings.ToLower(href), ".pdf") {
			return true
		}
		if inRecommendation(a) {
			return true
		}
		link = href
		return false
	})
	return link
}

// inRecommendation reports whether s sits inside a recommendation, alternative
// or sponsored container, judged by class, id or the container's first heading
func inRecommendation(s *goquery.Selection) bool {
	found := false
	s.ParentsUntil("body").AddBack().Each(func(_ int, node *goquery.Selection) {
		if found {
			return
		}
		if recoClassPattern.MatchString(strings.ToLower(node.AttrOr("class", ""))) ||
			recoIDPattern.MatchString(strings.ToLower(node.AttrOr("id", ""))) {
			found = true
			return
		}
		if name := goquery.NodeName(node); name == "section" || name == "div" {
			heading := strings.ToLower(oneLine(node.Find("h2, h3, h4").First()))
			if heading != "" && containsAny(heading, recoHeadings) {
				found = true
			}
		}
	})
	return found
}

// energyImageLink returns the energy label sheet image URL from its srcset or src
func energyImageLink(doc *goquery.Document) string {
	for _, sel := range []string{"img.pdp_eek__sheet-image", ".pdp_eek__sheet-image-container img"} {
		img := doc.Find(sel).First()
		if img.Length() == 0 {
			continue
		}
		if link := usecase.FirstSrcsetURL(img.AttrOr("srcset", ""), img.AttrOr("src", "")); link != "" {
			return link
		}
	}
	return ""
}

// safetyPanelText returns the text of the first panel that names a responsible
// party, or the whole body text when no such panel exists
func safetyPanelText(doc *goquery.Document) string {
	for _, sel := range panelSelectors {
		var text string
		doc.Find(sel).EachWithBreak(func(_ int, panel *goquery.Selection) bool {
			t := innerText(panel)
			if containsAny(strings.ToLower(t), panelMarkers) {
				text = t
				return false
			}
			return true
		})
		if text != "" {
			return text
		}
	}
	return innerText(doc.Find("body"))
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
