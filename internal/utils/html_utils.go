package utils

import (
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HardenHTML adds safety and loading attributes to images and anchors in
// already-sanitized blurb HTML.
func HardenHTML(htmlStr string) template.HTML {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return template.HTML(htmlStr)
	}

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("referrerpolicy", "no-referrer")
		s.SetAttr("loading", "lazy")
	})

	doc.Find("a").Each(func(i int, s *goquery.Selection) {
		s.SetAttr("rel", "noopener noreferrer")
	})

	// goquery renders full document tags if missing, we just want the body content
	html, _ := doc.Find("body").Html()
	if html == "" {
		html, _ = doc.Html()
	}

	return template.HTML(html)
}
