package utils

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	blurbPolicy = bluemonday.UGCPolicy()
)

func init() {
	blurbPolicy.AllowImages()
	// Outbound links from centre blurbs open in a new tab and leak no referrer
	blurbPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	blurbPolicy.RequireNoReferrerOnLinks(true)
}

// RenderBlurb renders a centre's markdown blurb to sanitized HTML.
// Blurbs are operator-supplied reference data, so they keep basic formatting,
// unlike visitor comments which are stripped to plain text.
func RenderBlurb(source string) template.HTML {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source)) // Fallback
	}

	sanitized := blurbPolicy.SanitizeBytes(buf.Bytes())

	return HardenHTML(string(sanitized))
}
