package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yx-aesthete/sejm-info/internal/analytics"
	"github.com/yx-aesthete/sejm-info/internal/domain"
)

var (
	_ analytics.TextFunc = PrintText

	spaceRun = regexp.MustCompile(`[ \t\x{00a0}]+`)
)

const blockSelector = "p, li, h1, h2, h3, h4, h5, h6, td, th, div, br"

// PrintText returns the searchable text of a print. Plain text wins; an HTML body is
// reduced to its visible text with one line per block element.
func PrintText(p domain.Print) string {
	if strings.TrimSpace(p.Text) != "" || strings.TrimSpace(p.HTML) == "" {
		return analytics.RawPrintText(p)
	}

	body, err := HTMLToText(p.HTML)
	if err != nil {
		return analytics.RawPrintText(p)
	}
	p.Text = body
	return analytics.RawPrintText(p)
}

// HTMLToText extracts visible text from an HTML fragment or document.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, noscript, head").Remove()
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "br" {
			s.ReplaceWithHtml("\n")
			return
		}
		s.AppendHtml("\n")
	})

	lines := strings.Split(doc.Text(), "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n"), nil
}
