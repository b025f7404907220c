package parser

import (
	"strings"
	"testing"

	"github.com/yx-aesthete/sejm-info/internal/analytics"
	"github.com/yx-aesthete/sejm-info/internal/domain"
)

func TestHTMLToText(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>ignored</title><style>p{}</style></head><body>
<h1>Projekt ustawy</h1>
<p>o zmianie ustawy   o podatku
(Dz. U. z 2023 r. poz. 1234)</p>
<script>var x = 1;</script>
<ul><li>art. 1</li><li>art.&nbsp;2</li></ul>
</body></html>`

	got, err := HTMLToText(html)
	if err != nil {
		t.Fatalf("HTMLToText returned error: %v", err)
	}

	want := "Projekt ustawy\no zmianie ustawy o podatku\n(Dz. U. z 2023 r. poz. 1234)\nart. 1\nart. 2"
	if got != want {
		t.Fatalf("unexpected text:\n%q\nwant\n%q", got, want)
	}
}

func TestPrintTextPrefersPlainText(t *testing.T) {
	t.Parallel()

	p := domain.Print{Title: "Druk 12", Text: "uchyla ustawę o lasach", HTML: "<p>other</p>"}
	if got := PrintText(p); got != analytics.RawPrintText(p) {
		t.Fatalf("expected raw text, got %q", got)
	}
}

func TestPrintTextFeedsExtractor(t *testing.T) {
	t.Parallel()

	p := domain.Print{
		Title: "Rządowy projekt ustawy",
		HTML:  `<div><p>w sprawie nowelizacji ustawy o drogach publicznych, oraz</p><p>(Dz. U. z 2024 r. poz. 7)</p></div>`,
	}

	text := PrintText(p)
	if !strings.HasPrefix(text, "Rządowy projekt ustawy\n") {
		t.Fatalf("expected title prefix, got %q", text)
	}

	refs := analytics.ExtractReferences(text)
	if len(refs) != 2 {
		t.Fatalf("expected two references, got %+v", refs)
	}
	if refs[0].Kind != domain.KindCitation || refs[0].Label != "Dz.U. 2024 poz. 7" {
		t.Fatalf("unexpected citation %+v", refs[0])
	}
	if refs[1].Kind != domain.KindAmendment || refs[1].Label != "o drogach publicznych" {
		t.Fatalf("unexpected amendment %+v", refs[1])
	}
}
