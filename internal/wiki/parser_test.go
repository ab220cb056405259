package wiki

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const samplePage = `<html><body>
<h1 class="page-header__title">Tal'Dorei</h1>
<div class="mw-parser-output">
<p>A war-torn continent.<sup class="reference">[1]</sup></p>
<h2>History<span class="mw-editsection"><span>[</span><a>edit</a><span>]</span></span></h2>
<p>Founded after the Calamity.</p>
<p>Rebuilt by the Council of Tal'Dorei.</p>
<h2>Notable Locations</h2>
<ul><li>Emon</li><li>Whitestone</li></ul>
<h3>Emon</h3>
<p>The capital city.</p>
</div>
</body></html>`

func parseSample(t *testing.T, markup string) (*html.Node, *html.Node) {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	require.NoError(t, err)
	return doc, findContainer(doc)
}

func TestParseSectionsDocumentOrder(t *testing.T) {
	_, container := parseSample(t, samplePage)
	require.NotNil(t, container)

	got := parseSections(container)
	want := []Section{
		{Title: "Introduction", Content: "A war-torn continent."},
		{Title: "History", Content: "Founded after the Calamity.\n\nRebuilt by the Council of Tal'Dorei."},
		{Title: "Notable Locations", Content: "- Emon\n- Whitestone"},
		{Title: "Emon", Content: "The capital city."},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSectionsNoIntroWhenContentStartsWithHeading(t *testing.T) {
	markup := `<div class="mw-parser-output"><h2>Rules</h2><p>Roll the dice.</p></div>`
	_, container := parseSample(t, markup)
	require.NotNil(t, container)

	got := parseSections(container)
	want := []Section{{Title: "Rules", Content: "Roll the dice."}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSectionsDropsEmptySections(t *testing.T) {
	markup := `<div class="mw-parser-output">
<h2>Empty Heading</h2>
<h2>Real Section</h2><p>Content here.</p>
</div>`
	_, container := parseSample(t, markup)
	require.NotNil(t, container)

	got := parseSections(container)
	require.Len(t, got, 1)
	require.Equal(t, "Real Section", got[0].Title)
}

func TestParseSectionsStripsCitationsAndEditLinks(t *testing.T) {
	markup := `<div class="mw-parser-output">
<p>The Calamity[2] ended an age.[3]</p>
</div>`
	_, container := parseSample(t, markup)
	require.NotNil(t, container)

	got := parseSections(container)
	require.Len(t, got, 1)
	require.Equal(t, "The Calamity ended an age.", got[0].Content)
}

func TestFindContainerFallsBackToContentText(t *testing.T) {
	markup := `<div id="mw-content-text"><p>Fallback body.</p></div>`
	_, container := parseSample(t, markup)
	require.NotNil(t, container)

	got := parseSections(container)
	require.Len(t, got, 1)
	require.Equal(t, "Fallback body.", got[0].Content)
}

func TestFindContainerAbsent(t *testing.T) {
	_, container := parseSample(t, `<div class="something-else"><p>Nope.</p></div>`)
	require.Nil(t, container)
}

func TestPageTitleFallbacks(t *testing.T) {
	doc, _ := parseSample(t, samplePage)
	require.Equal(t, "Tal'Dorei", pageTitle(doc, "requested"))

	doc, _ = parseSample(t, `<h1 id="firstHeading">Wildemount</h1><div class="mw-parser-output"></div>`)
	require.Equal(t, "Wildemount", pageTitle(doc, "requested"))

	doc, _ = parseSample(t, `<div class="mw-parser-output"></div>`)
	require.Equal(t, "requested", pageTitle(doc, "requested"))
}

func TestCleanWikiTextCollapsesBlankRuns(t *testing.T) {
	in := "First paragraph.\n\n\n\nSecond paragraph.\n\n"
	require.Equal(t, "First paragraph.\n\nSecond paragraph.", cleanWikiText(in))
}

func TestNodeTextJoinsInlineMarkup(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<p>The <b>Chroma</b> Conclave attacked <a href="/Emon">Emon</a>.</p>`))
	require.NoError(t, err)

	p := findElement(doc, "p", func(*html.Node) bool { return true })
	require.NotNil(t, p)
	require.Equal(t, "The Chroma Conclave attacked Emon.", nodeText(p))
}
