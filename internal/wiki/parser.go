package wiki

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Pre-compile normalization patterns to avoid recompilation overhead
var (
	citationPattern   = regexp.MustCompile(`\[\d+\]`)
	editLinkPattern   = regexp.MustCompile(`\[\s*edit\s*\]`)
	blankRunPattern   = regexp.MustCompile(`\n{3,}`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// findContainer locates the wiki content container: a div whose class list
// includes "mw-parser-output", falling back to the div with id
// "mw-content-text". Returns nil when the markup has neither, which callers
// treat as a parse failure.
func findContainer(doc *html.Node) *html.Node {
	if n := findElement(doc, "div", func(n *html.Node) bool {
		return hasClass(n, "mw-parser-output")
	}); n != nil {
		return n
	}
	return findElement(doc, "div", func(n *html.Node) bool {
		return getAttr(n, "id") == "mw-content-text"
	})
}

// pageTitle extracts the page heading: h1.page-header__title, falling back
// to h1#firstHeading, falling back to the requested title.
func pageTitle(doc *html.Node, requested string) string {
	if n := findElement(doc, "h1", func(n *html.Node) bool {
		return hasClass(n, "page-header__title")
	}); n != nil {
		return nodeText(n)
	}
	if n := findElement(doc, "h1", func(n *html.Node) bool {
		return getAttr(n, "id") == "firstHeading"
	}); n != nil {
		return nodeText(n)
	}
	return requested
}

// parseSections walks the container's descendants in document order and
// folds h2/h3/p/ul elements into titled sections. Headings start a new
// section, closing and normalizing the previous one; paragraphs append text
// plus a paragraph break; lists append one bullet line per item. Content
// before the first heading belongs to an implicit "Introduction" section.
// Sections whose content normalizes to empty are dropped.
func parseSections(container *html.Node) []Section {
	var sections []Section
	current := Section{Title: "Introduction"}

	flush := func() {
		if current.Content != "" {
			current.Content = cleanWikiText(current.Content)
			if current.Content != "" {
				sections = append(sections, current)
			}
		}
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h2", "h3":
				flush()
				title := strings.TrimSpace(editLinkPattern.ReplaceAllString(nodeText(n), ""))
				current = Section{Title: title}
				return
			case "p":
				if text := nodeText(n); text != "" {
					current.Content += text + "\n\n"
				}
				return
			case "ul":
				var items []string
				collectListItems(n, &items)
				if len(items) > 0 {
					for _, item := range items {
						current.Content += "- " + item + "\n"
					}
					current.Content += "\n"
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}

	flush()
	return sections
}

// collectListItems gathers the text of each li under a list element.
func collectListItems(n *html.Node, items *[]string) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "li" {
			if text := nodeText(c); text != "" {
				*items = append(*items, text)
			}
			continue
		}
		collectListItems(c, items)
	}
}

// cleanWikiText strips citation markers like [1], leftover [edit]
// annotations, and collapses runs of blank lines.
func cleanWikiText(text string) string {
	text = citationPattern.ReplaceAllString(text, "")
	text = editLinkPattern.ReplaceAllString(text, "")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// nodeText extracts the visible text of a node. Citation superscripts and
// MediaWiki edit-section spans are skipped so normalization has less noise
// to remove.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			if node.Data == "sup" && hasClass(node, "reference") {
				return
			}
			if hasClass(node, "mw-editsection") {
				return
			}
		}
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(sb.String(), " "))
}

// findElement returns the first element with the given tag satisfying match,
// in document order.
func findElement(n *html.Node, tag string, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag, match); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
