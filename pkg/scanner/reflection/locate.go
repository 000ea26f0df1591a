package reflection

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Locate names the element a reflection ended up in: "tag[attr]" when an
// attribute value holds the payload, "tag" for text content, and
// "parent > tag" when the payload was parsed into an element of its own.
// It returns "" when nothing matches.
func Locate(body, payload string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	needle := strings.ToLower(payload)

	var found string
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		node := s.Get(0)
		for _, attr := range node.Attr {
			if strings.Contains(strings.ToLower(attr.Val), needle) {
				found = node.Data + "[" + attr.Key + "]"
				return false
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode && strings.Contains(strings.ToLower(c.Data), needle) {
				found = node.Data
				return false
			}
		}
		return true
	})
	if found != "" {
		return found
	}
	return locateInjected(doc, payload)
}

// locateInjected parses payload as body content and looks for an identical
// element in doc.
func locateInjected(doc *goquery.Document, payload string) string {
	bodyCtx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(payload), bodyCtx)
	if err != nil {
		return ""
	}

	for _, injected := range nodes {
		if injected.Type != html.ElementNode {
			continue
		}
		var found string
		doc.Find(injected.Data).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if !sameElement(s.Get(0), injected) {
				return true
			}
			parent := s.Parent()
			if parent.Length() == 0 {
				found = injected.Data
			} else {
				found = goquery.NodeName(parent) + " > " + injected.Data
			}
			return false
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func sameElement(a, b *html.Node) bool {
	if a.Data != b.Data || len(a.Attr) != len(b.Attr) {
		return false
	}
	for i := range a.Attr {
		if a.Attr[i].Key != b.Attr[i].Key || a.Attr[i].Val != b.Attr[i].Val {
			return false
		}
	}
	return nodeText(a) == nodeText(b)
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}
