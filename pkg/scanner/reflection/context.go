package reflection

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/lcalzada-xor/rxss/pkg/models"
)

// DetectContext tokenizes body and reports the kind of token the first
// reflection of payload starts in.
func DetectContext(body, payload string) models.ReflectionContext {
	idx := indexFold(body, payload)
	if idx < 0 {
		return models.ContextUnknown
	}

	z := html.NewTokenizer(strings.NewReader(body))
	offset := 0
	rawText := ""
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// EOF inside an unterminated tag or comment
			return models.ContextUnknown
		}

		start := offset
		offset += len(z.Raw())

		var name string
		if tt == html.StartTagToken || tt == html.EndTagToken || tt == html.SelfClosingTagToken {
			n, _ := z.TagName()
			name = string(n)
		}

		if idx < offset {
			return contextAt(tt, name, idx-start, rawText)
		}

		rawText = ""
		if tt == html.StartTagToken && (name == "script" || name == "style") {
			rawText = name
		}
	}
}

func contextAt(tt html.TokenType, name string, rel int, rawText string) models.ReflectionContext {
	switch tt {
	case html.CommentToken:
		return models.ContextComment
	case html.TextToken:
		switch rawText {
		case "script":
			return models.ContextJavaScript
		case "style":
			return models.ContextCSS
		}
		return models.ContextHTML
	case html.StartTagToken, html.SelfClosingTagToken:
		// The reflection opened this tag itself
		if rel == 0 {
			return models.ContextHTML
		}
		if rel <= len(name) {
			return models.ContextTagName
		}
		return models.ContextAttribute
	case html.EndTagToken:
		if rel == 0 {
			return models.ContextHTML
		}
		return models.ContextTagName
	}
	return models.ContextHTML
}
