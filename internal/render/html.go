package render

import (
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
)

// HTMLToText converts an HTML document (typically a proxy or server error
// page) to plain text. Script and style contents are dropped, block elements
// become line breaks, and the result is word-wrapped to width.
func HTMLToText(raw string, width int) string {
	if raw == "" {
		return ""
	}

	tokenizer := xhtml.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	var skip int

	for {
		tt := tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			return Wrap(collapseBlankLines(sb.String()), width)

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "script", "style", "head":
				if tt == xhtml.StartTagToken {
					skip++
				}
			case "p", "div", "br", "h1", "h2", "h3", "h4", "li", "tr", "hr", "pre", "center":
				sb.WriteString("\n")
			}

		case xhtml.EndTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "script", "style", "head":
				if skip > 0 {
					skip--
				}
			case "p", "div", "h1", "h2", "h3", "h4", "li", "tr", "pre", "title":
				sb.WriteString("\n")
			}

		case xhtml.TextToken:
			if skip > 0 {
				continue
			}
			sb.WriteString(html.UnescapeString(string(tokenizer.Text())))
		}
	}
}

// collapseBlankLines trims each line and drops empty ones.
func collapseBlankLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// Wrap performs simple word wrapping to the given width.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var result strings.Builder
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}
		lineLen := 0
		for i, word := range words {
			wlen := len([]rune(word))
			if i > 0 && lineLen+1+wlen > width {
				result.WriteString("\n")
				lineLen = 0
			} else if i > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wlen
		}
		result.WriteString("\n")
	}
	return strings.TrimRight(result.String(), "\n")
}
