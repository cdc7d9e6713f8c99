package source

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// extractText pulls the visible text out of an HTML fragment using the
// standard tokenizer. Script and style contents are skipped.
func extractText(r io.Reader) string {
	tokenizer := html.NewTokenizer(r)
	var b strings.Builder
	inScript := false
	inStyle := false

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")

		case html.StartTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = true
			case "style":
				inStyle = true
			}

		case html.EndTagToken:
			switch tokenizer.Token().Data {
			case "script":
				inScript = false
			case "style":
				inStyle = false
			}

		case html.TextToken:
			if !inScript && !inStyle {
				text := strings.TrimSpace(tokenizer.Token().Data)
				if text != "" {
					b.WriteString(text + " ")
				}
			}
		}
	}
}
