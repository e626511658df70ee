package source

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// parseHTML extracts the title and visible text using the standard tokenizer.
// Block boundaries become line breaks so structure heuristics still see lists.
func parseHTML(body io.Reader) (title, text string, err error) {
	tokenizer := html.NewTokenizer(body)
	var textBuilder strings.Builder
	inScript := false
	inStyle := false
	inTitle := false

	for {
		tokenType := tokenizer.Next()

		switch tokenType {
		case html.ErrorToken:
			if tokenizer.Err() == io.EOF {
				return strings.TrimSpace(title), cleanText(textBuilder.String()), nil
			}
			return "", "", tokenizer.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "script":
				inScript = true
			case "style":
				inStyle = true
			case "title":
				inTitle = true
			case "h1", "h2", "h3", "h4", "h5", "h6":
				textBuilder.WriteString("\n\n" + strings.Repeat("#", int(token.Data[1]-'0')) + " ")
			case "li":
				textBuilder.WriteString("\n- ")
			case "p", "div", "br", "section", "article":
				textBuilder.WriteString("\n\n")
			}

		case html.EndTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "script":
				inScript = false
			case "style":
				inStyle = false
			case "title":
				inTitle = false
			}

		case html.TextToken:
			data := tokenizer.Token().Data
			if inTitle {
				title += data
				continue
			}
			if !inScript && !inStyle {
				if trimmed := strings.TrimSpace(data); trimmed != "" {
					textBuilder.WriteString(trimmed + " ")
				}
			}
		}
	}
}

// cleanText collapses whitespace within lines and caps blank-line runs at one.
func cleanText(input string) string {
	var out []string
	blank := false
	for _, line := range strings.Split(input, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
