package doctext

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// extractHTML converts an HTML buffer to markdown-ish text. If the
// converter yields nothing, a plain text walk of the parsed tree is used
// instead.
func (p *Pipeline) extractHTML(data []byte) (string, error) {
	result, err := p.mdConverter.ConvertString(string(data))
	if err == nil && strings.TrimSpace(result) != "" {
		return strings.TrimSpace(result), nil
	}

	doc, perr := html.Parse(bytes.NewReader(data))
	if perr != nil {
		return "", fmt.Errorf("parse html: %w", perr)
	}
	text := strings.TrimSpace(htmlText(doc))
	if text == "" && err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return text, nil
}

// htmlText walks the tree collecting visible text, with newlines at block
// element boundaries. Script and style content is skipped.
func htmlText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Head:
				return
			case atom.P, atom.Div, atom.Br, atom.Li, atom.Tr,
				atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				sb.WriteByte('\n')
			}
		case html.TextNode:
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
