package render

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/foomo/reportviewer/dom"
	"github.com/foomo/reportviewer/service/vo"
	"golang.org/x/net/html"
)

// Markdown converts rendered markup to markdown.
func Markdown(markup vo.Markup) (vo.Markdown, error) {
	doc, err := html.Parse(strings.NewReader(string(markup)))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	body, err := dom.FindByTag(doc, "body")
	if err != nil {
		return "", fmt.Errorf("failed to find body: %w", err)
	}

	markdownBytes, err := htmltomarkdown.ConvertNode(body)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return vo.Markdown(strings.TrimSpace(string(markdownBytes))), nil
}
