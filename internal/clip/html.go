package clip

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

func isHTML(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if !strings.HasPrefix(t, "<") {
		return false
	}
	for _, tag := range []string{"<html", "<body", "<div", "<p", "<span", "<ul", "<ol", "<table", "<meta"} {
		if strings.Contains(t, tag) {
			return true
		}
	}
	return false
}

// htmlToText turns a rich-text clipboard payload into Markdown. Scripts and
// event handlers are stripped before conversion.
type htmlToText struct {
	policy *bluemonday.Policy
	md     *converter.Converter
}

func newHTMLToText() *htmlToText {
	return &htmlToText{
		policy: bluemonday.UGCPolicy(),
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (h *htmlToText) Convert(html string) (string, error) {
	clean := h.policy.Sanitize(html)
	out, err := h.md.ConvertString(clean)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
