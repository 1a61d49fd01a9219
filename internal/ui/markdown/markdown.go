// Package markdown renders the advisor's markdown explanations, either as
// styled terminal text or as sanitized HTML.
package markdown

import (
	"bytes"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/abhisek/calcitb/internal/ui/theme"
)

// md is configured without WithUnsafe, so raw HTML in model output is
// omitted from the rendered page.
var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary)
	strongStyle  = lipgloss.NewStyle().Bold(true).Foreground(theme.Text)
	emStyle      = lipgloss.NewStyle().Italic(true)
	codeStyle    = lipgloss.NewStyle().Foreground(theme.Accent)
	linkStyle    = lipgloss.NewStyle().Underline(true).Foreground(theme.Primary)
	quoteStyle   = lipgloss.NewStyle().Foreground(theme.TextDim)
)

// ToHTML converts markdown to HTML. On a conversion error the escaped
// source is returned instead.
func ToHTML(src string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "<p>" + escape(src) + "</p>"
	}
	return buf.String()
}

// Render converts markdown to styled text wrapped at width columns.
func Render(src string, width int) string {
	width = max(width, 10)
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))

	r := renderer{source: source}
	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if b := r.block(n, width); b != "" {
			blocks = append(blocks, b)
		}
	}
	return strings.Join(blocks, "\n\n")
}

type renderer struct {
	source []byte
}

// block renders one block node. Nesting narrows width, so it is floored at
// one column however deep the input goes.
func (r renderer) block(n ast.Node, width int) string {
	width = max(width, 1)
	switch node := n.(type) {
	case *ast.Heading:
		return headingStyle.Width(width).Render(r.inline(node))

	case *ast.Paragraph, *ast.TextBlock:
		return lipgloss.NewStyle().Width(width).Render(r.inline(node))

	case *ast.List:
		var items []string
		num := node.Start
		for it := node.FirstChild(); it != nil; it = it.NextSibling() {
			bullet := "• "
			if node.IsOrdered() {
				bullet = strconv.Itoa(num) + ". "
				num++
			}
			body := r.children(it, width-len([]rune(bullet)), "\n")
			items = append(items, hang(bullet, body))
		}
		sep := "\n"
		if !node.IsTight {
			sep = "\n\n"
		}
		return strings.Join(items, sep)

	case *ast.Blockquote:
		body := r.children(node, width-2, "\n\n")
		return prefixLines(quoteStyle.Render("│ "), quoteStyle.Render(body))

	case *ast.ThematicBreak:
		return quoteStyle.Render(strings.Repeat("─", width))

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		var b strings.Builder
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			b.Write(seg.Value(r.source))
		}
		return codeStyle.Render(strings.TrimRight(b.String(), "\n"))

	default:
		return r.children(n, width, "\n\n")
	}
}

func (r renderer) children(n ast.Node, width int, sep string) string {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if b := r.block(c, width); b != "" {
			parts = append(parts, b)
		}
	}
	return strings.Join(parts, sep)
}

func (r renderer) inline(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(r.source))
			switch {
			case node.HardLineBreak():
				b.WriteString("\n")
			case node.SoftLineBreak():
				b.WriteString(" ")
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.Emphasis:
			if node.Level >= 2 {
				b.WriteString(strongStyle.Render(r.inline(node)))
			} else {
				b.WriteString(emStyle.Render(r.inline(node)))
			}
		case *ast.CodeSpan:
			b.WriteString(codeStyle.Render(r.inline(node)))
		case *ast.Link:
			b.WriteString(linkStyle.Render(r.inline(node)))
		case *ast.AutoLink:
			b.WriteString(linkStyle.Render(string(node.URL(r.source))))
		default:
			b.WriteString(r.inline(node))
		}
	}
	return b.String()
}

// hang prefixes the first line with bullet and indents the rest to match.
func hang(bullet, body string) string {
	pad := strings.Repeat(" ", len([]rune(bullet)))
	lines := strings.Split(body, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = bullet + lines[i]
		} else if lines[i] != "" {
			lines[i] = pad + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func prefixLines(prefix, body string) string {
	lines := strings.Split(body, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;", "'", "&#39;")
	return r.Replace(s)
}
