// Package report renders discovery reports as markdown and HTML documents.
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"gocausal/domain/causal"
)

// RenderMarkdown renders the report as a markdown document, sections in
// insertion order.
func RenderMarkdown(r *causal.Report) string {
	var b strings.Builder
	b.WriteString("# Causal Discovery Report\n\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", r.Timestamp.String()))

	for _, name := range r.Order {
		b.WriteString(fmt.Sprintf("## %s\n\n", headingFor(name)))
		renderSection(&b, r.Sections[name])
		b.WriteString("\n")
	}
	return b.String()
}

// RenderHTML converts the markdown rendering to a standalone HTML page
func RenderHTML(r *causal.Report) []byte {
	md := []byte(RenderMarkdown(r))
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Causal Discovery Report",
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(md, p, renderer)
}

// SaveMarkdown writes the markdown rendering to disk
func SaveMarkdown(r *causal.Report, path string) error {
	return os.WriteFile(path, []byte(RenderMarkdown(r)), 0o644)
}

// SaveHTML writes the HTML rendering to disk
func SaveHTML(r *causal.Report, path string) error {
	return os.WriteFile(path, RenderHTML(r), 0o644)
}

func headingFor(section string) string {
	words := strings.Split(section, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func renderSection(b *strings.Builder, content interface{}) {
	switch v := content.(type) {
	case string:
		b.WriteString(v)
		b.WriteString("\n")
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("- **%s**: %s\n", headingFor(k), formatValue(v[k])))
		}
	case []map[string]string:
		for _, entry := range v {
			b.WriteString("- " + formatEntry(entry) + "\n")
		}
	case []map[string]interface{}:
		for _, entry := range v {
			keys := make([]string, 0, len(entry))
			for k := range entry {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, fmt.Sprintf("%s: %s", k, formatValue(entry[k])))
			}
			b.WriteString("- " + strings.Join(parts, ", ") + "\n")
		}
	default:
		b.WriteString(formatValue(v))
		b.WriteString("\n")
	}
}

func formatEntry(entry map[string]string) string {
	keys := make([]string, 0, len(entry))
	for k := range entry {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, entry[k]))
	}
	return strings.Join(parts, ", ")
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.3f", x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
