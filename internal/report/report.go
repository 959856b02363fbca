package report

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"multistats/domain/core"
	"multistats/domain/sample"
	"multistats/internal/render"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"gopkg.in/yaml.v3"
)

// Section is the report entry for one summarized variable
type Section struct {
	Variable    string
	Fingerprint core.SampleHash
	Statistics  *sample.Statistics
	Outliers    sample.OutlierSet
	// ChartFile is the path of the exported chart relative to the report
	ChartFile string
}

// WriteYAML writes each section as an ordered mapping:
// variable, statistics (in computation order) and outliers.
func WriteYAML(w io.Writer, sections ...Section) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, s := range sections {
		doc.Content = append(doc.Content, sectionNode(s))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding yaml report: %w", err)
	}
	return enc.Close()
}

// WriteCorrelationYAML writes the matrix as a mapping of mappings keyed by column
func WriteCorrelationYAML(w io.Writer, m *sample.CorrelationMatrix) error {
	names := m.Names()
	root := &yaml.Node{Kind: yaml.MappingNode}
	for i, a := range names {
		row := &yaml.Node{Kind: yaml.MappingNode}
		for j, b := range names {
			row.Content = append(row.Content, scalar(b), number(m.AtIndex(i, j)))
		}
		root.Content = append(root.Content, scalar(a), row)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encoding yaml correlations: %w", err)
	}
	return enc.Close()
}

func sectionNode(s Section) *yaml.Node {
	stats := &yaml.Node{Kind: yaml.MappingNode}
	if s.Statistics != nil {
		for _, e := range s.Statistics.Entries() {
			stats.Content = append(stats.Content, scalar(e.Name), number(e.Value))
		}
	}
	outliers := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range s.Outliers {
		outliers.Content = append(outliers.Content, number(v))
	}
	node := &yaml.Node{Kind: yaml.MappingNode}
	node.Content = append(node.Content,
		scalar("variable"), scalar(s.Variable),
		scalar("statistics"), stats,
		scalar("outliers"), outliers,
	)
	if s.ChartFile != "" {
		node.Content = append(node.Content, scalar("chart"), scalar(s.ChartFile))
	}
	if !core.Hash(s.Fingerprint).IsEmpty() {
		node.Content = append(node.Content, scalar("fingerprint"), scalar(s.Fingerprint.String()))
	}
	return node
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func number(v float64) *yaml.Node {
	value := strconv.FormatFloat(v, 'f', -1, 64)
	switch {
	case math.IsNaN(v):
		value = ".nan"
	case math.IsInf(v, 1):
		value = ".inf"
	case math.IsInf(v, -1):
		value = "-.inf"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

// Markdown renders the sections as a Markdown document with one statistics
// table per variable.
func Markdown(title string, sections ...Section) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, s := range sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Variable)
		if !core.Hash(s.Fingerprint).IsEmpty() {
			fmt.Fprintf(&b, "Sample `%s`\n\n", s.Fingerprint.Short())
		}
		if s.ChartFile != "" {
			fmt.Fprintf(&b, "![%s](%s)\n\n", s.Variable, s.ChartFile)
		}
		b.WriteString("| statistic | value |\n|---|---:|\n")
		if s.Statistics != nil {
			for _, line := range render.FormatStatistics(s.Statistics) {
				name, value, _ := strings.Cut(line, ": ")
				fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(name), value)
			}
		}
		b.WriteString("\n")
		if len(s.Outliers) == 0 {
			b.WriteString("No outliers.\n\n")
			continue
		}
		vals := make([]string, len(s.Outliers))
		for i, v := range s.Outliers {
			vals[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		fmt.Fprintf(&b, "Outliers: %s\n\n", strings.Join(vals, ", "))
	}
	return b.Bytes()
}

// CorrelationMarkdown renders the matrix as a Markdown table with
// three-decimal coefficients.
func CorrelationMarkdown(m *sample.CorrelationMatrix) []byte {
	names := m.Names()
	var b bytes.Buffer
	b.WriteString("| |")
	for _, n := range names {
		fmt.Fprintf(&b, " %s |", escapeCell(n))
	}
	b.WriteString("\n|---|")
	for range names {
		b.WriteString("---:|")
	}
	b.WriteString("\n")
	for i, a := range names {
		fmt.Fprintf(&b, "| %s |", escapeCell(a))
		for j := range names {
			fmt.Fprintf(&b, " %s |", render.FormatCoefficient(m.AtIndex(i, j)))
		}
		b.WriteString("\n")
	}
	return b.Bytes()
}

// HTML converts a Markdown document into a standalone HTML page
func HTML(title string, md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	r := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
	})
	return markdown.ToHTML(md, p, r)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
