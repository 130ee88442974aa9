// Package document renders a generated policy as a branded PDF.
package document

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockBullet
	BlockSubheading
)

// Block is a run of plain text inside a section.
type Block struct {
	Kind BlockKind
	Text string
}

// Section is everything between two "## " headings.
type Section struct {
	Heading string
	Blocks  []Block
}

// Subcategory is the part of a heading before the first colon, used in
// page footers.
func (s Section) Subcategory() string {
	if i := strings.Index(s.Heading, ":"); i >= 0 {
		return strings.TrimSpace(s.Heading[:i])
	}
	return strings.TrimSpace(s.Heading)
}

// ParseSections splits markdown on "## " lines. Text before the first
// such heading is dropped.
func ParseSections(md string) []Section {
	var sections []Section
	var heading string
	var body []string
	open := false

	flush := func() {
		if open {
			sections = append(sections, Section{
				Heading: heading,
				Blocks:  parseBlocks(strings.TrimSpace(strings.Join(body, "\n"))),
			})
		}
	}

	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "## ") {
			flush()
			heading = strings.TrimSpace(line[3:])
			body = nil
			open = true
			continue
		}
		body = append(body, line)
	}
	flush()

	return sections
}

func parseBlocks(content string) []Block {
	if content == "" {
		return nil
	}

	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var blocks []Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				if t := plainText(item, source); t != "" {
					blocks = append(blocks, Block{Kind: BlockBullet, Text: t})
				}
			}
		case *ast.Heading:
			if t := plainText(node, source); t != "" {
				blocks = append(blocks, Block{Kind: BlockSubheading, Text: t})
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if t := codeText(node, source); t != "" {
				blocks = append(blocks, Block{Kind: BlockParagraph, Text: t})
			}
		default:
			if t := plainText(node, source); t != "" {
				blocks = append(blocks, Block{Kind: BlockParagraph, Text: t})
			}
		}
	}
	return blocks
}

// plainText concatenates the inline text below n, dropping markup.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := child.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(c.Value)
		case *ast.AutoLink:
			b.Write(c.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		if child.Kind() == ast.KindParagraph && child != n && child.PreviousSibling() != nil {
			b.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

func codeText(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return strings.TrimSpace(b.String())
}
