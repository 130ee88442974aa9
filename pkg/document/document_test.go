package document

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePolicy = `# Acme AI Policy

Intro text that is not under a section.

## GOVERN 1.1: Legal and Regulatory Requirements

Acme tracks **applicable** laws
across jurisdictions.

### Policy Details

- Maintain a register of AI regulations
- Review the register *quarterly*

## MAP 1.1: Context

Intended purposes are documented.
`

func TestParseSections(t *testing.T) {
	sections := ParseSections(samplePolicy)
	require.Len(t, sections, 2)

	s := sections[0]
	assert.Equal(t, "GOVERN 1.1: Legal and Regulatory Requirements", s.Heading)
	assert.Equal(t, "GOVERN 1.1", s.Subcategory())
	assert.Equal(t, []Block{
		{Kind: BlockParagraph, Text: "Acme tracks applicable laws across jurisdictions."},
		{Kind: BlockSubheading, Text: "Policy Details"},
		{Kind: BlockBullet, Text: "Maintain a register of AI regulations"},
		{Kind: BlockBullet, Text: "Review the register quarterly"},
	}, s.Blocks)

	assert.Equal(t, "MAP 1.1", sections[1].Subcategory())
}

func TestParseSections_NoHeadings(t *testing.T) {
	assert.Empty(t, ParseSections("just text\n\nmore text"))
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidatePNG(t *testing.T) {
	assert.NoError(t, ValidatePNG(testPNG(t)))
	assert.ErrorIs(t, ValidatePNG([]byte("GIF89a not a png")), ErrInvalidLogo)
}

func TestRenderPDF(t *testing.T) {
	fixed := func() time.Time { return time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		md   string
		logo []byte
	}{
		{name: "plain", md: samplePolicy},
		{name: "with logo", md: samplePolicy, logo: testPNG(t)},
		{name: "many sections", md: strings.Repeat("## GOVERN 2.1: Roles\n\n"+strings.Repeat("A long paragraph of text. ", 40)+"\n\n- item one\n- item two\n\n", 12)},
		{name: "empty", md: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := RenderPDF(&buf, tt.md, Options{Logo: tt.logo, Now: fixed})
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
		})
	}
}

func TestRenderPDF_RejectsBadLogo(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPDF(&buf, samplePolicy, Options{Logo: []byte("nope")})
	assert.ErrorIs(t, err, ErrInvalidLogo)
	assert.Zero(t, buf.Len())
}

func TestFooterCopyright(t *testing.T) {
	assert.Equal(t, "© NIST AI RMF 2025 | All Rights Reserved | Do Not Use Without Permission", FooterCopyright(2025))
}
