package document

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth    = 595.0 // A4 in points
	pageHeight   = 842.0
	margin       = 72.0
	contentWidth = pageWidth - 2*margin

	coverTitle = "NIST AI Risk Management Framework"
	logoName   = "logo"
)

var (
	ErrInvalidLogo = errors.New("logo must be a PNG file")

	brandBlue   = [3]int{51, 102, 178}
	headingFill = [3]int{230, 242, 255}
	darkGray    = [3]int{77, 77, 77}
)

// ValidatePNG reports whether data is a decodable PNG image.
func ValidatePNG(data []byte) error {
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLogo, err)
	}
	return nil
}

// Options controls the optional parts of the layout.
type Options struct {
	Logo []byte // PNG bytes, optional
	Now  func() time.Time
}

// RenderPDF writes the policy as an A4 PDF: a cover page, then the sections
// flowing across content pages with heading bands, an optional logo and
// watermark, and a footer naming the sections on each page.
func RenderPDF(w io.Writer, policyMD string, opts Options) error {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	if len(opts.Logo) > 0 {
		if err := ValidatePNG(opts.Logo); err != nil {
			return err
		}
	}

	r := newRenderer(now(), opts.Logo)
	return r.render(w, ParseSections(policyMD))
}

type renderer struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	generated    time.Time
	hasLogo      bool
	logoRatio    float64 // height / width
	current      string
	pageSections map[int][]string
}

func newRenderer(generated time.Time, logo []byte) *renderer {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin+20)
	pdf.SetTitle(coverTitle, true)
	pdf.SetCreator("rmf-policy-be", true)

	r := &renderer{
		pdf:          pdf,
		tr:           pdf.UnicodeTranslatorFromDescriptor(""),
		generated:    generated,
		pageSections: make(map[int][]string),
	}

	if len(logo) > 0 {
		info := pdf.RegisterImageOptionsReader(logoName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(logo))
		if info != nil && info.Width() > 0 {
			r.hasLogo = true
			r.logoRatio = info.Height() / info.Width()
		}
	}

	pdf.SetHeaderFunc(r.header)
	pdf.SetFooterFunc(r.footer)
	return r
}

func (r *renderer) render(w io.Writer, sections []Section) error {
	r.cover()

	r.pdf.AddPage()
	for _, s := range sections {
		r.section(s)
	}

	if err := r.pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func (r *renderer) cover() {
	pdf := r.pdf
	pdf.AddPage()

	if r.hasLogo {
		width := 120.0
		pdf.ImageOptions(logoName, (pageWidth-width)/2, 150, width, width*r.logoRatio, false,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(brandBlue[0], brandBlue[1], brandBlue[2])
	pdf.SetXY(margin, 300)
	pdf.CellFormat(contentWidth, 40, r.tr(coverTitle), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(darkGray[0], darkGray[1], darkGray[2])
	pdf.SetXY(margin, 360)
	pdf.CellFormat(contentWidth, 20, r.tr("Generated on "+r.generated.Format("January 02, 2006")), "", 1, "C", false, 0, "")
}

// header runs on every new page. Content pages get the header logo and
// inherit the section that was being written when the page broke.
func (r *renderer) header() {
	pdf := r.pdf
	r.watermark()

	if pdf.PageNo() == 1 {
		return
	}
	if r.hasLogo {
		height := 30.0
		width := height / r.logoRatio
		pdf.ImageOptions(logoName, pageWidth-margin-width, margin-50, width, height, false,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}
	if r.current != "" {
		r.markSection(r.current)
	}
	pdf.SetXY(margin, margin)
}

func (r *renderer) watermark() {
	if !r.hasLogo {
		return
	}
	pdf := r.pdf
	width := pageWidth * 0.6
	height := width * r.logoRatio
	pdf.SetAlpha(0.2, "Normal")
	pdf.ImageOptions(logoName, (pageWidth-width)/2, (pageHeight-height)/2, width, height, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.SetAlpha(1, "Normal")
}

func (r *renderer) footer() {
	pdf := r.pdf
	page := pdf.PageNo()
	if page == 1 {
		return
	}

	footerY := pageHeight - margin + 10
	pdf.SetDrawColor(brandBlue[0], brandBlue[1], brandBlue[2])
	pdf.SetLineWidth(0.5)
	pdf.Line(margin, footerY-8, pageWidth-margin, footerY-8)

	lines := []string{
		FooterCopyright(r.generated.Year()),
		"Adapted from NIST AI RMF",
	}
	if names := r.pageSections[page]; len(names) > 0 {
		lines = append(lines, "Sections: "+strings.Join(names, ", "))
	}

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(margin, footerY)
	for _, line := range lines {
		pdf.CellFormat(contentWidth, 8, r.tr(line), "", 2, "C", false, 0, "")
	}

	pdf.SetXY(pageWidth-margin-40, margin-20)
	pdf.CellFormat(40, 10, fmt.Sprintf("Page %d", page), "", 0, "R", false, 0, "")
}

// FooterCopyright is the static first footer line.
func FooterCopyright(year int) string {
	return fmt.Sprintf("© NIST AI RMF %d | All Rights Reserved | Do Not Use Without Permission", year)
}

func (r *renderer) markSection(heading string) {
	sub := Section{Heading: heading}.Subcategory()
	page := r.pdf.PageNo()
	for _, existing := range r.pageSections[page] {
		if existing == sub {
			return
		}
	}
	r.pageSections[page] = append(r.pageSections[page], sub)
}

func (r *renderer) ensureSpace(height float64) {
	if r.pdf.GetY()+height > pageHeight-margin-20 {
		r.pdf.AddPage()
	}
}

func (r *renderer) section(s Section) {
	pdf := r.pdf

	r.ensureSpace(80)
	r.current = s.Heading
	r.markSection(s.Heading)

	y := pdf.GetY()
	pdf.SetFillColor(headingFill[0], headingFill[1], headingFill[2])
	pdf.Rect(margin-5, y-5, contentWidth+10, 30, "F")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(brandBlue[0], brandBlue[1], brandBlue[2])
	pdf.SetXY(margin, y)
	pdf.MultiCell(contentWidth, 20, r.tr(s.Heading), "", "L", false)
	pdf.SetY(pdf.GetY() + 15)

	pdf.SetTextColor(0, 0, 0)
	for _, b := range s.Blocks {
		switch b.Kind {
		case BlockBullet:
			r.ensureSpace(20)
			pdf.SetFont("Times", "", 11)
			y := pdf.GetY()
			pdf.SetXY(margin+10, y)
			pdf.CellFormat(15, 15, r.tr("•"), "", 0, "L", false, 0, "")
			pdf.SetXY(margin+25, y)
			pdf.MultiCell(contentWidth-25, 15, r.tr(b.Text), "", "L", false)
			pdf.SetY(pdf.GetY() + 5)
		case BlockSubheading:
			r.ensureSpace(30)
			pdf.SetFont("Helvetica", "B", 12)
			pdf.SetX(margin)
			pdf.MultiCell(contentWidth, 16, r.tr(b.Text), "", "L", false)
			pdf.SetY(pdf.GetY() + 6)
		default:
			r.ensureSpace(50)
			pdf.SetFont("Times", "", 11)
			pdf.SetX(margin)
			pdf.MultiCell(contentWidth, 15, r.tr(b.Text), "", "L", false)
			pdf.SetY(pdf.GetY() + 10)
		}
	}
}
