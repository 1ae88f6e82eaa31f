package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	ptToMM     = 0.3528
	lineFactor = 1.4
	pageMargin = 18.0
)

// Font is one typeface setting.
type Font struct {
	Family string
	Style  string
	Size   float64
	Color  RGB
}

// Block is one placed line of text. The sequence of blocks is the structural
// fingerprint of a render: identical input yields an identical outline.
type Block struct {
	Page    int    `json:"page"`
	Section string `json:"section"`
	Text    string `json:"text"`
}

// Canvas wraps an fpdf document with column-aware pagination. Strategies place
// content only through it.
type Canvas struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	theme   Theme
	pageW   float64
	pageH   float64
	top     float64
	bottom  float64
	colX    float64
	colW    float64
	section string
	outline []Block
}

func newCanvas(theme Theme, title, author string, created time.Time) *Canvas {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(created)
	pdf.SetModificationDate(created)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("resume-pipeline", false)
	pdf.SetTitle(title, true)
	pdf.SetAuthor(author, true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.SetCellMargin(0)
	pdf.AliasNbPages("{nb}")

	w, h := pdf.GetPageSize()
	c := &Canvas{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		theme:  theme,
		pageW:  w,
		pageH:  h,
		top:    pageMargin,
		bottom: pageMargin,
		colX:   pageMargin,
		colW:   w - 2*pageMargin,
	}
	pdf.SetFooterFunc(c.footer)
	return c
}

func (c *Canvas) footer() {
	c.pdf.SetY(-12)
	c.setFont(Font{Family: c.theme.BodyFont, Size: 8, Color: c.theme.Secondary})
	c.pdf.SetX(pageMargin)
	c.pdf.CellFormat(c.pageW-2*pageMargin, 4, fmt.Sprintf("Page %d of {nb}", c.pdf.PageNo()), "", 0, "C", false, 0, "")
}

// OnPageStart registers decoration drawn at the top of every new page.
func (c *Canvas) OnPageStart(fn func()) {
	c.pdf.SetHeaderFunc(fn)
}

// Start opens the first page.
func (c *Canvas) Start() {
	c.pdf.AddPage()
	c.pdf.SetXY(c.colX, c.top)
}

// SetColumn confines subsequent content to [x, x+w].
func (c *Canvas) SetColumn(x, w float64) {
	c.colX, c.colW = x, w
	c.pdf.SetX(x)
}

// SetTop changes where content starts on pages added from now on.
func (c *Canvas) SetTop(y float64) { c.top = y }

// MoveTo positions the cursor inside the current column.
func (c *Canvas) MoveTo(y float64) { c.pdf.SetXY(c.colX, y) }

// GotoPage revisits an existing page, used by multi-column layouts.
func (c *Canvas) GotoPage(n int) {
	if n >= 1 && n <= c.pdf.PageCount() {
		c.pdf.SetPage(n)
	}
}

func (c *Canvas) Y() float64      { return c.pdf.GetY() }
func (c *Canvas) Page() int       { return c.pdf.PageNo() }
func (c *Canvas) Width() float64  { return c.colW }
func (c *Canvas) Left() float64   { return c.colX }
func (c *Canvas) Height() float64 { return c.pageH }
func (c *Canvas) Theme() Theme    { return c.theme }

// Section names the outline section for subsequent blocks.
func (c *Canvas) Section(key string) { c.section = key }

// EnsureSpace starts a new page when h millimetres do not fit above the bottom margin.
func (c *Canvas) EnsureSpace(h float64) {
	if c.pdf.GetY()+h <= c.pageH-c.bottom {
		return
	}
	if c.pdf.PageNo() < c.pdf.PageCount() {
		c.pdf.SetPage(c.pdf.PageNo() + 1)
	} else {
		c.pdf.AddPage()
	}
	c.pdf.SetXY(c.colX, c.top)
}

// Gap advances the cursor by h scaled by the theme spacing.
func (c *Canvas) Gap(h float64) {
	c.pdf.SetXY(c.colX, c.pdf.GetY()+h*c.theme.Scale)
}

func (c *Canvas) lineHeight(size float64) float64 {
	return size * ptToMM * lineFactor * c.theme.Scale
}

func (c *Canvas) setFont(f Font) {
	family := f.Family
	if family == "" {
		family = "Helvetica"
	}
	c.pdf.SetFont(family, f.Style, f.Size)
	c.pdf.SetTextColor(f.Color.R, f.Color.G, f.Color.B)
}

// Text writes wrapped text in the column, paginating line by line.
func (c *Canvas) Text(text string, f Font, align string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	c.setFont(f)
	lh := c.lineHeight(f.Size)
	for _, para := range strings.Split(text, "\n") {
		lines := c.pdf.SplitLines([]byte(c.tr(strings.TrimSpace(para))), c.colW)
		for _, line := range lines {
			c.EnsureSpace(lh)
			c.setFont(f)
			c.pdf.SetX(c.colX)
			c.pdf.CellFormat(c.colW, lh, string(line), "", 2, align, false, 0, "")
			c.record(string(line))
		}
	}
	c.pdf.SetX(c.colX)
}

// Paragraph writes body text followed by a small gap.
func (c *Canvas) Paragraph(text string, f Font) {
	if strings.TrimSpace(text) == "" {
		return
	}
	c.Text(text, f, "L")
	c.Gap(1.5)
}

// Bullet writes text with a hanging bullet glyph.
func (c *Canvas) Bullet(text string, f Font, glyph string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	const indent = 4.0
	c.setFont(f)
	lh := c.lineHeight(f.Size)
	lines := c.pdf.SplitLines([]byte(c.tr(text)), c.colW-indent)
	for i, line := range lines {
		c.EnsureSpace(lh)
		y := c.pdf.GetY()
		if i == 0 {
			c.setFont(Font{Family: "ZapfDingbats", Size: f.Size * 0.55, Color: c.theme.Accent})
			c.pdf.SetXY(c.colX, y)
			c.pdf.CellFormat(indent, lh, glyph, "", 0, "L", false, 0, "")
			c.setFont(f)
		}
		c.pdf.SetXY(c.colX+indent, y)
		c.pdf.CellFormat(c.colW-indent, lh, string(line), "", 2, "L", false, 0, "")
		c.record(string(line))
	}
	c.pdf.SetX(c.colX)
}

// Split writes left and right aligned text on one line, wrapping the left side
// when the two would collide.
func (c *Canvas) Split(left string, lf Font, right string, rf Font) {
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	if right == "" {
		c.Text(left, lf, "L")
		return
	}
	c.setFont(rf)
	rightTr := c.tr(right)
	rw := c.pdf.GetStringWidth(rightTr) + 2
	if left == "" || rw > c.colW/2 {
		c.Text(left, lf, "L")
		c.Text(right, rf, "L")
		return
	}
	lh := c.lineHeight(lf.Size)
	c.setFont(lf)
	lines := c.pdf.SplitLines([]byte(c.tr(left)), c.colW-rw)
	c.EnsureSpace(lh)
	y := c.pdf.GetY()
	c.setFont(rf)
	c.pdf.SetXY(c.colX+c.colW-rw, y)
	c.pdf.CellFormat(rw, lh, rightTr, "", 0, "R", false, 0, "")
	c.setFont(lf)
	for i, line := range lines {
		if i > 0 {
			c.EnsureSpace(lh)
		}
		c.pdf.SetX(c.colX)
		c.pdf.CellFormat(c.colW-rw, lh, string(line), "", 2, "L", false, 0, "")
		c.record(string(line))
	}
	c.record(rightTr)
	c.pdf.SetX(c.colX)
}

// Heading writes a section title. Icons and rules follow the theme flags.
func (c *Canvas) Heading(spec SectionSpec, f Font, upper bool) {
	c.Section(spec.Key)
	lh := c.lineHeight(f.Size)
	// keep a heading with at least two lines of its content
	c.EnsureSpace(lh + 2*c.lineHeight(10) + 3)
	text := spec.Heading
	if upper {
		text = strings.ToUpper(text)
	}
	y := c.pdf.GetY()
	x := c.colX
	if c.theme.Icons && spec.Icon != "" {
		c.setFont(Font{Family: "ZapfDingbats", Size: f.Size * 0.8, Color: c.theme.Accent})
		c.pdf.SetXY(x, y)
		c.pdf.CellFormat(6, lh, spec.Icon, "", 0, "L", false, 0, "")
		x += 6
	}
	c.setFont(f)
	c.pdf.SetXY(x, y)
	c.pdf.CellFormat(c.colX+c.colW-x, lh, c.tr(text), "", 2, "L", false, 0, "")
	c.record(text)
	if c.theme.Borders {
		c.Rule(c.theme.Primary, 0.3)
	}
	c.pdf.SetXY(c.colX, c.pdf.GetY()+1.5*c.theme.Scale)
}

// Rule draws a horizontal line across the column at the cursor.
func (c *Canvas) Rule(color RGB, width float64) {
	y := c.pdf.GetY() + 0.8
	c.pdf.SetDrawColor(color.R, color.G, color.B)
	c.pdf.SetLineWidth(width)
	c.pdf.Line(c.colX, y, c.colX+c.colW, y)
	c.pdf.SetXY(c.colX, y+0.8)
}

// Fill paints a rectangle without moving the cursor.
func (c *Canvas) Fill(x, y, w, h float64, color RGB) {
	c.pdf.SetFillColor(color.R, color.G, color.B)
	c.pdf.Rect(x, y, w, h, "F")
}

// Icon writes a single ZapfDingbats glyph at the given position.
func (c *Canvas) Icon(x, y float64, glyph string, size float64, color RGB) {
	c.setFont(Font{Family: "ZapfDingbats", Size: size, Color: color})
	c.pdf.SetXY(x, y)
	c.pdf.CellFormat(5, c.lineHeight(size), glyph, "", 0, "L", false, 0, "")
}

// Photo places the profile picture, clipped to a circle when round is set.
func (c *Canvas) Photo(p *photo, x, y, size float64, round bool) {
	if p == nil {
		return
	}
	opts := fpdf.ImageOptions{ImageType: p.imageType}
	c.pdf.RegisterImageOptionsReader("profile", opts, bytes.NewReader(p.data))
	if c.pdf.Err() {
		return
	}
	w, h := size, size
	if p.width > p.height {
		w = size * float64(p.width) / float64(p.height)
	} else if p.height > p.width {
		h = size * float64(p.height) / float64(p.width)
	}
	if round {
		c.pdf.ClipCircle(x+size/2, y+size/2, size/2, false)
	}
	c.pdf.ImageOptions("profile", x-(w-size)/2, y-(h-size)/2, w, h, false, opts, 0, "")
	if round {
		c.pdf.ClipEnd()
	}
	c.record("[photo]")
}

func (c *Canvas) record(text string) {
	c.outline = append(c.outline, Block{Page: c.pdf.PageNo(), Section: c.section, Text: text})
}

// finish closes the document and returns its bytes and page count.
func (c *Canvas) finish() ([]byte, int, error) {
	// The footer of the last page is drawn on close, so close from the last page.
	if n := c.pdf.PageCount(); n > 0 && c.pdf.PageNo() != n {
		c.pdf.SetPage(n)
	}
	if err := c.pdf.Error(); err != nil {
		return nil, 0, err
	}
	pages := c.pdf.PageCount()
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), pages, nil
}
