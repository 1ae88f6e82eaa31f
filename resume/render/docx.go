package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	wmlNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	relNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// zipEpoch pins entry timestamps so identical documents zip to identical bytes.
var zipEpoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// RunStyle is the inline formatting of one Word run.
type RunStyle struct {
	Bold   bool
	Italic bool
	Size   int // half-points
	Color  string
	Font   string
}

func docxStyles(t Theme) map[string]RunStyle {
	return map[string]RunStyle{
		"name":    {Bold: true, Size: 40, Color: t.Primary.Hex(), Font: wordFont(t.HeadingFont)},
		"heading": {Bold: true, Size: 24, Color: t.Primary.Hex(), Font: wordFont(t.HeadingFont)},
		"title":   {Bold: true, Size: 21, Color: t.Text.Hex(), Font: wordFont(t.BodyFont)},
		"body":    {Size: 20, Color: t.Text.Hex(), Font: wordFont(t.BodyFont)},
		"meta":    {Italic: true, Size: 18, Color: t.Secondary.Hex(), Font: wordFont(t.BodyFont)},
	}
}

func wordFont(core string) string {
	switch core {
	case "Times":
		return "Times New Roman"
	case "Courier":
		return "Courier New"
	default:
		return "Arial"
	}
}

// wordDoc accumulates body paragraphs of a document.xml.
type wordDoc struct {
	styles map[string]RunStyle
	body   strings.Builder
}

func (d *wordDoc) para(style, text string, opts ...string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	rs := d.styles[style]
	d.body.WriteString("<w:p>")
	if len(opts) > 0 {
		d.body.WriteString("<w:pPr>" + strings.Join(opts, "") + "</w:pPr>")
	}
	for i, line := range strings.Split(text, "\n") {
		d.body.WriteString("<w:r>")
		d.body.WriteString(runProps(rs))
		if i > 0 {
			d.body.WriteString("<w:br/>")
		}
		d.body.WriteString(`<w:t xml:space="preserve">`)
		_ = xml.EscapeText(&d.body, []byte(line))
		d.body.WriteString("</w:t></w:r>")
	}
	d.body.WriteString("</w:p>")
}

func (d *wordDoc) heading(spec SectionSpec, borders bool, color string) {
	var opts []string
	if borders {
		opts = append(opts, fmt.Sprintf(`<w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="%s"/></w:pBdr>`, color))
	}
	opts = append(opts, `<w:spacing w:before="240" w:after="80"/>`)
	d.para("heading", spec.Heading, opts...)
}

func (d *wordDoc) bullet(text string) {
	d.para("body", "• "+strings.TrimSpace(text), `<w:ind w:left="360" w:hanging="200"/>`)
}

func runProps(rs RunStyle) string {
	var b strings.Builder
	b.WriteString("<w:rPr>")
	if rs.Font != "" {
		fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, rs.Font, rs.Font)
	}
	if rs.Bold {
		b.WriteString("<w:b/>")
	}
	if rs.Italic {
		b.WriteString("<w:i/>")
	}
	if rs.Color != "" {
		fmt.Fprintf(&b, `<w:color w:val="%s"/>`, rs.Color)
	}
	if rs.Size > 0 {
		fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, rs.Size)
	}
	b.WriteString("</w:rPr>")
	return b.String()
}

func (d *wordDoc) xml() string {
	return xml.Header +
		`<w:document xmlns:w="` + wmlNamespace + `" xmlns:r="` + relNamespace + `"><w:body>` +
		d.body.String() +
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1020" w:right="1020" w:bottom="1020" w:left="1020" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>` +
		`</w:body></w:document>`
}

func writeResumeDOCX(b Binding, t Theme) ([]byte, error) {
	d := &wordDoc{styles: docxStyles(t)}
	primary := t.Primary.Hex()
	d.para("name", b.Name)
	d.para("meta", b.Headline)
	d.para("meta", strings.Join(contactTexts(b.Contact), "  |  "))

	if b.Objective != "" {
		d.heading(specObjective, t.Borders, primary)
		d.para("body", b.Objective)
	}
	if len(b.Experience) > 0 {
		d.heading(specExperience, t.Borders, primary)
		for _, exp := range b.Experience {
			d.para("title", experienceTitle(exp))
			d.para("meta", exp.Period)
			for _, line := range descriptionLines(exp.Description) {
				d.bullet(line)
			}
		}
	}
	if b.Education != nil {
		d.heading(specEducation, t.Borders, primary)
		d.para("title", b.Education.Degree)
		d.para("meta", strings.TrimSpace(b.Education.Institution+"  "+b.Education.Year))
	}
	if len(b.Skills) > 0 {
		d.heading(specSkills, t.Borders, primary)
		d.para("body", strings.Join(b.Skills, ", "))
	}
	for _, block := range b.Sections {
		d.heading(block.Spec, t.Borders, primary)
		for _, e := range block.Entries {
			d.para("title", e.Title)
			d.para("meta", strings.TrimSpace(e.Subtitle+"  "+e.Meta))
			d.para("body", e.Body)
			d.para("meta", e.Link)
		}
	}
	return packageDOCX(d.xml())
}

func writeLetterDOCX(l LetterBinding, t Theme) ([]byte, error) {
	d := &wordDoc{styles: docxStyles(t)}
	d.para("name", l.Name)
	d.para("meta", strings.Join(contactTexts(l.Contact), "  |  "))
	gap := `<w:spacing w:after="240"/>`
	d.para("body", l.Date, gap)
	d.para("body", strings.Join(l.Recipient, "\n"), gap)
	d.para("title", l.Subject, gap)
	d.para("body", l.Greeting, gap)
	for _, p := range l.Paragraphs {
		d.para("body", p, gap)
	}
	d.para("body", l.SignOff, `<w:spacing w:after="480"/>`)
	d.para("title", l.Signer)
	return packageDOCX(d.xml())
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const packageRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

func packageDOCX(documentXML string) ([]byte, error) {
	if err := validateDocumentXMLStructure(documentXML); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	w := zip.NewWriter(&out)
	parts := []struct{ name, body string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/document.xml", documentXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
	}
	for _, p := range parts {
		if err := writeZipFile(w, p.name, []byte(p.body)); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeZipFile(w *zip.Writer, name string, content []byte) error {
	header := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: zipEpoch}
	dst, err := w.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = dst.Write(content)
	return err
}

// validateDocumentXMLStructure rejects nested paragraphs and run properties that
// follow run text, both of which Word refuses to open.
func validateDocumentXMLStructure(xmlText string) error {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	var stack []xml.Name
	var runs []bool // seen text, per open run

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("document.xml parse failed: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name)
			if isWmlElement(t.Name, "p") {
				for i := len(stack) - 2; i >= 0; i-- {
					if isWmlElement(stack[i], "p") {
						return fmt.Errorf("document.xml has nested <w:p>")
					}
				}
			}
			if isWmlElement(t.Name, "r") {
				runs = append(runs, false)
			}
			if isWmlElement(t.Name, "t") && len(runs) > 0 {
				runs[len(runs)-1] = true
			}
			if isWmlElement(t.Name, "rPr") && len(runs) > 0 && runs[len(runs)-1] {
				return fmt.Errorf("document.xml has <w:rPr> after <w:t> in a run")
			}
		case xml.EndElement:
			if isWmlElement(t.Name, "r") && len(runs) > 0 {
				runs = runs[:len(runs)-1]
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return nil
}

func isWmlElement(name xml.Name, local string) bool {
	return name.Local == local && name.Space == wmlNamespace
}
