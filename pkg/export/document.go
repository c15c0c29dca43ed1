package export

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DocumentInfo is written to the PDF Info dictionary.
type DocumentInfo struct {
	Title    string
	Author   string
	Subject  string
	Keywords []string
	Creator  string

	// CreationDate defaults to the time Build is called.
	CreationDate time.Time
}

// PDFDocument assembles pages into a PDF file.
//
// Objects 1 to 3 are reserved for the catalog, the page tree and the
// Helvetica font; page and stream objects follow, then the Info dictionary.
type PDFDocument struct {
	info     DocumentInfo
	compress bool
	id       uuid.UUID

	objects []string
	pages   []int
}

// NewPDFDocument creates an empty document with a random identifier.
func NewPDFDocument(info DocumentInfo, compress bool) *PDFDocument {
	return &PDFDocument{
		info:     info,
		compress: compress,
		id:       uuid.New(),
	}
}

// SetID replaces the random document identifier.
func (doc *PDFDocument) SetID(id uuid.UUID) {
	doc.id = id
}

// ID returns the document identifier as written to the trailer.
func (doc *PDFDocument) ID() string {
	return strings.ToUpper(hex.EncodeToString(doc.id[:]))
}

// PageCount returns the number of pages added so far.
func (doc *PDFDocument) PageCount() int {
	return len(doc.pages)
}

// addObject adds an object and returns its number relative to the
// reserved objects.
func (doc *PDFDocument) addObject(content string) int {
	doc.objects = append(doc.objects, content)
	return len(doc.objects)
}

// AddPage appends a page with the given size and content stream.
func (doc *PDFDocument) AddPage(width, height float64, content string) {
	streamData := []byte(content)
	filter := ""

	if doc.compress {
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		w.Write(streamData)
		w.Close()
		streamData = buf.Bytes()
		filter = "/Filter /FlateDecode\n"
	}

	streamObj := fmt.Sprintf("<< /Length %d\n%s>>\nstream\n%s\nendstream",
		len(streamData), filter, streamData)
	streamNum := doc.addObject(streamObj) + reservedObjects

	pageObj := fmt.Sprintf("<< /Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 %.2f %.2f]\n/Contents %d 0 R\n/Resources << /Font << /F1 3 0 R >> >>\n>>",
		width, height, streamNum)
	doc.pages = append(doc.pages, doc.addObject(pageObj)+reservedObjects)
}

const reservedObjects = 3

// Build generates the complete PDF file.
func (doc *PDFDocument) Build() []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%%PDF-%s\n", PDFVersion))
	buf.WriteString("%\xE2\xE3\xCF\xD3\n")

	kids := make([]string, len(doc.pages))
	for i, num := range doc.pages {
		kids[i] = fmt.Sprintf("%d 0 R", num)
	}

	objects := make([]string, 0, reservedObjects+len(doc.objects)+1)
	objects = append(objects,
		"<< /Type /Catalog\n/Pages 2 0 R\n>>",
		fmt.Sprintf("<< /Type /Pages\n/Kids [%s]\n/Count %d\n>>", strings.Join(kids, " "), len(doc.pages)),
		"<< /Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n/Encoding /WinAnsiEncoding\n>>",
	)
	objects = append(objects, doc.objects...)
	objects = append(objects, doc.buildInfoDict())
	infoNum := len(objects)

	xref := make([]int, len(objects)+1)
	for i, obj := range objects {
		xref[i+1] = buf.Len()
		buf.WriteString(fmt.Sprintf("%d 0 obj\n%s\nendobj\n", i+1, obj))
	}

	xrefPos := buf.Len()
	buf.WriteString("xref\n")
	buf.WriteString(fmt.Sprintf("0 %d\n", len(objects)+1))
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objects); i++ {
		buf.WriteString(fmt.Sprintf("%010d 00000 n \n", xref[i]))
	}

	id := doc.ID()
	buf.WriteString("trailer\n")
	buf.WriteString(fmt.Sprintf("<< /Size %d\n/Root 1 0 R\n/Info %d 0 R\n/ID [<%s> <%s>]\n>>\n",
		len(objects)+1, infoNum, id, id))
	buf.WriteString("startxref\n")
	buf.WriteString(fmt.Sprintf("%d\n", xrefPos))
	buf.WriteString("%%EOF\n")

	return buf.Bytes()
}

// WriteTo writes the built document to w.
func (doc *PDFDocument) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(doc.Build())
	return int64(n), err
}

// buildInfoDict creates the PDF Info dictionary.
func (doc *PDFDocument) buildInfoDict() string {
	info := doc.info
	var sb strings.Builder
	sb.WriteString("<<\n")

	if info.Title != "" {
		sb.WriteString(fmt.Sprintf("/Title (%s)\n", escapePDFString(info.Title)))
	}
	if info.Author != "" {
		sb.WriteString(fmt.Sprintf("/Author (%s)\n", escapePDFString(info.Author)))
	}
	if info.Subject != "" {
		sb.WriteString(fmt.Sprintf("/Subject (%s)\n", escapePDFString(info.Subject)))
	}
	if len(info.Keywords) > 0 {
		sb.WriteString(fmt.Sprintf("/Keywords (%s)\n", escapePDFString(strings.Join(info.Keywords, ", "))))
	}

	creator := info.Creator
	if creator == "" {
		creator = PDFProducer
	}
	sb.WriteString(fmt.Sprintf("/Creator (%s)\n", escapePDFString(creator)))
	sb.WriteString(fmt.Sprintf("/Producer (%s)\n", escapePDFString(PDFProducer)))

	created := info.CreationDate
	if created.IsZero() {
		created = time.Now()
	}
	dateStr := created.UTC().Format("D:20060102150405Z")
	sb.WriteString(fmt.Sprintf("/CreationDate (%s)\n", dateStr))
	sb.WriteString(fmt.Sprintf("/ModDate (%s)\n", dateStr))

	sb.WriteString(">>")
	return sb.String()
}
