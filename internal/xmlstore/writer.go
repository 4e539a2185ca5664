package xmlstore

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iliyamo/hotel-booking-data/internal/model"
)

const indent = "  "

// Encode writes the XML declaration followed by the tree rooted at root,
// indented by two spaces per level.
func Encode(w io.Writer, root *Element) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", indent)
	if err := encodeElement(enc, root); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func encodeElement(enc *xml.Encoder, e *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}, Attr: e.Attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := encodeElement(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// WriteFile replaces the file at path with the document for bookings.  The
// document is written to a temporary file in the same directory and renamed
// over path, so readers never observe a half-written file.
func WriteFile(path string, bookings []model.Booking) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bookings-*.xml")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrWrite, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, Build(bookings)); err != nil {
		return fmt.Errorf("%w: encode: %v", ErrWrite, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: chmod: %v", ErrWrite, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrWrite, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename: %v", ErrWrite, err)
	}
	return nil
}
