// Package reviews converts the tabular product-review dataset into
// documents ready for vector indexing.
package reviews

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/shopchat/internal/vectorstore"
)

// ErrDataFormat indicates malformed ingestion input. It is returned
// before any document is emitted so a bad file can never cause a
// partial ingest with an inconsistent schema.
var ErrDataFormat = errors.New("malformed review data")

// Required columns in the review CSV, by name. Order in the file does
// not matter.
const (
	colProductTitle = "product_title"
	colReview       = "review"
	colRating       = "rating"
)

// Record is a single normalized review row.
type Record struct {
	ProductTitle string
	ReviewText   string
	Rating       float64
}

// Document renders the record as an indexable document. Content is the
// formatted join of title, review and rating; metadata carries the
// product title and rating for downstream filtering and display.
func (r Record) Document(id string) vectorstore.Document {
	return vectorstore.Document{
		ID: id,
		Content: fmt.Sprintf("Product: %s\nReview: %s\nRating: %s",
			r.ProductTitle, r.ReviewText, strconv.FormatFloat(r.Rating, 'f', -1, 64)),
		Metadata: map[string]any{
			"product_title": r.ProductTitle,
			"rating":        r.Rating,
		},
	}
}

// Converter streams documents out of a review CSV in source row order.
// A Converter is single-use: once exhausted it cannot be restarted
// without opening a new one.
type Converter struct {
	reader *csv.Reader
	closer io.Closer

	// column index per required column, resolved from the header
	titleIdx  int
	reviewIdx int
	ratingIdx int

	row int
}

// Open opens the CSV at path and validates its header. Missing or
// duplicate required columns fail immediately with ErrDataFormat.
func Open(path string) (*Converter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening review data: %w", err)
	}

	c, err := NewConverter(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	c.closer = f
	return c, nil
}

// NewConverter reads the header from r and prepares row streaming.
func NewConverter(r io.Reader) (*Converter, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // row width validated against the header per row

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty input, header row required", ErrDataFormat)
		}
		return nil, fmt.Errorf("%w: reading header: %v", ErrDataFormat, err)
	}

	idx := map[string]int{}
	for i, name := range header {
		name = strings.TrimSpace(strings.ToLower(name))
		if _, dup := idx[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrDataFormat, name)
		}
		idx[name] = i
	}

	c := &Converter{reader: cr}
	for _, required := range []string{colProductTitle, colReview, colRating} {
		i, ok := idx[required]
		if !ok {
			return nil, fmt.Errorf("%w: missing required column %q", ErrDataFormat, required)
		}
		switch required {
		case colProductTitle:
			c.titleIdx = i
		case colReview:
			c.reviewIdx = i
		case colRating:
			c.ratingIdx = i
		}
	}

	return c, nil
}

// Next returns the next document in source order. It returns io.EOF
// when the input is exhausted and ErrDataFormat for rows that cannot
// be interpreted.
func (c *Converter) Next() (vectorstore.Document, error) {
	row, err := c.reader.Read()
	if err != nil {
		if err == io.EOF {
			return vectorstore.Document{}, io.EOF
		}
		return vectorstore.Document{}, fmt.Errorf("%w: row %d: %v", ErrDataFormat, c.row+1, err)
	}
	c.row++

	max := c.titleIdx
	if c.reviewIdx > max {
		max = c.reviewIdx
	}
	if c.ratingIdx > max {
		max = c.ratingIdx
	}
	if len(row) <= max {
		return vectorstore.Document{}, fmt.Errorf("%w: row %d has %d fields, need at least %d",
			ErrDataFormat, c.row, len(row), max+1)
	}

	rating, err := strconv.ParseFloat(strings.TrimSpace(row[c.ratingIdx]), 64)
	if err != nil {
		return vectorstore.Document{}, fmt.Errorf("%w: row %d: invalid rating %q",
			ErrDataFormat, c.row, row[c.ratingIdx])
	}

	rec := Record{
		ProductTitle: strings.TrimSpace(row[c.titleIdx]),
		ReviewText:   strings.TrimSpace(row[c.reviewIdx]),
		Rating:       rating,
	}

	// Stable per-row ids so re-ingesting the same file upserts
	// instead of duplicating (store-dependent, see DESIGN.md).
	return rec.Document(fmt.Sprintf("review-%d", c.row)), nil
}

// All drains the converter and returns every remaining document.
func (c *Converter) All() ([]vectorstore.Document, error) {
	var docs []vectorstore.Document
	for {
		doc, err := c.Next()
		if err == io.EOF {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
}

// Close releases the underlying file, if any.
func (c *Converter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
