package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ougadgets/internal/model"
)

// RequiredColumns must all be present in an import header.
var RequiredColumns = []string{
	"name", "brand", "ram", "rom", "color", "battery", "camera", "frontCamera",
	"marketPrice", "jumiaPrice", "ouPrice", "description", "images", "condition",
}

// OptionalColumns may be present; anything else in the header is ignored.
var OptionalColumns = []string{"id", "addedDate", "os", "sim", "inspectionVideo"}

var numericColumns = map[string]bool{
	"ram": true, "rom": true, "battery": true, "camera": true, "frontCamera": true,
	"marketPrice": true, "jumiaPrice": true, "ouPrice": true,
}

// ImageSeparator joins image URLs inside the images column.
const ImageSeparator = "|"

var (
	ErrNoHeader      = errors.New("missing header row")
	ErrMissingColumn = errors.New("missing required column")
	ErrEmptyValue    = errors.New("value is required")
	ErrInvalidNumber = errors.New("must be a non-negative integer")
	ErrInvalidDate   = errors.New("must be an RFC 3339 timestamp or YYYY-MM-DD date")
	ErrDuplicateID   = errors.New("duplicate id")
)

// CSVError locates an import failure. Line is 1-based and counts the header.
type CSVError struct {
	Line   int
	Column string
	Err    error
}

func (e *CSVError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *CSVError) Unwrap() error { return e.Err }

// ParseCSV reads phones from r, stopping at the first invalid row. Rows
// without an id get csv-<unix>-<line>; rows without addedDate get now.
func ParseCSV(r io.Reader, now time.Time) ([]model.Phone, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CSVError{Line: 1, Err: ErrNoHeader}
		}
		return nil, toCSVError(err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		index[h] = i
	}
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &CSVError{Line: 1, Column: col, Err: ErrMissingColumn}
		}
	}

	phones := []model.Phone{}
	seen := map[string]int{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, toCSVError(err)
		}
		line, _ := reader.FieldPos(0)

		p, err := parseRow(record, index, line, now)
		if err != nil {
			return nil, err
		}
		if first, dup := seen[p.ID]; dup {
			return nil, &CSVError{Line: line, Column: "id", Err: fmt.Errorf("%w %q (first seen on line %d)", ErrDuplicateID, p.ID, first)}
		}
		seen[p.ID] = line
		phones = append(phones, p)
	}
	return phones, nil
}

func parseRow(record []string, index map[string]int, line int, now time.Time) (model.Phone, error) {
	get := func(col string) (string, bool) {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[i]), true
	}

	values := make(map[string]string, len(RequiredColumns))
	nums := make(map[string]int, len(numericColumns))
	for _, col := range RequiredColumns {
		v, _ := get(col)
		if v == "" {
			return model.Phone{}, &CSVError{Line: line, Column: col, Err: ErrEmptyValue}
		}
		if numericColumns[col] {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return model.Phone{}, &CSVError{Line: line, Column: col, Err: ErrInvalidNumber}
			}
			nums[col] = n
		}
		values[col] = v
	}

	images := []string{}
	for _, img := range strings.Split(values["images"], ImageSeparator) {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	if len(images) == 0 {
		return model.Phone{}, &CSVError{Line: line, Column: "images", Err: ErrEmptyValue}
	}

	p := model.Phone{
		Name:        values["name"],
		Brand:       values["brand"],
		RAM:         nums["ram"],
		ROM:         nums["rom"],
		Color:       values["color"],
		Battery:     nums["battery"],
		Camera:      nums["camera"],
		FrontCamera: nums["frontCamera"],
		MarketPrice: nums["marketPrice"],
		JumiaPrice:  nums["jumiaPrice"],
		OUPrice:     nums["ouPrice"],
		Description: values["description"],
		Images:      images,
		Condition:   values["condition"],
		AddedDate:   now,
	}

	if id, _ := get("id"); id != "" {
		p.ID = id
	} else {
		p.ID = fmt.Sprintf("csv-%d-%d", now.Unix(), line)
	}
	if raw, _ := get("addedDate"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return model.Phone{}, &CSVError{Line: line, Column: "addedDate", Err: ErrInvalidDate}
		}
		p.AddedDate = t
	}
	p.OS = optional(get("os"))
	p.SIM = optional(get("sim"))
	p.InspectionVideo = optional(get("inspectionVideo"))
	return p, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func optional(v string, _ bool) *string {
	if v == "" {
		return nil
	}
	return &v
}

func toCSVError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &CSVError{Line: pe.Line, Err: pe.Err}
	}
	return err
}

// ExportColumns is the header WriteCSV emits.
var ExportColumns = append(append([]string{"id"}, RequiredColumns...), "addedDate", "os", "sim", "inspectionVideo")

// WriteCSV writes phones in a form ParseCSV reads back.
func WriteCSV(w io.Writer, phones []model.Phone) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range phones {
		row := []string{
			p.ID,
			p.Name,
			p.Brand,
			strconv.Itoa(p.RAM),
			strconv.Itoa(p.ROM),
			p.Color,
			strconv.Itoa(p.Battery),
			strconv.Itoa(p.Camera),
			strconv.Itoa(p.FrontCamera),
			strconv.Itoa(p.MarketPrice),
			strconv.Itoa(p.JumiaPrice),
			strconv.Itoa(p.OUPrice),
			p.Description,
			strings.Join(p.Images, ImageSeparator),
			p.Condition,
			p.AddedDate.UTC().Format(time.RFC3339),
			deref(p.OS),
			deref(p.SIM),
			deref(p.InspectionVideo),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing CSV writer: %w", err)
	}
	return nil
}

// CSVTemplate is a header plus one sample row for operators to fill in.
func CSVTemplate() string {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	_ = writer.Write(append([]string{"id"}, RequiredColumns...))
	_ = writer.Write([]string{
		"p100", "New Phone", "Samsung", "8", "256", "Black", "5000", "64", "32",
		"200000", "190000", "180000", "Great phone",
		"https://example.com/img1.jpg|https://example.com/img2.jpg", "New",
	})
	writer.Flush()
	return buf.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
