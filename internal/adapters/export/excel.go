// Package export renders quote listings into downloadable documents.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// ContentTypeXLSX is the MIME type of an Office Open XML workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	titleRow  = 1
	headerRow = 3
	firstRow  = 4

	maxSheetName = 31
)

// Excel implements ports.QuoteExporter as a single-sheet workbook with one
// row per quote and one column per schema field.
type Excel struct {
	// Now stamps the subtitle row. Defaults to time.Now.
	Now func() time.Time
}

// NewExcel returns an Excel exporter.
func NewExcel() *Excel {
	return &Excel{Now: time.Now}
}

// ContentType implements ports.QuoteExporter.
func (e *Excel) ContentType() string {
	return ContentTypeXLSX
}

type column struct {
	header string
	width  float64
	value  func(q *domain.Quote, flat map[string]any) any
}

// Export implements ports.QuoteExporter.
func (e *Excel) Export(ctx context.Context, schema *domain.ProductSchema, quotes []*domain.Quote, w io.Writer) error {
	if schema == nil {
		return domain.NewValidationError("schema", "is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(schema.Title)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("set sheet name: %w", err)
	}

	columns := columnsFor(schema)
	lastCol, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return fmt.Errorf("last column: %w", err)
	}

	st, err := newStyles(f)
	if err != nil {
		return err
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	_ = f.MergeCell(sheet, "A1", fmt.Sprintf("%s%d", lastCol, titleRow))
	_ = f.SetCellValue(sheet, "A1", schema.Title+" quotes")
	_ = f.SetCellStyle(sheet, "A1", "A1", st.title)

	_ = f.SetCellValue(sheet, "A2", fmt.Sprintf("%d quotes, exported %s", len(quotes), now().UTC().Format(time.RFC3339)))

	for i, col := range columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, name, name, col.width)

		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(sheet, cell, col.header)
	}

	_ = f.SetCellStyle(sheet, fmt.Sprintf("A%d", headerRow), fmt.Sprintf("%s%d", lastCol, headerRow), st.header)

	_ = f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", firstRow),
		ActivePane:  "bottomLeft",
	})

	for r, q := range quotes {
		if err := ctx.Err(); err != nil {
			return err
		}

		row := firstRow + r
		flat := q.Flatten()

		for c, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			if err := f.SetCellValue(sheet, cell, sanitizeCell(col.value(q, flat))); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	if len(quotes) > 0 {
		rng := fmt.Sprintf("A%d:%s%d", headerRow, lastCol, firstRow+len(quotes)-1)
		if err := f.AutoFilter(sheet, rng, nil); err != nil {
			return fmt.Errorf("auto filter: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write excel: %w", err)
	}

	return nil
}

func columnsFor(schema *domain.ProductSchema) []column {
	cols := []column{
		{header: "ID", width: 28, value: func(q *domain.Quote, _ map[string]any) any { return q.ID }},
		{header: "Quote #", width: 14, value: func(q *domain.Quote, _ map[string]any) any { return q.QuoteNumber }},
	}

	for _, field := range schema.AllFields() {
		// Grouped fields are summarised in the sub-entity columns.
		if field.Target != domain.TargetQuote {
			continue
		}

		name := field.Name
		cols = append(cols, column{
			header: field.Label,
			width:  widthFor(field),
			value: func(_ *domain.Quote, flat map[string]any) any {
				return flat[name]
			},
		})
	}

	switch schema.Type {
	case domain.QuoteTypeAuto, domain.QuoteTypeMotorcycle:
		cols = append(cols,
			column{header: "Vehicles", width: 40, value: func(q *domain.Quote, _ map[string]any) any { return describeVehicles(q.Vehicles) }},
			column{header: "Drivers", width: 40, value: func(q *domain.Quote, _ map[string]any) any { return describeDrivers(q.Drivers) }},
		)
	case domain.QuoteTypeBoat:
		cols = append(cols,
			column{header: "Watercraft", width: 40, value: func(q *domain.Quote, _ map[string]any) any { return describeWatercraft(q.Watercraft) }},
			column{header: "Operators", width: 40, value: func(q *domain.Quote, _ map[string]any) any { return describeOperators(q.Operators) }},
		)
	}

	return cols
}

func widthFor(field domain.FieldSpec) float64 {
	switch field.Kind {
	case domain.KindCheckbox, domain.KindNumber:
		return 12
	case domain.KindTextarea:
		return 48
	case domain.KindEmail:
		return 30
	default:
		return 20
	}
}

func describeVehicles(vs []domain.Vehicle) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, joinNonEmpty(v.Year, v.Make, v.Model))
	}

	return strings.Join(parts, "; ")
}

func describeDrivers(ds []domain.Driver) string {
	parts := make([]string, 0, len(ds))
	for _, d := range ds {
		parts = append(parts, joinNonEmpty(d.FirstName, d.LastName))
	}

	return strings.Join(parts, "; ")
}

func describeWatercraft(ws []domain.Watercraft) string {
	parts := make([]string, 0, len(ws))
	for _, w := range ws {
		parts = append(parts, joinNonEmpty(w.Year, w.Make, w.Model))
	}

	return strings.Join(parts, "; ")
}

func describeOperators(ops []domain.Operator) string {
	parts := make([]string, 0, len(ops))
	for _, o := range ops {
		parts = append(parts, joinNonEmpty(o.FirstName, o.LastName))
	}

	return strings.Join(parts, "; ")
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return strings.Join(out, " ")
}

func sheetName(title string) string {
	// Excel forbids these in sheet names.
	name := strings.NewReplacer(":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "").Replace(title)
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}

	if name == "" {
		return "Quotes"
	}

	return name
}

// sanitizeCell neutralises strings that a spreadsheet would evaluate as a
// formula. Other values pass through.
func sanitizeCell(v any) any {
	s, ok := v.(string)
	if !ok || s == "" {
		return v
	}

	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}

	return s
}

type styles struct {
	title  int
	header int
}

func newStyles(f *excelize.File) (styles, error) {
	title, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return styles{}, fmt.Errorf("create title style: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F3A5F"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return styles{}, fmt.Errorf("create header style: %w", err)
	}

	return styles{title: title, header: header}, nil
}
