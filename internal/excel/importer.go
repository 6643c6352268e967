package excel

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column order of an import sheet.
const (
	colChapter = iota
	colQuestion
	colA
	colB
	colC
	colD
	colCorrect
	columnCount
)

var ErrNoSheet = errors.New("workbook has no sheets")

// QuestionRow is one question line of an import sheet.
type QuestionRow struct {
	Line     int // 1-based row number in the sheet
	Chapter  string
	Question string
	Options  [4]string
	Correct  string
}

// ReadQuestions reads the first sheet of an xlsx workbook. A header row whose
// first cell is "Chapter" is skipped, as are blank rows.
func ReadQuestions(r io.Reader) ([]QuestionRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	var out []QuestionRow
	for i, row := range rows {
		if i == 0 && strings.EqualFold(cell(row, colChapter), "chapter") {
			continue
		}
		if blank(row) {
			continue
		}

		out = append(out, QuestionRow{
			Line:     i + 1,
			Chapter:  cell(row, colChapter),
			Question: cell(row, colQuestion),
			Options:  [4]string{cell(row, colA), cell(row, colB), cell(row, colC), cell(row, colD)},
			Correct:  cell(row, colCorrect),
		})
	}

	return out, nil
}

// WriteTemplate writes an empty import workbook with the header row.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []any{"Chapter", "Question", "A", "B", "C", "D", "Correct"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	return f.Write(w)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func blank(row []string) bool {
	for i := 0; i < columnCount && i < len(row); i++ {
		if strings.TrimSpace(row[i]) != "" {
			return false
		}
	}
	return true
}
