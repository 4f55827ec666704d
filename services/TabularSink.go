package services

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const tabularSheet = "Data"

// TabularSink writes a single-sheet workbook. All cells are text cells so the
// normalized values are shown exactly as produced.
type TabularSink struct{}

func (TabularSink) Write(path string, records []Record) (SinkSummary, error) {
	file := excelize.NewFile()
	defer file.Close()
	err := file.SetSheetName("Sheet1", tabularSheet)
	if err != nil {
		return SinkSummary{}, fmt.Errorf("failed to name sheet: %w", err)
	}
	headerStyle, err := file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"DCE6F1"}, Pattern: 1},
	})
	if err != nil {
		return SinkSummary{}, fmt.Errorf("failed to create header style: %w", err)
	}
	stream, err := file.NewStreamWriter(tabularSheet)
	if err != nil {
		return SinkSummary{}, fmt.Errorf("failed to open sheet stream: %w", err)
	}
	for column, width := range columnWidths(records) {
		err = stream.SetColWidth(column+1, column+1, width)
		if err != nil {
			return SinkSummary{}, fmt.Errorf("failed to set width of column %d: %w", column+1, err)
		}
	}
	err = stream.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
		Selection:   []excelize.Selection{{SQRef: "A2", ActiveCell: "A2", Pane: "bottomLeft"}},
	})
	if err != nil {
		return SinkSummary{}, fmt.Errorf("failed to freeze header row: %w", err)
	}
	header := make([]interface{}, len(Headers))
	for i, name := range Headers {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: name}
	}
	err = stream.SetRow("A1", header)
	if err != nil {
		return SinkSummary{}, fmt.Errorf("failed to set row 1: %w", err)
	}
	row := make([]interface{}, fieldCount)
	for rowIndex, record := range records {
		for i, value := range record {
			row[i] = value
		}
		axis, _ := excelize.CoordinatesToCellName(1, rowIndex+2)
		err = stream.SetRow(axis, row)
		if err != nil {
			return SinkSummary{}, fmt.Errorf("failed to set row %d: %w", rowIndex+2, err)
		}
	}
	err = stream.Flush()
	if err != nil {
		return SinkSummary{}, fmt.Errorf("failed to flush sheet: %w", err)
	}
	output, err := os.Create(path)
	if err != nil {
		return SinkSummary{}, ioError("failed to create output file", err)
	}
	defer output.Close()
	err = file.Write(output)
	if err != nil {
		return SinkSummary{}, ioError("failed to save workbook", err)
	}
	err = output.Close()
	if err != nil {
		return SinkSummary{}, ioError("failed to close output file", err)
	}
	return summarize(path, len(records))
}

func columnWidths(records []Record) []float64 {
	longest := make([]int, fieldCount)
	for i, name := range Headers {
		longest[i] = utf8.RuneCountInString(name)
	}
	for _, record := range records {
		for i, value := range record {
			if n := utf8.RuneCountInString(value); n > longest[i] {
				longest[i] = n
			}
		}
	}
	widths := make([]float64, fieldCount)
	for i, n := range longest {
		widths[i] = float64(n) + 4
	}
	return widths
}
