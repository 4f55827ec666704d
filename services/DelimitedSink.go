package services

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type SinkSummary struct {
	Path      string
	SizeBytes int64
	Records   int
}

type Sink interface {
	Write(path string, records []Record) (SinkSummary, error)
}

// DelimitedSink writes UTF-8 text with a byte-order mark and ';' between
// fields, which is what spreadsheet tools in decimal-comma locales expect.
type DelimitedSink struct{}

func (DelimitedSink) Write(path string, records []Record) (SinkSummary, error) {
	file, err := os.Create(path)
	if err != nil {
		return SinkSummary{}, ioError("failed to create output file", err)
	}
	defer file.Close()
	encoded := transform.NewWriter(file, unicode.UTF8BOM.NewEncoder())
	writer := bufio.NewWriter(encoded)
	_, err = writer.WriteString(delimitedLine(Headers))
	if err != nil {
		return SinkSummary{}, ioError("failed to write header row", err)
	}
	for i, record := range records {
		_, err = writer.WriteString(delimitedLine(record[:]))
		if err != nil {
			return SinkSummary{}, ioError(fmt.Sprintf("failed to write row %d", i+2), err)
		}
	}
	err = writer.Flush()
	if err != nil {
		return SinkSummary{}, ioError("failed to flush output file", err)
	}
	err = encoded.Close()
	if err != nil {
		return SinkSummary{}, ioError("failed to flush output file", err)
	}
	err = file.Close()
	if err != nil {
		return SinkSummary{}, ioError("failed to close output file", err)
	}
	return summarize(path, len(records))
}

// delimitedLine joins fields with ';'. Only fields holding the delimiter, a
// quote or a line break are quoted; padding whitespace is written as is.
func delimitedLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		if strings.ContainsAny(field, ";\"\r\n") {
			field = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		quoted[i] = field
	}
	return strings.Join(quoted, ";") + "\n"
}
