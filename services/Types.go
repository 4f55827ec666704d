package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatTabular   Format = "tabular"
	FormatDelimited Format = "delimited"
)

func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "tabular", "xlsx":
		return FormatTabular, nil
	case "delimited", "csv":
		return FormatDelimited, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected tabular or delimited)", value)
}

func (format Format) Extension() string {
	if format == FormatDelimited {
		return ".csv"
	}
	return ".xlsx"
}

func (format Format) Valid() bool {
	return format == FormatTabular || format == FormatDelimited
}

// Headers is the fixed output schema, in column order.
var Headers = []string{"Time_ms", "PITCH", "ROLL", "YAW", "Dizziness", "Nystagmus"}

// Record is one normalized data row. Values stay as strings so the
// decimal-comma formatting reaches the output untouched.
type Record [6]string

type ConversionRequest struct {
	InputPath  string
	OutputPath string
	Format     Format
}

func (request ConversionRequest) Validate() error {
	if request.InputPath == "" {
		return errors.New("input file is not set")
	}
	if request.OutputPath == "" {
		return errors.New("output file is not set")
	}
	if !request.Format.Valid() {
		return fmt.Errorf("unknown output format %q", request.Format)
	}
	if samePath(request.InputPath, request.OutputPath) {
		return errors.New("input and output files are the same")
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// DefaultOutputPath places the output next to the input, dropping a ".txt"
// suffix and adding the extension for format.
func DefaultOutputPath(inputPath string, format Format) string {
	dir, name := filepath.Split(inputPath)
	if strings.HasSuffix(strings.ToLower(name), ".txt") {
		name = name[:len(name)-4]
	}
	return filepath.Join(dir, name+format.Extension())
}

type ProgressEvent struct {
	Percent int
	Status  string
}

type ConversionResult struct {
	Success    bool
	Message    string
	Kind       ErrorKind
	Err        error
	OutputPath string
	Records    int
	SizeBytes  int64
}

// Event is delivered on the channel returned by Start. Exactly one event
// carries a Result and it is always the last one.
type Event struct {
	Progress *ProgressEvent
	Result   *ConversionResult
}
