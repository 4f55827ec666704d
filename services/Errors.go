package services

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindEmptyInput
	KindNoValidData
	KindIO
	KindUnknown
)

func (kind ErrorKind) String() string {
	switch kind {
	case KindNone:
		return "none"
	case KindEmptyInput:
		return "empty input"
	case KindNoValidData:
		return "no valid data"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

var (
	ErrEmptyInput  = errors.New("file is empty")
	ErrNoValidData = errors.New("no data to process")
)

type ConversionError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (conversionError *ConversionError) Error() string {
	if conversionError.Op == "" {
		return conversionError.Err.Error()
	}
	return fmt.Sprintf("%s: %s", conversionError.Op, conversionError.Err)
}

func (conversionError *ConversionError) Unwrap() error {
	return conversionError.Err
}

func ioError(op string, err error) error {
	return &ConversionError{Kind: KindIO, Op: op, Err: err}
}

// KindOf classifies err. Errors that did not come from the pipeline are
// reported as KindUnknown.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var conversionError *ConversionError
	if errors.As(err, &conversionError) {
		return conversionError.Kind
	}
	if errors.Is(err, ErrEmptyInput) {
		return KindEmptyInput
	}
	if errors.Is(err, ErrNoValidData) {
		return KindNoValidData
	}
	return KindUnknown
}
