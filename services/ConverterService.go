package services

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ConverterService drives one conversion: count lines, normalize every line,
// hand the buffered records to the sink for the requested format.
type ConverterService struct {
	logger *slog.Logger
	sinks  map[Format]Sink
}

func NewConverterService(logger *slog.Logger) *ConverterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConverterService{
		logger: logger,
		sinks: map[Format]Sink{
			FormatTabular:   TabularSink{},
			FormatDelimited: DelimitedSink{},
		},
	}
}

// Start runs the conversion on its own goroutine. The returned channel yields
// progress events, then exactly one event carrying the result, then closes.
func (converterService *ConverterService) Start(request ConversionRequest) <-chan Event {
	events := make(chan Event, 256)
	go func() {
		defer close(events)
		result := converterService.Convert(request, func(progress ProgressEvent) {
			events <- Event{Progress: &progress}
		})
		events <- Event{Result: &result}
	}()
	return events
}

// Convert runs the conversion on the calling goroutine, reporting progress
// through emit (which may be nil). It never panics and always returns a result.
func (converterService *ConverterService) Convert(request ConversionRequest, emit func(ProgressEvent)) (result ConversionResult) {
	logger := converterService.logger.With(
		slog.String("input", request.InputPath),
		slog.String("output", request.OutputPath),
		slog.String("format", string(request.Format)),
	)
	r := &run{request: request, emit: emit, logger: logger}
	start := time.Now()
	defer func() {
		if recovered := recover(); recovered != nil {
			err := &ConversionError{Kind: KindUnknown, Err: fmt.Errorf("unexpected failure: %v", recovered)}
			logger.Error("conversion panicked", slog.Any("panic", recovered))
			result = failure(err)
		}
	}()
	logger.Info("conversion started")
	summary, err := converterService.convert(r)
	if err != nil {
		logger.Error("conversion failed",
			slog.String("kind", KindOf(err).String()),
			slog.String("error", err.Error()))
		return failure(err)
	}
	logger.Info("conversion finished",
		slog.Int("records", summary.Records),
		slog.Int64("size_bytes", summary.SizeBytes),
		slog.Duration("elapsed", time.Since(start)))
	return ConversionResult{
		Success:    true,
		Message:    successMessage(request.Format, summary),
		OutputPath: summary.Path,
		Records:    summary.Records,
		SizeBytes:  summary.SizeBytes,
	}
}

func (converterService *ConverterService) convert(r *run) (SinkSummary, error) {
	err := r.request.Validate()
	if err != nil {
		return SinkSummary{}, &ConversionError{Kind: KindUnknown, Op: "invalid request", Err: err}
	}
	sink := converterService.sinks[r.request.Format]

	r.status("Counting lines")
	total, err := CountLines(r.request.InputPath)
	if err != nil {
		return SinkSummary{}, err
	}
	if total == 0 {
		return SinkSummary{}, &ConversionError{Kind: KindEmptyInput, Err: ErrEmptyInput}
	}
	r.logger.Debug("lines counted", slog.Int("total", total))
	r.status(fmt.Sprintf("Found %d lines", total))

	records, err := r.readRecords(total)
	if err != nil {
		return SinkSummary{}, err
	}
	if len(records) == 0 {
		return SinkSummary{}, &ConversionError{Kind: KindNoValidData, Err: ErrNoValidData}
	}
	r.logger.Debug("lines parsed", slog.Int("records", len(records)), slog.Int("rejected", total-len(records)))

	r.status("Building table")
	dir := filepath.Dir(r.request.OutputPath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return SinkSummary{}, ioError("failed to create output directory", err)
	}
	r.status("Writing output")
	return sink.Write(r.request.OutputPath, records)
}

// run holds the state of a single conversion. It is owned by the goroutine
// executing Convert.
type run struct {
	request ConversionRequest
	emit    func(ProgressEvent)
	logger  *slog.Logger
	percent int
}

func (r *run) status(status string) {
	r.logger.Debug(status)
	if r.emit != nil {
		r.emit(ProgressEvent{Percent: r.percent, Status: status})
	}
}

func (r *run) progress(processed, total int) {
	percent := processed * 100 / total
	if percent > 100 {
		percent = 100
	}
	if percent < r.percent {
		percent = r.percent
	}
	r.percent = percent
	if r.emit != nil {
		r.emit(ProgressEvent{Percent: percent})
	}
}

func (r *run) readRecords(total int) ([]Record, error) {
	input, err := openInput(r.request.InputPath)
	if err != nil {
		return nil, err
	}
	defer input.Close()
	var records []Record
	processed := 0
	err = eachLine(input, func(line string) {
		if record, ok := NormalizeLine(line); ok {
			records = append(records, record)
		}
		processed++
		r.progress(processed, total)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func failure(err error) ConversionResult {
	return ConversionResult{
		Success: false,
		Message: err.Error(),
		Kind:    KindOf(err),
		Err:     err,
	}
}

func successMessage(format Format, summary SinkSummary) string {
	printer := message.NewPrinter(language.English)
	text := printer.Sprintf("File converted successfully.\n\nSaved as: %s\nSize: %d bytes\nData rows: %d\n\n",
		filepath.Base(summary.Path), summary.SizeBytes, summary.Records)
	if format == FormatDelimited {
		return text + "When opening in Excel:\n" +
			"1. Choose \"All files (*.*)\"\n" +
			"2. Select UTF-8 encoding\n" +
			"3. Select ';' as the delimiter"
	}
	return text + "The file is ready to open in Microsoft Excel."
}
