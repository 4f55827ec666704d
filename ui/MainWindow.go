package ui

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"

	"monitorhead-converter/services"
)

const waitingStatus = "Choose a MonitorHead .txt file"

type MainWindow struct {
	window           *app.Window
	theme            *material.Theme
	ops              op.Ops
	exp              *explorer.Explorer
	chooseFile       func(extensions ...string) (io.ReadCloser, error)
	converterService *services.ConverterService
	logger           *slog.Logger

	mu         sync.Mutex
	overwrite  services.OverwriteGuard
	disabled   bool
	inputPath  string
	outputPath string
	progress   int
	status     string
	subStatus  string

	openButton    widget.Clickable
	convertButton widget.Clickable
	format        widget.Enum
}

func NewMainWindow(converterService *services.ConverterService, defaultFormat services.Format, logger *slog.Logger) *MainWindow {
	window := new(app.Window)
	window.Option(app.Title("MonitorHead Converter"), app.Size(640, 300))
	theme := material.NewTheme()
	exp := explorer.NewExplorer(window)
	mainWindow := &MainWindow{
		window:           window,
		theme:            theme,
		exp:              exp,
		chooseFile:       exp.ChooseFile,
		converterService: converterService,
		logger:           logger,
		status:           waitingStatus,
	}
	mainWindow.format.Value = string(defaultFormat)
	return mainWindow
}

// Open runs the window and blocks in the platform event loop until the
// window is closed, then exits the process.
func (mainWindow *MainWindow) Open() error {
	go func() {
		err := mainWindow.Run()
		if err != nil {
			mainWindow.logger.Error("window closed with error", slog.String("error", err.Error()))
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}

func (mainWindow *MainWindow) setError(err error) {
	mainWindow.status = fmt.Sprintf("Error: %s", err)
}

func (mainWindow *MainWindow) Run() error {
	for {
		e := mainWindow.window.Event()
		mainWindow.exp.ListenEvents(e)
		switch e := e.(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			ctx := app.NewContext(&mainWindow.ops, e)
			mainWindow.mu.Lock()
			err := mainWindow.handleEvents(ctx)
			if err != nil {
				mainWindow.setError(err)
			}
			if mainWindow.disabled {
				ctx = ctx.Disabled()
			}
			mainWindow.draw(ctx)
			mainWindow.mu.Unlock()
			e.Frame(ctx.Ops)
		}
	}
}

func (mainWindow *MainWindow) selectedFormat() services.Format {
	return services.Format(mainWindow.format.Value)
}

// handleEvents runs with mu held.
func (mainWindow *MainWindow) handleEvents(ctx layout.Context) error {
	if mainWindow.format.Update(ctx) && mainWindow.inputPath != "" {
		mainWindow.outputPath = services.DefaultOutputPath(mainWindow.inputPath, mainWindow.selectedFormat())
	}
	if mainWindow.openButton.Clicked(ctx) {
		err := mainWindow.browse()
		if err != nil {
			return err
		}
	}
	if mainWindow.convertButton.Clicked(ctx) && mainWindow.inputPath != "" {
		mainWindow.convert()
	}
	return nil
}

// browse runs with mu held. The lock is released while the file dialog is
// open so a running conversion can keep reporting progress.
func (mainWindow *MainWindow) browse() error {
	mainWindow.mu.Unlock()
	file, err := mainWindow.chooseFile("txt")
	mainWindow.mu.Lock()
	if err != nil {
		if errors.Is(err, explorer.ErrUserDecline) {
			return nil
		}
		return err
	}
	path, err := chosenPath(file)
	if err != nil {
		return err
	}
	mainWindow.inputPath = path
	mainWindow.outputPath = services.DefaultOutputPath(path, mainWindow.selectedFormat())
	mainWindow.progress = 0
	mainWindow.subStatus = ""
	mainWindow.status = fmt.Sprintf("Selected file: %s", filepath.Base(path))
	return nil
}

// convert runs with mu held. It reports whether a conversion was started;
// an existing output file needs a second click.
func (mainWindow *MainWindow) convert() bool {
	if !mainWindow.overwrite.Allow(mainWindow.outputPath) {
		mainWindow.status = fmt.Sprintf("%s already exists. Press Convert again to overwrite it.", filepath.Base(mainWindow.outputPath))
		return false
	}
	request := services.ConversionRequest{
		InputPath:  mainWindow.inputPath,
		OutputPath: mainWindow.outputPath,
		Format:     mainWindow.selectedFormat(),
	}
	mainWindow.disabled = true
	mainWindow.progress = 0
	mainWindow.status = "Starting conversion"
	go mainWindow.follow(request, mainWindow.converterService.Start(request))
	return true
}

func (mainWindow *MainWindow) follow(request services.ConversionRequest, events <-chan services.Event) {
	start := time.Now()
	for event := range events {
		mainWindow.mu.Lock()
		if event.Progress != nil {
			mainWindow.progress = event.Progress.Percent
			if event.Progress.Status != "" {
				mainWindow.subStatus = event.Progress.Status
			}
		} else {
			result := event.Result
			if result.Success {
				mainWindow.status = fmt.Sprintf("%s\n(took %.2fs)", result.Message, time.Since(start).Seconds())
			} else {
				mainWindow.status = fmt.Sprintf("Conversion failed: %s", result.Message)
			}
			mainWindow.subStatus = ""
			mainWindow.disabled = false
		}
		mainWindow.mu.Unlock()
		mainWindow.window.Invalidate()
	}
	mainWindow.logger.Debug("window finished following conversion", slog.String("input", request.InputPath))
}

// chosenPath recovers the file system path behind a file returned by the
// explorer, which hands back an open *os.File on desktop platforms.
func chosenPath(file io.ReadCloser) (string, error) {
	defer file.Close()
	named, ok := file.(interface{ Name() string })
	if !ok {
		return "", errors.New("selected file has no path on this platform")
	}
	return named.Name(), nil
}

// draw runs with mu held.
func (mainWindow *MainWindow) draw(ctx layout.Context) {
	status := mainWindow.status
	if len(mainWindow.subStatus) > 0 {
		status = fmt.Sprintf("%s\n%s", status, mainWindow.subStatus)
	}
	input := "No file selected"
	if mainWindow.inputPath != "" {
		input = fmt.Sprintf("Input: %s\nOutput: %s", mainWindow.inputPath, mainWindow.outputPath)
	}
	convertLabel := "Convert to XLSX"
	if mainWindow.selectedFormat() == services.FormatDelimited {
		convertLabel = "Convert to CSV"
	}
	layout.UniformInset(unit.Dp(15)).Layout(
		ctx,
		func(ctx layout.Context) layout.Dimensions {
			return layout.Flex{
				Axis:    layout.Vertical,
				Spacing: layout.SpaceBetween,
			}.Layout(
				ctx,
				layout.Rigid(func(ctx layout.Context) layout.Dimensions {
					return layout.Flex{
						Axis: layout.Vertical,
					}.Layout(
						ctx,
						layout.Rigid(material.Button(mainWindow.theme, &mainWindow.openButton, "Browse").Layout),
						layout.Rigid(layout.Spacer{Height: 10}.Layout),
						layout.Rigid(material.Body2(mainWindow.theme, input).Layout),
						layout.Rigid(layout.Spacer{Height: 10}.Layout),
						layout.Rigid(func(ctx layout.Context) layout.Dimensions {
							return layout.Flex{}.Layout(
								ctx,
								layout.Rigid(material.RadioButton(mainWindow.theme, &mainWindow.format, string(services.FormatTabular), "XLSX (native Excel workbook)").Layout),
								layout.Rigid(material.RadioButton(mainWindow.theme, &mainWindow.format, string(services.FormatDelimited), "CSV (UTF-8, ';' separated)").Layout),
							)
						}),
						layout.Rigid(layout.Spacer{Height: 10}.Layout),
						layout.Rigid(func(ctx layout.Context) layout.Dimensions {
							button := material.Button(mainWindow.theme, &mainWindow.convertButton, convertLabel)
							button.Background = color.NRGBA{A: 0xff, R: 0x33, G: 0x99, B: 0x33}
							return button.Layout(ctx)
						}),
						layout.Rigid(layout.Spacer{Height: 10}.Layout),
						layout.Rigid(material.ProgressBar(mainWindow.theme, float32(mainWindow.progress)/100).Layout),
					)
				}),
				layout.Rigid(material.Label(mainWindow.theme, unit.Sp(15), status).Layout),
			)
		},
	)
}
