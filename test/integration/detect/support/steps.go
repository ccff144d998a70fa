package support

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/cucumber/godog"

	"github.com/MeKo-Tech/qrdetect"
	"github.com/MeKo-Tech/qrdetect/engine"
	"github.com/MeKo-Tech/qrdetect/internal/testutil"
)

// cornerTolerance is the pixel slack allowed when comparing engine corners
// with generated fixture geometry.
const cornerTolerance = 2

// RegisterSteps registers every step definition used by the detect features.
func (testCtx *TestContext) RegisterSteps(sc *godog.ScenarioContext) {
	testCtx.registerInputSteps(sc)
	testCtx.registerEngineSteps(sc)
	testCtx.registerResultSteps(sc)
	testCtx.registerErrorSteps(sc)
}

func (testCtx *TestContext) registerInputSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a (\d+)x(\d+) white image$`, testCtx.aWhiteImage)
	sc.Step(`^an image showing the text "([^"]*)"$`, testCtx.anImageShowingText)
	sc.Step(`^a QR code encoding "([^"]*)" with (\d+) pixel modules$`, testCtx.aQRCode)
	sc.Step(`^the image is rotated (\d+) degrees counter-clockwise$`, testCtx.theImageIsRotated)
	sc.Step(`^the image is inverted$`, testCtx.theImageIsInverted)
	sc.Step(`^no pixel data$`, testCtx.noPixelData)
	sc.Step(`^a pixel buffer of (\d+) bytes$`, testCtx.aPixelBufferOfBytes)
	sc.Step(`^the declared size is (-?\d+)x(-?\d+)$`, testCtx.theDeclaredSizeIs)
}

func (testCtx *TestContext) registerEngineSteps(sc *godog.ScenarioContext) {
	sc.Step(`^an engine that reports the zbar reference detection$`, testCtx.aReferenceEngine)
	sc.Step(`^an engine that fails with "([^"]*)"$`, testCtx.aFailingEngine)
	sc.Step(`^an engine that reports type codes "([^"]*)"$`, testCtx.anEngineReportingTypes)
	sc.Step(`^I detect symbols$`, testCtx.iDetectSymbols)
	sc.Step(`^I detect symbols (\d+) times$`, testCtx.iDetectSymbolsTimes)
	sc.Step(`^the engine was not called$`, testCtx.theEngineWasNotCalled)
}

func (testCtx *TestContext) registerResultSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the result is empty$`, testCtx.theResultIsEmpty)
	sc.Step(`^(\d+) symbols? (?:is|are) returned$`, testCtx.symbolsAreReturned)
	sc.Step(`^symbol (\d+) has type (\d+)$`, testCtx.symbolHasType)
	sc.Step(`^symbol (\d+) has data "([^"]*)"$`, testCtx.symbolHasData)
	sc.Step(`^symbol (\d+) has orientation "([^"]*)"$`, testCtx.symbolHasOrientation)
	sc.Step(`^symbol (\d+) has quality (\d+(?:\.\d+)?)$`, testCtx.symbolHasQuality)
	sc.Step(`^symbol (\d+) has locations "([^"]*)"$`, testCtx.symbolHasLocations)
	sc.Step(`^symbol (\d+) has the generated corners$`, testCtx.symbolHasGeneratedCorners)
	sc.Step(`^the returned type codes are "([^"]*)"$`, testCtx.theReturnedTypeCodesAre)
}

func (testCtx *TestContext) registerErrorSteps(sc *godog.ScenarioContext) {
	sc.Step(`^the call fails with kind "([^"]*)"$`, testCtx.theCallFailsWithKind)
	sc.Step(`^the error mentions "([^"]*)"$`, testCtx.theErrorMentions)
	sc.Step(`^the call fails with a decode failure$`, testCtx.theCallFailsWithDecodeFailure)
}

// Input steps

func (testCtx *TestContext) aWhiteImage(w, h int) error {
	testCtx.useImage(testutil.CreateSolidImage(w, h, color.White))
	return nil
}

func (testCtx *TestContext) anImageShowingText(text string) error {
	cfg := testutil.DefaultTextImageConfig()
	cfg.Text = text
	testCtx.useImage(testutil.GenerateTextImage(cfg))
	return nil
}

func (testCtx *TestContext) aQRCode(content string, moduleSize int) error {
	fx, err := testutil.NewQR(content, moduleSize)
	if err != nil {
		return err
	}
	testCtx.Fixture = &fx
	testCtx.useImage(fx.Image)
	return nil
}

func (testCtx *TestContext) theImageIsRotated(degrees int) error {
	if testCtx.Fixture == nil {
		return errors.New("no QR fixture to rotate")
	}
	testCtx.Rotation = degrees
	testCtx.useImage(testutil.Rotate(testCtx.Fixture.Image, degrees))
	return nil
}

func (testCtx *TestContext) theImageIsInverted() error {
	if testCtx.Fixture == nil {
		return errors.New("no QR fixture to invert")
	}
	testCtx.useImage(testutil.Invert(testCtx.Fixture.Image))
	return nil
}

func (testCtx *TestContext) noPixelData() error {
	testCtx.Data = nil
	return nil
}

func (testCtx *TestContext) aPixelBufferOfBytes(n int) error {
	testCtx.Data = make([]byte, n)
	return nil
}

func (testCtx *TestContext) theDeclaredSizeIs(w, h int) error {
	testCtx.Width, testCtx.Height = w, h
	return nil
}

// Engine steps

func (testCtx *TestContext) aReferenceEngine() error {
	q := 1.0
	ref := engine.Detection{
		TypeCode:        engine.TypeQRCode,
		Data:            []byte("https://github.com/mchehab/zbar"),
		OrientationCode: engine.OrientUp,
		Points:          []engine.Point{{X: 1, Y: 1}, {X: 0, Y: 98}, {X: 100, Y: 100}, {X: 98, Y: 0}},
		Quality:         &q,
	}
	testCtx.Engine = engine.ScanFunc(func(context.Context, engine.Image) ([]engine.Detection, error) {
		return []engine.Detection{ref}, nil
	})
	return nil
}

func (testCtx *TestContext) aFailingEngine(msg string) error {
	testCtx.Engine = engine.ScanFunc(func(context.Context, engine.Image) ([]engine.Detection, error) {
		return nil, errors.New(msg)
	})
	return nil
}

func (testCtx *TestContext) anEngineReportingTypes(codes string) error {
	types, err := parseInts(codes)
	if err != nil {
		return err
	}
	testCtx.Engine = engine.ScanFunc(func(context.Context, engine.Image) ([]engine.Detection, error) {
		dets := make([]engine.Detection, len(types))
		for i, c := range types {
			dets[i] = engine.Detection{TypeCode: c, Data: []byte(strconv.Itoa(i)), OrientationCode: engine.OrientUp}
		}
		return dets, nil
	})
	return nil
}

func (testCtx *TestContext) iDetectSymbols() error {
	d, err := testCtx.detector()
	if err != nil {
		return fmt.Errorf("build detector: %w", err)
	}
	testCtx.Symbols, testCtx.Err = d.Detect(context.Background(), testCtx.Data, testCtx.Width, testCtx.Height)
	return nil
}

func (testCtx *TestContext) iDetectSymbolsTimes(n int) error {
	if err := testCtx.iDetectSymbols(); err != nil {
		return err
	}
	first, firstErr := testCtx.Symbols, testCtx.Err
	for i := 1; i < n; i++ {
		if err := testCtx.iDetectSymbols(); err != nil {
			return err
		}
		if (testCtx.Err == nil) != (firstErr == nil) {
			return fmt.Errorf("call %d: error changed from %v to %v", i+1, firstErr, testCtx.Err)
		}
		if !sameSymbols(first, testCtx.Symbols) {
			return fmt.Errorf("call %d: symbols differ from first call", i+1)
		}
	}
	return nil
}

func (testCtx *TestContext) theEngineWasNotCalled() error {
	if testCtx.EngineCalls != 0 {
		return fmt.Errorf("engine was called %d times", testCtx.EngineCalls)
	}
	return nil
}

// Result steps

func (testCtx *TestContext) theResultIsEmpty() error {
	if testCtx.Err != nil {
		return fmt.Errorf("detect failed: %w", testCtx.Err)
	}
	if testCtx.Symbols == nil || len(testCtx.Symbols) != 0 {
		return fmt.Errorf("expected an empty, non-nil result, got %v", testCtx.Symbols)
	}
	return nil
}

func (testCtx *TestContext) symbolsAreReturned(n int) error {
	if testCtx.Err != nil {
		return fmt.Errorf("detect failed: %w", testCtx.Err)
	}
	if len(testCtx.Symbols) != n {
		return fmt.Errorf("expected %d symbols, got %d", n, len(testCtx.Symbols))
	}
	return nil
}

func (testCtx *TestContext) symbolHasType(n, code int) error {
	s, err := testCtx.requireSymbol(n)
	if err != nil {
		return err
	}
	if int(s.Type) != code {
		return fmt.Errorf("expected type %d, got %d (%s)", code, int(s.Type), s.Type)
	}
	return nil
}

func (testCtx *TestContext) symbolHasData(n int, data string) error {
	s, err := testCtx.requireSymbol(n)
	if err != nil {
		return err
	}
	if string(s.Data) != data {
		return fmt.Errorf("expected data %q, got %q", data, s.Data)
	}
	return nil
}

func (testCtx *TestContext) symbolHasOrientation(n int, name string) error {
	s, err := testCtx.requireSymbol(n)
	if err != nil {
		return err
	}
	if s.Orientation.String() != name {
		return fmt.Errorf("expected orientation %s, got %s", name, s.Orientation)
	}
	return nil
}

func (testCtx *TestContext) symbolHasQuality(n int, quality float64) error {
	s, err := testCtx.requireSymbol(n)
	if err != nil {
		return err
	}
	if s.Quality == nil {
		return errors.New("quality is unset")
	}
	if math.Abs(*s.Quality-quality) > 1e-9 {
		return fmt.Errorf("expected quality %g, got %g", quality, *s.Quality)
	}
	return nil
}

func (testCtx *TestContext) symbolHasLocations(n int, locations string) error {
	s, err := testCtx.requireSymbol(n)
	if err != nil {
		return err
	}
	want, err := parseLocations(locations)
	if err != nil {
		return err
	}
	if len(want) != len(s.Locations) {
		return fmt.Errorf("expected %d locations, got %v", len(want), s.Locations)
	}
	for i := range want {
		if want[i] != s.Locations[i] {
			return fmt.Errorf("location %d: expected %v, got %v", i, want[i], s.Locations[i])
		}
	}
	return nil
}

func (testCtx *TestContext) symbolHasGeneratedCorners(n int) error {
	s, err := testCtx.requireSymbol(n)
	if err != nil {
		return err
	}
	if testCtx.Fixture == nil {
		return errors.New("no QR fixture generated")
	}
	if len(s.Locations) != 4 {
		return fmt.Errorf("expected 4 locations, got %v", s.Locations)
	}
	side := testCtx.Fixture.Image.Bounds().Dx()
	for i, c := range testCtx.Fixture.Corners {
		want := rotateCorner(c.X, c.Y, side, testCtx.Rotation)
		got := s.Locations[i]
		if abs(got.X-want.X) > cornerTolerance || abs(got.Y-want.Y) > cornerTolerance {
			return fmt.Errorf("corner %d: expected about %v, got %v", i, want, got)
		}
	}
	return nil
}

func (testCtx *TestContext) theReturnedTypeCodesAre(codes string) error {
	want, err := parseInts(codes)
	if err != nil {
		return err
	}
	if testCtx.Err != nil {
		return fmt.Errorf("detect failed: %w", testCtx.Err)
	}
	if len(want) != len(testCtx.Symbols) {
		return fmt.Errorf("expected %d symbols, got %d", len(want), len(testCtx.Symbols))
	}
	for i, c := range want {
		if int(testCtx.Symbols[i].Type) != c {
			return fmt.Errorf("symbol %d: expected type %d, got %d", i+1, c, int(testCtx.Symbols[i].Type))
		}
	}
	return nil
}

// Error steps

func (testCtx *TestContext) theCallFailsWithKind(kind string) error {
	inv, err := testCtx.requireError()
	if err != nil {
		return err
	}
	if inv == nil {
		return fmt.Errorf("expected an invalid input error, got %v", testCtx.Err)
	}
	if inv.Kind.String() != kind {
		return fmt.Errorf("expected kind %s, got %s", kind, inv.Kind)
	}
	return nil
}

func (testCtx *TestContext) theErrorMentions(text string) error {
	if testCtx.Err == nil {
		return errors.New("expected an error")
	}
	if !strings.Contains(testCtx.Err.Error(), text) {
		return fmt.Errorf("error %q does not mention %q", testCtx.Err, text)
	}
	return nil
}

func (testCtx *TestContext) theCallFailsWithDecodeFailure() error {
	if _, err := testCtx.requireError(); err != nil {
		return err
	}
	if !errors.Is(testCtx.Err, qrdetect.ErrDecodeFailure) {
		return fmt.Errorf("expected a decode failure, got %v", testCtx.Err)
	}
	return nil
}

// Helpers

func parseInts(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("bad integer %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// parseLocations reads "(x,y) (x,y) ...".
func parseLocations(s string) ([]qrdetect.SymbolLocation, error) {
	var out []qrdetect.SymbolLocation
	for _, f := range strings.Fields(s) {
		var loc qrdetect.SymbolLocation
		if _, err := fmt.Sscanf(f, "(%d,%d)", &loc.X, &loc.Y); err != nil {
			return nil, fmt.Errorf("bad location %q: %w", f, err)
		}
		out = append(out, loc)
	}
	return out, nil
}

// rotateCorner maps a corner of a side×side image through a counter-clockwise
// rotation by degrees.
func rotateCorner(x, y, side, degrees int) qrdetect.SymbolLocation {
	switch ((degrees % 360) + 360) % 360 {
	case 90:
		return qrdetect.SymbolLocation{X: y, Y: side - x}
	case 180:
		return qrdetect.SymbolLocation{X: side - x, Y: side - y}
	case 270:
		return qrdetect.SymbolLocation{X: side - y, Y: x}
	default:
		return qrdetect.SymbolLocation{X: x, Y: y}
	}
}

func sameSymbols(a, b []qrdetect.Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Type != b[i].Type || string(a[i].Data) != string(b[i].Data) || a[i].Orientation != b[i].Orientation {
			return false
		}
		if len(a[i].Locations) != len(b[i].Locations) {
			return false
		}
		for j := range a[i].Locations {
			if a[i].Locations[j] != b[i].Locations[j] {
				return false
			}
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
