package support

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/qrdetect"
	"github.com/MeKo-Tech/qrdetect/engine"
	"github.com/MeKo-Tech/qrdetect/internal/testutil"
)

// TestContext holds the state of one scenario.
type TestContext struct {
	// Input
	Data     []byte
	Width    int
	Height   int
	Fixture  *testutil.QRFixture
	Rotation int

	// Engine selection
	Engine      engine.Engine
	EngineCalls int

	// Outcome
	Symbols []qrdetect.Symbol
	Err     error
}

// NewTestContext creates an empty scenario context on the default engine.
func NewTestContext() *TestContext {
	return &TestContext{}
}

// Reset clears all scenario state.
func (testCtx *TestContext) Reset() {
	*testCtx = TestContext{}
}

// detector returns a detector on the selected engine, counting engine calls.
func (testCtx *TestContext) detector() (*qrdetect.Detector, error) {
	b := qrdetect.NewBuilder()
	if testCtx.Engine != nil {
		inner := testCtx.Engine
		b = b.WithEngine(engine.ScanFunc(func(ctx context.Context, img engine.Image) ([]engine.Detection, error) {
			testCtx.EngineCalls++
			return inner.Scan(ctx, img)
		}))
	}
	return b.Build()
}

// useImage replaces the pixel input with img.
func (testCtx *TestContext) useImage(img image.Image) {
	testCtx.Data, testCtx.Width, testCtx.Height = testutil.RGBABytes(img)
}

func (testCtx *TestContext) requireSymbol(n int) (qrdetect.Symbol, error) {
	if testCtx.Err != nil {
		return qrdetect.Symbol{}, fmt.Errorf("detect failed: %w", testCtx.Err)
	}
	if n < 1 || n > len(testCtx.Symbols) {
		return qrdetect.Symbol{}, fmt.Errorf("symbol %d requested, %d returned", n, len(testCtx.Symbols))
	}
	return testCtx.Symbols[n-1], nil
}

func (testCtx *TestContext) requireError() (*qrdetect.InvalidInputError, error) {
	if testCtx.Err == nil {
		return nil, errors.New("expected detect to fail, it succeeded")
	}
	if testCtx.Symbols != nil {
		return nil, errors.New("a failed call returned symbols")
	}
	var inv *qrdetect.InvalidInputError
	if !errors.As(testCtx.Err, &inv) {
		return nil, nil
	}
	return inv, nil
}
