// Package qrdetect finds QR codes in raw RGBA pixel buffers.
//
// Detect validates the buffer, hands it to a decoder Engine and returns the
// decoded symbols in the order the engine reported them:
//
//	symbols, err := qrdetect.Detect(pix, width, height)
//	if err != nil {
//		return err
//	}
//	for _, s := range symbols {
//		fmt.Println(s.Type, s.Orientation, string(s.Data), s.Locations)
//	}
//
// The buffer must hold exactly width*height*4 bytes. Bad input fails with
// an *InvalidInputError and the engine never runs; engine failures come
// back as *DecodeError. Finding nothing is an empty result, not an error.
//
// Orientation and SymbolType carry zbar's numeric codes so results can be
// exchanged with zbar-based consumers. The default engine is gozxing; use
// NewBuilder().WithEngine to plug in another.
package qrdetect
