// Package mempool provides sized pools for scratch buffers on the scan path.
package mempool

import (
	"sync"
)

var bytePools sync.Map // key: size class (int), value: *sync.Pool

const (
	minClass = 4096
	step     = 4096
)

// sizeClass rounds n up to the next multiple of step, with a floor of minClass.
func sizeClass(n int) int {
	if n <= minClass {
		return minClass
	}
	return ((n + step - 1) / step) * step
}

func poolFor(cls int) *sync.Pool {
	pAny, _ := bytePools.LoadOrStore(cls, &sync.Pool{New: func() any {
		buf := make([]byte, cls)
		return &buf
	}})
	return pAny.(*sync.Pool)
}

// GetBytes returns a buffer of length n. Contents are unspecified; callers
// that do not overwrite every byte must clear it themselves.
// Return it with PutBytes when done.
func GetBytes(n int) []byte {
	if n < 0 {
		n = 0
	}
	cls := sizeClass(n)
	bp, ok := poolFor(cls).Get().(*[]byte)
	if !ok || cap(*bp) < cls {
		buf := make([]byte, cls)
		return buf[:n]
	}
	return (*bp)[:n]
}

// PutBytes returns a buffer to its pool. It is safe to pass nil.
func PutBytes(buf []byte) {
	if buf == nil {
		return
	}
	c := cap(buf)
	if c < minClass || c%step != 0 {
		// Not one of ours.
		return
	}
	full := buf[:c]
	poolFor(c).Put(&full)
}
