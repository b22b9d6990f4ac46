//go:build !tinygo

package hal

import (
	"image/color"
	"sync"
)

// hostFramebuffer is an RGB565 little-endian pixel buffer that implements
// Surface. The window reads it through snapshotRGB565.
type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *hostFramebuffer) Size() (x, y int16) { return int16(f.width), int16(f.height) }
func (f *hostFramebuffer) Display() error     { return nil }

func (f *hostFramebuffer) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= f.width || iy < 0 || iy >= f.height {
		return
	}
	pixel := rgb565(c.R, c.G, c.B)
	off := iy*f.stride + ix*2

	f.mu.Lock()
	f.buf[off] = byte(pixel)
	f.buf[off+1] = byte(pixel >> 8)
	f.mu.Unlock()
}

func (f *hostFramebuffer) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	x0 := clampInt(int(x), 0, f.width)
	y0 := clampInt(int(y), 0, f.height)
	x1 := clampInt(int(x)+int(width), 0, f.width)
	y1 := clampInt(int(y)+int(height), 0, f.height)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	pixel := rgb565(c.R, c.G, c.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	f.mu.Lock()
	defer f.mu.Unlock()
	for py := y0; py < y1; py++ {
		row := py * f.stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			f.buf[off] = lo
			f.buf[off+1] = hi
		}
	}
	return nil
}

// pixelRGB565 returns the stored pixel at (x, y), or 0 outside the buffer.
func (f *hostFramebuffer) pixelRGB565(x, y int) uint16 {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return 0
	}
	off := y*f.stride + x*2
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
