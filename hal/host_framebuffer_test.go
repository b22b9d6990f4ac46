//go:build !tinygo

package hal

import (
	"image/color"
	"testing"
)

func TestFramebufferSetPixel(t *testing.T) {
	f := newHostFramebuffer(8, 4)
	f.SetPixel(3, 2, color.RGBA{R: 0xFF, A: 0xFF})
	if got, want := f.pixelRGB565(3, 2), uint16(0xF800); got != want {
		t.Fatalf("pixelRGB565(3, 2) = %#04x, want %#04x", got, want)
	}
	if got := f.pixelRGB565(2, 2); got != 0 {
		t.Fatalf("pixelRGB565(2, 2) = %#04x, want 0", got)
	}

	f.SetPixel(-1, 0, color.RGBA{G: 0xFF, A: 0xFF})
	f.SetPixel(8, 0, color.RGBA{G: 0xFF, A: 0xFF})
	if got := f.pixelRGB565(8, 0); got != 0 {
		t.Fatalf("pixelRGB565(8, 0) = %#04x, want 0", got)
	}
}

func TestFramebufferFillRectangleClips(t *testing.T) {
	f := newHostFramebuffer(8, 4)
	if err := f.FillRectangle(6, 2, 10, 10, color.RGBA{G: 0xFF, A: 0xFF}); err != nil {
		t.Fatalf("FillRectangle: %v", err)
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			want := uint16(0)
			if x >= 6 && y >= 2 {
				want = 0x07E0
			}
			if got := f.pixelRGB565(x, y); got != want {
				t.Fatalf("pixelRGB565(%d, %d) = %#04x, want %#04x", x, y, got, want)
			}
		}
	}

	r, g, b := rgb888From565(f.pixelRGB565(7, 3))
	if r != 0 || g != 0xFF || b != 0 {
		t.Fatalf("rgb888From565 = (%d, %d, %d), want (0, 255, 0)", r, g, b)
	}
}
