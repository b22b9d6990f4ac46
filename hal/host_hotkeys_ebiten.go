//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var ebitenHotkeys = []struct {
	key ebiten.Key
	hk  hotkey
}{
	{ebiten.Key1, hkSquare},
	{ebiten.Key2, hkSine},
	{ebiten.Key3, hkTriangle},
	{ebiten.Key4, hkSawtooth},
	{ebiten.KeyS, hkStats},
	{ebiten.KeyT, hkTrigger},
	{ebiten.KeyC, hkColor},
	{ebiten.KeyH, hkHelp},
	{ebiten.KeyF1, hkHelp},
}

// poll turns keys pressed since the last frame into commands.
func (h *hotkeys) poll(inject func(string)) {
	for _, k := range ebitenHotkeys {
		if inpututil.IsKeyJustPressed(k.key) {
			inject(h.command(k.hk))
		}
	}
}
