package ui

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nevisdale/tinynes/internal/config"
	"github.com/nevisdale/tinynes/internal/nes"
)

// readOrder matches config.KeyMapping.Keys.
var readOrder = [8]nes.Button{
	nes.ButtonA,
	nes.ButtonB,
	nes.ButtonSelect,
	nes.ButtonStart,
	nes.ButtonUp,
	nes.ButtonDown,
	nes.ButtonLeft,
	nes.ButtonRight,
}

// keyMap holds the key bound to each entry of readOrder.
type keyMap [8]ebiten.Key

func keyByName(name string) (ebiten.Key, error) {
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

func newKeyMap(mapping config.KeyMapping) (keyMap, error) {
	var m keyMap
	for i, name := range mapping.Keys() {
		k, err := keyByName(name)
		if err != nil {
			return m, err
		}
		m[i] = k
	}
	return m, nil
}

func (m keyMap) buttons() uint8 {
	var state nes.Button
	for i, k := range m {
		if ebiten.IsKeyPressed(k) {
			state |= readOrder[i]
		}
	}
	return uint8(state)
}
