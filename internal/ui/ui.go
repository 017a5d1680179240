package ui

import (
	"fmt"
	"image/color"
	"log"
	"maps"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/nevisdale/tinynes/internal/config"
	"github.com/nevisdale/tinynes/internal/nes"
	"github.com/nevisdale/tinynes/internal/wavrec"
	"golang.org/x/image/font/basicfont"
)

// Tab - show debug info
// P - pause
// R - one step and stop
// C - cycle the pattern table palette
// F5 - reset
// Esc - quit

const (
	debugScreenWidth = 286
	debugLineHeight  = 13
	disasmContext    = 7
	palettesCount    = 8
	patternTableSize = 128
)

type UI struct {
	bus *nes.Bus
	cfg *config.Config
	rec *wavrec.Recorder

	audio *audioPlayer
	keys  [2]keyMap

	disasm     map[uint16]string
	disasmAddr []uint16

	screen        *ebiten.Image
	screenPix     []byte
	patternTables [2]*ebiten.Image
	face          *text.GoXFace

	palette   uint8
	showDebug bool
}

// New wires the bus to the window, keyboard and speakers. rec may be nil.
func New(bus *nes.Bus, cfg *config.Config, rec *wavrec.Recorder) (*UI, error) {
	ui := &UI{
		bus:       bus,
		cfg:       cfg,
		rec:       rec,
		disasm:    bus.Disassemble(),
		screen:    ebiten.NewImage(nes.ScreenWidth, nes.ScreenHeight),
		screenPix: make([]byte, nes.ScreenWidth*nes.ScreenHeight*4),
		face:      text.NewGoXFace(basicfont.Face7x13),
		showDebug: cfg.Debug.ShowDebugPane,
	}
	ui.disasmAddr = slices.Sorted(maps.Keys(ui.disasm))
	for i := range ui.patternTables {
		ui.patternTables[i] = ebiten.NewImage(patternTableSize, patternTableSize)
	}

	for player, mapping := range []config.KeyMapping{cfg.Input.Player1Keys, cfg.Input.Player2Keys} {
		keys, err := newKeyMap(mapping)
		if err != nil {
			return nil, fmt.Errorf("player %d key mapping: %w", player+1, err)
		}
		ui.keys[player] = keys
	}

	if cfg.Audio.Enabled {
		audio, err := newAudioPlayer(cfg.Audio.SampleRate, cfg.Audio.Volume)
		if err != nil {
			// the emulator stays usable without sound
			log.Printf("audio disabled: %s\n", err.Error())
		} else {
			ui.audio = audio
		}
	}

	return ui, nil
}

func (ui *UI) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		ui.showDebug = !ui.showDebug
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		ui.palette = (ui.palette + 1) % palettesCount
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		ui.bus.TogglePause()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		ui.bus.OneStepAndStop()
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		ui.bus.Reset()
	}

	ui.bus.SetControllerState(nes.Player1, ui.keys[nes.Player1].buttons())
	ui.bus.SetControllerState(nes.Player2, ui.keys[nes.Player2].buttons())

	ui.bus.RunFrame()
	if ui.bus.FrameReady() {
		ui.bus.ConsumeFrame()
	}

	return ui.drainAudio()
}

func (ui *UI) drainAudio() error {
	for ui.bus.PendingAudioSamples() > 0 {
		sample := ui.bus.PopAudioSample()
		if ui.audio != nil {
			ui.audio.push(sample)
		}
		if ui.rec != nil {
			if err := ui.rec.Write(sample); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ui *UI) Draw(screen *ebiten.Image) {
	fillRGBA(ui.screenPix, ui.bus.Pixels())
	ui.screen.WritePixels(ui.screenPix)
	op := &ebiten.DrawImageOptions{}
	scale := float64(ui.cfg.Window.Scale)
	op.GeoM.Scale(scale, scale)
	screen.DrawImage(ui.screen, op)

	if ui.showDebug {
		ui.drawDebug(screen)
	}
}

func (ui *UI) drawDebug(screen *ebiten.Image) {
	offsetX := float32(nes.ScreenWidth * ui.cfg.Window.Scale)
	height := float32(nes.ScreenHeight * ui.cfg.Window.Scale)
	vector.DrawFilledRect(screen, offsetX, 0, debugScreenWidth, height, color.RGBA{50, 50, 50, 255}, false)

	info := ui.bus.DebugInfo()
	var infoStr strings.Builder
	fmt.Fprintf(&infoStr, " FPS: %0.0f  FRAME: %d\n", ebiten.ActualFPS(), ui.bus.Frame())
	fmt.Fprintf(&infoStr, " PALETTE: %d", ui.palette)
	if ui.bus.Paused() {
		infoStr.WriteString("  PAUSED")
	}
	infoStr.WriteString("\n")
	fmt.Fprintf(&infoStr, " STATUS: %s\n", info.StatusString())
	fmt.Fprintf(&infoStr, " PC: $%04X  SP: $%02X  CYC: %d\n", info.PC, info.SP, info.Cycles)
	fmt.Fprintf(&infoStr, " A: $%02X [%03d]\n", info.A, info.A)
	fmt.Fprintf(&infoStr, " X: $%02X [%03d]\n", info.X, info.X)
	fmt.Fprintf(&infoStr, " Y: $%02X [%03d]\n", info.Y, info.Y)
	digest := ui.bus.FrameDigest()
	fmt.Fprintf(&infoStr, " DIGEST: %x\n\n", digest[:6])
	ui.writeDisasm(&infoStr, info.PC)

	textOp := &text.DrawOptions{}
	textOp.LineSpacing = debugLineHeight
	textOp.GeoM.Translate(float64(offsetX)+4, 2)
	textOp.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, infoStr.String(), ui.face, textOp)

	for i := 0; i < palettesCount; i++ {
		for pixel := 0; pixel < 4; pixel++ {
			x := offsetX + 10 + float32(i*35+pixel*8)
			y := height - patternTableSize - 30
			c := ui.bus.GetColorFromPalette(uint8(i), uint8(pixel))
			vector.DrawFilledRect(screen, x, y, 8, 8, c, false)
		}
	}

	for i, img := range ui.patternTables {
		img.WritePixels(ui.bus.GetPatternTable(ui.palette, uint8(i)).Pix)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(offsetX)+10+float64(i*(patternTableSize+5)), float64(height)-patternTableSize-10)
		screen.DrawImage(img, op)
	}
}

// fillRGBA unpacks 0xAARRGGBB pixels into RGBA bytes.
func fillRGBA(dst []byte, pixels []uint32) {
	for i, px := range pixels {
		dst[i*4] = uint8(px >> 16)
		dst[i*4+1] = uint8(px >> 8)
		dst[i*4+2] = uint8(px)
		dst[i*4+3] = uint8(px >> 24)
	}
}

// writeDisasm prints the instructions around pc, marking the current one.
func (ui *UI) writeDisasm(w *strings.Builder, pc uint16) {
	idx, found := slices.BinarySearch(ui.disasmAddr, pc)
	if !found {
		fmt.Fprintf(w, "*$%04X: outside PRG ROM\n", pc)
		return
	}
	for i := max(0, idx-disasmContext); i < min(len(ui.disasmAddr), idx+disasmContext+1); i++ {
		marker := " "
		if i == idx {
			marker = "*"
		}
		w.WriteString(marker + ui.disasm[ui.disasmAddr[i]] + "\n")
	}
}

func (ui *UI) Layout(_, _ int) (int, int) {
	return ui.windowSize()
}

func (ui *UI) windowSize() (int, int) {
	width := nes.ScreenWidth * ui.cfg.Window.Scale
	if ui.showDebug {
		width += debugScreenWidth
	}
	return width, nes.ScreenHeight * ui.cfg.Window.Scale
}

// Close stops audio playback. The recorder belongs to the caller.
func (ui *UI) Close() error {
	if ui.audio == nil {
		return nil
	}
	return ui.audio.Close()
}

func RunUI(ui *UI, title string) error {
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(ui.windowSize())
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(ui.cfg.Window.TPS)
	return ebiten.RunGame(ui)
}
