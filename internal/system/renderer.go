package system

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/symbiote/engine/internal/component"
	"github.com/symbiote/engine/internal/core/ecs"
	coresys "github.com/symbiote/engine/internal/core/system"
	"go.uber.org/zap"
)

// RendererSystem draws every sprite at its transform on a terminal screen
// and pumps terminal input. Esc, q and Ctrl-C stop the loop. Phase 3
// (Render).
type RendererSystem struct {
	ecs.SystemBase
	screen tcell.Screen
	log    *zap.Logger
	style  tcell.Style
	quit   bool
	frames uint64
}

// NewRendererSystem takes ownership of screen and initialises it.
func NewRendererSystem(screen tcell.Screen, log *zap.Logger) (*RendererSystem, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.Clear()
	return &RendererSystem{
		screen: screen,
		log:    log,
		style:  tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
	}, nil
}

// OpenTerminal creates a renderer on the controlling terminal.
func OpenTerminal(log *zap.Logger) (*RendererSystem, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("open terminal: %w", err)
	}
	return NewRendererSystem(screen, log)
}

func (*RendererSystem) SystemName() string   { return "game.Renderer" }
func (*RendererSystem) Phase() coresys.Phase { return coresys.PhaseRender }

// PollEvents drains pending terminal events without blocking and reports
// whether the loop should keep running.
func (s *RendererSystem) PollEvents() bool {
	for s.screen.HasPendingEvent() {
		switch ev := s.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if isQuitKey(ev) {
				s.log.Info("quit requested from terminal")
				s.quit = true
			}
		case *tcell.EventResize:
			s.screen.Sync()
		case nil:
			// screen finalised
			s.quit = true
			return false
		}
	}
	return !s.quit
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		r := ev.Rune()
		return r == 'q' || (r == 'c' && ev.Modifiers()&tcell.ModCtrl != 0)
	}
	return false
}

func (s *RendererSystem) Update(_ time.Duration) {
	s.Render()
}

// Render draws one frame.
func (s *RendererSystem) Render() {
	m := s.Manager()
	if m == nil {
		return
	}
	s.frames++
	s.screen.Clear()
	w, h := s.screen.Size()
	drawn := 0
	ecs.With1(m, func(_ ecs.Entity, sp *component.Sprite) {
		tr := sp.Transform()
		if tr == nil {
			return
		}
		x := int(math.Round(float64(tr.X)))
		y := int(math.Round(float64(tr.Y)))
		if x < 0 || y < 1 || x >= w || y >= h {
			return
		}
		s.putGlyph(x, y, sp.Glyph)
		drawn++
	})
	s.putText(0, 0, fmt.Sprintf("frame %d  entities %d  sprites %d  (q to quit)", s.frames, m.Size(), drawn))
	s.screen.Show()
}

// putGlyph draws a glyph; wide glyphs also blank the following column.
func (s *RendererSystem) putGlyph(x, y int, glyph string) {
	runes := []rune(glyph)
	if len(runes) == 0 {
		return
	}
	s.screen.SetContent(x, y, runes[0], runes[1:], s.style)
	if runewidth.StringWidth(glyph) == 2 {
		s.screen.SetContent(x+1, y, ' ', nil, s.style)
	}
}

func (s *RendererSystem) putText(x, y int, text string) {
	for _, r := range text {
		s.screen.SetContent(x, y, r, nil, s.style)
		x += runewidth.RuneWidth(r)
	}
}

// Close releases the terminal.
func (s *RendererSystem) Close() {
	s.screen.Fini()
}
