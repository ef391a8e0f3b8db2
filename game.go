package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"

	"github.com/milk9111/signpost/actor"
	"github.com/milk9111/signpost/common"
	"github.com/milk9111/signpost/input"
	"github.com/milk9111/signpost/metrics"
	"github.com/milk9111/signpost/prefabs"
)

const (
	groundY    = common.BaseHeight * 3 / 4
	traceShown = 12
)

var fallbackColors = map[string]color.Color{
	actor.NodeIdle:   colornames.Darkseagreen,
	actor.NodeAttack: colornames.Tomato,
	actor.NodeRoll:   colornames.Cornflowerblue,
	actor.NodeGetHit: colornames.Gold,
}

type Config struct {
	Player string
	Watch  bool
	Logger *slog.Logger
	Metric *metrics.Metrics
}

type Game struct {
	frames int
	paused bool
	hits   int

	cfg     Config
	world   *actor.World
	player  *actor.Player
	spec    *prefabs.PlayerSpec
	input   *input.Driver
	pauseUI *ebitenui.UI
	watcher *prefabs.Watcher

	clipboardOK bool
	status      string
	logger      *slog.Logger
}

func NewGame(cfg Config) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		world:  actor.NewWorld(cfg.Logger, cfg.Metric),
		logger: cfg.Logger,
	}
	g.input = input.NewDriver(g.world.Exchange)
	if err := g.world.Exchange.Register(g); err != nil {
		return nil, err
	}
	if err := g.loadPlayer(); err != nil {
		return nil, err
	}
	g.pauseUI = NewPauseUI(g)

	if err := clipboard.Init(); err != nil {
		g.logger.Warn("game: clipboard unavailable", "err", err)
	} else {
		g.clipboardOK = true
	}

	if cfg.Watch {
		w, err := prefabs.NewWatcher(prefabs.Root)
		if err != nil {
			g.logger.Warn("game: hot reload disabled", "err", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) loadPlayer() error {
	spec, err := prefabs.LoadPlayerSpec(g.cfg.Player)
	if err != nil {
		return err
	}
	ctrl, err := prefabs.LoadController(spec.Controller)
	if err != nil {
		return err
	}
	var src []byte
	if spec.Script != "" {
		if src, err = prefabs.LoadScript(spec.Script); err != nil {
			return err
		}
	}
	p, err := actor.NewPlayer(g.world, spec, ctrl, src)
	if err != nil {
		return err
	}
	if g.player != nil {
		g.player.Disable()
	}
	if err := p.Enable(); err != nil {
		return err
	}
	g.player, g.spec = p, spec
	// The new Control starts zeroed; hand it whatever is being held.
	g.input.Resync()
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

// OnPauseInput toggles the pause overlay.
func (g *Game) OnPauseInput() {
	g.paused = !g.paused
}

// OnPlayerGetHit counts hits reported on the world exchange.
func (g *Game) OnPlayerGetHit(player string) {
	g.hits++
	g.logger.Info("game: player hit", "player", player, "hits", g.hits)
}

func (g *Game) Update() error {
	g.frames++
	g.drainWatcher()
	g.input.Update()

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.player.Hit()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyTrace()
	}

	g.player.Tick(1.0 / float64(common.TPS))
	return nil
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case c, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(c)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.logger.Warn("game: watcher error", "err", err)
		default:
			return
		}
	}
}

func (g *Game) reload(c prefabs.Change) {
	var err error
	switch c.Kind {
	case prefabs.KindScript:
		if c.Name != g.spec.Script {
			return
		}
		var src []byte
		if src, err = prefabs.LoadScript(c.Name); err == nil {
			err = g.player.ReloadScript(src)
		}
	case prefabs.KindController, prefabs.KindActor:
		err = g.loadPlayer()
	}
	if err != nil {
		g.status = "reload failed: " + err.Error()
		g.logger.Warn("game: reload failed", "kind", c.Kind, "name", c.Name, "err", err)
		return
	}
	g.status = fmt.Sprintf("reloaded %s %s", c.Kind, c.Name)
	g.logger.Info("game: reloaded", "kind", c.Kind, "name", c.Name)
}

func (g *Game) copyTrace() {
	if !g.clipboardOK {
		g.status = "clipboard unavailable"
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(g.player.Trace.String()))
	g.status = fmt.Sprintf("copied %d trace lines", len(g.player.Trace.Lines()))
}

func (g *Game) stateColor(state string) color.Color {
	if c, ok := g.spec.StateColors[state]; ok && c.Color != nil {
		return c.Color
	}
	if c, ok := fallbackColors[state]; ok {
		return c
	}
	return colornames.White
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	vector.StrokeLine(screen, 0, groundY, common.BaseWidth, groundY, 2, colornames.Lightgrey, true)

	state, next := g.player.State()
	pos := g.player.Locomotor.Position()
	w, h := float32(g.spec.Body.Width), float32(g.spec.Body.Height)
	x := float32(common.BaseWidth/2+pos.X) - w/2
	y := float32(groundY+pos.Y) - h/2
	vector.DrawFilledRect(screen, x, y, w, h, g.stateColor(state), true)
	if next != "" {
		vector.StrokeRect(screen, x-3, y-3, w+6, h+6, 2, g.stateColor(next), true)
	}
	bar := float32(common.Clamp01(g.player.Progress()))
	vector.DrawFilledRect(screen, x, y-8, w*bar, 3, colornames.White, false)
	facing := g.player.Locomotor.Facing()
	vector.StrokeLine(screen, x+w/2, y+h/3, x+w/2+float32(facing.X)*w, y+h/3, 2, colornames.White, true)

	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.2f\n", ebiten.ActualFPS())
	fmt.Fprintf(&b, "state: %s", state)
	if next != "" {
		fmt.Fprintf(&b, " -> %s", next)
	}
	fmt.Fprintf(&b, "\nattack: %s  strikes: %d  rolling: %t  hits: %d\n",
		g.player.Attack.Phase(), g.player.Attack.Strikes(), g.player.Roll.IsRolling(), g.hits)
	b.WriteString("WASD move, arrows attack, space roll, H get hit, C copy trace, Esc pause\n")
	if g.status != "" {
		b.WriteString(g.status + "\n")
	}
	lines := g.player.Trace.Lines()
	if len(lines) > traceShown {
		lines = lines[len(lines)-traceShown:]
	}
	b.WriteString("\n" + strings.Join(lines, "\n"))
	ebitenutil.DebugPrint(screen, b.String())

	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
