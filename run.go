package arbor

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window and loop used by Run.
type RunConfig struct {
	Title      string `toml:"title"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	TPS        int    `toml:"tps"` // ticks per second; 0 keeps ebiten's default
	Debug      bool   `toml:"debug"`
	ClearColor Color  `toml:"clear_color"`
}

// DefaultRunConfig returns the settings used for fields a config file does
// not set.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Title:      "arbor",
		Width:      640,
		Height:     480,
		ClearColor: Color{0, 0, 0, 1},
	}
}

// LoadRunConfig reads a TOML file on top of DefaultRunConfig. Unknown keys
// are rejected.
func LoadRunConfig(path string) (RunConfig, error) {
	cfg := DefaultRunConfig()
	if err := cfg.Load(path); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// Load decodes a TOML file over the current values of c, so keys the file
// omits keep their values. c is left unchanged on error.
func (c *RunConfig) Load(path string) error {
	cfg := *c
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fmt.Errorf("load run config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("load run config: unknown keys %s", strings.Join(keys, ", "))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("load run config: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	*c = cfg
	return nil
}

// Game drives a Graph from ebiten: each tick it runs the user update
// function and Graph.Update, and each frame it draws the globally visible
// sprites through every enabled camera.
type Game struct {
	graph    *Graph
	cfg      RunConfig
	updateFn func() error
	width    int
	height   int
	white    *ebiten.Image
	stats    frameStats
}

// NewGame wraps g for use with ebiten.RunGame.
func NewGame(g *Graph, cfg RunConfig) *Game {
	g.SetDebugMode(cfg.Debug)
	return &Game{graph: g, cfg: cfg, width: cfg.Width, height: cfg.Height}
}

// SetUpdateFunc sets a callback run at the start of every tick, before the
// graph update. A non-nil error stops the game.
func (gm *Game) SetUpdateFunc(fn func() error) {
	gm.updateFn = fn
}

// Graph returns the driven graph.
func (gm *Game) Graph() *Graph {
	return gm.graph
}

// Update implements ebiten.Game.
func (gm *Game) Update() error {
	if gm.updateFn != nil {
		if err := gm.updateFn(); err != nil {
			return err
		}
	}
	tps := gm.cfg.TPS
	if tps <= 0 {
		tps = ebiten.TPS()
	}
	dt := 1 / float64(tps)

	var t0 time.Time
	if gm.graph.debug {
		t0 = time.Now()
	}
	gm.graph.Update(Vec2{float64(gm.width), float64(gm.height)}, dt)
	if gm.graph.debug {
		gm.stats.record(gm.graph.logger, dt, time.Since(t0), gm.graph.Len())
	}
	return nil
}

// Layout implements ebiten.Game. The render target is the window size.
func (gm *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	gm.width, gm.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Draw implements ebiten.Game.
func (gm *Game) Draw(screen *ebiten.Image) {
	screen.Fill(gm.cfg.ClearColor.toRGBA())
	if gm.white == nil {
		gm.white = ebiten.NewImage(1, 1)
		gm.white.Fill(color.White)
	}

	drawn := false
	for _, n := range gm.graph.Walk() {
		if n.Type != NodeTypeCamera || n.Camera == nil || !n.Camera.Enabled {
			continue
		}
		vp := n.Camera.ViewportPixels()
		target := screen.SubImage(image.Rect(
			int(vp.X), int(vp.Y),
			int(vp.X+vp.Width), int(vp.Y+vp.Height),
		)).(*ebiten.Image)
		gm.drawSprites(target, n.Camera.ViewMatrix(), vp)
		drawn = true
	}
	if !drawn {
		// No camera: world coordinates are screen pixels.
		b := screen.Bounds()
		gm.drawSprites(screen, identityTransform, Rect{0, 0, float64(b.Dx()), float64(b.Dy())})
	}
}

// drawSprites draws sprites in tree order, skipping those outside bounds.
func (gm *Game) drawSprites(target *ebiten.Image, view Matrix, bounds Rect) {
	var op ebiten.DrawImageOptions
	for _, n := range gm.graph.Walk() {
		if n.Type != NodeTypeSprite || !n.globalVisibility {
			continue
		}
		m := view.Mul(n.globalTransform)
		if !worldAABB(m, n.Size.X, n.Size.Y).Intersects(bounds) {
			continue
		}
		m = m.Mul(ScaleMatrix(n.Size))

		op.GeoM = geoM(m)
		op.ColorScale.Reset()
		op.ColorScale.ScaleWithColor(n.Color.toRGBA())
		target.DrawImage(gm.white, &op)
	}
}

func geoM(m Matrix) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// Run opens a window and drives g until the window closes or the update
// function returns an error.
func Run(g *Graph, cfg RunConfig) error {
	return RunGame(NewGame(g, cfg))
}

// RunGame opens a window for an already configured Game.
func RunGame(gm *Game) error {
	cfg := gm.cfg
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	gm.graph.logger.Debug("starting game loop", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height)
	return ebiten.RunGame(gm)
}
