// Command client-ebitengine plays a broadside battle locally with a
// top-down view. The player's ship is steered with the keyboard through
// its crew's order queue; with -listen set, remote helms may join too.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	stlog "log/slog"
	"math"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/irishsmurf/go-broadside/battle"
	"github.com/irishsmurf/go-broadside/config"
	"github.com/irishsmurf/go-broadside/game"
	"github.com/irishsmurf/go-broadside/queue"
	"github.com/irishsmurf/go-broadside/server"
)

const (
	screenWidth  = 1024
	screenHeight = 768
	flashTime    = 0.6
)

var configPath = flag.String("config", "", "path to a config file")
var listenAddr = flag.String("listen", "", "also accept remote helms on this address, e.g. :8080")

var (
	seaColor      = color.RGBA{R: 20, G: 50, B: 90, A: 255}
	wakeColor     = color.RGBA{R: 200, G: 220, B: 240, A: 120}
	playerColor   = color.RGBA{R: 240, G: 200, B: 60, A: 255}
	shotColor     = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	hitColor      = color.RGBA{R: 255, G: 120, B: 0, A: 255}
	splashColor   = color.RGBA{R: 220, G: 240, B: 255, A: 255}
	windColor     = color.RGBA{R: 255, G: 255, B: 255, A: 200}
	factionColors = []color.RGBA{
		playerColor,
		{R: 200, G: 60, B: 60, A: 255},
		{R: 60, G: 180, B: 90, A: 255},
		{R: 170, G: 90, B: 200, A: 255},
	}
)

var keyBindings = map[game.KeyAction][]ebiten.Key{
	game.KeyTurnLeft:  {ebiten.KeyA, ebiten.KeyLeft},
	game.KeyTurnRight: {ebiten.KeyD, ebiten.KeyRight},
	game.KeySpeedUp:   {ebiten.KeyW, ebiten.KeyUp},
	game.KeySlowDown:  {ebiten.KeyS, ebiten.KeyDown},
	game.KeyFire:      {ebiten.KeySpace},
}

// flash is a short-lived marker drawn where a sound played.
type flash struct {
	pos   mgl64.Vec3
	sound game.Sound
	left  float64
}

// presenter collects sound cues from the World for drawing.
type presenter struct {
	logger  *stlog.Logger
	flashes []flash
}

func (p *presenter) Spawned(obj game.Object) {}

func (p *presenter) Destroyed(obj game.Object) {
	if s, ok := obj.(*game.Ship); ok {
		p.logger.Debug("Ship removed", "ship", s.Name())
	}
}

func (p *presenter) PlaySound(sound game.Sound, pos mgl64.Vec3) {
	if sound == game.SoundCannon {
		return
	}
	p.flashes = append(p.flashes, flash{pos: pos, sound: sound, left: flashTime})
}

func (p *presenter) update(dt float64) {
	kept := p.flashes[:0]
	for _, f := range p.flashes {
		f.left -= dt
		if f.left > 0 {
			kept = append(kept, f)
		}
	}
	p.flashes = kept
}

// Game is the ebiten game. Simulation and drawing both run on ebiten's
// update goroutine.
type Game struct {
	battle    *battle.Battle
	presenter *presenter
	keys      *game.KeyControls

	cameraX float64
	cameraZ float64
	zoom    float64
}

func NewGame(b *battle.Battle, p *presenter) *Game {
	g := &Game{battle: b, presenter: p, zoom: 6}
	if player := b.Player(); player != nil {
		g.keys = game.NewKeyControls(player.Orders(), b.World().Rand())
		g.cameraX, g.cameraZ = player.Pos.X(), player.Pos.Z()
	}
	return g
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	dt := 1.0 / float64(ebiten.TPS())

	if g.keys != nil && g.battle.PlayerActive() {
		g.keys.Update(dt, heldActions())
	}
	g.battle.Update(dt)
	g.presenter.update(dt)

	_, wheelY := ebiten.Wheel()
	if wheelY > 0 {
		g.zoom *= 1.1
	} else if wheelY < 0 {
		g.zoom /= 1.1
	}
	g.zoom = math.Max(1, math.Min(g.zoom, 30))

	if player := g.battle.Player(); player != nil && g.battle.World().Contains(player) {
		lerpFactor := 0.1
		g.cameraX += (player.Pos.X() - g.cameraX) * lerpFactor
		g.cameraZ += (player.Pos.Z() - g.cameraZ) * lerpFactor
	}
	return nil
}

func heldActions() map[game.KeyAction]bool {
	held := make(map[game.KeyAction]bool, len(keyBindings))
	for action, keys := range keyBindings {
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				held[action] = true
			}
		}
	}
	return held
}

// worldToScreen projects the sea plane seen from above: +z is up the
// screen and +x, the port side of a ship heading up, is to the left.
func (g *Game) worldToScreen(p mgl64.Vec3) (float32, float32) {
	x := screenWidth/2 - (p.X()-g.cameraX)*g.zoom
	y := screenHeight/2 - (p.Z()-g.cameraZ)*g.zoom
	return float32(x), float32(y)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(seaColor)
	world := g.battle.World()

	for _, s := range world.Ships() {
		trail := s.Wake().Trail()
		for i := 1; i < len(trail); i++ {
			x0, y0 := g.worldToScreen(trail[i-1])
			x1, y1 := g.worldToScreen(trail[i])
			vector.StrokeLine(screen, x0, y0, x1, y1, 2, wakeColor, true)
		}
	}

	for _, s := range world.Ships() {
		g.drawShip(screen, s)
	}

	for _, c := range world.Cannonballs() {
		x, y := g.worldToScreen(c.Pos)
		vector.DrawFilledCircle(screen, x, y, float32(math.Max(2, 0.3*g.zoom)), shotColor, true)
	}

	for _, f := range g.presenter.flashes {
		x, y := g.worldToScreen(f.pos)
		c := splashColor
		if f.sound != game.SoundSplash {
			c = hitColor
		}
		r := float32((flashTime - f.left + 0.2) * 2 * g.zoom)
		vector.StrokeCircle(screen, x, y, r, 2, c, true)
	}

	g.drawWind(screen, world.WindAngle())
	g.drawStatus(screen)
}

func (g *Game) drawShip(screen *ebiten.Image, s *game.Ship) {
	c := factionColors[s.Faction()%len(factionColors)]
	if !s.Alive() {
		c = color.RGBA{R: c.R / 3, G: c.G / 3, B: c.B / 3, A: 255}
	}
	fwd := s.Forward()
	port := s.PortVector()
	bow := s.Pos.Add(fwd.Mul(4.5))
	stern := s.Pos.Sub(fwd.Mul(4.5))
	portQuarter := stern.Add(port.Mul(1.4))
	starQuarter := stern.Sub(port.Mul(1.4))
	portBeam := s.Pos.Add(port.Mul(1.4))
	starBeam := s.Pos.Sub(port.Mul(1.4))

	var path vector.Path
	moveTo := func(p mgl64.Vec3) { x, y := g.worldToScreen(p); path.MoveTo(x, y) }
	lineTo := func(p mgl64.Vec3) { x, y := g.worldToScreen(p); path.LineTo(x, y) }
	moveTo(bow)
	lineTo(portBeam)
	lineTo(portQuarter)
	lineTo(starQuarter)
	lineTo(starBeam)
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(c.R) / 255
		vs[i].ColorG = float32(c.G) / 255
		vs[i].ColorB = float32(c.B) / 255
		vs[i].ColorA = 1
	}
	screen.DrawTriangles(vs, is, whitePixel, &ebiten.DrawTrianglesOptions{AntiAlias: true})

	if s.Alive() {
		x, y := g.worldToScreen(s.Pos.Add(port.Mul(2)))
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %d/%d", s.Name(), s.Health(), s.MaxHealth()), int(x)+6, int(y)-8)
	}
}

func (g *Game) drawWind(screen *ebiten.Image, angle float64) {
	const cx, cy, length = screenWidth - 60, 60, 40
	// Screen x runs opposite to world x.
	dx := -math.Sin(angle) * length
	dy := -math.Cos(angle) * length
	x0, y0 := float32(cx-dx/2), float32(cy-dy/2)
	x1, y1 := float32(cx+dx/2), float32(cy+dy/2)
	vector.StrokeLine(screen, x0, y0, x1, y1, 3, windColor, true)
	vector.DrawFilledCircle(screen, x1, y1, 5, windColor, true)
	ebitenutil.DebugPrintAt(screen, "wind", cx-12, cy+28)
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	text := fmt.Sprintf("FPS: %.1f\nKills: %d\nRemote helms: %d", ebiten.ActualFPS(), g.battle.Kills(), g.battle.RemoteClients())
	if player := g.battle.Player(); player != nil {
		if g.battle.PlayerActive() {
			text += fmt.Sprintf("\nHealth: %d/%d\nSail: %d  Helm: %.1f\nSpeed: %.1f\nOrders queued: %d",
				player.Health(), player.MaxHealth(), player.SailLevel(), player.Helm().Current(), player.Speed(), player.Orders().Len())
		} else {
			text += "\nYour ship is lost. Esc to quit."
		}
	}
	text += "\n\nA/D helm, W/S sail, Space fire\nHold longer for a stronger order"
	ebitenutil.DebugPrint(screen, text)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

func main() {
	flag.Parse()
	logger := stlog.New(stlog.NewTextHandler(os.Stderr, nil))
	stlog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	seed := cfg.Sim.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	p := &presenter{logger: logger}
	world := game.NewWorld(cfg.Game(), p, rand.New(rand.NewSource(seed)), logger.With("component", "world"))

	var b *battle.Battle
	if *listenAddr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		commands := queue.New[string]()
		events := queue.New[server.SystemEvent]()
		hub := server.NewHub(commands, events, logger)
		go hub.Run(ctx)
		b = battle.New(world, cfg.Battle, cfg.AI, commands, events, hub, logger)

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
			server.ServeWs(hub, w, r)
		})
		go func() {
			logger.Info("Accepting remote helms", "addr", *listenAddr)
			if err := http.ListenAndServe(*listenAddr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("ListenAndServe error", "error", err)
			}
		}()
	} else {
		b = battle.New(world, cfg.Battle, cfg.AI, nil, nil, nil, logger)
	}
	b.Start()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Broadside")
	ebiten.SetTPS(int(cfg.Sim.TickRate))
	if err := ebiten.RunGame(NewGame(b, p)); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("Game exited with error", "error", err)
		os.Exit(1)
	}
}
