// Command desktop plays a single local session in a window.
package main

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/joho/godotenv"

	"github.com/rocketscienceinc/pelmanism/internal/config"
	"github.com/rocketscienceinc/pelmanism/internal/entity"
	"github.com/rocketscienceinc/pelmanism/internal/pkg"
	"github.com/rocketscienceinc/pelmanism/internal/service"
)

const windowScale = 4

var (
	colorBackground = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	colorGrid       = color.RGBA{R: 110, G: 110, B: 110, A: 255}
	colorHover      = color.RGBA{R: 60, G: 90, B: 160, A: 255}
	colorCollected  = color.RGBA{R: 200, G: 60, B: 60, A: 255}
)

var errQuit = errors.New("quit")

type desktopGame struct {
	session  *service.GameSession
	snapshot *entity.Snapshot
	width    int
	height   int
}

func main() {
	_ = godotenv.Load()

	baseDir, err := os.Getwd()
	if err != nil {
		panic(fmt.Errorf("failed to get current directory: %w", err))
	}

	conf := config.MustLoad(filepath.Join(baseDir, "./config.yml"))
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLogLevel(conf.LogLevel)}))

	id, err := pkg.GenerateSessionID()
	if err != nil {
		panic(fmt.Errorf("failed to generate session id: %w", err))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // placement only

	session, err := service.NewGameSession(logger, id, conf.Game.Options(), rng)
	if err != nil {
		panic(fmt.Errorf("failed to create session: %w", err))
	}

	game := &desktopGame{
		session:  session,
		snapshot: session.Snapshot(),
		width:    int(conf.Game.Width),
		height:   int(conf.Game.Height),
	}

	ebiten.SetTPS(conf.Game.FrameRate)
	ebiten.SetWindowSize(game.width*windowScale, game.height*windowScale)
	ebiten.SetWindowTitle("Pelmanism")

	if err = ebiten.RunGame(game); err != nil && !errors.Is(err, errQuit) {
		logger.Error("game stopped", "error", err)
		os.Exit(1)
	}
}

func (that *desktopGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

	cx, cy := ebiten.CursorPosition()

	input := &service.Input{
		X:       float64(cx),
		Y:       float64(cy),
		Select:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Restart: inpututil.IsKeyJustPressed(ebiten.KeyR),
	}

	snapshot, err := that.session.Step(input)
	if err != nil {
		return fmt.Errorf("failed to step session: %w", err)
	}

	that.snapshot = snapshot

	return nil
}

func (that *desktopGame) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	snap := that.snapshot
	geometry := snap.Geometry
	size := float32(geometry.CellSize)

	drawGrid(screen, snap)

	cx, cy := ebiten.CursorPosition()
	if cell := that.session.Board().CellUnder(float64(cx), float64(cy)); cell != nil {
		vector.DrawFilledRect(screen, float32(cell.Left())+1, float32(cell.Top())+1, size-2, size-2, colorHover, false)
	}

	for _, cell := range snap.Cells {
		left := float32(geometry.OriginX) + float32(cell.X)*size
		top := float32(geometry.OriginY) + float32(cell.Y)*size

		if cell.Collected {
			vector.StrokeRect(screen, left+1, top+1, size-2, size-2, 1, colorCollected, false)
		}

		if cell.Symbol != "" {
			ebitenutil.DebugPrintAt(screen, cell.Symbol, int(left+size/2)-3, int(top+size/2)-8)
		}
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d Clicked!", snap.ClickCount), 5, 0)

	if snap.BannerVisible {
		ebitenutil.DebugPrintAt(screen, "Congratulations!", that.width/2-48, that.height-20)
	}
}

func drawGrid(screen *ebiten.Image, snap *entity.Snapshot) {
	geometry := snap.Geometry
	left := float32(geometry.OriginX)
	top := float32(geometry.OriginY)
	extent := float32(geometry.CellSize) * float32(snap.Side)

	for i := 0; i <= snap.Side; i++ {
		offset := float32(i) * float32(geometry.CellSize)
		vector.StrokeLine(screen, left+offset, top, left+offset, top+extent, 1, colorGrid, false)
		vector.StrokeLine(screen, left, top+offset, left+extent, top+offset, 1, colorGrid, false)
	}
}

func (that *desktopGame) Layout(_, _ int) (int, int) {
	return that.width, that.height
}
