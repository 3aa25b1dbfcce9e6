package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/attractor/internal/camera"
	"github.com/san-kum/attractor/internal/metrics"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
)

var (
	ColBg      = rl.NewColor(4, 4, 8, 255)
	ColSkybox  = rl.NewColor(40, 32, 28, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(160, 150, 140, 255)
	ColTextDim = rl.NewColor(70, 64, 60, 255)
	ColPoint   = rl.NewColor(255, 255, 255, 200)
)

const (
	screenWidth  = 1280
	screenHeight = 720

	orbitSensitivity = 0.005
	wheelZoom        = 0.9
)

// App is a raylib window driving one simulation.
type App struct {
	Sim       *sim.Simulation
	Name      string
	FPS       int
	Telemetry *metrics.Series
	ShowHUD   bool

	frame *sim.Frame
	err   error
	quit  bool
}

// NewApp wraps s. The window is not opened until Run.
func NewApp(s *sim.Simulation, name string, fps int) *App {
	if fps <= 0 {
		fps = 60
	}
	return &App{
		Sim:       s,
		Name:      name,
		FPS:       fps,
		Telemetry: metrics.NewSeries("mean_speed", 200),
		ShowHUD:   true,
	}
}

func (a *App) initWindow() {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(screenWidth, screenHeight, "attractor")
	rl.SetTargetFPS(int32(a.FPS))
	rl.SetExitKey(0)
	rl.SetClipPlanes(camera.DefaultNear, camera.DefaultFar)
	a.resize()
}

// Run opens the window and blocks until it is closed or Q is pressed.
func Run(s *sim.Simulation, name string, fps int) {
	app := NewApp(s, name, fps)
	app.initWindow()
	defer rl.CloseWindow()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) resize() {
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	if h > 0 {
		a.Sim.SetAspect(float64(w) / float64(h))
	}
}

// Update handles input and advances one frame.
func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.quit = true
		return
	}
	if rl.IsWindowResized() {
		a.resize()
	}

	if rl.IsKeyPressed(rl.KeyV) {
		a.Sim.ToggleViewMode()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Sim.SetPaused(!a.Sim.Paused())
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		a.err = a.Sim.SetTimeMultiplier(a.Sim.TimeMultiplier() / 2)
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		a.err = a.Sim.SetTimeMultiplier(a.Sim.TimeMultiplier() * 2)
	}
	for i, k := range []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree, rl.KeyFour} {
		if rl.IsKeyPressed(k) {
			a.err = a.Sim.Restart(physics.Quality(i))
			a.Telemetry.Reset()
		}
	}

	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		d := rl.GetMouseDelta()
		a.Sim.Orbit(-float64(d.X)*orbitSensitivity, -float64(d.Y)*orbitSensitivity)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		factor := wheelZoom
		if wheel < 0 {
			factor = 1 / wheelZoom
		}
		a.Sim.Zoom(factor)
	}

	a.frame = a.Sim.AdvanceFrame()
	if v, ok := a.Sim.Metrics()["mean_speed"]; ok && !a.Sim.Paused() {
		a.Telemetry.Push(v)
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	if a.frame != nil {
		a.drawScene(a.frame)
		if a.ShowHUD {
			a.DrawHUD()
		}
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	f := a.frame
	rl.DrawText("attractor", 30, 30, 24, ColSelect)
	rl.DrawText(":: "+a.Name, 160, 34, 16, ColText)

	view := f.ViewMode.String()
	if f.State == camera.NoField {
		view += " (idle)"
	}
	y := int32(70)
	for _, line := range []string{
		"camera     " + view,
		fmt.Sprintf("particles  %d", len(f.Particles)),
		fmt.Sprintf("time       %.2fs", f.Elapsed),
		fmt.Sprintf("speed      x%g", a.Sim.TimeMultiplier()),
		fmt.Sprintf("degenerate %d", f.Diagnostics.DegenerateContacts),
	} {
		rl.DrawText(line, 30, y, 14, ColText)
		y += 18
	}

	status, col := "RUNNING", ColSelect
	if a.Sim.Paused() {
		status, col = "PAUSED", ColTextDim
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	rl.DrawText(status, w-130, 30, 16, col)
	if a.err != nil {
		rl.DrawText(a.err.Error(), 30, h-70, 14, rl.Red)
	}

	a.DrawTelemetry(30, h-140, 400, 50)
	rl.DrawText("[V] VIEW  [DRAG] ORBIT  [WHEEL] ZOOM  [1-4] QUALITY  [SPACE] PAUSE  [ ] SPEED  [Q] QUIT", 30, h-30, 14, ColTextDim)
	rl.DrawFPS(w-100, h-30)
}

// DrawTelemetry plots the telemetry series as a line graph in the given box.
func (a *App) DrawTelemetry(x, y, width, height int32) {
	vals := a.Telemetry.Values()
	if len(vals) < 2 {
		return
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo, hi = min(lo, v), max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	prev := rl.NewVector2(0, 0)
	for i, v := range vals {
		px := float32(x) + float32(i)/float32(len(vals)-1)*float32(width)
		py := float32(y+height) - float32((v-lo)/(hi-lo))*float32(height)
		p := rl.NewVector2(px, py)
		if i > 0 {
			rl.DrawLineV(prev, p, ColText)
		}
		prev = p
	}
	rl.DrawText(a.Telemetry.Name, x, y-16, 12, ColTextDim)
}
