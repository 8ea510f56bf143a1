// Package viewer implements the model viewer loop: it loads a g3dj model,
// plays its animations and renders it under an orbit camera.
package viewer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-g3d/internal/config"
	"github.com/Faultbox/midgard-g3d/internal/engine/camera"
	"github.com/Faultbox/midgard-g3d/internal/engine/debug"
	"github.com/Faultbox/midgard-g3d/internal/engine/input"
	"github.com/Faultbox/midgard-g3d/internal/engine/material"
	"github.com/Faultbox/midgard-g3d/internal/engine/model"
	"github.com/Faultbox/midgard-g3d/internal/engine/picking"
	"github.com/Faultbox/midgard-g3d/internal/engine/renderer"
	"github.com/Faultbox/midgard-g3d/internal/engine/shader"
	"github.com/Faultbox/midgard-g3d/internal/engine/texture"
	"github.com/Faultbox/midgard-g3d/internal/engine/window"
	"github.com/Faultbox/midgard-g3d/internal/logger"
)

const title = "Midgard G3D"

// Viewer is the main viewer instance.
type Viewer struct {
	config  *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	cache    *shader.Cache
	watcher  *shader.Watcher
	textures *texture.Loader

	camera      *camera.OrbitCamera
	env         *material.Environment
	frame       shader.Frame
	screenshots *debug.Screenshots
	capture     bool

	model  *model.Model
	inst   *model.Instance
	player *Player
}

// New creates the window, the renderer and loads cfg.Model.Path if set.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	renderType, err := shader.ParseRenderType(cfg.Render.RenderType)
	if err != nil {
		return nil, err
	}

	v := &Viewer{
		config:      cfg,
		camera:      camera.NewOrbitCamera(),
		env:         NewEnvironment(cfg.Render),
		frame:       shader.Frame{RenderType: renderType},
		screenshots: debug.NewScreenshots(cfg.Window.ScreenshotDir, "modelview"),
	}

	// Window first: it owns the OpenGL context.
	v.window, err = window.New(window.Config{
		Title:       title,
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		Fullscreen:  cfg.Window.Fullscreen,
		VSync:       cfg.Window.VSync,
		MSAASamples: cfg.Window.MSAASamples,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	templates := shader.DefaultTemplates()
	if dir := cfg.Render.ShaderDir; dir != "" {
		if templates, err = shader.LoadTemplates(dir); err != nil {
			v.window.Close()
			return nil, fmt.Errorf("failed to load shaders: %w", err)
		}
	}
	v.cache = shader.NewCache(shader.GLCompiler{}, templates)

	width, height := v.window.GetDrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: cfg.Render.ClearColor,
	}, v.cache)
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	if cfg.Render.ShaderDir != "" && cfg.Render.WatchShaders {
		v.watcher, err = shader.NewWatcher(cfg.Render.ShaderDir)
		if err != nil {
			// Hot reload is a convenience; run with the loaded templates.
			logger.Warn("shader watching disabled", zap.Error(err))
		}
	}

	v.input = input.New()

	if cfg.Model.Path != "" {
		if err := v.load(cfg.Model.Path); err != nil {
			v.Close()
			return nil, err
		}
	}

	logger.Info("viewer initialized successfully")
	return v, nil
}

// load replaces the shown model with the one at path.
func (v *Viewer) load(path string) error {
	texDir := v.config.Model.TextureDir
	if texDir == "" {
		texDir = filepath.Dir(path)
	}
	textures := texture.NewLoader(texDir, texture.GLUploader{Anisotropy: v.config.Render.Anisotropy})
	textures.MaxSize = v.config.Render.MaxTextureSize

	opts := model.LoadOptions{
		UnitScale: v.config.Model.UnitScale,
		TimeScale: v.config.Model.TimeScale,
		Textures:  textures.Load,
	}
	m, err := model.LoadFile(path, opts)
	if err != nil {
		textures.Dispose()
		return fmt.Errorf("loading model %s: %w", path, err)
	}
	inst, err := model.NewInstance(m)
	if err != nil {
		textures.Dispose()
		return fmt.Errorf("instancing model %s: %w", path, err)
	}
	// keytime units per second: ms * TimeScale
	player, err := NewPlayer(inst, v.config.Model.Animations, 1000*v.config.Model.TimeScale)
	if err != nil {
		textures.Dispose()
		return fmt.Errorf("model %s: %w", path, err)
	}
	player.Speed = v.config.Model.AnimSpeed

	v.unload()
	v.model, v.inst, v.player, v.textures = m, inst, player, textures

	inst.CalcTransforms()
	if b := inst.Bounds(); !b.Empty() {
		v.camera.FitToBounds(b.Min, b.Max)
	}

	v.window.SetTitle(title + " - " + filepath.Base(path))
	logger.Info("model loaded",
		zap.String("path", path),
		zap.Int("nodes", inst.Nodes.Len()),
		zap.Int("materials", len(m.Materials())),
		zap.Strings("animations", m.AnimIDs()),
	)
	return nil
}

func (v *Viewer) unload() {
	if v.model != nil {
		v.renderer.Release(v.model)
	}
	if v.textures != nil {
		v.textures.Dispose()
	}
	v.model, v.inst, v.player, v.textures = nil, nil, nil, nil
}

// Run starts the main loop. It returns when the window is closed, ESC is
// pressed or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	v.running = true

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if v.watcher != nil {
		go v.watcher.Run(ctx)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting viewer loop")

	for v.running {
		if ctx.Err() != nil {
			break
		}

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		v.update(float32(dt))
		v.render()
		if v.capture {
			v.capture = false
			v.saveScreenshot()
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if v.config.Window.ShowFPS {
				logger.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", time.Duration(dt*float64(time.Second))))
			}
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			// Event sizes are in screen coordinates; the viewport wants pixels.
			v.renderer.Resize(v.window.GetDrawableSize())
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_SPACE:
				if v.player != nil {
					v.player.Paused = !v.player.Paused
				}
			case sdl.SCANCODE_R:
				if v.player != nil {
					v.player.Reset()
				}
			case sdl.SCANCODE_F:
				if v.inst != nil {
					if b := v.inst.Bounds(); !b.Empty() {
						v.camera.FitToBounds(b.Min, b.Max)
					}
				}
			case sdl.SCANCODE_F12:
				v.capture = true
			}
		case input.EventMouseDown:
			if event.Button == sdl.BUTTON_RIGHT {
				v.pick(event.MouseX, event.MouseY)
			}
		case input.EventDropFile:
			if err := v.load(event.File); err != nil {
				logger.Warn("failed to load dropped model", zap.String("path", event.File), zap.Error(err))
			}
		}
	}
}

func (v *Viewer) update(dt float32) {
	if v.watcher != nil {
		select {
		case t := <-v.watcher.Reloads():
			v.cache.SetTemplates(t)
		default:
		}
	}

	if v.input.IsButtonDown(sdl.BUTTON_LEFT) {
		v.camera.HandleDrag(v.input.Drag())
	}
	if wheel := v.input.Wheel(); wheel != 0 {
		v.camera.HandleZoom(wheel)
	}

	var forward, right, up float32
	if v.input.IsKeyDown(sdl.SCANCODE_W) {
		forward++
	}
	if v.input.IsKeyDown(sdl.SCANCODE_S) {
		forward--
	}
	if v.input.IsKeyDown(sdl.SCANCODE_D) {
		right++
	}
	if v.input.IsKeyDown(sdl.SCANCODE_A) {
		right--
	}
	if v.input.IsKeyDown(sdl.SCANCODE_E) {
		up++
	}
	if v.input.IsKeyDown(sdl.SCANCODE_Q) {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		// camera pan steps are tuned per 60Hz frame
		step := dt * 60
		v.camera.HandleMovement(forward*step, right*step, up*step)
	}

	if v.player != nil {
		v.player.Update(dt)
	}
}

func (v *Viewer) render() {
	width, height := v.renderer.Size()
	aspect := float32(width) / float32(max(height, 1))

	v.frame.Combined = v.camera.Combined(aspect)
	v.frame.CamPos = v.camera.Position()
	v.frame.Width, v.frame.Height = float32(width), float32(height)
	v.frame.ViewWidth, v.frame.ViewHeight = v.camera.ViewSize(aspect)

	v.renderer.Begin()
	if v.inst != nil {
		stats := v.renderer.Draw(&v.frame, v.env, v.inst)
		if stats.Skipped > 0 {
			logger.Debug("views skipped", zap.Int("skipped", stats.Skipped), zap.Int("drawn", stats.Drawn))
		}
	}
	v.renderer.End()
}

// pick logs the node under the window position x, y.
func (v *Viewer) pick(x, y int) {
	if v.inst == nil {
		return
	}
	winW, winH := v.window.GetSize()
	width, height := v.renderer.Size()
	aspect := float32(width) / float32(max(height, 1))
	ray := picking.ScreenToRay(float32(x), float32(y), float32(winW), float32(winH), v.camera.Combined(aspect).Inverse())

	hit, ok := picking.PickNode(v.inst, ray)
	if !ok {
		logger.Info("nothing picked")
		return
	}
	pos := hit.Node.World.Translation()
	logger.Info("node picked",
		zap.String("node", hit.Node.ID),
		zap.Float32("distance", hit.Distance),
		zap.Float32s("position", []float32{pos.X, pos.Y, pos.Z}),
	)
}

func (v *Viewer) saveScreenshot() {
	img, err := debug.ReadFramebuffer(v.renderer.Size())
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	path, err := v.screenshots.Save(img)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases every resource in reverse creation order.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.renderer != nil {
		v.unload()
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
