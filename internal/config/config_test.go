package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Render.ShaderDir != "" {
		t.Errorf("expected embedded shaders by default, got dir %s", cfg.Render.ShaderDir)
	}
	if cfg.Render.RenderType != "default" {
		t.Errorf("expected render type 'default', got %s", cfg.Render.RenderType)
	}
	if len(cfg.Render.Lights) != 1 {
		t.Errorf("expected one default light, got %d", len(cfg.Render.Lights))
	}

	if cfg.Model.UnitScale != 0.01 {
		t.Errorf("expected unit scale 0.01, got %f", cfg.Model.UnitScale)
	}
	if cfg.Model.TimeScale != 0.03 {
		t.Errorf("expected time scale 0.03, got %f", cfg.Model.TimeScale)
	}
	if cfg.Model.AnimSpeed != 1 {
		t.Errorf("expected anim speed 1, got %f", cfg.Model.AnimSpeed)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  msaa_samples: 8

render:
  shader_dir: "shaders"
  watch_shaders: true
  render_type: "hybrid2d"
  clear_color: [0, 0, 0, 1]
  lights:
    - color: [1, 0.9, 0.8]
      direction: [0, -1, 0]
    - color: [0.2, 0.2, 0.3]
      direction: [1, 0, 0]

model:
  path: "data/robot.g3dj"
  animations: ["walk", "wave"]
  anim_speed: 0.5

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if !cfg.Window.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Window.MSAASamples != 8 {
		t.Errorf("expected msaa 8, got %d", cfg.Window.MSAASamples)
	}

	if cfg.Render.ShaderDir != "shaders" || !cfg.Render.WatchShaders {
		t.Errorf("expected watched shader dir, got %q watch=%v", cfg.Render.ShaderDir, cfg.Render.WatchShaders)
	}
	if cfg.Render.RenderType != "hybrid2d" {
		t.Errorf("expected render type hybrid2d, got %s", cfg.Render.RenderType)
	}
	if cfg.Render.ClearColor != [4]float32{0, 0, 0, 1} {
		t.Errorf("expected black clear color, got %v", cfg.Render.ClearColor)
	}
	if len(cfg.Render.Lights) != 2 {
		t.Fatalf("expected 2 lights, got %d", len(cfg.Render.Lights))
	}
	if cfg.Render.Lights[0].Direction != [3]float32{0, -1, 0} {
		t.Errorf("unexpected first light direction %v", cfg.Render.Lights[0].Direction)
	}

	// unset keys keep their defaults
	if cfg.Render.MaxTextureSize != 2048 {
		t.Errorf("expected default max texture size 2048, got %d", cfg.Render.MaxTextureSize)
	}
	if cfg.Model.UnitScale != 0.01 {
		t.Errorf("expected default unit scale, got %f", cfg.Model.UnitScale)
	}

	if cfg.Model.Path != "data/robot.g3dj" {
		t.Errorf("expected model path data/robot.g3dj, got %s", cfg.Model.Path)
	}
	if len(cfg.Model.Animations) != 2 || cfg.Model.Animations[1] != "wave" {
		t.Errorf("expected animations [walk wave], got %v", cfg.Model.Animations)
	}
	if cfg.Model.AnimSpeed != 0.5 {
		t.Errorf("expected anim speed 0.5, got %f", cfg.Model.AnimSpeed)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromTOMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
[window]
width = 800
height = 600

[model]
path = "robot.g3dj"
animations = ["idle"]
time_scale = 0.06

[render]
clear_color = [1.0, 1.0, 1.0, 1.0]
ambient = [0.1, 0.1, 0.1]
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Model.Path != "robot.g3dj" {
		t.Errorf("expected model path robot.g3dj, got %s", cfg.Model.Path)
	}
	if cfg.Model.TimeScale != 0.06 {
		t.Errorf("expected time scale 0.06, got %f", cfg.Model.TimeScale)
	}
	if cfg.Render.ClearColor != [4]float32{1, 1, 1, 1} {
		t.Errorf("expected white clear color, got %v", cfg.Render.ClearColor)
	}
	if cfg.Render.Ambient != [3]float32{0.1, 0.1, 0.1} {
		t.Errorf("expected ambient 0.1, got %v", cfg.Render.Ambient)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative height", func(c *Config) { c.Window.Height = -1 }},
		{"zero unit scale", func(c *Config) { c.Model.UnitScale = 0 }},
		{"negative time scale", func(c *Config) { c.Model.TimeScale = -0.03 }},
		{"unknown render type", func(c *Config) { c.Render.RenderType = "isometric" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	tomlPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(tomlPath, []byte("[window]\nwidth = 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path = findConfigFile(); filepath.Base(path) != "config.toml" {
		t.Errorf("expected to find config.toml, got %q", path)
	}

	// yaml wins when both exist
	yamlPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(yamlPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path = findConfigFile(); filepath.Base(path) != "config.yaml" {
		t.Errorf("expected to find config.yaml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Window.ShowFPS {
					t.Error("expected show_fps to be enabled with debug flag")
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "model flag",
			setup: func() {
				*flagModel = "models/knight.g3dj"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Model.Path != "models/knight.g3dj" {
					t.Errorf("expected model path models/knight.g3dj, got %s", cfg.Model.Path)
				}
			},
			teardown: func() {
				*flagModel = ""
			},
		},
		{
			name: "shaders flag",
			setup: func() {
				*flagShaders = "assets/shaders"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Render.ShaderDir != "assets/shaders" {
					t.Errorf("expected shader dir assets/shaders, got %s", cfg.Render.ShaderDir)
				}
				if !cfg.Render.WatchShaders {
					t.Error("expected shaders flag to enable watching")
				}
			},
			teardown: func() {
				*flagShaders = ""
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Window.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// flag beats file
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("model:\n  unit_scale: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	for _, name := range []string{"saved.yaml", "saved.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := Default()
			cfg.Model.Path = "robot.g3dj"
			cfg.Model.Animations = []string{"walk"}
			cfg.Render.RenderType = "hybrid2d"
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("failed to save config: %v", err)
			}

			loaded := Default()
			if err := loadFromFile(loaded, path); err != nil {
				t.Fatalf("failed to reload config: %v", err)
			}
			if loaded.Model.Path != "robot.g3dj" {
				t.Errorf("expected model path robot.g3dj, got %s", loaded.Model.Path)
			}
			if len(loaded.Model.Animations) != 1 || loaded.Model.Animations[0] != "walk" {
				t.Errorf("expected animations [walk], got %v", loaded.Model.Animations)
			}
			if loaded.Render.RenderType != "hybrid2d" {
				t.Errorf("expected render type hybrid2d, got %s", loaded.Render.RenderType)
			}
		})
	}
}
