// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Render  RenderConfig  `yaml:"render" toml:"render"`
	Model   ModelConfig   `yaml:"model" toml:"model"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width         int    `yaml:"width" toml:"width"`
	Height        int    `yaml:"height" toml:"height"`
	Fullscreen    bool   `yaml:"fullscreen" toml:"fullscreen"`
	VSync         bool   `yaml:"vsync" toml:"vsync"`
	MSAASamples   int    `yaml:"msaa_samples" toml:"msaa_samples"`
	ShowFPS       bool   `yaml:"show_fps" toml:"show_fps"`
	ScreenshotDir string `yaml:"screenshot_dir" toml:"screenshot_dir"`
}

// RenderConfig holds shader and lighting settings.
type RenderConfig struct {
	ShaderDir      string        `yaml:"shader_dir" toml:"shader_dir"` // empty uses the embedded templates
	WatchShaders   bool          `yaml:"watch_shaders" toml:"watch_shaders"`
	RenderType     string        `yaml:"render_type" toml:"render_type"` // default or hybrid2d
	ClearColor     [4]float32    `yaml:"clear_color" toml:"clear_color"`
	MaxTextureSize int           `yaml:"max_texture_size" toml:"max_texture_size"`
	Anisotropy     float32       `yaml:"anisotropy" toml:"anisotropy"`
	Ambient        [3]float32    `yaml:"ambient" toml:"ambient"`
	Lights         []LightConfig `yaml:"lights" toml:"lights"`
}

// LightConfig describes one directional light.
type LightConfig struct {
	Color     [3]float32 `yaml:"color" toml:"color"`
	Direction [3]float32 `yaml:"direction" toml:"direction"`
}

// ModelConfig holds the model to show and how to play it.
type ModelConfig struct {
	Path       string   `yaml:"path" toml:"path"`
	TextureDir string   `yaml:"texture_dir" toml:"texture_dir"` // empty uses the model's directory
	UnitScale  float32  `yaml:"unit_scale" toml:"unit_scale"`
	TimeScale  float32  `yaml:"time_scale" toml:"time_scale"` // keytime ms to frames
	Animations []string `yaml:"animations" toml:"animations"`
	AnimSpeed  float32  `yaml:"anim_speed" toml:"anim_speed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Width:         1280,
			Height:        720,
			Fullscreen:    false,
			VSync:         true,
			MSAASamples:   4,
			ScreenshotDir: "screenshots",
		},
		Render: RenderConfig{
			RenderType:     "default",
			ClearColor:     [4]float32{0.2, 0.3, 0.4, 1.0},
			MaxTextureSize: 2048,
			Anisotropy:     4,
			Ambient:        [3]float32{0.4, 0.4, 0.4},
			Lights: []LightConfig{
				{Color: [3]float32{0.8, 0.8, 0.8}, Direction: [3]float32{-1, -0.8, -0.2}},
			},
		},
		Model: ModelConfig{
			UnitScale: 0.01,
			TimeScale: 0.03,
			AnimSpeed: 1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
