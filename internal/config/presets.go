package config

var Presets = map[string]*Config{
	"calm": {
		Engine: EngineConfig{
			GlobalAlpha: 0.9, LineWidth: 1.0, ScaleName: "ocean",
			VelocityScale: 0.005, MaxAge: 120, ParticleCount: 1500,
			FrameIntervalMs: 50,
		},
	},
	"storm": {
		Engine: EngineConfig{
			GlobalAlpha: 0.95, LineWidth: 1.5, ScaleName: "ember",
			VelocityScale: 0.02, MaxAge: 60, ParticleCount: 5000,
			FrameIntervalMs: 25,
		},
	},
	"dense": {
		Engine: EngineConfig{
			GlobalAlpha: 0.85, LineWidth: 1.0, ScaleName: "wind",
			VelocityScale: 0.01, MaxAge: 90, ParticleCount: 8000,
			FrameIntervalMs: 40,
		},
	},
	"sparse": {
		Engine: EngineConfig{
			GlobalAlpha: 0.9, LineWidth: 2.0, ScaleName: "mono",
			VelocityScale: 0.01, MaxAge: 150, ParticleCount: 500,
			FrameIntervalMs: 40,
		},
	},
}

func GetPreset(name string) *Config {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
