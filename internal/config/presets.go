package config

// Presets are named starting points; values not set here keep the defaults
// from DefaultConfig.
var Presets = map[string]*Config{
	"argon-nvt": {
		Preset: "argon", Integrator: "langevin",
		Steps: 20000, StepSize: 0.002, Temperature: 120.0, Friction: 1.0,
		Particles: 64, SampleEvery: 20,
	},
	"argon-adaptive": {
		Preset: "argon", Integrator: "variable-langevin",
		Steps: 10000, Temperature: 120.0, Friction: 1.0, ErrorTol: 1e-3,
		Particles: 64, SampleEvery: 20,
	},
	"chain-nve": {
		Preset: "chain", Integrator: "verlet",
		Steps: 50000, StepSize: 0.001, SampleEvery: 50,
	},
	"bead-chain": {
		Preset: "bead-chain", Integrator: "verlet",
		Steps: 20000, StepSize: 0.002, SampleEvery: 20,
	},
	"chain-rpmd": {
		Preset: "chain", Integrator: "rpmd",
		Steps: 5000, StepSize: 0.0005, Temperature: 100.0, Friction: 10.0,
		Copies: 16, SampleEvery: 10,
	},
}

func GetPreset(name string) *Config {
	base, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	merge(cfg, base)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}

func merge(dst, src *Config) {
	if src.Preset != "" {
		dst.Preset = src.Preset
	}
	if src.Integrator != "" {
		dst.Integrator = src.Integrator
	}
	if src.Backend != "" {
		dst.Backend = src.Backend
	}
	if src.Steps != 0 {
		dst.Steps = src.Steps
	}
	if src.StepSize != 0 {
		dst.StepSize = src.StepSize
	}
	if src.Temperature != 0 {
		dst.Temperature = src.Temperature
	}
	if src.Friction != 0 {
		dst.Friction = src.Friction
	}
	if src.ErrorTol != 0 {
		dst.ErrorTol = src.ErrorTol
	}
	if src.Seed != 0 {
		dst.Seed = src.Seed
	}
	if src.Copies != 0 {
		dst.Copies = src.Copies
	}
	if src.Particles != 0 {
		dst.Particles = src.Particles
	}
	if src.SampleEvery != 0 {
		dst.SampleEvery = src.SampleEvery
	}
	if src.DataDir != "" {
		dst.DataDir = src.DataDir
	}
}
