package shaping

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = ShapeConfig{}
)

// ShapeConfig gathers the numerical settings of a shape solve: the free
// coefficient search window, the root finder budget, the quadrature order and
// the time to azimuth map sampling. Zero values fall back to the defaults.
type ShapeConfig struct {
	FreeCoefficientGuess float64
	FreeCoefficientLower float64
	FreeCoefficientUpper float64
	RootFinder           RootConfig
	QuadratureOrder      int
	InterpolationOrder   int
	InterpolationStep    float64 // nominal time step of the map samples, in seconds
	OutputDir            string
}

// DefaultShapeConfig returns the settings used when no configuration file is
// loaded. The free coefficient window is symmetric around zero, which covers
// moderately eccentric interplanetary transfers.
func DefaultShapeConfig() ShapeConfig {
	return ShapeConfig{
		FreeCoefficientGuess: 0,
		FreeCoefficientLower: -1e-1,
		FreeCoefficientUpper: 1e-1,
		RootFinder:           DefaultRootConfig(),
		QuadratureOrder:      DefaultQuadratureOrder,
		InterpolationOrder:   DefaultInterpolationOrder,
		InterpolationStep:    86400, // one day
	}
}

// normalized fills in the zero values from the defaults.
func (c ShapeConfig) normalized() ShapeConfig {
	def := DefaultShapeConfig()
	if c.FreeCoefficientLower == 0 && c.FreeCoefficientUpper == 0 {
		c.FreeCoefficientLower = def.FreeCoefficientLower
		c.FreeCoefficientUpper = def.FreeCoefficientUpper
	}
	if c.RootFinder.Tolerance == 0 {
		c.RootFinder.Tolerance = def.RootFinder.Tolerance
	}
	if c.RootFinder.MaxIterations == 0 {
		c.RootFinder.MaxIterations = def.RootFinder.MaxIterations
	}
	if c.QuadratureOrder == 0 {
		c.QuadratureOrder = def.QuadratureOrder
	}
	if c.InterpolationOrder == 0 {
		c.InterpolationOrder = def.InterpolationOrder
	}
	if c.InterpolationStep == 0 {
		c.InterpolationStep = def.InterpolationStep
	}
	return c
}

// LoadShapeConfig reads conf.toml from the directory in the SHAPING_CONFIG
// environment variable. The file is read once and cached.
func LoadShapeConfig() ShapeConfig {
	if cfgLoaded {
		return config
	}
	confPath := os.Getenv("SHAPING_CONFIG")
	if confPath == "" {
		panic("environment variable `SHAPING_CONFIG` is missing or empty")
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}

	config = ShapeConfig{
		FreeCoefficientGuess: viper.GetFloat64("freecoefficient.guess"),
		FreeCoefficientLower: viper.GetFloat64("freecoefficient.lower"),
		FreeCoefficientUpper: viper.GetFloat64("freecoefficient.upper"),
		RootFinder: RootConfig{
			Tolerance:     viper.GetFloat64("rootfinder.tolerance"),
			MaxIterations: uint(viper.GetInt("rootfinder.max_iterations")),
		},
		QuadratureOrder:    viper.GetInt("quadrature.order"),
		InterpolationOrder: viper.GetInt("interpolation.order"),
		InterpolationStep:  viper.GetFloat64("interpolation.step_seconds"),
		OutputDir:          viper.GetString("general.output_path"),
	}.normalized()
	cfgLoaded = true
	return config
}
