package stargen

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrMassOutOfRange = errors.New("stargen: mass outside the mass function domain")
	ErrUnimplemented  = errors.New("stargen: unimplemented")
)

const (
	// SunTemperature calibrates Temperature: a star with L = R = 1 is 5778 K.
	SunTemperature = 5778.0

	// CNOThreshold separates proton-proton chain from CNO cycle stars.
	CNOThreshold = 1.5
)

// Formula selects a set of main-sequence mass relations.
type Formula uint8

const (
	// Classic uses R = M^0.8 and L = M^3.5.
	Classic Formula = iota
	// Piecewise uses broken power laws fitted separately below and above a
	// knee mass.
	Piecewise
)

// ParseFormula accepts the names returned by String.
func ParseFormula(name string) (Formula, error) {
	switch name {
	case "classic", "":
		return Classic, nil
	case "piecewise":
		return Piecewise, nil
	}
	return Classic, fmt.Errorf("stargen: unknown formula %q", name)
}

func (f Formula) String() string {
	switch f {
	case Classic:
		return "classic"
	case Piecewise:
		return "piecewise"
	default:
		panic(fmt.Sprintf("stargen: unknown formula %d", uint8(f)))
	}
}

// Radius in solar radii.
func (f Formula) Radius(mass float64) float64 {
	switch f {
	case Classic:
		return math.Pow(mass, 0.8)
	case Piecewise:
		if mass < 1.66 {
			return math.Pow(mass, 0.89)
		}
		return 1.01 * math.Pow(mass, 0.57)
	default:
		panic(fmt.Sprintf("stargen: unknown formula %d", uint8(f)))
	}
}

// Luminosity in solar luminosities.
func (f Formula) Luminosity(mass float64) float64 {
	switch f {
	case Classic:
		return math.Pow(mass, 3.5)
	case Piecewise:
		if mass < 0.7 {
			return 0.20 * math.Pow(mass, 2.5)
		}
		return 1.15 * math.Pow(mass, 3.36)
	default:
		panic(fmt.Sprintf("stargen: unknown formula %d", uint8(f)))
	}
}

// Temperature is the surface temperature in kelvin given luminosity and
// radius, from L = R²(T/5778)⁴.
func Temperature(luminosity, radius float64) float64 {
	return SunTemperature * math.Pow(luminosity, 0.25) / math.Sqrt(radius)
}

// Properties are the defining physical quantities of a star.
type Properties struct {
	Mass        float64
	Radius      float64
	Luminosity  float64
	Temperature float64
	Category    Category
}

// Derive computes the properties of a star of the given mass at stage.
func (f Formula) Derive(stage Stage, mass float64) (Properties, error) {
	if math.IsNaN(mass) || mass < MinMass || mass > MaxMass {
		return Properties{}, fmt.Errorf("derive %s star of %g M☉: %w", stage, mass, ErrMassOutOfRange)
	}
	switch stage {
	case MainSequence:
		radius := f.Radius(mass)
		luminosity := f.Luminosity(mass)
		category := MainSeqPP
		if mass >= CNOThreshold {
			category = MainSeqCNO
		}
		return Properties{
			Mass:        mass,
			Radius:      radius,
			Luminosity:  luminosity,
			Temperature: Temperature(luminosity, radius),
			Category:    category,
		}, nil
	case GiantStage, CompactStage:
		return Properties{}, fmt.Errorf("derive %s star: %w", stage, ErrUnimplemented)
	default:
		panic(fmt.Sprintf("stargen: unknown stage %d", uint8(stage)))
	}
}

// Derive uses the Classic formula.
func Derive(stage Stage, mass float64) (Properties, error) {
	return Classic.Derive(stage, mass)
}
