// Package format renders raw lengths, areas and coordinates as display
// strings for a unit system.
package format

import (
	"github.com/sells-group/measure-cli/internal/units"
)

// Conversion factors from SI units.
const (
	feetPerMeter             = 3.28084
	squareFeetPerSquareMeter = 10.7639111056
)

// Unit thresholds, expressed in the converted unit.
const (
	feetPerMile        = 5280
	metersPerKilometer = 1000

	squareFeetQuarterMile  = 6969600  // 0.25 mi²
	squareFeetPerMile      = 27878400 // 1 mi²
	squareFeetPerAcre      = 43560
	acreAnnexMin           = 4356     // 0.1 ac
	acreAnnexMax           = 43560000 // 1000 ac
	squareMetersQuarterKm  = 250000
	squareMetersPerKm      = 1000000
	squareMetersPerHectare = 10000
	hectareAnnexMin        = 1000     // 0.1 ha
	hectareAnnexMax        = 10000000 // 1000 ha
)

// CoordinateDigits is the fraction digits used for lon/lat output.
const CoordinateDigits = 5

// precision drops fraction digits as the value grows.
func precision(d float64) int {
	switch {
	case d > 1000:
		return 0
	case d > 100:
		return 1
	default:
		return 2
	}
}

// Length formats a distance in meters, e.g. "1.25 km" or "820 ft".
func Length(meters float64, system units.System) string {
	var unit string
	d := meters

	if system == units.Imperial {
		d *= feetPerMeter
		if d >= feetPerMile {
			d /= feetPerMile
			unit = "mi"
		} else {
			unit = "ft"
		}
	} else {
		if d >= metersPerKilometer {
			d /= metersPerKilometer
			unit = "km"
		} else {
			unit = "m"
		}
	}

	return ToFixed(d, precision(d)) + " " + unit
}

// Area formats a surface area in square meters. Mid-sized areas get an
// acre or hectare annex, e.g. "5000 m² (0.50 ha)".
func Area(sqMeters float64, system units.System) string {
	var (
		d1, d2       float64
		unit1, unit2 string
		annex        bool
	)
	d := sqMeters

	if system == units.Imperial {
		d *= squareFeetPerSquareMeter
		if d >= squareFeetQuarterMile {
			d1 = d / squareFeetPerMile
			unit1 = "mi²"
		} else {
			d1 = d
			unit1 = "ft²"
		}

		if d > acreAnnexMin && d < acreAnnexMax {
			d2 = d / squareFeetPerAcre
			unit2 = "ac"
			annex = true
		}
	} else {
		if d >= squareMetersQuarterKm {
			d1 = d / squareMetersPerKm
			unit1 = "km²"
		} else {
			d1 = d
			unit1 = "m²"
		}

		if d > hectareAnnexMin && d < hectareAnnexMax {
			d2 = d / squareMetersPerHectare
			unit2 = "ha"
			annex = true
		}
	}

	out := ToFixed(d1, precision(d1)) + " " + unit1
	if annex {
		out += " (" + ToFixed(d2, precision(d2)) + " " + unit2 + ")"
	}
	return out
}

// Coordinate formats a lon/lat pair as "lon, lat" with five decimals.
func Coordinate(lon, lat float64) string {
	return ToFixed(lon, CoordinateDigits) + ", " + ToFixed(lat, CoordinateDigits)
}
