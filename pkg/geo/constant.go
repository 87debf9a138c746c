package geo

import "math"

// MC2 coordinates: one unit is 2π/2^32 radians, both axes.
const (
	POW2_32 = 4294967296.0

	MC2_TO_RAD = 2 * math.Pi / POW2_32
	RAD_TO_MC2 = POW2_32 / (2 * math.Pi)
	MC2_TO_DEG = 360.0 / POW2_32
	DEG_TO_MC2 = POW2_32 / 360.0

	EARTH_RADIUS = 6378137.0

	MC2_TO_M       = EARTH_RADIUS * MC2_TO_RAD
	METER_TO_MC2   = 1 / MC2_TO_M
	SQ_MC2_TO_M    = MC2_TO_M * MC2_TO_M
	SQ_M_TO_SQ_MC2 = METER_TO_MC2 * METER_TO_MC2
)

// Cohen-Sutherland outcode bits.
const (
	OUTCODE_LEFT   uint8 = 1
	OUTCODE_RIGHT  uint8 = 2
	OUTCODE_BOTTOM uint8 = 4
	OUTCODE_TOP    uint8 = 8
)
