package domain

// Body names used as keys throughout a chart.
const (
	Sun     = "Sun"
	Moon    = "Moon"
	Mars    = "Mars"
	Mercury = "Mercury"
	Jupiter = "Jupiter"
	Venus   = "Venus"
	Saturn  = "Saturn"
	Rahu    = "Rahu"
	Ketu    = "Ketu"
)

// Ephemeris body identifiers.
const (
	BodyIDSun     = 0
	BodyIDMoon    = 1
	BodyIDMercury = 2
	BodyIDVenus   = 3
	BodyIDMars    = 4
	BodyIDJupiter = 5
	BodyIDSaturn  = 6
	BodyIDRahu    = 11 // true node
	BodyIDKetu    = -1 // derived, never requested from an ephemeris
)

// SyntheticBodyID marks shadow points computed from other bodies.
const SyntheticBodyID = -100

// Body pairs a body name with its ephemeris identifier.
type Body struct {
	ID   int
	Name string
}

// EphemerisBodies are the bodies requested from the ephemeris provider, in request order.
var EphemerisBodies = []Body{
	{BodyIDSun, Sun},
	{BodyIDMoon, Moon},
	{BodyIDMars, Mars},
	{BodyIDMercury, Mercury},
	{BodyIDJupiter, Jupiter},
	{BodyIDVenus, Venus},
	{BodyIDSaturn, Saturn},
	{BodyIDRahu, Rahu},
}

// ClassicalPlanets are the seven visible planets, in weekday order.
var ClassicalPlanets = []string{Sun, Moon, Mars, Mercury, Jupiter, Venus, Saturn}

// IsNode reports whether name is one of the lunar nodes.
func IsNode(name string) bool {
	return name == Rahu || name == Ketu
}

// IsClassical reports whether name is one of the seven classical planets.
func IsClassical(name string) bool {
	for _, p := range ClassicalPlanets {
		if p == name {
			return true
		}
	}
	return false
}

// CelestialBodyPosition is a body placed in the chart.
// Sign, House, Nakshatra and Pada are 1-based.
type CelestialBodyPosition struct {
	ID          int     `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Longitude   float64 `json:"longitude" yaml:"longitude"`     // sidereal, [0, 360)
	Speed       float64 `json:"speed" yaml:"speed"`             // degrees/day, negative when retrograde
	Declination float64 `json:"declination" yaml:"declination"` // degrees
	Sign        int     `json:"sign" yaml:"sign"`
	Degree      float64 `json:"degree" yaml:"degree"` // within sign, [0, 30)
	House       int     `json:"house" yaml:"house"`
	Nakshatra   int     `json:"nakshatra" yaml:"nakshatra"`
	Pada        int     `json:"pada" yaml:"pada"`
	Synthetic   bool    `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
}

// IsRetrograde reports apparent backward motion.
func (p CelestialBodyPosition) IsRetrograde() bool {
	return p.Speed < 0
}

// NewBodyPosition derives all zodiac fields of a body from its longitude.
// House numbering is whole-sign, counted from the ascendant's sign.
func NewBodyPosition(id int, name string, longitude, speed, declination, ascendant float64) *CelestialBodyPosition {
	lon := NormalizeLongitude(longitude)
	sign := SignOf(lon)
	return &CelestialBodyPosition{
		ID:          id,
		Name:        name,
		Longitude:   lon,
		Speed:       speed,
		Declination: declination,
		Sign:        sign,
		Degree:      DegreeInSign(lon),
		House:       HouseFrom(SignOf(ascendant), sign),
		Nakshatra:   NakshatraOf(lon),
		Pada:        PadaOf(lon),
	}
}
