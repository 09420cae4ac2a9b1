package domain

// WindSector is one division of the wind rose: a cardinal abbreviation, its
// Spanish display name, and the sector's base angle in degrees.
type WindSector struct {
	Abbrev  string
	Name    string
	Degrees float64
}

// Rose16 is the 16-point rose used by the SMN bulletin, with Spanish
// abbreviations (O = Oeste, not W). The sector half-width derives from the
// rose length, so swapping in an 8-point table changes the catchments too.
var Rose16 = []WindSector{
	{"N", "Norte", 0.0}, {"NNE", "Nornoreste", 22.5}, {"NE", "Nordeste", 45.0},
	{"ENE", "E-Noreste", 67.5}, {"E", "Este", 90.0}, {"ESE", "E-Sureste", 112.5},
	{"SE", "Sudeste", 135.0}, {"SSE", "S-Sudeste", 157.5}, {"S", "Sur", 180.0},
	{"SSO", "S-Suroeste", 202.5}, {"SO", "Suroeste", 225.0},
	{"OSO", "O-Suroeste", 247.5}, {"O", "Oeste", 270.0},
	{"ONO", "O-Noroeste", 292.5}, {"NO", "Noroeste", 315.0},
	{"NNO", "N-Noroeste", 337.5},
}

// SectorFor maps a bearing in degrees to the nearest sector of the rose.
// Each sector's catchment is [base-half, base+half) modulo 360, where half is
// 360/(2*len(rose)); the comparison splits into two cases so the seam at
// 0°/360° resolves to the sector based at 0°. Never fails: a bearing outside
// every catchment falls back to the first sector.
func SectorFor(rose []WindSector, degrees float64) WindSector {
	if len(rose) == 0 {
		return WindSector{Abbrev: "N", Name: "Norte", Degrees: 0}
	}
	half := 360.0 / float64(2*len(rose))
	for _, s := range rose {
		lo := mod360(s.Degrees - half)
		hi := mod360(s.Degrees + half)
		if lo < hi {
			if lo <= degrees && degrees < hi {
				return s
			}
		} else if degrees >= lo || degrees < hi {
			return s
		}
	}
	return rose[0]
}

// SectorByAbbrev resolves a cardinal code against the rose.
func SectorByAbbrev(rose []WindSector, abbrev string) (WindSector, bool) {
	for _, s := range rose {
		if s.Abbrev == abbrev {
			return s, true
		}
	}
	return WindSector{}, false
}

func mod360(deg float64) float64 {
	m := deg - 360*float64(int(deg/360))
	if m < 0 {
		m += 360
	}
	return m
}
