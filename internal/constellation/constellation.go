// Package constellation maps an (RA, Dec) pair to a constellation
// name. Two methods are reported side by side: a basic nearest-center
// heuristic and a precise lookup over the IAU boundary catalog
// (epoch B1875). Catalog availability is resolved once at startup;
// when the catalog is absent the precise name silently mirrors the
// basic one.
package constellation

import (
	"bufio"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/soniakeys/meeus/v3/coord"
	"github.com/soniakeys/meeus/v3/precess"
	"github.com/soniakeys/unit"
)

// Result carries both resolution methods for one coordinate pair.
type Result struct {
	Basic   string
	Precise string
}

// boundary is one row of the B1875 catalog: the constellation owning
// declinations at or above DecLo within [RALo, RAHi) hours.
type boundary struct {
	raLo, raHi float64 // hours
	decLo      float64 // degrees
	name       string
}

// Resolver holds the boundary catalog, loaded once. The zero value
// (or a failed load) is a valid basic-only resolver.
type Resolver struct {
	rows []boundary
}

// Load reads a boundary catalog in the CDS VI/42 row layout
// (RA_low RA_high Dec_low Abbrev, RA in hours, B1875). A missing or
// unreadable file yields a basic-only resolver; the choice is made
// once and never revisited.
func Load(path string) *Resolver {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("Constellation boundary catalog not available (%v), using basic method only", err)
		return &Resolver{}
	}
	defer f.Close()

	var rows []boundary
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		raLo, err1 := strconv.ParseFloat(fields[0], 64)
		raHi, err2 := strconv.ParseFloat(fields[1], 64)
		decLo, err3 := strconv.ParseFloat(fields[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		rows = append(rows, boundary{raLo: raLo, raHi: raHi, decLo: decLo, name: fullName(fields[3])})
	}
	if err := sc.Err(); err != nil || len(rows) == 0 {
		log.Printf("Constellation boundary catalog unreadable, using basic method only")
		return &Resolver{}
	}

	log.Printf("Constellation boundary catalog loaded (%d segments)", len(rows))
	return &Resolver{rows: rows}
}

// PreciseAvailable reports whether the boundary catalog is loaded.
func (r *Resolver) PreciseAvailable() bool {
	return len(r.rows) > 0
}

// Resolve maps one apparent (RA, Dec) pair to constellation names.
// Both names always derive from the same input pair.
func (r *Resolver) Resolve(ra unit.RA, dec unit.Angle) Result {
	basic := nearestCenter(ra, dec)
	precise, ok := r.lookup(ra, dec)
	if !ok {
		precise = basic
	}
	return Result{Basic: basic, Precise: precise}
}

// lookup precesses the pair to the catalog epoch and scans the rows.
func (r *Resolver) lookup(ra unit.RA, dec unit.Angle) (string, bool) {
	if len(r.rows) == 0 {
		return "", false
	}

	from := &coord.Equatorial{RA: ra, Dec: dec}
	to := precess.ApproxPosition(from, &coord.Equatorial{}, 2000, 1875, 0, 0)

	raH := to.RA.Hour()
	decDeg := to.Dec.Deg()

	for _, row := range r.rows {
		if decDeg < row.decLo {
			continue
		}
		if raH >= row.raLo && raH < row.raHi {
			return row.name, true
		}
	}
	return "", false
}

// center is a reference point for the basic method.
type center struct {
	name   string
	ra     float64 // degrees, J2000
	dec    float64 // degrees, J2000
}

// centers covers the zodiacal band and its neighbors, the only sky the
// supported bodies traverse. Positions are rough constellation
// midpoints; the basic method is a heuristic by contract.
var centers = []center{
	{"Pisces", 15, 12},
	{"Cetus", 25, -8},
	{"Aries", 40, 20},
	{"Taurus", 67, 16},
	{"Orion", 83, 3},
	{"Gemini", 107, 23},
	{"Cancer", 127, 20},
	{"Canis Minor", 114, 6},
	{"Hydra", 160, -20},
	{"Leo", 160, 13},
	{"Sextans", 155, -2},
	{"Virgo", 200, -4},
	{"Libra", 230, -15},
	{"Scorpius", 247, -27},
	{"Ophiuchus", 257, -7},
	{"Sagittarius", 285, -28},
	{"Capricornus", 315, -18},
	{"Aquarius", 335, -10},
	{"Aquila", 295, 3},
	{"Pegasus", 340, 19},
}

// nearestCenter returns the name of the closest reference point by
// angular separation.
func nearestCenter(ra unit.RA, dec unit.Angle) string {
	best := ""
	bestSep := math.Inf(1)

	sinδ, cosδ := dec.Sincos()
	for _, c := range centers {
		cRA := unit.AngleFromDeg(c.ra)
		cDec := unit.AngleFromDeg(c.dec)
		sinδc, cosδc := cDec.Sincos()

		cosSep := sinδ*sinδc + cosδ*cosδc*math.Cos(ra.Rad()-cRA.Rad())
		sep := math.Acos(clamp(cosSep, -1, 1))
		if sep < bestSep {
			bestSep = sep
			best = c.name
		}
	}
	return best
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
