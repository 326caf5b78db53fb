package track

import (
	"fmt"
	"math"
	"os"

	"github.com/phil-mansfield/table"
)

// Column layout of a track file.
const (
	colType = iota
	colE
	colX
	colY
	colZ
	colDx
	colDy
	colDz
	colW

	colNum
)

// Directions are renormalized on load, but only if they are already unit
// vectors to within this tolerance. Anything further off is malformed.
const dirTol = 1e-3

// LoadError reports a track file that could not be used as a source.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("track file %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ReadTracks reads every recorded particle in the track file at path.
func ReadTracks(path string) ([]Particle, error) {
	colIdxs := make([]int, colNum)
	for i := range colIdxs {
		colIdxs[i] = i
	}

	cols, err := table.ReadTable(path, colIdxs, nil)
	if err != nil {
		return nil, &LoadError{path, err}
	}
	if len(cols[colType]) == 0 {
		return nil, &LoadError{path, fmt.Errorf("contains no tracks")}
	}

	ps := make([]Particle, len(cols[colType]))
	for i := range ps {
		p := &ps[i]
		p.Type = TypeFromCode(int(cols[colType][i]))
		p.E = cols[colE][i]
		p.Pos = Vec{cols[colX][i], cols[colY][i], cols[colZ][i]}
		p.Dir = Vec{cols[colDx][i], cols[colDy][i], cols[colDz][i]}
		p.W = cols[colW][i]

		if p.W <= 0 {
			return nil, &LoadError{path, fmt.Errorf(
				"track %d has non-positive weight %g", i, p.W,
			)}
		}
		if p.E < 0 {
			return nil, &LoadError{path, fmt.Errorf(
				"track %d has negative energy %g", i, p.E,
			)}
		}

		norm := p.Dir.Norm()
		if math.Abs(norm-1) > dirTol {
			return nil, &LoadError{path, fmt.Errorf(
				"track %d direction has norm %g", i, norm,
			)}
		}
		p.Dir.UnitSelf()
	}

	return ps, nil
}

// WriteTracks writes particles to a track file at path in the standard
// nine-column text layout.
func WriteTracks(path string, ps []Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, "# type E x y z dx dy dz w"); err != nil {
		return err
	}
	for i := range ps {
		p := &ps[i]
		_, err := fmt.Fprintf(f, "%d %g %g %g %g %g %g %g %g\n",
			typeCode(p.Type), p.E,
			p.Pos[0], p.Pos[1], p.Pos[2],
			p.Dir[0], p.Dir[1], p.Dir[2], p.W,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func typeCode(t ParticleType) int {
	switch t {
	case Photon:
		return CodePhoton
	default:
		return CodeNeutron
	}
}
