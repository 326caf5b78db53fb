package track

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTrackFile(t *testing.T, name string, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0666))
	return path
}

const threeTracks = `# type E x y z dx dy dz w
1 1.0 0 0 0 0 0 1 1.0
2 2.0 1 0 0 0 1 0 0.5
1 3.0 0 1 0 1 0 0 2.0
`

func TestOpenSourceMissingFile(t *testing.T) {
	_, err := OpenSource("does/not/exist.txt", 1.0, nil)
	require.Error(t, err)

	loadErr := &LoadError{}
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "does/not/exist.txt")
}

func TestOpenSourceEmptyFile(t *testing.T) {
	path := writeTrackFile(t, "empty.txt", "# type E x y z dx dy dz w\n")
	_, err := OpenSource(path, 1.0, nil)

	loadErr := &LoadError{}
	require.ErrorAs(t, err, &loadErr)
}

func TestOpenSourceBadWeight(t *testing.T) {
	path := writeTrackFile(t, "bad.txt", "1 1.0 0 0 0 0 0 1 0.0\n")
	_, err := OpenSource(path, 1.0, nil)

	loadErr := &LoadError{}
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "weight")
}

func TestOpenSourceBadDirection(t *testing.T) {
	path := writeTrackFile(t, "bad.txt", "1 1.0 0 0 0 0 0 2 1.0\n")
	_, err := OpenSource(path, 1.0, nil)

	loadErr := &LoadError{}
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "direction")
}

func TestOpenSourceNegativeEnergy(t *testing.T) {
	path := writeTrackFile(t, "bad.txt", "1 -1.0 0 0 0 0 0 1 1.0\n")
	_, err := OpenSource(path, 1.0, nil)
	require.Error(t, err)
}

func TestOpenSourceNonPositiveSourceWeight(t *testing.T) {
	path := writeTrackFile(t, "ok.txt", threeTracks)

	_, err := OpenSource(path, 0, nil)
	require.Error(t, err)
	_, err = OpenSource(path, -0.5, nil)
	require.Error(t, err)
}

func TestDrawWrapsAround(t *testing.T) {
	path := writeTrackFile(t, "ok.txt", threeTracks)
	src, err := OpenSource(path, 1.0, nil)
	require.NoError(t, err)
	require.Equal(t, 3, src.Len())

	wantE := []float64{1, 2, 3, 1, 2, 3, 1}
	for i, e := range wantE {
		p, w, err := src.Draw()
		require.NoError(t, err)
		assert.Equal(t, e, p.E, "draw %d", i)
		assert.Equal(t, p.W, w)
		assert.Greater(t, w, 0.0)
	}
}

func TestDrawIsDeterministicGivenSeed(t *testing.T) {
	path := writeTrackFile(t, "ok.txt", threeTracks)

	first, err := OpenSource(path, 1.0, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := OpenSource(path, 1.0, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		p1, _, err := first.Draw()
		require.NoError(t, err)
		p2, _, err := second.Draw()
		require.NoError(t, err)
		assert.Equal(t, p1, p2)
	}
}

func TestUseAfterClose(t *testing.T) {
	path := writeTrackFile(t, "ok.txt", threeTracks)
	src, err := OpenSource(path, 1.0, nil)
	require.NoError(t, err)

	require.NoError(t, src.Close())
	_, _, err = src.Draw()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, src.Close(), ErrClosed)
}

func TestTypeFromCode(t *testing.T) {
	assert.Equal(t, Neutron, TypeFromCode(1))
	assert.Equal(t, Photon, TypeFromCode(2))
	assert.Equal(t, Unknown, TypeFromCode(9))
	assert.Equal(t, Unknown, TypeFromCode(0))
}

func TestWriteTracksReadsBack(t *testing.T) {
	ps := []Particle{
		{Type: Neutron, Pos: Vec{1, 2, 3}, Dir: Vec{0, 0, 1}, E: 4.5, W: 2},
		{Type: Photon, Pos: Vec{-1, 0, 0}, Dir: Vec{1, 0, 0}, E: 0.1, W: 0.5},
	}
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, WriteTracks(path, ps))

	got, err := ReadTracks(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ps[0].Type, got[0].Type)
	assert.Equal(t, ps[1].Pos, got[1].Pos)
	assert.Equal(t, ps[0].W, got[0].W)
}
