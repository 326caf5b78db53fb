package session

import (
	"fmt"
	"math"
	"sort"

	"github.com/lmorato/tracksrc"
	"github.com/lmorato/tracksrc/track"
)

const ExampleRunFile = `[Session]

#######################
# Required Parameters #
#######################

# Number of particles sampled per batch.
BatchSize = 1000

# Number of batches in the run. The sampling quota for one source
# lifecycle is (NBatches - 1) * BatchSize + Warmup.
NBatches = 10

#######################
# Optional Parameters #
#######################

# Extra samples added to the quota to cover the host's warmup histories.
# Warmup = 1500

# Number of internal draws used to estimate the critical weight when the
# sources are opened.
# MeanWeightSamples = 1000

# Seed for the random generator. When unset or 0, the generator is
# seeded from the current time.
# Seed = 0

# Redirect the log to a file instead of stderr.
# LogFile = log.out

# Write every sampled particle to a track file.
# Output = sampled_tracks.txt

# Importance bias: redirect sampled particles into a cone. The axis
# components and the half-angle (in degrees) must all be set together.
# ConeAxisX = 0
# ConeAxisY = 0
# ConeAxisZ = 1
# ConeHalfAngle = 30

# Each Source section names one track file and its relative weight.
# Weights are normalized over all sources when the session opens.
[Source "guide"]
Path = path/to/guide_tracks.txt
Weight = 0.7

[Source "wall"]
Path = path/to/wall_tracks.txt
Weight = 0.3`

// RunConfig is the [Session] section of a run config file.
type RunConfig struct {
	// Required
	BatchSize int
	NBatches  int

	// Optional
	Warmup            int
	MeanWeightSamples int
	Seed              int64
	LogFile           string
	Output            string

	ConeAxisX, ConeAxisY, ConeAxisZ float64
	ConeHalfAngle                   float64
}

// SourceConfig is one [Source "name"] section.
type SourceConfig struct {
	Path   string
	Weight float64
}

// RunWrapper is the top-level layout gcfg reads a run config file into.
type RunWrapper struct {
	Session RunConfig
	Source  map[string]*SourceConfig
}

// DefaultRunWrapper returns a wrapper with the optional parameters set
// to their defaults.
func DefaultRunWrapper() *RunWrapper {
	con := RunConfig{}
	con.Warmup = 1500
	con.MeanWeightSamples = 1000
	return &RunWrapper{Session: con}
}

func (con *RunConfig) ValidBatchSize() bool {
	return con.BatchSize > 0
}
func (con *RunConfig) ValidNBatches() bool {
	return con.NBatches > 0
}
func (con *RunConfig) ValidWarmup() bool {
	return con.Warmup >= 0
}
func (con *RunConfig) ValidMeanWeightSamples() bool {
	return con.MeanWeightSamples >= 1
}
func (con *RunConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *RunConfig) ValidOutput() bool {
	return con.Output != ""
}

// ValidConeBias reports whether a cone bias is fully configured. The
// axis components and half-angle must be set together.
func (con *RunConfig) ValidConeBias() bool {
	axisSet := con.ConeAxisX != 0 || con.ConeAxisY != 0 || con.ConeAxisZ != 0
	return axisSet && con.ConeHalfAngle > 0 && con.ConeHalfAngle <= 180
}

// ConeBiasSpec returns the configured cone axis and half-angle in
// radians. ok is false when no cone bias is configured.
func (con *RunConfig) ConeBiasSpec() (axis track.Vec, halfAngle float64, ok bool) {
	if !con.ValidConeBias() {
		return track.Vec{}, 0, false
	}
	axis = track.Vec{con.ConeAxisX, con.ConeAxisY, con.ConeAxisZ}
	return axis, con.ConeHalfAngle * math.Pi / 180, true
}

// SourceSpecs flattens the [Source "..."] sections into an ordered spec
// list, sorted by section name so the sub-source order is deterministic.
func (wrap *RunWrapper) SourceSpecs() ([]tracksrc.SourceSpec, error) {
	if len(wrap.Source) == 0 {
		return nil, fmt.Errorf("config contains no [Source] sections")
	}

	names := make([]string, 0, len(wrap.Source))
	for name := range wrap.Source {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]tracksrc.SourceSpec, len(names))
	for i, name := range names {
		con := wrap.Source[name]
		if con.Path == "" {
			return nil, fmt.Errorf("source %q has no Path", name)
		}
		if con.Weight <= 0 {
			return nil, fmt.Errorf(
				"source %q has non-positive Weight %g", name, con.Weight,
			)
		}
		specs[i] = tracksrc.SourceSpec{Path: con.Path, Weight: con.Weight}
	}
	return specs, nil
}
