package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/gcfg.v1"

	"github.com/lmorato/tracksrc"
	"github.com/lmorato/tracksrc/session"
	"github.com/lmorato/tracksrc/track"
)

var log = logrus.New()

func main() {
	var (
		run           string
		exampleConfig string
	)
	vars := map[string]*string{
		"Run":           &run,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&run, "Run", "",
		"Configuration file for [Run] mode: samples one full quota from "+
			"the configured sources and reports the yield summary.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. The only accepted argument is 'Run'.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Run":
		wrap := session.DefaultRunWrapper()
		err := gcfg.ReadFileInto(wrap, run)
		if err != nil {
			log.Fatal(err.Error())
		}
		con := &wrap.Session

		if !con.ValidBatchSize() {
			log.Fatal("Invalid/non-existent 'BatchSize' value.")
		} else if !con.ValidNBatches() {
			log.Fatal("Invalid/non-existent 'NBatches' value.")
		} else if !con.ValidWarmup() {
			log.Fatal("Invalid 'Warmup' value.")
		} else if !con.ValidMeanWeightSamples() {
			log.Fatal("Invalid 'MeanWeightSamples' value.")
		}

		runMain(wrap)
	case "ExampleConfig":
		switch exampleConfig {
		case "Run":
			fmt.Println(session.ExampleRunFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only " +
					"recognized argument is 'Run'.",
			)
		}
	default:
		panic("Impossible")
	}
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but tracksrc "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func runMain(wrap *session.RunWrapper) {
	con := &wrap.Session

	if con.ValidLogFile() {
		f, err := os.Create(con.LogFile)
		if err != nil {
			log.Fatal(err.Error())
		}
		defer f.Close()
		log.SetOutput(f)
	}

	specs, err := wrap.SourceSpecs()
	if err != nil {
		log.Fatal(err.Error())
	}

	cfg := &session.Config{
		Sources:           specs,
		BatchSize:         con.BatchSize,
		NBatches:          con.NBatches,
		Warmup:            con.Warmup,
		MeanWeightSamples: con.MeanWeightSamples,
		Seed:              con.Seed,
		Log:               log,
	}

	if axis, halfAngle, ok := con.ConeBiasSpec(); ok {
		biasSeed := con.Seed
		if biasSeed == 0 {
			biasSeed = 1
		}
		cfg.Bias = tracksrc.NewConeBias(
			axis, halfAngle, rand.New(rand.NewSource(biasSeed)),
		)
	}

	s, err := session.New(cfg)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer s.Close()

	var out []track.Particle
	if con.ValidOutput() {
		out = make([]track.Particle, 0, s.Quota())
	}

	quota := s.Quota()
	for i := int64(0); i < quota; i++ {
		rec, err := s.Next()
		if err != nil {
			log.Fatal(err.Error())
		}

		if out != nil {
			out = append(out, track.Particle{
				Type: track.TypeFromCode(rec.TypeCode),
				Pos:  rec.Pos,
				Dir:  rec.Dir,
				E:    rec.E,
				W:    rec.W,
			})
		}

		if (i+1)%int64(con.BatchSize) == 0 {
			log.Printf("Sampled %d/%d particles", i+1, quota)
		}
	}

	if out != nil {
		log.Printf("Writing sampled tracks to %s", con.Output)
		if err := track.WriteTracks(con.Output, out); err != nil {
			log.Fatal(err.Error())
		}
	}

	stats, ok := s.LastSummary()
	if !ok {
		log.Fatal("Run ended without completing a sampling cycle.")
	}
	fmt.Println(stats.String())
}
