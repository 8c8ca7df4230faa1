// Command qcsim runs the well-known example circuits on every engine and
// records the sampled shot histograms in a sqlite database.
package main

import (
	"context"
	"flag"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	qc "github.com/jbrumf/qc-basics"
	"github.com/jbrumf/qc-basics/gate"
	"github.com/jbrumf/qc-basics/mps"
	"github.com/jbrumf/qc-basics/statevec"
	"github.com/jbrumf/qc-basics/tensornet"
)

var (
	dbPath  = flag.String("db", "qcsim.db", "results database path")
	shots   = flag.Int("shots", 4096, "shots per circuit and engine")
	seed    = flag.Uint64("seed", 1, "sampling seed")
	bondDim = flag.Int("chi", 0, "mps bond dimension cap, 0 for unbounded")
)

func main() {
	flag.Parse()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := mainWithErr(logger); err != nil {
		logger.Fatal().Msgf("%+v", err)
	}
}

func mainWithErr(logger zerolog.Logger) error {
	st, err := newStore(*dbPath)
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer st.Close()

	circuits := []struct {
		name    string
		circuit *qc.Circuit
	}{
		{name: "bell", circuit: qc.Bell()},
		{name: "ghz4", circuit: qc.GHZ(4)},
		{name: "qft3", circuit: qc.QFT(3)},
		{name: "teleport", circuit: qc.Teleport(gate.RY(math.Pi / 3))},
		{name: "qpe", circuit: qc.QPE(0.25, 3)},
	}

	for _, c := range circuits {
		for _, engine := range []string{"statevec", "tensornet", "mps"} {
			if err := runOne(logger, st, c.name, engine, c.circuit); err != nil {
				return errors.Wrapf(err, "%s on %s", c.name, engine)
			}
		}
	}
	return nil
}

func runOne(logger zerolog.Logger, st *store, name, engineName string, circuit *qc.Circuit) error {
	e, err := newEngine(engineName, circuit.NumQubits())
	if err != nil {
		return errors.Wrap(err, "")
	}
	rng := rand.New(rand.NewPCG(*seed, *seed))

	start := time.Now()
	if _, err := qc.Run(e, circuit, rng); err != nil {
		return errors.Wrap(err, "")
	}
	counts, err := qc.SampleCounts(e, *shots, rng)
	if err != nil {
		return errors.Wrap(err, "")
	}

	var fidelityLoss float64
	if m, ok := e.(*mps.Engine); ok {
		fidelityLoss = m.TruncationError()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for bitstring, count := range counts {
		if err := st.setCount(ctx, name, engineName, bitstring, count, *shots, fidelityLoss); err != nil {
			return errors.Wrap(err, "")
		}
	}

	logger.Info().
		Str("circuit", name).
		Str("engine", engineName).
		Int("outcomes", len(counts)).
		Float64("fidelity_loss", fidelityLoss).
		Dur("elapsed", time.Since(start)).
		Msg("run done")
	return nil
}

func newEngine(name string, n int) (qc.Engine, error) {
	switch name {
	case "statevec":
		return statevec.New(n)
	case "tensornet":
		return tensornet.New(n)
	case "mps":
		if *bondDim > 0 {
			return mps.New(n, mps.NewOptions().MaxBondDim(*bondDim))
		}
		return mps.New(n)
	default:
		return nil, errors.Errorf("unknown engine %q", name)
	}
}
