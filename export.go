package shaping

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// ExportTrajectory samples a converged shape every step and writes the state
// history as a CSV file named <prefix>-traj.csv in the given directory. Each
// record holds the Julian date, the elapsed seconds, the Cartesian position
// (km) and velocity (km/s), and the thrust acceleration magnitude (km/s²).
// It returns the full path of the written file.
func ExportTrajectory(shape *SphericalShaping, dir, prefix string, step time.Duration) (string, error) {
	if step <= 0 {
		step = 24 * time.Hour
	}
	fpath := filepath.Join(dir, fmt.Sprintf("%s-traj.csv", prefix))
	f, err := os.Create(fpath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()
	if err := w.Write([]string{"jd", "t(s)", "x(km)", "y(km)", "z(km)", "vx(km/s)", "vy(km/s)", "vz(km/s)", "thrust(km/s2)"}); err != nil {
		return "", err
	}

	epochJD := julian.TimeToJD(shape.Map().Epoch().UTC())
	_, tEnd := shape.Map().Span()
	for t := 0.0; ; t += step.Seconds() {
		if t > tEnd {
			t = tEnd
		}
		θ, err := shape.AngleAtTime(t)
		if err != nil {
			return "", err
		}
		R, V, err := shape.StateAt(θ)
		if err != nil {
			return "", err
		}
		mag, err := shape.ThrustAccelerationMagnitudeAt(θ)
		if err != nil {
			return "", err
		}
		record := make([]string, 9)
		record[0] = strconv.FormatFloat(epochJD+t/86400, 'f', 6, 64)
		record[1] = strconv.FormatFloat(t, 'f', 1, 64)
		for i := 0; i < 3; i++ {
			record[2+i] = strconv.FormatFloat(R[i], 'f', 3, 64)
			record[5+i] = strconv.FormatFloat(V[i], 'f', 6, 64)
		}
		record[8] = strconv.FormatFloat(mag, 'e', 6, 64)
		if err := w.Write(record); err != nil {
			return "", err
		}
		if t == tEnd {
			break
		}
	}
	return fpath, nil
}
