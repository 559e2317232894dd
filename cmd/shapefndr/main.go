package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ChristopherRabotin/shaping"
)

var (
	cpus     int
	from     string
	to       string
	revs     int
	tofMin   float64
	tofMax   float64
	tofStep  float64
	transfer float64
	wg       sync.WaitGroup
)

func init() {
	flag.IntVar(&cpus, "cpus", -1, "number of CPUs to use for this sweep (set to 0 for max CPUs)")
	flag.StringVar(&from, "from", "earth", "departure planet")
	flag.StringVar(&to, "to", "mars", "arrival planet")
	flag.IntVar(&revs, "revs", 0, "number of full revolutions of the transfer")
	flag.Float64Var(&tofMin, "tofmin", 300, "shortest time of flight to try, in days")
	flag.Float64Var(&tofMax, "tofmax", 1200, "longest time of flight to try, in days")
	flag.Float64Var(&tofStep, "tofstep", 25, "time of flight sweep step, in days")
	flag.Float64Var(&transfer, "angle", 150, "heliocentric transfer angle, in degrees")
}

/*
 * Sweeps the time of flight of a shaped transfer between two planets on
 * circular coplanar orbits, and reports the cheapest deltaV found along with
 * the Hohmann reference.
 */

func main() {
	flag.Parse()
	availableCPUs := runtime.NumCPU()
	if cpus <= 0 || cpus > availableCPUs {
		cpus = availableCPUs
	}
	runtime.GOMAXPROCS(cpus)
	fmt.Printf("running on %d CPUs\n", cpus)

	if tofStep <= 0 || tofMax < tofMin {
		fmt.Println("time of flight sweep must have a positive step and tofmax >= tofmin")
		flag.Usage()
		return
	}

	departBody, err := shaping.CelestialObjectFromString(strings.ToLower(from))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	arriveBody, err := shaping.CelestialObjectFromString(strings.ToLower(to))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Shaping %s to %s transfers over %d rev(s)\n", departBody.Name, arriveBody.Name, revs)

	depart := time.Date(2026, 11, 8, 0, 0, 0, 0, time.UTC)
	rI := departBody.SemiMajorAxis()
	rF := arriveBody.SemiMajorAxis()
	initState := shaping.CircularState(rI, 0, shaping.Sun)
	finalState := shaping.CircularState(rF, shaping.Deg2rad(transfer), shaping.Sun)

	hohmann := shaping.HohmannDeltaV(rI, rF, shaping.Sun)

	rslts := make(chan string, 10)
	wg.Add(1)
	go streamResults(fmt.Sprintf("%s-%s-%drevs", from, to, revs), rslts)

	minΔv := 1e3
	var minTOF float64
	cfg := shaping.DefaultShapeConfig()
	for tof := tofMin; tof <= tofMax; tof += tofStep {
		shape, err := shaping.NewSphericalShaping(initState, finalState, time.Duration(tof*86400)*time.Second, revs, shaping.Sun, depart, cfg)
		if err != nil {
			fmt.Printf("tof=%.0fd: %s\n", tof, err)
			continue
		}
		Δv, err := shape.DeltaV()
		if err != nil {
			fmt.Printf("tof=%.0fd: %s\n", tof, err)
			continue
		}
		rslts <- fmt.Sprintf("%f,%f,%f\n", tof, Δv, shape.FreeCoefficient())
		if Δv < minΔv {
			minΔv = Δv
			minTOF = tof
		}
	}
	close(rslts)
	wg.Wait()
	fmt.Printf("\n\n=== RESULT ===\n\nminΔv=%.3f km/s at tof=%.0fd\nHohmann reference: %.3f km/s\n\n", minΔv, minTOF, hohmann)
}

func streamResults(fn string, rslts <-chan string) {
	f, err := os.Create(fmt.Sprintf("./%s.csv", fn))
	if err != nil {
		panic(err)
	}
	defer f.Close()
	f.WriteString("tof(days),deltaV(km/s),freeCoefficient\n")
	for rslt := range rslts {
		if _, err := f.WriteString(rslt); err != nil {
			panic(err)
		}
	}
	wg.Done()
}
