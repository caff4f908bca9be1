// Command simulator is the motion process for a rented kickboard. It is
// spawned by the rental engine, shares a single status file with it, and
// wanders a grid until the engine requests the return handshake.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/choiby7/kickboard-rental-service/internal/simulator"
	"github.com/choiby7/kickboard-rental-service/pkg/config"
)

const tick = 200 * time.Millisecond

func main() {
	if len(os.Args) < 5 {
		fmt.Fprintln(os.Stderr, "usage: simulator <vehicleId> <startX> <startY> <battery>")
		os.Exit(2)
	}

	vehicleID := os.Args[1]
	x := mustAtoi(os.Args[2])
	y := mustAtoi(os.Args[3])
	battery := mustAtoi(os.Args[4])

	cfg, err := config.Load("simulator")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	statusPath := filepath.Join(cfg.Simulator.Dir, cfg.Simulator.StatusFile)

	run(statusPath, vehicleID, x, y, battery)
}

// run is the motion loop: each tick it checks for engine commands, then
// moves while still driving, rewriting the whole status line on every
// update.
func run(statusPath, vehicleID string, x, y, battery int) {
	distance := 0.0
	locked := false
	moves := 0

	writeStatus := func(token string) {
		line := simulator.FormatStatusLine(simulator.Status{
			Token:     token,
			VehicleID: vehicleID,
			X:         x,
			Y:         y,
			Distance:  distance,
			Battery:   battery,
		})
		_ = os.WriteFile(statusPath, []byte(line), 0o644)
	}

	writeStatus(simulator.TokenDriving)

	for {
		raw, err := os.ReadFile(statusPath)
		if err == nil {
			token := strings.SplitN(strings.TrimSpace(string(raw)), ",", 2)[0]
			switch token {
			case simulator.TokenReturnRequested:
				if !locked {
					locked = true
					writeStatus(simulator.TokenLocked)
				}
			case simulator.TokenShutdown:
				return
			}
		}

		if !locked && battery > 0 {
			switch rand.Intn(4) {
			case 0:
				y++
			case 1:
				y--
			case 2:
				x--
			case 3:
				x++
			}
			distance += 0.1
			moves++
			if moves%5 == 0 {
				battery--
			}
			writeStatus(simulator.TokenDriving)
		}

		time.Sleep(tick)
	}
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "not a number: %q\n", s)
		os.Exit(2)
	}
	return n
}
