// simulate-players writes fake player results as JSON, for seeding demos.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/robalobadob/twistle/internal/simulate"
)

func main() {
	var count int
	var fromRaw, toRaw, outPath string
	var seed int64

	flag.IntVar(&count, "count", 100, "number of players")
	flag.StringVar(&fromRaw, "from", "2023-01-01", "earliest date (YYYY-MM-DD)")
	flag.StringVar(&toRaw, "to", "2024-01-01", "latest date (YYYY-MM-DD)")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 = random)")
	flag.StringVar(&outPath, "out", "", "output file (default stdout)")
	flag.Parse()

	from, err := time.Parse(time.DateOnly, fromRaw)
	if err != nil {
		die(fmt.Sprintf("--from: %v", err))
	}
	to, err := time.Parse(time.DateOnly, toRaw)
	if err != nil {
		die(fmt.Sprintf("--to: %v", err))
	}

	players, err := simulate.Players(simulate.Options{Count: count, From: from, To: to, Seed: seed})
	if err != nil {
		die(err.Error())
	}

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			die(fmt.Sprintf("create %s: %v", outPath, err))
		}
		defer f.Close()
		w = f
	}
	if err := simulate.WriteJSON(w, players); err != nil {
		die(fmt.Sprintf("write: %v", err))
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "wrote %d players to %s\n", len(players), outPath)
	}
}

func die(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
