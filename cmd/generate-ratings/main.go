// Command generate-ratings writes a synthetic ratings CSV for testing
// the ranking pipeline without a production data export.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/varietal/winerank/internal/testutils"
)

func main() {
	var (
		wines      = flag.Int("wines", 200, "Number of distinct wines")
		tasters    = flag.Int("tasters", 500, "Number of distinct tasters")
		density    = flag.Float64("density", 0.05, "Probability that a taster scores a given wine")
		seed       = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
		outputPath = flag.String("output", "testdata/ratings.csv", "Output file path")
	)
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	observations := testutils.GenerateObservations(*wines, *tasters, *density, *seed)

	f, err := os.Create(*outputPath)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"vintage_id", "user_id", "rating"}); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}
	for _, obs := range observations {
		record := []string{
			strconv.FormatInt(obs.WineID, 10),
			strconv.FormatInt(obs.TasterID, 10),
			strconv.FormatFloat(obs.Score, 'f', 1, 64),
		}
		if err := w.Write(record); err != nil {
			log.Fatalf("Failed to write row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Failed to flush output: %v", err)
	}

	fmt.Printf("Generated ratings dataset:\n")
	fmt.Printf("- Path: %s\n", *outputPath)
	fmt.Printf("- Observations: %d\n", len(observations))
	fmt.Printf("- Wines: %d, Tasters: %d, Density: %.3f, Seed: %d\n", *wines, *tasters, *density, *seed)
}
