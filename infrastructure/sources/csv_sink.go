package sources

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/varietal/winerank/internal/domain"
	"github.com/varietal/winerank/internal/ports"
)

// ErrNotCSVPath is returned when a result sink is configured with a
// destination that does not end in ".csv".
var ErrNotCSVPath = errors.New("result path must end in .csv")

var _ ports.ResultSink = (*CSVSink)(nil)

// CSVSink writes a computed ranking to a CSV file with the columns
// rank, vintage_id, rating, num_ratings. The file is created or
// truncated on each write.
type CSVSink struct {
	path string
}

// NewCSVSink creates a sink writing to the given path. The path must
// end in ".csv"; anything else is rejected up front so a misconfigured
// destination fails before the (potentially long) ranking run starts.
func NewCSVSink(path string) (*CSVSink, error) {
	if !strings.HasSuffix(path, ".csv") {
		return nil, fmt.Errorf("%w: %q", ErrNotCSVPath, path)
	}
	return &CSVSink{path: path}, nil
}

// Write persists the ranking. An empty ranking writes just the header.
func (s *CSVSink) Write(ctx context.Context, ranking []domain.RankedWine) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"rank", "vintage_id", "rating", "num_ratings"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, entry := range ranking {
		record := []string{
			strconv.Itoa(i + 1),
			strconv.FormatInt(entry.WineID, 10),
			strconv.FormatFloat(entry.Rating, 'f', 6, 64),
			strconv.Itoa(entry.NumRatings),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush results file: %w", err)
	}
	return f.Close()
}
