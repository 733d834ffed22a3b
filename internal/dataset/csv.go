// Package dataset bulk-loads the initial review dataset into a store.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/utafrali/ReviewAnalyzer/internal/domain"
	"github.com/utafrali/ReviewAnalyzer/internal/repository"
)

// Required header columns. Column order is free and extra columns are ignored.
const (
	ColReviewID   = "ReviewId"
	ColReviewBody = "ReviewBody"
	ColLocation   = "Location"
	ColTimestamp  = "Timestamp"
)

var requiredColumns = []string{ColReviewID, ColLocation, ColTimestamp, ColReviewBody}

// LoadFile loads the CSV file at path into store unless the store already
// holds reviews, in which case nothing is read. It returns the number of
// reviews appended.
func LoadFile(ctx context.Context, path string, store repository.ReviewStore, logger *slog.Logger) (int, error) {
	existing, err := store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count stored reviews: %w", err)
	}
	if existing > 0 {
		logger.InfoContext(ctx, "review store already populated, skipping dataset load",
			slog.Int("reviews", existing),
			slog.String("path", path),
		)
		return 0, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	n, err := Load(ctx, f, store)
	if err != nil {
		return n, fmt.Errorf("load dataset %s: %w", path, err)
	}

	logger.InfoContext(ctx, "dataset loaded",
		slog.Int("reviews", n),
		slog.String("path", path),
	)
	return n, nil
}

// Load reads reviews from CSV data with a header row and appends them to
// store in file order. Loading stops at the first malformed row.
func Load(ctx context.Context, r io.Reader, store repository.ReviewStore) (int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, errors.New("dataset is empty")
	}
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}

	cols, err := columnIndex(header)
	if err != nil {
		return 0, err
	}

	n := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("read record: %w", err)
		}
		line, _ := reader.FieldPos(0)

		review, err := parseRecord(record, cols)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		if err := store.Append(ctx, review); err != nil {
			return n, fmt.Errorf("line %d: %w", line, err)
		}
		n++
	}
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		// Spreadsheet exports often prefix the first column with a BOM.
		name = strings.TrimPrefix(strings.TrimSpace(name), "\uFEFF")
		cols[name] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("header is missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRecord(record []string, cols map[string]int) (domain.Review, error) {
	id := strings.TrimSpace(record[cols[ColReviewID]])
	if id == "" {
		return domain.Review{}, errors.New("empty ReviewId")
	}

	ts, err := domain.ParseTimestamp(record[cols[ColTimestamp]])
	if err != nil {
		return domain.Review{}, err
	}

	return domain.Review{
		ReviewID:   id,
		ReviewBody: record[cols[ColReviewBody]],
		Location:   record[cols[ColLocation]],
		Timestamp:  ts,
	}, nil
}
