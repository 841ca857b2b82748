package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/okian/tzolkin/internal/adapters/repository"
	"github.com/okian/tzolkin/internal/domain/matrix"
	"github.com/okian/tzolkin/pkg/logger"
)

// TableSource says where calendar tables come from. An empty Path
// synthesizes year and month tables for SynthFrom..SynthTo.
type TableSource struct {
	Path         string
	SynthFrom    int
	SynthTo      int
	StrictMatrix bool
}

// LoadTables loads tables from src, logging and recording row counts and
// duplicated matrix values.
func LoadTables(ctx context.Context, src TableSource, opts ...Option) (*repository.Tables, error) {
	return New(nil, opts...).loadTables(ctx, src)
}

// Reload loads tables from src and swaps them in. On error the current
// snapshot stays in place.
func (s *Service) Reload(ctx context.Context, src TableSource) error {
	t, err := s.loadTables(ctx, src)
	if err != nil {
		return err
	}
	s.SwapTables(t)
	return nil
}

func (s *Service) loadTables(ctx context.Context, src TableSource) (*repository.Tables, error) {
	start := time.Now()
	opts := []repository.Option{repository.WithStrictMatrix(src.StrictMatrix)}

	var (
		t   *repository.Tables
		err error
	)
	if src.Path == "" {
		t, err = repository.Synthesize(src.SynthFrom, src.SynthTo, opts...)
	} else {
		t, err = repository.Load(ctx, src.Path, opts...)
	}
	if err != nil {
		s.logger.Error(ctx, "failed to load calendar tables", logger.String("path", src.Path), logger.Error(err))
		return nil, fmt.Errorf("load tables: %w", err)
	}
	s.metrics.RecordTableLoadLatency(float64(time.Since(start).Microseconds()) / 1000)

	counts := t.Counts()
	s.metrics.UpdateTableRows(counts)

	dups := t.Duplicates()
	for _, name := range matrix.Names {
		values := dups[name]
		s.metrics.UpdateMatrixDuplicates(string(name), len(values))
		if len(values) == 0 {
			continue
		}
		keys := make([]int, 0, len(values))
		for v := range values {
			keys = append(keys, v)
		}
		sort.Ints(keys)
		s.logger.Warn(ctx, "matrix grid maps values to several positions; using the smallest",
			logger.String("grid", string(name)),
			logger.Int("values", len(keys)),
			logger.Any("sample", keys[:min(len(keys), 5)]),
		)
	}

	from, to, _ := t.YearRange()
	s.logger.Info(ctx, "calendar tables loaded",
		logger.String("path", src.Path),
		logger.Bool("synthesized", src.Path == ""),
		logger.Int("year_from", from),
		logger.Int("year_to", to),
		logger.Any("rows", counts),
		logger.Duration("took", time.Since(start)),
	)
	return t, nil
}
