package vectordb

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/liliang-cn/vectordb/internal/encoding"
)

// rawRow is a row as read from the vectors table, before decoding
type rawRow struct {
	id       string
	blob     []byte
	metadata string
}

// Search scores query against every stored vector and returns the k best
// matches by descending cosine similarity. Rows whose embedding cannot be
// decoded are skipped. k larger than the row count returns every row; k of
// zero returns an empty result.
func (s *VectorDB) Search(ctx context.Context, query Vector, k int) (results []SearchResult, err error) {
	var scanned, skipped int
	start := time.Now()
	defer func() { s.config.Metrics.RecordSearch(k, scanned, skipped, time.Since(start), err) }()

	if k < 0 {
		return nil, wrapError("search", ErrInvalidK)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, wrapError("search", ErrStoreClosed)
	}
	if k == 0 {
		return []SearchResult{}, nil
	}

	rows, err := s.fetchRows(ctx)
	if err != nil {
		return nil, err
	}
	scanned = len(rows)

	if s.config.ScanWorkers > 1 && len(rows) > s.config.ScanWorkers {
		results, skipped, err = s.scoreParallel(ctx, query, rows)
		if err != nil {
			return nil, wrapError("search", err)
		}
	} else {
		results, skipped = scoreRows(query, rows)
	}

	if skipped > 0 {
		s.logger.Warn("skipped undecodable rows during search", "skipped", skipped, "scanned", scanned)
	}

	sortByScore(results)
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// fetchRows reads id, embedding and metadata of every record. Rows that
// cannot be scanned are dropped here and show up as undecodable later.
func (s *VectorDB) fetchRows(ctx context.Context) ([]rawRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, embedding, metadata FROM vectors`)
	if err != nil {
		return nil, storageError("search", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows during search", "error", closeErr)
		}
	}()

	var out []rawRow
	for rows.Next() {
		var (
			r    rawRow
			meta sql.NullString
		)
		if err := rows.Scan(&r.id, &r.blob, &meta); err != nil {
			s.logger.Debug("failed to scan row during search", "error", err)
			r.blob = nil
		}
		r.metadata = meta.String
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("search", err)
	}
	return out, nil
}

// scoreRows decodes and scores rows in order, returning the hits and the
// number of rows that failed to decode.
func scoreRows(query Vector, rows []rawRow) ([]SearchResult, int) {
	results := make([]SearchResult, 0, len(rows))
	skipped := 0
	for _, r := range rows {
		data, err := encoding.DecodeVector(r.blob)
		if err != nil {
			skipped++
			continue
		}
		results = append(results, SearchResult{
			ID:       r.id,
			Score:    query.CosineSimilarity(Vector{data: data}),
			Metadata: r.metadata,
		})
	}
	return results, skipped
}

// scoreParallel splits rows into one contiguous chunk per worker and scores
// the chunks concurrently. The caller sorts the merged result.
func (s *VectorDB) scoreParallel(ctx context.Context, query Vector, rows []rawRow) ([]SearchResult, int, error) {
	workers := s.config.ScanWorkers
	chunk := (len(rows) + workers - 1) / workers

	parts := make([][]SearchResult, workers)
	skips := make([]int, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(rows) {
			break
		}
		hi := min(lo+chunk, len(rows))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parts[w], skips[w] = scoreRows(query, rows[lo:hi])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	results := make([]SearchResult, 0, len(rows))
	skipped := 0
	for w := range parts {
		results = append(results, parts[w]...)
		skipped += skips[w]
	}
	return results, skipped, nil
}

// sortByScore orders results by descending score with NaN scores last.
// Order among equal scores is unspecified.
func sortByScore(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i].Score, results[j].Score
		if isNaN(a) || isNaN(b) {
			return !isNaN(a) && isNaN(b)
		}
		return a > b
	})
}

func isNaN(f float32) bool {
	return f != f
}
