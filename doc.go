// Package vectordb is an embeddable vector store for Go.
//
// Embeddings are kept in a single SQLite file (modernc.org/sqlite, no cgo)
// next to an opaque metadata string, usually JSON. Queries are answered by
// scanning every row and ranking by cosine similarity; there is no
// approximate index.
//
// # Quick Start
//
//	db, err := vectordb.Open("vectors.db", vectordb.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	ctx := context.Background()
//	_ = db.Insert(ctx, "doc1", vectordb.FromSlice([]float32{0.1, 0.2, 0.3, 0.4}), `{"title": "Document 1"}`)
//
//	results, _ := db.Search(ctx, vectordb.FromSlice([]float32{0.15, 0.25, 0.35, 0.45}), 5)
//	for _, r := range results {
//	    fmt.Printf("ID: %s, Score: %.4f\n", r.ID, r.Score)
//	}
//
// # Dimensions
//
// The first successful Insert on a VectorDB fixes its dimension; later
// inserts with another length fail with a DimensionMismatchError. The
// dimension lives in memory only, so a freshly opened store accepts any
// length until its first insert. Clear does not reset it.
//
// # Similarity
//
// Cosine similarity runs on an eight lane accumulation kernel when the CPU
// has wide vector units and on a scalar loop otherwise. Both produce the
// same scores up to floating point summation order.
//
// # Observability
//
// Config.Logger takes any Logger; NewLogger builds one on logrus.
// Config.Metrics takes a MetricsCollector; pkg/metrics exports to
// Prometheus. Search reports rows it skipped because their embedding could
// not be decoded through both.
//
// # Replication
//
// Config.Publisher receives a pkg/peersync message after every committed
// insert and delete. The package defines message shapes only.
package vectordb
