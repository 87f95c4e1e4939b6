package vectordb_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/liliang-cn/vectordb"
)

func Example() {
	dir, err := os.MkdirTemp("", "vectordb-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	db, err := vectordb.Open(filepath.Join(dir, "vectors.db"), vectordb.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	documents := []struct {
		id       string
		vector   []float32
		metadata string
	}{
		{"doc1", []float32{0.1, 0.2, 0.3, 0.4}, `{"title": "Introduction to Go", "category": "programming"}`},
		{"doc2", []float32{0.2, 0.3, 0.4, 0.5}, `{"title": "Advanced Go Patterns", "category": "programming"}`},
		{"doc3", []float32{0.9, 0.1, 0.0, 0.0}, `{"title": "Machine Learning Basics", "category": "ai"}`},
		{"doc4", []float32{0.15, 0.25, 0.35, 0.45}, `{"title": "Go for Systems Programming", "category": "programming"}`},
	}
	for _, d := range documents {
		if err := db.Insert(ctx, d.id, vectordb.FromSlice(d.vector), d.metadata); err != nil {
			log.Fatal(err)
		}
	}

	results, err := db.Search(ctx, vectordb.FromSlice([]float32{0.15, 0.25, 0.35, 0.45}), 3)
	if err != nil {
		log.Fatal(err)
	}
	for i, r := range results {
		fmt.Printf("%d. %s %.4f\n", i+1, r.ID, r.Score)
	}

	if err := db.Delete(ctx, "doc3"); err != nil {
		log.Fatal(err)
	}
	n, _ := db.Count(ctx)
	fmt.Println("remaining:", n)

	// Output:
	// 1. doc4 1.0000
	// 2. doc2 0.9989
	// 3. doc1 0.9980
	// remaining: 3
}

func ExampleVectorDB_Get() {
	dir, err := os.MkdirTemp("", "vectordb-example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	db, err := vectordb.Open(filepath.Join(dir, "vectors.db"), vectordb.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	_ = db.Insert(ctx, "doc1", vectordb.FromSlice([]float32{1, 2, 3}), `{"title":"Test"}`)

	v, metadata, found, err := db.Get(ctx, "doc1")
	fmt.Println(v.AsSlice(), metadata, found, err)

	_, _, found, err = db.Get(ctx, "missing")
	fmt.Println(found, err)

	// Output:
	// [1 2 3] {"title":"Test"} true <nil>
	// false <nil>
}
