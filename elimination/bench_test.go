// Package elimination_test provides benchmarks for bucket elimination on
// seeded random networks.
package elimination_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/dbn/elimination"
	"github.com/katalvlaran/dbn/factor"
)

// sink to defeat dead-code elimination
var sinkT factor.Table

func BenchmarkMarginal(b *testing.B) {
	b.ReportAllocs()
	for _, n := range []int{8, 16, 32} {
		for _, backend := range []factor.Backend{factor.DenseBackend, factor.SparseBackend} {
			b.Run(fmt.Sprintf("%s/n=%d", backend.Name(), n), func(b *testing.B) {
				vars, tables := network(b, 1337, n)
				query := vars[:1]
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					m, err := elimination.Marginal(tables, query, elimination.WithBackend(backend))
					if err != nil {
						b.Fatal(err)
					}
					sinkT = m
				}
			})
		}
	}
}
