// Package filter_test provides benchmarks for the filtering methods on
// generated circuit models.
package filter_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/dbn/filter"
	"github.com/katalvlaran/dbn/gen"
)

// sink to defeat dead-code elimination
var sinkR *filter.Result

func BenchmarkRun(b *testing.B) {
	b.ReportAllocs()
	for _, steps := range []int{5, 20} {
		for _, method := range methods {
			if method == filter.Unrolled && steps > 5 {
				continue // quadratic in steps
			}
			b.Run(fmt.Sprintf("%s/T=%d", method, steps), func(b *testing.B) {
				m, obs, err := gen.Circuit(4, 6, 2, gen.WithSeed(1337), gen.WithObservations(steps))
				if err != nil {
					b.Fatal(err)
				}
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					res, err := filter.Run(m, obs, method)
					if err != nil {
						b.Fatal(err)
					}
					sinkR = res
				}
			})
		}
	}
}
