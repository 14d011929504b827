// SPDX-License-Identifier: MIT
// Package: dbn/elimination
//
// eliminate.go: bucket elimination.
//
// Contract:
//   • Every variable of every input table is in the order or in the query.
//   • Inputs are never mutated; the result is a fresh table.
//   • Result scope: the query variables present in some table, in query order.
//
// Complexity:
//   • O(Σ size(bucket product)), dominated by the induced width of the order.

package elimination

import (
	"log/slog"

	"github.com/katalvlaran/dbn/factor"
	"github.com/katalvlaran/dbn/interaction"
)

// Eliminate sums every variable of order out of the product of tables and
// returns the table over the remaining (query) variables.
//
// Implementation:
//   - Stage 1 (Validate): order has no duplicates, is disjoint from query and,
//     with query, covers every scope variable.
//   - Stage 2 (Bucketing): each table goes to the bucket of its first order
//     variable; tables without one are multiplied into the result.
//   - Stage 3 (Eliminate): front to back, multiply a bucket, sum its variable
//     out, and move the product to the next bucket it touches.
//   - Stage 4 (Finalize): align the result onto query order.
//
// Errors:
//   - ErrMalformedOrder (*OrderError) for an order that fails Stage 1.
//   - factor errors from the table algebra, wrapped.
func Eliminate(tables []factor.Table, order, query []factor.Variable, opts ...Option) (factor.Table, error) {
	o := gatherOptions(opts...)

	pos, err := validate(tables, order, query)
	if err != nil {
		return nil, err
	}
	inputs, err := factor.ConvertAll(o.backend, tables)
	if err != nil {
		return nil, eliminationErrorf("Eliminate", err)
	}

	// Stage 2: bucketing.
	buckets := make([][]factor.Table, len(order))
	result := o.backend.Unit()
	for _, t := range inputs {
		if i, ok := firstBucket(t, pos, -1); ok {
			buckets[i] = append(buckets[i], t)
			continue
		}
		if result, err = result.Product(t); err != nil {
			return nil, eliminationErrorf("Eliminate", err)
		}
		o.stats.Products++
	}

	// Stage 3: elimination, front to back.
	for i, v := range order {
		o.stats.Eliminated++
		bucket := buckets[i]
		buckets[i] = nil
		if len(bucket) == 0 {
			continue
		}
		product := bucket[0]
		for _, t := range bucket[1:] {
			if product, err = product.Product(t); err != nil {
				return nil, eliminationErrorf("Eliminate", err)
			}
			o.stats.Products++
		}
		o.stats.observe(product)
		o.logger.Debug("eliminate",
			slog.Int("var", v.ID),
			slog.Int("bucket", len(bucket)),
			slog.Int("width", product.Width()),
			slog.Int("size", product.Size()))

		reduced, err := product.SumOut(v)
		if err != nil {
			return nil, eliminationErrorf("Eliminate", err)
		}
		o.stats.SumOuts++

		if j, ok := firstBucket(reduced, pos, i); ok {
			buckets[j] = append(buckets[j], reduced)
			continue
		}
		if result, err = result.Product(reduced); err != nil {
			return nil, eliminationErrorf("Eliminate", err)
		}
		o.stats.Products++
	}
	o.stats.observe(result)

	// Stage 4: query order.
	return alignQuery(result, query)
}

// validate checks the order against the query and the tables and returns
// the order position of every order variable.
func validate(tables []factor.Table, order, query []factor.Variable) (map[int]int, error) {
	pos := make(map[int]int, len(order))
	for i, v := range order {
		if _, dup := pos[v.ID]; dup {
			return nil, &OrderError{VarID: v.ID, Reason: reasonDuplicate}
		}
		pos[v.ID] = i
	}
	queried := make(map[int]struct{}, len(query))
	for _, v := range query {
		if _, both := pos[v.ID]; both {
			return nil, &OrderError{VarID: v.ID, Reason: reasonQueried}
		}
		queried[v.ID] = struct{}{}
	}
	for _, t := range tables {
		for _, v := range t.Domain().Scope() {
			_, inOrder := pos[v.ID]
			_, inQuery := queried[v.ID]
			if !inOrder && !inQuery {
				return nil, &OrderError{VarID: v.ID, Reason: reasonMissing}
			}
		}
	}

	return pos, nil
}

// firstBucket returns the smallest order position > after among t's scope.
func firstBucket(t factor.Table, pos map[int]int, after int) (int, bool) {
	best := -1
	for _, v := range t.Domain().Scope() {
		if p, ok := pos[v.ID]; ok && p > after && (best < 0 || p < best) {
			best = p
		}
	}

	return best, best >= 0
}

// alignQuery permutes result onto the query variables it holds, in query order.
func alignQuery(result factor.Table, query []factor.Variable) (factor.Table, error) {
	scope := make([]factor.Variable, 0, len(query))
	for _, v := range query {
		if result.InScope(v) {
			scope = append(scope, v)
		}
	}
	out, err := factor.Permute(result, scope)
	if err != nil {
		return nil, eliminationErrorf("Eliminate", err)
	}

	return out, nil
}

// MinFillOrder returns the min-fill order of every table variable not in
// query, scanning candidates in first-seen order.
func MinFillOrder(tables []factor.Table, query []factor.Variable) []factor.Variable {
	g := interaction.New(tables)
	keep := make(map[int]struct{}, len(query))
	for _, v := range query {
		keep[v.ID] = struct{}{}
	}
	hidden := make([]factor.Variable, 0, g.Len())
	for _, v := range g.Variables() {
		if _, ok := keep[v.ID]; !ok {
			hidden = append(hidden, v)
		}
	}

	return g.MinFill(hidden)
}

// Marginal returns the (unnormalized) marginal of the product of tables over
// query, eliminating everything else in min-fill order.
func Marginal(tables []factor.Table, query []factor.Variable, opts ...Option) (factor.Table, error) {
	return Eliminate(tables, MinFillOrder(tables, query), query, opts...)
}

// PartitionFunction returns Z, the sum of the product of tables over every
// joint instantiation.
func PartitionFunction(tables []factor.Table, opts ...Option) (float64, error) {
	z, err := Marginal(tables, nil, opts...)
	if err != nil {
		return 0, err
	}

	return z.Partition(), nil
}
