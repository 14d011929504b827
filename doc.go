// Package dbn is exact inference for discrete dynamic Bayesian networks:
// filtering a belief over a hidden state through a stream of observations,
// plus the static variable-elimination machinery it is built on.
//
// 🚀 What is in the box?
//
//	A small, dependency-light toolkit that brings together:
//		• Tables: dense and sparse factors with product, sum-out, condition
//		• Elimination: bucket elimination with min-fill ordering
//		• Models: UAI, DUAI and YAML readers & writers, evidence streams
//		• Filtering: unrolled reference, interface algorithm (dense/sparse)
//		• Generators: circuit-diagnosis DBNs, Markov chains and grids
//
// Under the hood, everything is organized under these subpackages:
//
//	factor/       variables, domains, Dense & Sparse tables, the Arena
//	interaction/  interaction graph: min-fill, induced width
//	elimination/  Eliminate, MinFillOrder, Marginal, PartitionFunction
//	model/        Model & Observations, file formats
//	filter/       Session (interface algorithm), Run, Result
//	gen/          synthetic models for tests and benchmarks
//	cmd/dbn       the command line
//
// Quick ASCII example (one slice of a two-slice network):
//
//	H ──► H'
//	│     │
//	▼     ▼
//	O     O'
//
// H is the hidden state, O its observation; the interface algorithm only
// ever carries a table over H between steps.
//
//	go install github.com/katalvlaran/dbn/cmd/dbn@latest
package dbn
