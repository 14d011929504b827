// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/dbn/factor"
)

// yamlModel is the YAML document of a model.
type yamlModel struct {
	// Kind is BAYES, MARKOV or DBAYES.
	Kind string `yaml:"kind"`

	// Variables lists cardinalities; the i-th entry is variable i.
	Variables []int `yaml:"variables"`

	// Prior, Interface, Observations and Internal mirror the DUAI sections.
	Prior        []int       `yaml:"prior,omitempty"`
	Interface    []yamlPair  `yaml:"interface,omitempty"`
	Observations []int       `yaml:"observations,omitempty"`
	Internal     []int       `yaml:"internal,omitempty"`
	Factors      []yamlTable `yaml:"factors"`
}

// yamlPair links the two slices of an interface variable.
type yamlPair struct {
	Current int `yaml:"current"`
	Next    int `yaml:"next"`
}

// yamlTable is one factor: scope ids and cells (last scope variable fastest).
type yamlTable struct {
	Scope  []int     `yaml:"scope,flow"`
	Values []float64 `yaml:"values,flow"`
}

// yamlObservations is the YAML document of an observation stream.
type yamlObservations struct {
	State []int         `yaml:"state,flow"`
	Steps []map[int]int `yaml:"steps"`
}

// ReadYAMLModel decodes a model document. Unknown fields are rejected.
//
// Errors:
//   - ErrSyntax: malformed YAML or unknown fields.
//   - ErrUnsupportedKind / ErrInconsistent: as for the text formats.
func ReadYAMLModel(r io.Reader) (*Model, error) {
	var doc yamlModel
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("ReadYAMLModel: %v: %w", err, ErrSyntax)
	}

	kind, err := ParseKind(doc.Kind)
	if err != nil {
		return nil, fmt.Errorf("ReadYAMLModel: %w", err)
	}
	arena, err := factor.NewArena(doc.Variables...)
	if err != nil {
		return nil, fmt.Errorf("ReadYAMLModel: %v: %w", err, ErrInconsistent)
	}
	m := &Model{Kind: kind, Arena: arena, Prior: doc.Prior, Sensor: doc.Observations, Internal: doc.Internal}
	if kind == Dynamic || len(doc.Interface) > 0 {
		m.Transition = make(map[int]int, len(doc.Interface))
		for _, p := range doc.Interface {
			if _, dup := m.Transition[p.Next]; dup {
				return nil, fmt.Errorf("ReadYAMLModel: %w", inconsistentf("interface: next variable %d listed twice", p.Next))
			}
			m.Transition[p.Next] = p.Current
		}
	}
	for i, t := range doc.Factors {
		scope, err := arena.Lookup(t.Scope)
		if err != nil {
			return nil, fmt.Errorf("ReadYAMLModel: %w", inconsistentf("factor %d: %v", i, err))
		}
		f, err := factor.NewDenseScope(scope, t.Values)
		if err != nil || f.Width() != len(scope) || len(t.Values) != f.Size() {
			return nil, fmt.Errorf("ReadYAMLModel: %w", inconsistentf("factor %d: scope %v with %d values", i, t.Scope, len(t.Values)))
		}
		m.Factors = append(m.Factors, f)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("ReadYAMLModel: %w", err)
	}

	return m, nil
}

// WriteYAMLModel encodes m; ReadYAMLModel reads it back unchanged.
func WriteYAMLModel(w io.Writer, m *Model) error {
	doc := yamlModel{
		Kind:         string(m.Kind),
		Prior:        m.Prior,
		Observations: m.Sensor,
		Internal:     m.Internal,
	}
	for _, v := range m.Arena.Variables() {
		doc.Variables = append(doc.Variables, v.Card)
	}
	current, next := m.Interface()
	for i := range current {
		doc.Interface = append(doc.Interface, yamlPair{Current: current[i].ID, Next: next[i].ID})
	}
	for _, f := range m.Factors {
		doc.Factors = append(doc.Factors, yamlTable{Scope: factor.IDs(f.Domain().Scope()), Values: f.Values()})
	}

	return encodeYAML(w, doc)
}

// ReadYAMLObservations decodes an observation stream document.
func ReadYAMLObservations(r io.Reader) (*Observations, error) {
	var doc yamlObservations
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("ReadYAMLObservations: %v: %w", err, ErrSyntax)
	}
	o := &Observations{State: doc.State, Steps: make([]factor.Evidence, len(doc.Steps))}
	for t, step := range doc.Steps {
		o.Steps[t] = factor.Evidence(step)
		if o.Steps[t] == nil {
			o.Steps[t] = factor.Evidence{}
		}
	}

	return o, nil
}

// WriteYAMLObservations encodes o.
func WriteYAMLObservations(w io.Writer, o *Observations) error {
	doc := yamlObservations{State: o.State, Steps: make([]map[int]int, len(o.Steps))}
	for t, ev := range o.Steps {
		doc.Steps[t] = map[int]int(ev)
	}

	return encodeYAML(w, doc)
}

func encodeYAML(w io.Writer, doc any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}

	return enc.Close()
}

// sortedIDs returns the keys of a set in ascending order.
func sortedIDs(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)

	return out
}
