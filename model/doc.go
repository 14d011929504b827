// Package model holds discrete graphical models and their observation
// streams, and reads and writes them in the supported file formats.
//
// A Model is a variable arena plus an ordered list of dense tables. Static
// models (BAYES, MARKOV) are answered by elimination.Marginal; dynamic models
// (DBAYES) additionally declare
//
//   - Transition: next-slice variable id → current-slice variable id,
//   - Sensor:     observed variable ids,
//   - Prior:      optional current-slice ids whose tables form the prior,
//   - Internal:   optional ids; when given, the only variables eliminated out
//                 of the sensor model.
//
// Partition splits the tables of a dynamic model into prior, transition and
// sensor parts, which is what the filter package consumes.
//
// Formats:
//
//	.uai         UAI competition format (BAYES / MARKOV).
//	.duai        dynamic UAI: header DBAYES and '#'-titled sections.
//	.evid        observation stream: "<nsensors> <T>", one row per sensor
//	             "<id> o1 .. oT", then "<nstate> <id> ..".
//	.yaml/.yml   YAML rendering of either a model or an observation stream.
//
// Table cells are listed with the last scope variable varying fastest, the
// convention of package factor, so scopes are read as declared.
package model
