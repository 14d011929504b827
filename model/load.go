// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File extensions understood by LoadModel, LoadObservations and Save*.
const (
	ExtUAI      = ".uai"
	ExtDUAI     = ".duai"
	ExtEvidence = ".evid"
	ExtYAML     = ".yaml"
	ExtYML      = ".yml"
)

// LoadModel reads a model file, picking the format from its extension.
//
// Errors:
//   - ErrUnsupportedKind: unknown extension.
//   - file system errors, and the reader's errors.
func LoadModel(path string) (*Model, error) {
	var read func(io.Reader) (*Model, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtUAI:
		read = ReadUAI
	case ExtDUAI:
		read = ReadDUAI
	case ExtYAML, ExtYML:
		read = ReadYAMLModel
	default:
		return nil, fmt.Errorf("LoadModel: extension %q: %w", ext, ErrUnsupportedKind)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadModel: %w", err)
	}
	defer f.Close()

	return read(f)
}

// LoadObservations reads an observation file, picking the format from its
// extension.
func LoadObservations(path string) (*Observations, error) {
	var read func(io.Reader) (*Observations, error)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtEvidence:
		read = ReadEvidence
	case ExtYAML, ExtYML:
		read = ReadYAMLObservations
	default:
		return nil, fmt.Errorf("LoadObservations: extension %q: %w", ext, ErrUnsupportedKind)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadObservations: %w", err)
	}
	defer f.Close()

	return read(f)
}

// SaveModel writes m to path in the format its extension names.
func SaveModel(path string, m *Model) error {
	var write func(io.Writer, *Model) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtUAI:
		write = WriteUAI
	case ExtDUAI:
		write = WriteDUAI
	case ExtYAML, ExtYML:
		write = WriteYAMLModel
	default:
		return fmt.Errorf("SaveModel: extension %q: %w", ext, ErrUnsupportedKind)
	}

	return writeFile(path, func(w io.Writer) error { return write(w, m) })
}

// SaveObservations writes o to path in the format its extension names.
func SaveObservations(path string, o *Observations) error {
	var write func(io.Writer, *Observations) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ExtEvidence:
		write = WriteEvidence
	case ExtYAML, ExtYML:
		write = WriteYAMLObservations
	default:
		return fmt.Errorf("SaveObservations: extension %q: %w", ext, ErrUnsupportedKind)
	}

	return writeFile(path, func(w io.Writer) error { return write(w, o) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
