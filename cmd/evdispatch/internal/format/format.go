// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// OutputMode defines the output format for CLI commands
type OutputMode string

const (
	// ModeJSON outputs data as JSON
	ModeJSON OutputMode = "json"
	// ModeYAML outputs data as YAML
	ModeYAML OutputMode = "yaml"
	// ModeTable outputs data as ASCII table
	ModeTable OutputMode = "table"
)

// Formatter provides consistent output formatting across CLI commands
type Formatter interface {
	// Mode returns the active output mode.
	Mode() OutputMode

	// Render writes data as JSON or YAML in those modes, and headers/rows as
	// a table otherwise.
	Render(data any, headers []string, rows [][]string) error

	// PrintJSON outputs data as JSON to stdout
	PrintJSON(data any) error

	// PrintYAML outputs data as YAML to stdout
	PrintYAML(data any) error

	// PrintTable outputs data as ASCII table to stdout
	PrintTable(headers []string, rows [][]string) error

	// PrintSummary outputs a summary message to stdout (unless quiet mode)
	PrintSummary(message string) error

	// PrintError outputs an error to stderr (or a structured error to stdout
	// in JSON/YAML mode)
	PrintError(err error) error
}

// formatter implements the Formatter interface
type formatter struct {
	stdout io.Writer
	stderr io.Writer
	mode   OutputMode
	quiet  bool
	color  bool
}

// New creates a new Formatter
func New(stdout, stderr io.Writer, mode OutputMode, quiet, color bool) Formatter {
	return &formatter{
		stdout: stdout,
		stderr: stderr,
		mode:   mode,
		quiet:  quiet,
		color:  color,
	}
}

func (f *formatter) Mode() OutputMode { return f.mode }

func (f *formatter) structured() bool {
	return f.mode == ModeJSON || f.mode == ModeYAML
}

func (f *formatter) Render(data any, headers []string, rows [][]string) error {
	switch f.mode {
	case ModeJSON:
		return f.PrintJSON(data)
	case ModeYAML:
		return f.PrintYAML(data)
	default:
		return f.PrintTable(headers, rows)
	}
}

// PrintJSON outputs data as JSON to stdout
func (f *formatter) PrintJSON(data any) error {
	enc := json.NewEncoder(f.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// PrintYAML outputs data as YAML to stdout
func (f *formatter) PrintYAML(data any) error {
	enc := yaml.NewEncoder(f.stdout)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}

// PrintTable outputs data as ASCII table to stdout
func (f *formatter) PrintTable(headers []string, rows [][]string) error {
	if f.structured() {
		// convert the table to a list of header-keyed objects
		items := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			item := make(map[string]string)
			for i, header := range headers {
				if i < len(row) {
					item[header] = row[i]
				}
			}
			items = append(items, item)
		}
		if f.mode == ModeYAML {
			return f.PrintYAML(items)
		}
		return f.PrintJSON(items)
	}

	w := tabwriter.NewWriter(f.stdout, 0, 0, 2, ' ', 0)

	// upper-case and bold headers when color is enabled
	if f.color {
		headerLine := make([]string, len(headers))
		for i, h := range headers {
			headerLine[i] = color.New(color.Bold).Sprint(strings.ToUpper(h))
		}
		if _, err := fmt.Fprintln(w, strings.Join(headerLine, "\t")); err != nil {
			return err
		}
	} else {
		if _, err := fmt.Fprintln(w, strings.Join(headers, "\t")); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return w.Flush()
}

// PrintSummary outputs a summary message to stdout (unless quiet mode)
func (f *formatter) PrintSummary(message string) error {
	if f.quiet {
		return nil
	}

	if f.structured() {
		// keep stdout machine-readable
		_, err := fmt.Fprintln(f.stderr, message)
		return err
	}

	if f.color {
		_, err := color.New(color.FgGreen).Fprintln(f.stdout, message)
		return err
	}

	_, err := fmt.Fprintln(f.stdout, message)
	return err
}

// errorReport is the structured form of PrintError.
type errorReport struct {
	Success     bool     `json:"success" yaml:"success"`
	Error       string   `json:"error" yaml:"error"`
	Code        string   `json:"code,omitempty" yaml:"code,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// PrintError outputs an error to stderr (or a structured error to stdout in
// JSON/YAML mode).
func (f *formatter) PrintError(err error) error {
	return f.printError(err, "")
}

// PrintCodedError is PrintError with an error code and its suggestions.
func PrintCodedError(f Formatter, err error, code string) error {
	if impl, ok := f.(*formatter); ok {
		return impl.printError(err, code)
	}
	return f.PrintError(err)
}

func (f *formatter) printError(err error, code string) error {
	if err == nil {
		return nil
	}
	suggestions := GetSuggestions(code)

	if f.structured() {
		report := errorReport{Success: false, Error: err.Error(), Code: code, Suggestions: suggestions}
		if f.mode == ModeYAML {
			return f.PrintYAML(report)
		}
		return f.PrintJSON(report)
	}

	var writeErr error
	if f.color {
		_, writeErr = color.New(color.FgRed).Fprintf(f.stderr, "Error: %v\n", err)
	} else {
		_, writeErr = fmt.Fprintf(f.stderr, "Error: %v\n", err)
	}
	if writeErr != nil || len(suggestions) == 0 {
		return writeErr
	}

	if _, err := fmt.Fprintln(f.stderr, "\nSuggestions:"); err != nil {
		return err
	}
	for _, s := range suggestions {
		if _, err := fmt.Fprintf(f.stderr, "  -> %s\n", s); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks if the output mode is valid
func ValidateMode(mode string) error {
	switch OutputMode(strings.ToLower(mode)) {
	case ModeJSON, ModeYAML, ModeTable:
		return nil
	default:
		return fmt.Errorf("invalid output mode: %s (must be 'table', 'json' or 'yaml')", mode)
	}
}

// ParseMode converts a string to OutputMode
func ParseMode(mode string) OutputMode {
	switch strings.ToLower(mode) {
	case "json":
		return ModeJSON
	case "yaml", "yml":
		return ModeYAML
	default:
		return ModeTable
	}
}
