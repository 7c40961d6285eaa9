// Copyright 2026 The Dataquest Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Column names.
const (
	ColumnFilePath  = "file_path"
	ColumnArticleID = "article_id"
	ColumnSelected  = "selected"
)

// Row is one article reference. Index is the zero-based position of the
// row among the table's data rows.
type Row struct {
	Index     int
	FilePath  string
	ArticleID string
}

// Table is a CSV file held in memory with its header.
type Table struct {
	header  []string
	records [][]string
}

// Read parses the CSV file at path. The first record is the header.
func Read(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer file.Close()

	table, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return table, nil
}

// Parse reads a CSV table from reader.
func Parse(reader io.Reader) (*Table, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("manifest is empty (no header)")
	}

	header := records[0]
	// A UTF-8 byte order mark would otherwise become part of the
	// first column name.
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	table := &Table{header: header, records: records[1:]}
	for i, record := range table.records {
		if len(record) > len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(record), len(header))
		}
		for len(record) < len(header) {
			record = append(record, "")
		}
		table.records[i] = record
	}
	return table, nil
}

// Header returns a copy of the column names.
func (t *Table) Header() []string {
	return slices.Clone(t.header)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Column returns the position of name in the header, or -1.
func (t *Table) Column(name string) int {
	return slices.Index(t.header, name)
}

// Value returns the field of row in column name, or "" when the column
// does not exist.
func (t *Table) Value(row int, name string) string {
	column := t.Column(name)
	if column < 0 || row < 0 || row >= len(t.records) {
		return ""
	}
	return t.records[row][column]
}

// Rows returns the article references in table order. The table must
// have file_path and article_id columns.
func (t *Table) Rows() ([]Row, error) {
	pathColumn := t.Column(ColumnFilePath)
	idColumn := t.Column(ColumnArticleID)
	var missing []string
	if pathColumn < 0 {
		missing = append(missing, ColumnFilePath)
	}
	if idColumn < 0 {
		missing = append(missing, ColumnArticleID)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("manifest is missing required columns: %s", strings.Join(missing, ", "))
	}

	rows := make([]Row, len(t.records))
	for i, record := range t.records {
		rows[i] = Row{
			Index:     i,
			FilePath:  record[pathColumn],
			ArticleID: record[idColumn],
		}
	}
	return rows, nil
}

// SetSelected writes 1 into the selected column for every index in
// selected and 0 for all other rows, adding the column if needed.
func (t *Table) SetSelected(selected []int) error {
	for _, index := range selected {
		if index < 0 || index >= len(t.records) {
			return fmt.Errorf("selected index %d out of range [0, %d)", index, len(t.records))
		}
	}

	column := t.Column(ColumnSelected)
	if column < 0 {
		t.header = append(t.header, ColumnSelected)
		column = len(t.header) - 1
		for i := range t.records {
			t.records[i] = append(t.records[i], "")
		}
	}
	for i := range t.records {
		t.records[i][column] = "0"
	}
	for _, index := range selected {
		t.records[index][column] = "1"
	}
	return nil
}

// SelectedRows returns the rows whose selected column is 1. A table
// without a selected column has no selected rows.
func (t *Table) SelectedRows() ([]Row, error) {
	rows, err := t.Rows()
	if err != nil {
		return nil, err
	}
	column := t.Column(ColumnSelected)
	if column < 0 {
		return nil, nil
	}
	var selected []Row
	for _, row := range rows {
		if strings.TrimSpace(t.records[row.Index][column]) == "1" {
			selected = append(selected, row)
		}
	}
	return selected, nil
}

// WriteTo writes the table as CSV.
func (t *Table) WriteTo(writer io.Writer) (int64, error) {
	counter := &countingWriter{writer: writer}
	csvWriter := csv.NewWriter(counter)
	if err := csvWriter.Write(t.header); err != nil {
		return counter.count, err
	}
	if err := csvWriter.WriteAll(t.records); err != nil {
		return counter.count, err
	}
	return counter.count, nil
}

// Write replaces the file at path with the table. The new content is
// written to a temporary file in the same directory and renamed into
// place, so readers never see a partial manifest.
func (t *Table) Write(path string) error {
	return writeAtomic(path, func(writer io.Writer) error {
		_, err := t.WriteTo(writer)
		return err
	})
}

func writeAtomic(path string, write func(io.Writer) error) error {
	directory := filepath.Dir(path)
	temporary, err := os.CreateTemp(directory, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", path, err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if err := write(temporary); err != nil {
		temporary.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := temporary.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", temporaryPath, err)
	}
	// CreateTemp makes the file 0600; the replacement keeps the mode of
	// the file it replaces, or gets 0644 when there is none.
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", path, err)
	}
	if err := os.Chmod(temporaryPath, mode); err != nil {
		return fmt.Errorf("setting mode of %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

type countingWriter struct {
	writer io.Writer
	count  int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.writer.Write(p)
	c.count += int64(n)
	return n, err
}
