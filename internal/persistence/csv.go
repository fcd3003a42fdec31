package persistence

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"task-tracker-api/internal/models"
)

// Header is the first line of every CSV snapshot.
var Header = []string{"id", "type", "name", "status", "description", "start", "duration", "epic"}

const (
	colID = iota
	colType
	colName
	colStatus
	colDescription
	colStart
	colDuration
	colEpic
)

// CSVBackend writes snapshots to a single CSV file.
type CSVBackend struct {
	path string
}

// NewCSVBackend returns a backend for the file at path. The file is created
// on first save.
func NewCSVBackend(path string) *CSVBackend {
	return &CSVBackend{path: path}
}

// Path returns the snapshot file location.
func (b *CSVBackend) Path() string { return b.path }

// Save implements Backend.Save. The file is replaced atomically.
func (b *CSVBackend) Save(_ context.Context, snap models.Snapshot) error {
	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := WriteCSV(w, snap); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Load implements Backend.Load. A missing or empty file is an empty snapshot.
func (b *CSVBackend) Load(context.Context) (models.Snapshot, error) {
	f, err := os.Open(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.Snapshot{}, nil
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// Close implements Backend.Close.
func (b *CSVBackend) Close() error { return nil }

// WriteCSV encodes snap as a header line followed by one row per record:
// tasks, then epics, then subtasks.
func WriteCSV(w io.Writer, snap models.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range snap.All() {
		if err := cw.Write(encodeRow(t)); err != nil {
			return fmt.Errorf("write record %d: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV decodes a snapshot written by WriteCSV. Epic subtask lists are
// not stored in the file; Manager.Restore rebuilds them.
func ReadCSV(r io.Reader) (models.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var snap models.Snapshot
	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return snap, nil
	}
	if err != nil {
		return snap, fmt.Errorf("read header: %w", err)
	}
	if !equalHeader(head) {
		return snap, fmt.Errorf("unexpected snapshot header %q", head)
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return snap, nil
		}
		if err != nil {
			return snap, fmt.Errorf("read record: %w", err)
		}
		t, err := decodeRow(row)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return snap, fmt.Errorf("line %d: %w", line, err)
		}
		snap.Put(t)
	}
}

func encodeRow(t models.Task) []string {
	start := ""
	if t.IsScheduled() {
		start = t.StartTime.Format(time.RFC3339Nano)
	}
	epic := ""
	if t.Type == models.TypeSubtask {
		epic = strconv.Itoa(t.EpicID)
	}
	return []string{
		strconv.Itoa(t.ID),
		string(t.Type),
		t.Name,
		string(t.Status),
		t.Description,
		start,
		t.Duration.String(),
		epic,
	}
}

func decodeRow(row []string) (models.Task, error) {
	if len(row) < colEpic {
		return models.Task{}, fmt.Errorf("expected at least %d columns, got %d", colEpic, len(row))
	}
	var t models.Task
	var err error
	if t.ID, err = strconv.Atoi(row[colID]); err != nil {
		return t, fmt.Errorf("bad id %q: %w", row[colID], err)
	}
	if t.Type, err = models.ParseType(row[colType]); err != nil {
		return t, err
	}
	if t.Status, err = models.ParseStatus(row[colStatus]); err != nil {
		return t, err
	}
	t.Name = row[colName]
	t.Description = row[colDescription]
	if row[colStart] != "" {
		if t.StartTime, err = time.Parse(time.RFC3339Nano, row[colStart]); err != nil {
			return t, fmt.Errorf("bad start time %q: %w", row[colStart], err)
		}
	}
	if row[colDuration] != "" {
		if t.Duration, err = time.ParseDuration(row[colDuration]); err != nil {
			return t, fmt.Errorf("bad duration %q: %w", row[colDuration], err)
		}
	}
	if t.Type == models.TypeSubtask {
		if len(row) <= colEpic || row[colEpic] == "" {
			return t, fmt.Errorf("subtask %d has no epic", t.ID)
		}
		if t.EpicID, err = strconv.Atoi(row[colEpic]); err != nil {
			return t, fmt.Errorf("bad epic id %q: %w", row[colEpic], err)
		}
	}
	return t, nil
}

func equalHeader(head []string) bool {
	if len(head) != len(Header) {
		return false
	}
	for i := range Header {
		if head[i] != Header[i] {
			return false
		}
	}
	return true
}
