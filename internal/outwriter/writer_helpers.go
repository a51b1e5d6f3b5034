package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/huangsam/blameshare/schema"
)

// StdoutFile is the output name that writes to standard output.
const StdoutFile = "-"

// reportFileMode is applied to the temporary file before it replaces the destination.
const reportFileMode = 0o644

// writeWithFile runs writer against the destination file. The content goes to a
// temporary file next to the destination, which is renamed over it only after
// every byte is written and synced. On failure the temporary file is removed and
// the destination is left untouched.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string, quiet bool) error {
	if outputFile == StdoutFile {
		if err := writer(os.Stdout); err != nil {
			return &schema.OutputWriteError{Path: outputFile, Err: err}
		}
		return nil
	}

	if err := writeAtomic(outputFile, writer); err != nil {
		return &schema.OutputWriteError{Path: outputFile, Err: err}
	}

	if !quiet {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeAtomic writes to a temporary sibling of path and renames it into place.
func writeAtomic(path string, writer func(io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := writer(tmp); err != nil {
		return err
	}
	if err := tmp.Chmod(reportFileMode); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
