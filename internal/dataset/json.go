package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/merhi-odg/roi-monitor/internal/models"
)

// LoadJSON reads records from a file holding either a JSON array of objects
// or JSON Lines (one object per line).
func LoadJSON(path string) ([]models.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("json: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	return ReadJSON(f, path)
}

// ReadJSON parses a JSON array or a JSON Lines stream from r. Numbers are
// kept as json.Number so amounts are not rounded through float64.
func ReadJSON(r io.Reader, name string) ([]models.Record, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Record{}, nil
		}
		return nil, fmt.Errorf("json: read %s: %w", name, err)
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	if first == '[' {
		var rows []models.Record
		if err := dec.Decode(&rows); err != nil {
			return nil, fmt.Errorf("json: parse %s: %w", name, err)
		}
		if rows == nil {
			rows = []models.Record{}
		}
		return rows, nil
	}

	rows := []models.Record{}
	for line := 1; ; line++ {
		var row models.Record
		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("json: parse %s: record %d: %w", name, line, err)
		}
		if row == nil {
			return nil, fmt.Errorf("json: parse %s: record %d is null", name, line)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsRune([]byte(" \t\r\n"), rune(b)) {
			return b, br.UnreadByte()
		}
	}
}
