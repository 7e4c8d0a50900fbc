package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/pgzip"

	"github.com/gyeh/fraud-signals/internal/progress"
)

// LEIE column names as published by OIG.
const (
	leieNPICol      = "NPI"
	leieExclDateCol = "EXCLDATE"
	leieReinDateCol = "REINDATE"
	leieExclTypeCol = "EXCLTYPE"
)

// LoadExclusions reads the OIG LEIE exclusion list CSV. Exclusion and
// reinstatement dates arrive as YYYYMMDD; unparseable or zero values are
// treated as absent. Files ending in .gz are decompressed on the fly.
func LoadExclusions(path string, tracker progress.Tracker) ([]ExclusionRow, error) {
	r, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return nil, fmt.Errorf("opening exclusions file: %w", err)
	}
	defer closeFn()

	cr := newCSVReader(r)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading exclusions header: %w", err)
	}
	idx := headerIndex(header)

	npiIdx, ok := idx[leieNPICol]
	if !ok {
		return nil, fmt.Errorf("exclusions file has no %s column (columns: %v)", leieNPICol, header)
	}
	exclIdx, hasExcl := idx[leieExclDateCol]
	reinIdx, hasRein := idx[leieReinDateCol]
	typeIdx, hasType := idx[leieExclTypeCol]

	var rows []ExclusionRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading exclusions row: %w", err)
		}

		row := ExclusionRow{NPI: NormalizeNPI(field(rec, npiIdx))}
		if hasExcl {
			row.ExclusionDate, row.HasExclusionDate = parseLEIEDate(field(rec, exclIdx))
		}
		if hasRein {
			row.ReinstateDate, row.HasReinstateDate = parseLEIEDate(field(rec, reinIdx))
		}
		if hasType {
			row.ExclusionType = field(rec, typeIdx)
		}
		rows = append(rows, row)

		if tracker != nil && len(rows)%100000 == 0 {
			tracker.SetCounter("records", int64(len(rows)))
		}
	}

	return rows, nil
}

// parseLEIEDate handles the LEIE YYYYMMDD convention where "0" and empty
// both mean no date.
func parseLEIEDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return time.Time{}, false
	}
	return ParseDate(s)
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

// newCSVReader wraps r in a CSV reader tolerant of the quirks in published
// government extracts: variable field counts and loose quoting.
func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// openMaybeGzip opens path for reading, transparently decompressing .gz
// files with pgzip (parallel inflate, the registry extract is multi-GB).
func openMaybeGzip(path string) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	br := bufio.NewReaderSize(f, 256*1024)

	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		return skipBOM(bufio.NewReaderSize(zr, 256*1024)), func() error {
			zr.Close()
			return f.Close()
		}, nil
	}

	return skipBOM(br), f.Close, nil
}

func skipBOM(br *bufio.Reader) *bufio.Reader {
	bom, err := br.Peek(3)
	if err == nil && len(bom) == 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		br.Discard(3)
	}
	return br
}
