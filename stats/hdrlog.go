package stats

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/klauspost/compress/gzip"
)

// Histogram values are nanoseconds; the divisor makes the Interval_Max column
// of the log read in milliseconds.
const hdrMaxValueDivisor = 1_000_000.0

// HdrLogWriter appends interval histograms to a jHiccup style HDR log file.
// A `.gz` path gets gzip compressed transparently.
type HdrLogWriter struct {
	file *os.File
	gz   *gzip.Writer
	buf  *bufio.Writer

	start time.Time
}

// NewHdrLogWriter creates (truncating) the log file and writes its header.
func NewHdrLogWriter(path string, version string, start time.Time) (*HdrLogWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create HDR log file %s: %s", path, err)
	}

	w := &HdrLogWriter{file: file, start: start}

	var out io.Writer = file
	if strings.HasSuffix(path, ".gz") {
		w.gz = gzip.NewWriter(file)
		out = w.gz
	}
	w.buf = bufio.NewWriter(out)

	if err := w.writeHeader(version); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

func (w *HdrLogWriter) writeHeader(version string) error {
	startSec := float64(w.start.UnixMilli()) / 1000

	fmt.Fprintf(w.buf, "#[Logged with Cql-stress %s]\n", version)
	fmt.Fprintf(w.buf, "#[StartTime: %.3f (seconds since epoch), %s]\n",
		startSec, w.start.Format("Mon Jan 02 15:04:05 MST 2006"))
	fmt.Fprintf(w.buf, "#[BaseTime: %.3f (seconds since epoch)]\n", 0.0)
	fmt.Fprintf(w.buf, "#[MaxValueDivisor: %f]\n", hdrMaxValueDivisor)
	return w.buf.Flush()
}

// WriteInterval appends one `Tag=...` row covering [intervalStart, intervalEnd).
func (w *HdrLogWriter) WriteInterval(tag string, intervalStart, intervalEnd time.Time, h *hdrhistogram.Histogram) error {
	encoded, err := h.Encode(hdrhistogram.V2CompressedEncodingCookieBase)
	if err != nil {
		return fmt.Errorf("failed to encode histogram: %s", err)
	}

	// The timestamp column is the interval end relative to log start: the
	// first row of an N second interval reads ~N, and later rows step by one
	// interval each.
	endSec := intervalEnd.Sub(w.start).Seconds()
	lengthSec := intervalEnd.Sub(intervalStart).Seconds()
	maxValue := float64(h.Max()) / hdrMaxValueDivisor

	_, err = fmt.Fprintf(w.buf, "Tag=%s,%.3f,%.3f,%.3f,%s\n",
		tag, endSec, lengthSec, maxValue, base64.StdEncoding.EncodeToString(encoded))
	if err != nil {
		return err
	}
	return w.buf.Flush()
}

func (w *HdrLogWriter) Close() error {
	var firstErr error
	if err := w.buf.Flush(); err != nil {
		firstErr = err
	}
	if w.gz != nil {
		if err := w.gz.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := w.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
