package dupehash

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// ReportOptions controls how a Report is rendered
type ReportOptions struct {
	Format    string // human, json, fdupes
	Separator string // joins the paths of one group in human format
	ShowSize  bool   // per-group wasted space line
	ShowTotal bool   // total wasted space line
	ShowTime  bool   // elapsed time line
}

// DefaultReportOptions returns human output with newline-separated paths
func DefaultReportOptions() *ReportOptions {
	return &ReportOptions{Format: DefaultOutputFormat, Separator: DefaultSeparator}
}

// SetDetails turns on every annotation
func (o *ReportOptions) SetDetails() {
	o.ShowSize = true
	o.ShowTotal = true
	o.ShowTime = true
}

// NoFilesMessage is printed in human format when nothing qualified for hashing
const NoFilesMessage = "No files to scan, dupehash will now exit"

// RenderReport writes r to w in the configured format. Output is assembled
// as one segment per group and handed to the platform writer in one go.
func RenderReport(w io.Writer, r *Report, opts *ReportOptions) error {
	if opts == nil {
		opts = DefaultReportOptions()
	}

	var segments [][]byte
	switch strings.ToLower(opts.Format) {
	case "", "human":
		segments = renderHuman(r, opts)
	case "fdupes":
		segments = renderFdupes(r)
	case "json":
		data, err := renderJSON(r)
		if err != nil {
			return err
		}
		segments = [][]byte{data}
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}

	return writeSegments(w, segments)
}

func renderHuman(r *Report, opts *ReportOptions) [][]byte {
	if r.NoCandidates() {
		return [][]byte{[]byte(NoFilesMessage + "\n")}
	}

	separator := opts.Separator
	if separator == "" {
		separator = DefaultSeparator
	}

	segments := make([][]byte, 0, len(r.Groups)+2)
	segments = append(segments, []byte("\n"))
	for i := range r.Groups {
		g := &r.Groups[i]
		var sb strings.Builder
		sb.WriteString(strings.Join(g.Files, separator))
		sb.WriteByte('\n')
		if opts.ShowSize {
			fmt.Fprintf(&sb, "^ %s of wasted space\n", FormatDecimalBytes(g.Wasted))
		}
		sb.WriteByte('\n')
		segments = append(segments, []byte(sb.String()))
	}

	var tail strings.Builder
	if opts.ShowTime {
		fmt.Fprintf(&tail, "Took %s to complete\n", FormatElapsed(r.Elapsed))
	}
	if opts.ShowTotal {
		fmt.Fprintf(&tail, "%s total wasted space\n", FormatDecimalBytes(r.TotalWasted))
	}
	if tail.Len() > 0 {
		segments = append(segments, []byte(tail.String()))
	}
	return segments
}

func renderFdupes(r *Report) [][]byte {
	segments := make([][]byte, 0, len(r.Groups))
	for i := range r.Groups {
		segments = append(segments, []byte(strings.Join(r.Groups[i].Files, "\n")+"\n\n"))
	}
	return segments
}

type jsonReport struct {
	RunID          string           `json:"run_id"`
	Root           string           `json:"root"`
	Algorithm      string           `json:"algorithm"`
	TypeID         uint16           `json:"type_id"`
	DigestBits     int              `json:"digest_bits"`
	Candidates     int              `json:"candidates"`
	CandidateBytes uint64           `json:"candidate_bytes"`
	Groups         []DuplicateGroup `json:"groups"`
	TotalWasted    uint64           `json:"total_wasted"`
	Warnings       []string         `json:"warnings,omitempty"`
	HashErrors     []string         `json:"hash_errors,omitempty"`
	ElapsedMillis  int64            `json:"elapsed_ms"`
}

func renderJSON(r *Report) ([]byte, error) {
	out := jsonReport{
		RunID:          r.RunID,
		Root:           r.Root,
		Algorithm:      r.Algorithm,
		TypeID:         r.HashType,
		Candidates:     r.CandidateCount,
		CandidateBytes: r.CandidateBytes,
		Groups:         r.Groups,
		TotalWasted:    r.TotalWasted,
		ElapsedMillis:  r.Elapsed.Milliseconds(),
	}
	if algo, err := GetHashAlgorithmByType(r.HashType); err == nil {
		out.DigestBits = algo.Size * 8
	}
	if out.Groups == nil {
		out.Groups = []DuplicateGroup{}
	}
	for _, w := range r.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	for _, e := range r.HashErrors {
		out.HashErrors = append(out.HashErrors, e.Error())
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// FormatElapsed renders a duration with two decimals in the largest fitting unit
func FormatElapsed(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.2fµs", float64(d)/float64(time.Microsecond))
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

// writeSegmentsSequential writes each segment with a plain Write
func writeSegmentsSequential(w io.Writer, segments [][]byte) error {
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if _, err := w.Write(seg); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}
