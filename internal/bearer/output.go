package bearer

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"

	berrors "github.com/bearer-community/bearer-mcp/internal/errors"
)

// emptyReport stands in for bearer's stdout when a clean json scan prints
// nothing at all.
const emptyReport = `{"findings": [], "summary": "No security issues detected"}`

// ScanOutput is the interpreted stdout of a completed scan.
type ScanOutput struct {
	// Structured is set when Report holds a parsed JSON document.
	Structured bool
	Report     json.RawMessage
	// Raw carries the scanner's text output when the format is not json or
	// json parsing degraded to passthrough.
	Raw string
	// Warning annotates a degraded (raw-text) json result.
	Warning string
}

// InterpretScan parses a scan's stdout according to the requested format.
// JSON parse failures degrade to raw text with a warning instead of failing
// the call; bearer interleaves progress lines with its report on some
// configurations.
func InterpretScan(res *ExecResult, format string) *ScanOutput {
	text := strings.TrimSpace(res.Stdout)

	if format != "json" {
		if text == "" {
			text = "Bearer scan completed successfully. No security issues detected."
		}
		return &ScanOutput{Raw: text}
	}

	if text == "" {
		return &ScanOutput{Structured: true, Report: json.RawMessage(emptyReport)}
	}

	doc, err := ExtractJSON(text)
	if err != nil {
		return &ScanOutput{
			Raw:     text,
			Warning: "Bearer scan completed but JSON parsing failed; returning raw output.",
		}
	}
	return &ScanOutput{Structured: true, Report: doc}
}

// ExtractJSON pulls a JSON document out of text that may carry leading or
// trailing log noise. The whole string is tried first, then the span between
// the first opening delimiter and the last matching closing one.
func ExtractJSON(text string) (json.RawMessage, error) {
	const op = "parse scan output"

	trimmed := strings.TrimSpace(text)
	if json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}

	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(trimmed, pair[0])
		end := strings.LastIndexByte(trimmed, pair[1])
		if start < 0 || end <= start {
			continue
		}
		candidate := trimmed[start : end+1]
		if json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}

	return nil, berrors.NewOutputParse(op, errors.New("no JSON document found in output"))
}

// CountFindings totals the findings in a parsed bearer json report, which
// groups findings by severity level. The second return is false when the
// document has no recognizable severity buckets.
func CountFindings(doc json.RawMessage) (int, bool) {
	var report map[string]json.RawMessage
	if err := json.Unmarshal(doc, &report); err != nil {
		return 0, false
	}

	total := 0
	found := false
	for _, level := range append(SupportedSeverities, "warning", "findings") {
		raw, ok := report[level]
		if !ok {
			continue
		}
		var findings []json.RawMessage
		if err := json.Unmarshal(raw, &findings); err != nil {
			continue
		}
		total += len(findings)
		found = true
	}
	return total, found
}

// Render formats the output for the tool response text.
func (o *ScanOutput) Render() string {
	if !o.Structured {
		if o.Warning != "" {
			return o.Warning + "\n\n" + o.Raw
		}
		return o.Raw
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, o.Report, "", "  "); err != nil {
		return string(o.Report)
	}
	return pretty.String()
}
