package adapters

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/huangsam/qualityscore/schema"
)

// ParseReport decodes raw tool output into its typed report.
// Payloads wrapped as {"raw": ...} are unwrapped first, so saved adapter
// results and bare tool output are both accepted.
func ParseReport(tool schema.Tool, data []byte) (schema.Report, error) {
	data = unwrapRaw(bytes.TrimSpace(data))
	if len(data) == 0 {
		return nil, fmt.Errorf("%s report is empty", tool)
	}

	switch tool {
	case schema.ESLintTool:
		return decode[schema.ESLintReport](tool, data)
	case schema.RuffTool:
		return decode[schema.RuffReport](tool, data)
	case schema.PMDTool:
		return decode[schema.PMDReport](tool, data)
	case schema.RadonTool:
		return decode[schema.RadonReport](tool, data)
	case schema.JSCPDTool:
		return decode[schema.JSCPDReport](tool, data)
	case schema.ClocTool:
		return decode[schema.LineCountReport](tool, data)
	default:
		return nil, fmt.Errorf("unknown tool %q", tool)
	}
}

func decode[T schema.Report](tool schema.Tool, data []byte) (schema.Report, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse %s report: %w", tool, err)
	}
	return out, nil
}

// unwrapRaw returns the "raw" member of an object that has one.
func unwrapRaw(data []byte) []byte {
	if len(data) == 0 || data[0] != '{' {
		return data
	}
	var wrapper struct {
		Raw json.RawMessage `json:"raw"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil || len(wrapper.Raw) == 0 {
		return data
	}
	if raw := bytes.TrimSpace(wrapper.Raw); !bytes.Equal(raw, []byte("null")) {
		return raw
	}
	return data
}
