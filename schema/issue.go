package schema

// Issue is one normalized finding from any lint adapter.
type Issue struct {
	Tool        Tool      `json:"tool"`
	File        string    `json:"file"`
	Line        int       `json:"line"`
	Column      int       `json:"column"`
	Severity    Severity  `json:"severity"`
	Rule        string    `json:"rule"`
	Message     string    `json:"message"`
	Description string    `json:"description"`
	Impact      string    `json:"impact"`
	Suggestion  string    `json:"suggestion"`
	Fix         *IssueFix `json:"fix,omitempty"`
}

// IssueFix is an autofix carried over from the tool.
type IssueFix struct {
	Range []int  `json:"range"`
	Text  string `json:"text"`
}

// DuplicationBlock is a pair of near-identical fragments.
type DuplicationBlock struct {
	Lines      int                   `json:"lines"`
	Tokens     int                   `json:"tokens"`
	Files      []string              `json:"files"`
	Locations  []DuplicationLocation `json:"locations,omitempty"`
	Fragment   *string               `json:"fragment"`
	Suggestion string                `json:"suggestion"`
}

// DuplicationLocation is one side of a duplication block.
type DuplicationLocation struct {
	File  string `json:"file"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// IssueRecord is a persisted issue row.
type IssueRecord struct {
	ID         int64  `json:"id"`
	AnalysisID string `json:"analysis_id"`
	Owner      string `json:"owner"`
	Issue
}
