package ir

// SystemSpec is a compiled L-system definition.
type SystemSpec struct {
	Name        string           `json:"name"`
	Alphabet    []string         `json:"alphabet"`
	Axiom       []string         `json:"axiom"`
	Productions []ProductionSpec `json:"productions"`
	Draw        []DrawRule       `json:"draw,omitempty"`   // Rendering table, not part of SpecHash
	Strict      bool             `json:"strict,omitempty"` // Reject axiom symbols outside the alphabet
}

// ProductionSpec is one rewrite rule in declaration order.
type ProductionSpec struct {
	Predecessor string   `json:"predecessor"`
	Successor   []string `json:"successor"`
}

// DrawRule tells a turtle interpreter what to do with one symbol.
type DrawRule struct {
	Symbol    string  `json:"symbol"`
	Length    float64 `json:"length,omitempty"`     // Line length before scaling
	Turn      float64 `json:"turn,omitempty"`       // Heading change in degrees, positive is clockwise
	Push      bool    `json:"push,omitempty"`       // Save position and heading before moving
	Pop       bool    `json:"pop,omitempty"`        // Restore the last saved position and heading
	EndBranch bool    `json:"end_branch,omitempty"` // Draw the line but do not advance
}

// Run identifies one derivation of a system, from the axiom onward.
type Run struct {
	ID            string `json:"id"`
	System        string `json:"system"`
	SpecHash      string `json:"spec_hash"`
	Seq           int64  `json:"seq"` // Logical clock, orders runs
	EngineVersion string `json:"engine_version"`
	IRVersion     string `json:"ir_version"`
}

// Generation is one derived symbol sequence of a run.
// Index 0 is the axiom.
type Generation struct {
	RunID   string   `json:"run_id"`
	Index   int      `json:"index"`
	Symbols []string `json:"symbols"`
	Length  int      `json:"length"`
	Hash    string   `json:"hash"` // SequenceHash(Symbols)
}

