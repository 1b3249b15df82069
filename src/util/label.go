// label.go generates deterministic block and variable names for the
// fixture builders, standing in for the names a front-end would otherwise
// assign.

package util

import "fmt"

// Label kinds for generated block names.
const (
	LabelEntry = iota
	LabelExit
	LabelBranchTarget
	LabelMerge
	LabelLoopHead
	LabelLoopEnd
)

// labelPrefixes stores the string literal prefixes for labels of each kind.
var labelPrefixes = [LabelLoopEnd + 1]string{
	"entry",
	"exit",
	"branch",
	"merge",
	"loop_head",
	"loop_end",
}

// labelIndices stores the numerical suffix for generated labels of each
// kind. Fixture builders run single-threaded, one at a time, so this needs
// no synchronisation.
var labelIndices [LabelLoopEnd + 1]int

// NewLabel returns a new, unique block name of kind typ.
func NewLabel(typ int) string {
	if typ < 0 || typ >= len(labelIndices) {
		return "label_error"
	}
	s := fmt.Sprintf("%s_%03d", labelPrefixes[typ], labelIndices[typ])
	labelIndices[typ]++
	return s
}
