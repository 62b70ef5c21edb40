package monitor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffKind classifies one run of a line diff.
type DiffKind string

const (
	DiffEqual   DiffKind = "equal"
	DiffInsert  DiffKind = "insert"
	DiffDelete  DiffKind = "delete"
	DiffReplace DiffKind = "replace"
)

// DiffOp is one contiguous run of the minimal edit script between two
// line sequences. Line numbers are 1-based.
type DiffOp struct {
	Kind        DiffKind
	BeforeStart int
	AfterStart  int
	BeforeLines []string
	AfterLines  []string
}

// RenderDiff computes the line diff between two revision bodies.
//
// Splitting is on the bare newline: content without a trailing newline
// still yields its final line, and an empty string yields one empty line
// rather than zero lines.
func RenderDiff(before, after string) []DiffOp {
	a := strings.Split(before, "\n")
	b := strings.Split(after, "\n")

	opcodes := difflib.NewMatcher(a, b).GetOpCodes()
	ops := make([]DiffOp, 0, len(opcodes))
	for _, oc := range opcodes {
		op := DiffOp{
			BeforeStart: oc.I1 + 1,
			AfterStart:  oc.J1 + 1,
		}
		switch oc.Tag {
		case 'e':
			op.Kind = DiffEqual
			op.BeforeLines = a[oc.I1:oc.I2]
			op.AfterLines = b[oc.J1:oc.J2]
		case 'i':
			op.Kind = DiffInsert
			op.AfterLines = b[oc.J1:oc.J2]
		case 'd':
			op.Kind = DiffDelete
			op.BeforeLines = a[oc.I1:oc.I2]
		case 'r':
			op.Kind = DiffReplace
			op.BeforeLines = a[oc.I1:oc.I2]
			op.AfterLines = b[oc.J1:oc.J2]
		}
		ops = append(ops, op)
	}
	return ops
}

// String renders the op as a single human-readable report line.
func (op DiffOp) String() string {
	switch op.Kind {
	case DiffInsert:
		return fmt.Sprintf("added %s: %s",
			lineRange(op.AfterStart, len(op.AfterLines)), quoteLines(op.AfterLines))
	case DiffDelete:
		return fmt.Sprintf("removed %s: %s",
			lineRange(op.BeforeStart, len(op.BeforeLines)), quoteLines(op.BeforeLines))
	case DiffReplace:
		return fmt.Sprintf("changed %s: %s -> %s",
			lineRange(op.BeforeStart, len(op.BeforeLines)),
			quoteLines(op.BeforeLines), quoteLines(op.AfterLines))
	default:
		return fmt.Sprintf("unchanged %s", lineRange(op.BeforeStart, len(op.BeforeLines)))
	}
}

func lineRange(start, count int) string {
	if count <= 1 {
		return fmt.Sprintf("line %d", start)
	}
	return fmt.Sprintf("lines %d-%d", start, start+count-1)
}

func quoteLines(lines []string) string {
	quoted := make([]string, len(lines))
	for i, line := range lines {
		quoted[i] = strconv.Quote(line)
	}
	return strings.Join(quoted, ", ")
}
