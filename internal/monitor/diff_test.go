package monitor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func changedOps(ops []DiffOp) []DiffOp {
	var out []DiffOp
	for _, op := range ops {
		if op.Kind != DiffEqual {
			out = append(out, op)
		}
	}
	return out
}

func TestRenderDiff_SingleLineReplace(t *testing.T) {
	ops := RenderDiff("a\nb\n", "a\nc\n")

	changed := changedOps(ops)
	require.Len(t, changed, 1)
	assert.Equal(t, DiffReplace, changed[0].Kind)
	assert.Equal(t, []string{"b"}, changed[0].BeforeLines)
	assert.Equal(t, []string{"c"}, changed[0].AfterLines)
	assert.Equal(t, 2, changed[0].BeforeStart)
}

func TestRenderDiff_Insert(t *testing.T) {
	ops := RenderDiff("a\n", "a\nb\n")

	changed := changedOps(ops)
	require.Len(t, changed, 1)
	assert.Equal(t, DiffInsert, changed[0].Kind)
	assert.Equal(t, []string{"b"}, changed[0].AfterLines)
	assert.Equal(t, 2, changed[0].AfterStart)
	assert.Empty(t, changed[0].BeforeLines)
}

func TestRenderDiff_Delete(t *testing.T) {
	ops := RenderDiff("a\nb\nc\n", "a\nc\n")

	changed := changedOps(ops)
	require.Len(t, changed, 1)
	assert.Equal(t, DiffDelete, changed[0].Kind)
	assert.Equal(t, []string{"b"}, changed[0].BeforeLines)
	assert.Equal(t, 2, changed[0].BeforeStart)
}

func TestRenderDiff_IdenticalInputs(t *testing.T) {
	ops := RenderDiff("a\nb\n", "a\nb\n")

	require.NotEmpty(t, ops)
	for _, op := range ops {
		assert.Equal(t, DiffEqual, op.Kind)
	}
}

func TestRenderDiff_EmptyStringIsOneLine(t *testing.T) {
	ops := RenderDiff("", "")

	require.Len(t, ops, 1)
	assert.Equal(t, DiffEqual, ops[0].Kind)
	assert.Equal(t, []string{""}, ops[0].BeforeLines)
}

func TestRenderDiff_NoTrailingNewlineKeepsFinalLine(t *testing.T) {
	ops := RenderDiff("a\nb", "a\nb\n")

	// The before text has two lines, the after has three ("a", "b", "").
	var before, after int
	for _, op := range ops {
		switch op.Kind {
		case DiffEqual:
			before += len(op.BeforeLines)
			after += len(op.AfterLines)
		case DiffDelete:
			before += len(op.BeforeLines)
		case DiffInsert:
			after += len(op.AfterLines)
		case DiffReplace:
			before += len(op.BeforeLines)
			after += len(op.AfterLines)
		}
	}
	assert.Equal(t, 2, before)
	assert.Equal(t, 3, after)
}

func TestRenderDiff_ReconstructsBothSides(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
	}{
		{name: "replace", before: "a\nb\nc\n", after: "a\nx\nc\n"},
		{name: "insert and delete", before: "one\ntwo\nthree", after: "two\nthree\nfour"},
		{name: "rewrite", before: "x", after: "y\nz\n"},
		{name: "empty before", before: "", after: "hello\n"},
		{name: "multi hunk", before: "a\nb\nc\nd\ne\n", after: "a\nB\nc\nd\nE\nf\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := RenderDiff(tt.before, tt.after)

			var beforeLines, afterLines []string
			for _, op := range ops {
				switch op.Kind {
				case DiffEqual, DiffReplace:
					beforeLines = append(beforeLines, op.BeforeLines...)
					afterLines = append(afterLines, op.AfterLines...)
				case DiffDelete:
					beforeLines = append(beforeLines, op.BeforeLines...)
				case DiffInsert:
					afterLines = append(afterLines, op.AfterLines...)
				}
			}
			assert.Equal(t, tt.before, strings.Join(beforeLines, "\n"))
			assert.Equal(t, tt.after, strings.Join(afterLines, "\n"))
		})
	}
}

func TestRenderDiff_Deterministic(t *testing.T) {
	before := "a\nb\nc\nb\na\n"
	after := "c\nb\na\nb\nc\n"

	first := RenderDiff(before, after)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, RenderDiff(before, after))
	}
}

func TestDiffOp_String(t *testing.T) {
	tests := []struct {
		name string
		op   DiffOp
		want string
	}{
		{
			name: "insert single",
			op:   DiffOp{Kind: DiffInsert, AfterStart: 3, AfterLines: []string{"c"}},
			want: `added line 3: "c"`,
		},
		{
			name: "insert run",
			op:   DiffOp{Kind: DiffInsert, AfterStart: 3, AfterLines: []string{"c", "d"}},
			want: `added lines 3-4: "c", "d"`,
		},
		{
			name: "delete",
			op:   DiffOp{Kind: DiffDelete, BeforeStart: 2, BeforeLines: []string{"b"}},
			want: `removed line 2: "b"`,
		},
		{
			name: "replace",
			op:   DiffOp{Kind: DiffReplace, BeforeStart: 2, BeforeLines: []string{"b"}, AfterLines: []string{"c"}},
			want: `changed line 2: "b" -> "c"`,
		},
		{
			name: "equal",
			op:   DiffOp{Kind: DiffEqual, BeforeStart: 1, BeforeLines: []string{"a", "b"}},
			want: "unchanged lines 1-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}
