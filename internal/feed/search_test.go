package feed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Hello World", "hello world"},
		{"  Hello \t\n  World  ", "hello world"},
		{"MIXED Case Text", "mixed case text"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestSearchBlobJoinsFields(t *testing.T) {
	blob := SearchBlob("Q3 Plan", "Numbers  are\nready", "Note shared")
	require.Equal(t, "q3 plan numbers are ready note shared", blob)
}

func TestSearchBlobWithEmptyFields(t *testing.T) {
	require.Equal(t, "note shared", SearchBlob("", "", "Note shared"))
}

func TestPresentationForMappedTypes(t *testing.T) {
	p := PresentationFor("task.assigned")
	require.Equal(t, "Task assignment", p.Label)
	require.Equal(t, "🧭", p.Icon)

	p = PresentationFor("note.comment")
	require.Equal(t, "New note comment", p.Label)
}

func TestPresentationForUnmappedTypeHumanizes(t *testing.T) {
	p := PresentationFor("deploy.finished_ok")
	require.Equal(t, "Deploy Finished Ok", p.Label)
	require.Equal(t, genericIcon, p.Icon)

	p = PresentationFor("")
	require.Equal(t, "General", p.Label)
}

func TestCategoryFor(t *testing.T) {
	require.Equal(t, CategoryTask, CategoryFor("task.assigned"))
	require.Equal(t, CategoryTask, CategoryFor("tasks.bulk"))
	require.Equal(t, CategoryNote, CategoryFor("note.shared"))
	require.Equal(t, CategoryOther, CategoryFor("billing.invoice"))
	require.Equal(t, CategoryOther, CategoryFor(""))
}
