package output

import (
	"bytes"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
)

func TestRenderer_SuccessAndFailureStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewRenderer(&out, &errOut)

	r.Success("added %s", "1MS21CS001")
	r.Failure("not found: %s", "1MS21CS999")

	assert.Contains(t, out.String(), "added 1MS21CS001")
	assert.NotContains(t, out.String(), "not found")
	assert.Contains(t, errOut.String(), "not found: 1MS21CS999")
}

func TestRenderer_TableEmpty(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out)

	r.Table(table.Row{"USN", "Name"}, nil)

	assert.Equal(t, "(0 rows)\n", out.String())
}

func TestRenderer_TableRows(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out, &out)

	r.Table(table.Row{"USN", "Name"}, []table.Row{
		{"1MS21CS001", "Alice"},
		{"1MS21CS002", "Bob"},
	})

	s := out.String()
	assert.Contains(t, s, "USN")
	assert.Contains(t, s, "Alice")
	assert.Contains(t, s, "(2 rows)")
}
