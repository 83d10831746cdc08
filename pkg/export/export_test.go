package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosterDataset() Dataset {
	return Dataset{
		Headers: []string{"ID", "Name"},
		Rows: []map[string]string{
			{"ID": "1", "Name": "Ann"},
			{"ID": "2", "Name": "Doe, Jane"},
			{"ID": "3"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(rosterDataset())
	require.NoError(t, err)
	assert.Equal(t, "ID,Name\n1,Ann\n2,\"Doe, Jane\"\n3,\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(rosterDataset(), "CS101 roster")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	empty, err := NewPDFExporter().Render(Dataset{Headers: []string{"ID"}}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, empty)

	_, err = NewPDFExporter().Render(Dataset{}, "x")
	assert.Error(t, err)
}
