package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"Date", "Substitute"},
		Rows: []map[string]string{
			{"Date": "2026-09-07", "Substitute": "Alice"},
			{"Date": "2026-09-08"},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Date,Substitute\n2026-09-07,Alice\n2026-09-08,\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	data := Dataset{
		Headers: []string{"Date", "Substitute"},
		Rows:    []map[string]string{{"Date": "2026-09-07", "Substitute": "Alice"}},
	}

	out, err := exporter.Render(data, "Coverage sheet")
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Equal(t, "%PDF", string(out[:4]))
}
