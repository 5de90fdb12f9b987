package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title: "Public deliverables",
		Columns: []Column{
			{Key: "event", Label: "Event", Width: 3},
			{Key: "type", Label: "Type"},
			{Key: "link", Label: "Link", Width: 4},
		},
		Rows: []map[string]string{
			{"event": "Convocation, 2024", "type": "photo", "link": "https://drive.example.com/a"},
			{"event": "Cultural Fest", "type": "video"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Event,Type,Link", lines[0])
	assert.Equal(t, `"Convocation, 2024",photo,https://drive.example.com/a`, lines[1])
	assert.Equal(t, "Cultural Fest,video,", lines[2])
}

func TestExportersRejectEmptyColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestColumnWidthsSumToPage(t *testing.T) {
	widths := columnWidths(sampleDataset().Columns)
	total := 0.0
	for _, w := range widths {
		total += w
	}
	assert.InDelta(t, pageWidth, total, 0.001)
	assert.InDelta(t, widths[1]*3, widths[0], 0.001)
}
