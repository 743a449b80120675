package flat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteHeatmapReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.html")

	flat := gradientFrame(32, 16)
	err := WriteHeatmapReport(path, flat, "Master Flat (KOSMOS)")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	require.True(t, strings.Contains(string(data), "Master Flat (KOSMOS)"),
		"report should embed the title")
}

func TestWriteHeatmapReportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.html")
	err := WriteHeatmapReport(path, nil, "empty")
	require.Error(t, err)
}
