package formatter

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/radar/internal/models"
	tu "github.com/desertthunder/radar/internal/testing"
)

func sampleReleases() []models.Release {
	return []models.Release{
		{Name: "Fresh Single", ReleaseDate: "2026-08-29", URL: "spotify:album:r1", Artist: "Second", Type: models.TypeSingle},
		{Name: "Older Album", ReleaseDate: "2026-08-01", URL: "spotify:album:r2", Artist: "First", Type: models.TypeAlbum},
	}
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(sampleReleases())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "Type") || !strings.Contains(lines[0], "Artist") {
		t.Errorf("missing header columns: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Fresh Single") || !strings.Contains(lines[2], "Older Album") {
		t.Errorf("rows out of order:\n%s", out)
	}
}

func TestExportToCSV(t *testing.T) {
	t.Run("headers and rows", func(t *testing.T) {
		data, err := ExportToCSV(sampleReleases())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(lines))
		}
		if lines[0] != "Type,Date,URL,Artist,Name" {
			t.Errorf("unexpected header: %q", lines[0])
		}
		if lines[1] != "single,2026-08-29,spotify:album:r1,Second,Fresh Single" {
			t.Errorf("unexpected row: %q", lines[1])
		}
	})

	t.Run("quotes embedded commas", func(t *testing.T) {
		releases := []models.Release{
			{Name: "Songs, Vol. 2", ReleaseDate: "2026-08-29", URL: "u", Artist: "A", Type: models.TypeAlbum},
		}

		data, err := ExportToCSV(releases)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(data), `"Songs, Vol. 2"`) {
			t.Errorf("expected quoted field, got %s", data)
		}
	})

	t.Run("empty feed is headers only", func(t *testing.T) {
		data, err := ExportToCSV(nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if strings.TrimRight(string(data), "\n") != "Type,Date,URL,Artist,Name" {
			t.Errorf("unexpected output: %q", data)
		}
	})
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleReleases())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "Releases: 2") {
		t.Errorf("missing count line: %q", out)
	}
	if !strings.Contains(out, "1. Second - Fresh Single (single, 2026-08-29)") {
		t.Errorf("unexpected row format: %q", out)
	}
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(sampleReleases(), false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var decoded []models.Release
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output should be valid JSON: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Name != "Fresh Single" {
		t.Errorf("unexpected decode: %+v", decoded)
	}
}

func TestWriteCSVExport(t *testing.T) {
	t.Run("writes to the given path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feed.csv")

		written, err := WriteCSVExport(sampleReleases(), path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}

		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), "Fresh Single") {
			t.Error("exported file missing feed rows")
		}
	})
}
