// package formatter renders the release feed to terminal, CSV, and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/radar/internal/models"
	"github.com/desertthunder/radar/internal/shared"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	typeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	dateStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	urlStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	artistStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

// RenderTable renders releases as a colored, column-aligned table.
func RenderTable(releases []models.Release) string {
	var buf bytes.Buffer

	typeW, dateW, urlW, artistW := columnWidths(releases)

	writeRow := func(typ, date, url, artist, name string, style bool) {
		cells := []string{
			pad(typ, typeW), pad(date, dateW), pad(url, urlW), pad(artist, artistW), name,
		}
		if style {
			cells[0] = typeStyle.Render(cells[0])
			cells[1] = dateStyle.Render(cells[1])
			cells[2] = urlStyle.Render(cells[2])
			cells[3] = artistStyle.Render(cells[3])
			cells[4] = nameStyle.Render(cells[4])
		} else {
			for i, cell := range cells {
				cells[i] = headerStyle.Render(cell)
			}
		}
		buf.WriteString(strings.Join(cells, "  "))
		buf.WriteString("\n")
	}

	writeRow("Type", "Date", "URL", "Artist", "Name", false)

	for _, release := range releases {
		writeRow(string(release.Type), release.ReleaseDate, release.URL, release.Artist, release.Name, true)
	}

	return buf.String()
}

func columnWidths(releases []models.Release) (typeW, dateW, urlW, artistW int) {
	typeW, dateW, urlW, artistW = 4, 4, 3, 6
	for _, release := range releases {
		typeW = max(typeW, len(release.Type))
		dateW = max(dateW, len(release.ReleaseDate))
		urlW = max(urlW, len(release.URL))
		artistW = max(artistW, len(release.Artist))
	}
	return typeW, dateW, urlW, artistW
}

func pad(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

// ExportToCSV converts releases to CSV with columns: Type, Date, URL, Artist, Name
func ExportToCSV(releases []models.Release) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Type", "Date", "URL", "Artist", "Name"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, release := range releases {
		record := []string{
			string(release.Type),
			release.ReleaseDate,
			release.URL,
			release.Artist,
			release.Name,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts releases to plain text format
func ExportToText(releases []models.Release) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Releases: %d\n\n", len(releases)))
	for i, release := range releases {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s, %s)\n", i+1, release.Artist, release.Name, release.Type, release.ReleaseDate))
	}

	return buf.Bytes(), nil
}

// ToJSON generates a JSON representation of the release feed
func ToJSON(releases []models.Release, pretty bool) ([]byte, error) {
	return shared.MarshalJSON(releases, pretty)
}

// WriteCSVExport exports the feed to a CSV file.
//
// Defaults to releases.csv when no path is given.
func WriteCSVExport(releases []models.Release, path string) (string, error) {
	if path == "" {
		path = "releases.csv"
	}

	data, err := ExportToCSV(releases)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return path, nil
}
