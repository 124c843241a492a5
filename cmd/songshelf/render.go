package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/songshelf/internal/catalog"
	"github.com/llehouerou/songshelf/internal/library"
)

// maxLabelWidth caps category labels so counts stay aligned.
const maxLabelWidth = 48

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func songCount(n int) string {
	if n == 1 {
		return "1 song"
	}
	return humanize.Comma(int64(n)) + " songs"
}

func renderCategories(attr catalog.Attribute, categories []catalog.Category) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%s)", attr, humanize.Comma(int64(len(categories))))))
	b.WriteString("\n")

	width := 0
	for _, c := range categories {
		width = max(width, min(runewidth.StringWidth(c.Label), maxLabelWidth))
	}
	for _, c := range categories {
		text := runewidth.Truncate(c.Label, maxLabelWidth, "…")
		label := labelStyle.Width(width).Render(text)
		fmt.Fprintf(&b, "  %s  %s\n", label, countStyle.Render(songCount(len(c.Songs))))
	}
	return b.String()
}

func renderSong(s *catalog.Song) string {
	line := s.Title
	if s.Artist != "" {
		line = s.Artist + " - " + line
	}
	var extra []string
	if s.Album != "" {
		extra = append(extra, s.Album)
	}
	if s.Year != "" {
		extra = append(extra, s.Year)
	}
	if len(extra) > 0 {
		line += countStyle.Render(" (" + strings.Join(extra, ", ") + ")")
	}
	return line
}

func renderStats(c *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(songCount(c.Count())))
	b.WriteString("\n")
	for _, attr := range catalog.Attributes() {
		categories, err := c.SortedCategories(attr)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "  %-13s %s\n", attr, countStyle.Render(humanize.Comma(int64(len(categories)))))
	}
	return b.String()
}

func renderProgress(p library.ScanProgress) string {
	return fmt.Sprintf("\rreading %s/%s", humanize.Comma(int64(p.Current)), humanize.Comma(int64(p.Total)))
}

func renderScanStats(stats *library.ScanStats) string {
	added, removed, updated, failed := stats.Totals()
	line := fmt.Sprintf("\nadded %s, updated %s, removed %s",
		humanize.Comma(int64(added)), humanize.Comma(int64(updated)), humanize.Comma(int64(removed)))
	if failed > 0 {
		line += countStyle.Render(fmt.Sprintf(", %s unreadable", humanize.Comma(int64(failed))))
	}
	return line + "\n"
}
