package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/lotwatch/internal/api"
)

const emptyRecordsPlaceholder = "No vehicles found"

// recordOptions control how the record list is drawn.
type recordOptions struct {
	Selected int // index of the highlighted record; -1 for none
	Compact  bool
	Now      time.Time
}

// renderRecords projects records into the list shown in the content area.
// It has no side effects; nil and empty input render the placeholder.
func renderRecords(records []api.Vehicle, styles Styles, width int, opts recordOptions) string {
	if len(records) == 0 {
		return styles.MutedText.Render(emptyRecordsPlaceholder)
	}
	sep := "\n\n"
	if opts.Compact {
		sep = "\n"
	}
	return strings.Join(recordBlocks(records, styles, width, opts), sep)
}

// recordBlocks renders one block per record in input order.
func recordBlocks(records []api.Vehicle, styles Styles, width int, opts recordOptions) []string {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	blocks := make([]string, 0, len(records))
	for i, v := range records {
		selected := i == opts.Selected
		if opts.Compact {
			blocks = append(blocks, renderCompactRecord(v, styles, width, selected))
			continue
		}
		blocks = append(blocks, renderRecord(v, styles, width, opts.Now, selected))
	}
	return blocks
}

// recordOffsets returns the first line of each block within the joined list.
func recordOffsets(blocks []string, compact bool) []int {
	gap := 1
	if compact {
		gap = 0
	}
	offsets := make([]int, len(blocks))
	line := 0
	for i, b := range blocks {
		offsets[i] = line
		line += lipgloss.Height(b) + gap
	}
	return offsets
}

func renderRecord(v api.Vehicle, styles Styles, width int, now time.Time, selected bool) string {
	inner := width - 2
	lines := []string{titleLine(v, styles, inner)}

	if facts := vehicleFacts(v); len(facts) > 0 {
		lines = append(lines, styles.Text.Render(strings.Join(facts, " · ")))
	}
	if present(v.Location) {
		lines = append(lines, styles.MutedText.Render(strings.TrimSpace(*v.Location)))
	}

	var footer []string
	if status := strings.TrimSpace(v.Status); status != "" {
		footer = append(footer, styles.StatusStyle(status).Render(statusLabel(status)))
	}
	if url := strings.TrimSpace(v.URL); url != "" {
		limit := inner / 2
		if width >= LayoutWideWidth {
			limit = 0
		}
		footer = append(footer, styles.InfoText.Render(truncate(url, limit)))
	}
	if seen := v.ParsedLastSeen(); !seen.IsZero() {
		footer = append(footer, styles.FaintText.Render(seenLabel(seen, now)))
	}
	if len(footer) > 0 {
		lines = append(lines, strings.Join(footer, "  "))
	}

	return markSelected(lines, styles, selected)
}

func renderCompactRecord(v api.Vehicle, styles Styles, width int, selected bool) string {
	var right []string
	if present(v.Price) {
		right = append(right, styles.SuccessText.Render(strings.TrimSpace(*v.Price)))
	}
	if v.Year != nil {
		right = append(right, styles.MutedText.Render(strconv.Itoa(*v.Year)))
	}
	if status := strings.TrimSpace(v.Status); status != "" {
		right = append(right, styles.StatusStyle(status).Render(statusLabel(status)))
	}
	tail := strings.Join(right, "  ")

	budget := width - 2 - lipgloss.Width(tail) - 2
	title := styles.Text.Render(truncate(v.Title, budget))
	return markSelected([]string{spread(title, tail, width-2)}, styles, selected)
}

// titleLine draws the title with the price pushed to the right edge.
func titleLine(v api.Vehicle, styles Styles, width int) string {
	title := strings.TrimSpace(v.Title)
	if !present(v.Price) {
		return styles.Text.Bold(true).Render(title)
	}
	price := styles.SuccessText.Render(strings.TrimSpace(*v.Price))
	budget := width - lipgloss.Width(price) - 2
	return spread(styles.Text.Bold(true).Render(truncate(title, budget)), price, width)
}

// vehicleFacts lists the optional descriptive fields that are present.
func vehicleFacts(v api.Vehicle) []string {
	var facts []string
	var name []string
	if present(v.Brand) {
		name = append(name, strings.TrimSpace(*v.Brand))
	}
	if present(v.Model) {
		name = append(name, strings.TrimSpace(*v.Model))
	}
	if len(name) > 0 {
		facts = append(facts, strings.Join(name, " "))
	}
	if v.Year != nil && *v.Year > 0 {
		facts = append(facts, strconv.Itoa(*v.Year))
	}
	if present(v.Mileage) {
		facts = append(facts, strings.TrimSpace(*v.Mileage))
	}
	if present(v.FuelType) {
		facts = append(facts, strings.TrimSpace(*v.FuelType))
	}
	if present(v.Transmission) {
		facts = append(facts, strings.TrimSpace(*v.Transmission))
	}
	return facts
}

func statusLabel(status string) string {
	switch strings.ToLower(status) {
	case api.StatusActive:
		return "Active"
	case api.StatusSold:
		return "Sold"
	case api.StatusRemoved:
		return "Removed"
	default:
		return status
	}
}

func seenLabel(seen, now time.Time) string {
	return fmt.Sprintf("Seen %s (%s)", seen.Local().Format("2006-01-02 15:04"), humanize.RelTime(seen, now, "ago", "from now"))
}

// spread places left and right on one line of the given width.
func spread(left, right string, width int) string {
	if right == "" {
		return left
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

func markSelected(lines []string, styles Styles, selected bool) string {
	marker := "  "
	if selected {
		marker = styles.AccentText.Render("▌ ")
	}
	for i, l := range lines {
		lines[i] = marker + l
	}
	return strings.Join(lines, "\n")
}
