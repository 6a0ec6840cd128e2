// Reelrank - ALS Movie Recommendation Pipeline
// Copyright 2026 Reelrank Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelrank/reelrank

// Package report renders pipeline results for stdout.
//
// Recommendation tables follow the DataFrame display conventions the
// rest of the analytics tooling expects: bordered ASCII columns, cells
// right-aligned and truncated to a maximum width with a "..." marker,
// NULL titles rendered as "null", and a trailing "only showing top N
// rows" note when the table is cut off.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reelrank/reelrank/internal/recommend"
)

var recommendationHeaders = []string{"userId", "movieId", "title", "predicted_rating"}

// RMSELine formats the held-out evaluation score.
func RMSELine(rmse float64) string {
	return fmt.Sprintf("Test RMSE = %.4f", rmse)
}

// RecommendationsTable renders recommendation rows as a bordered table.
// At most limit rows are shown (all rows when limit <= 0), with a note
// appended when rows were cut off. Cells wider than truncate characters
// are shortened; truncate <= 0 disables truncation and switches the
// table to left-aligned cells.
func RecommendationsTable(rows []recommend.Row, limit, truncate int) string {
	shown := rows
	if limit > 0 && len(rows) > limit {
		shown = rows[:limit]
	}

	cells := make([][]string, len(shown))
	for i, r := range shown {
		title := "null"
		if r.Title.Valid {
			title = r.Title.String
		}
		cells[i] = []string{
			strconv.Itoa(r.UserID),
			strconv.Itoa(r.MovieID),
			title,
			strconv.FormatFloat(r.PredictedRating, 'g', -1, 64),
		}
	}

	var sb strings.Builder
	sb.WriteString(renderTable(recommendationHeaders, cells, truncate))
	if limit > 0 && len(rows) > limit {
		fmt.Fprintf(&sb, "only showing top %d rows\n", limit)
	}
	return sb.String()
}

// renderTable lays out headers and cell rows with +---+ borders. Column
// width is the widest truncated cell, floored by the header width.
func renderTable(headers []string, rows [][]string, truncate int) string {
	truncated := make([][]string, len(rows))
	for i, row := range rows {
		tr := make([]string, len(row))
		for j, cell := range row {
			tr[j] = truncateCell(cell, truncate)
		}
		truncated[i] = tr
	}

	widths := make([]int, len(headers))
	for j, h := range headers {
		widths[j] = utf8.RuneCountInString(h)
	}
	for _, row := range truncated {
		for j, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}

	rightAlign := truncate > 0

	var sb strings.Builder
	border := borderLine(widths)
	sb.WriteString(border)
	sb.WriteString(formatRow(headers, widths, rightAlign))
	sb.WriteString(border)
	for _, row := range truncated {
		sb.WriteString(formatRow(row, widths, rightAlign))
	}
	sb.WriteString(border)
	return sb.String()
}

// truncateCell shortens a cell to at most truncate characters. Cells cut
// at four or more characters end in "..."; narrower limits leave no room
// for the marker and cut hard.
func truncateCell(s string, truncate int) string {
	if truncate <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= truncate {
		return s
	}
	if truncate < 4 {
		return string(r[:truncate])
	}
	return string(r[:truncate-3]) + "..."
}

func borderLine(widths []int) string {
	var sb strings.Builder
	for _, w := range widths {
		sb.WriteByte('+')
		sb.WriteString(strings.Repeat("-", w))
	}
	sb.WriteString("+\n")
	return sb.String()
}

func formatRow(cells []string, widths []int, rightAlign bool) string {
	var sb strings.Builder
	for j, cell := range cells {
		sb.WriteByte('|')
		sb.WriteString(pad(cell, widths[j], rightAlign))
	}
	sb.WriteString("|\n")
	return sb.String()
}

func pad(cell string, width int, rightAlign bool) string {
	gap := width - utf8.RuneCountInString(cell)
	if gap <= 0 {
		return cell
	}
	if rightAlign {
		return strings.Repeat(" ", gap) + cell
	}
	return cell + strings.Repeat(" ", gap)
}
