// Package services – report rendering
//
// The daily report has a fixed, byte-deterministic layout so that re-renders
// can be compared against the stored text of an already-delivered message:
//
//	✅❌
//
//	Daily problem for 2024-06-11: Two Sum (Easy, rating 1347)
//	https://leetcode.com/problems/two-sum/
//
//	✅ alice — solved (https://leetcode.com/submissions/detail/123/) 🔥3
//	❌ bob — not solved yet
//
// Lines are ordered lexicographically by username; the glyph summary uses
// the same order. The streak marker appears only when the effective streak
// is positive.
package services

import (
	"fmt"
	"strings"

	"github.com/tbourn/go-streak-bot/internal/domain"
)

const (
	glyphSolved   = "✅"
	glyphUnsolved = "❌"
)

// ReportEntry is one user's state as rendered into a chat report.
// Entries must already be sorted by Username.
type ReportEntry struct {
	Username      string
	Completed     bool
	SubmissionURL *string
	Streak        int // effective streak for the report date
}

// RenderReport builds the full report body for one chat.
func RenderReport(p *domain.DailyProblem, entries []ReportEntry) string {
	var b strings.Builder

	for _, e := range entries {
		if e.Completed {
			b.WriteString(glyphSolved)
		} else {
			b.WriteString(glyphUnsolved)
		}
	}
	b.WriteString("\n\n")
	b.WriteString(problemHeader(p))
	b.WriteString("\n")

	for _, e := range entries {
		b.WriteString("\n")
		if e.Completed {
			b.WriteString(glyphSolved)
			b.WriteString(" ")
			b.WriteString(e.Username)
			b.WriteString(" — solved")
			if e.SubmissionURL != nil {
				fmt.Fprintf(&b, " (%s)", *e.SubmissionURL)
			}
		} else {
			b.WriteString(glyphUnsolved)
			b.WriteString(" ")
			b.WriteString(e.Username)
			b.WriteString(" — not solved yet")
		}
		if e.Streak > 0 {
			fmt.Fprintf(&b, " 🔥%d", e.Streak)
		}
	}
	return b.String()
}

// problemHeader renders the two-line problem block shared by reports and the
// /daily announcement.
func problemHeader(p *domain.DailyProblem) string {
	details := p.Difficulty
	if p.Rating != nil {
		details = fmt.Sprintf("%s, rating %d", p.Difficulty, *p.Rating)
	}
	return fmt.Sprintf("Daily problem for %s: %s (%s)\n%s", p.Date, p.Title, details, p.URL)
}
