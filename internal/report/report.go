// Package report renders a classification for a terminal: the two
// probabilities, a two-bar chart and a short note on how they were computed.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hickeroar/spamcheck/bayes"
)

const (
	chartHeight = 10
	barWidth    = 8
	barGap      = 4
	axisWidth   = 5
	barGlyph    = "█"
)

const explanation = `How this works
Bayes' theorem:

  P(Spam | Words) = P(Words | Spam) * P(Spam) / P(Words)

The model:
- counts how often each word appears in spam and in normal mail
- multiplies per-word likelihoods (Naive Bayes, Laplace smoothed)
- applies Bayes' theorem to get the spam probability`

var (
	spamColor = lipgloss.Color("#D32F2F")
	hamColor  = lipgloss.Color("#388E3C")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E88E5"))
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			MarginRight(2)
	spamStyle = lipgloss.NewStyle().Bold(true).Foreground(spamColor)
	hamStyle  = lipgloss.NewStyle().Bold(true).Foreground(hamColor)
	noteStyle = lipgloss.NewStyle().Faint(true)
)

// Percent formats a probability in [0, 1] as a percentage with two decimals.
func Percent(p float64) string {
	return fmt.Sprintf("%.2f%%", p*100)
}

// Render writes the full report for posterior to w.
func Render(w io.Writer, posterior bayes.Posterior) error {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		cardStyle.Render("Probability of Spam\n"+spamStyle.Render(Percent(posterior.Spam))),
		cardStyle.Render("Probability of Not Spam\n"+hamStyle.Render(Percent(posterior.Ham))),
	)

	sections := []string{
		titleStyle.Render("Result"),
		cards,
		"Tokens: " + strings.Join(posterior.Tokens, ", "),
		titleStyle.Render("Probability Visualization"),
		Chart(posterior.Spam, posterior.Ham),
		noteStyle.Render(explanation),
	}

	_, err := fmt.Fprintln(w, strings.Join(sections, "\n\n"))
	return err
}

// Chart draws a vertical two-bar chart of the spam and not-spam
// probabilities on a 0..1 "Probability" axis.
func Chart(spam, ham float64) string {
	spamRows := barRows(spam)
	hamRows := barRows(ham)

	var b strings.Builder
	b.WriteString("Probability\n")
	for row := chartHeight; row >= 1; row-- {
		b.WriteString(axisLabel(row))
		b.WriteString(" |")
		b.WriteString(strings.Repeat(" ", barGap))
		b.WriteString(barCell(row <= spamRows, spamStyle))
		b.WriteString(strings.Repeat(" ", barGap))
		b.WriteString(barCell(row <= hamRows, hamStyle))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("%*s +%s\n", axisWidth, "0.00", strings.Repeat("-", 2*(barGap+barWidth))))
	b.WriteString(fmt.Sprintf("%*s  %s%-*s%s%s", axisWidth, "", strings.Repeat(" ", barGap), barWidth, "Spam", strings.Repeat(" ", barGap), "Not Spam"))
	return b.String()
}

func barRows(p float64) int {
	if math.IsNaN(p) || p <= 0 {
		return 0
	}
	if p >= 1 {
		return chartHeight
	}
	return int(math.Round(p * chartHeight))
}

func axisLabel(row int) string {
	switch row {
	case chartHeight:
		return fmt.Sprintf("%*s", axisWidth, "1.00")
	case chartHeight / 2:
		return fmt.Sprintf("%*s", axisWidth, "0.50")
	}
	return strings.Repeat(" ", axisWidth)
}

func barCell(filled bool, style lipgloss.Style) string {
	if !filled {
		return strings.Repeat(" ", barWidth)
	}
	return style.Render(strings.Repeat(barGlyph, barWidth))
}
