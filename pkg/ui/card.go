package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CardField is one labeled line in a detail card
type CardField struct {
	Label string
	Value string
}

// Card renders a bordered detail view: a title, a field list, and an
// optional footer. Empty values are skipped so sparse records stay compact.
type Card struct {
	Title  string
	Fields []CardField
	Footer string
}

// NewCard creates a card with the given title
func NewCard(title string) *Card {
	return &Card{Title: title}
}

// Add appends a field; empty values are dropped at render time
func (c *Card) Add(label, value string) *Card {
	c.Fields = append(c.Fields, CardField{Label: label, Value: value})
	return c
}

// Render renders the card as a bordered block
func (c *Card) Render() string {
	var body strings.Builder

	body.WriteString(StyleHeader.Render(c.Title))
	body.WriteString("\n")

	labelWidth := 0
	for _, f := range c.Fields {
		if f.Value == "" {
			continue
		}
		if len(f.Label) > labelWidth {
			labelWidth = len(f.Label)
		}
	}

	for _, f := range c.Fields {
		if f.Value == "" {
			continue
		}
		label := fmt.Sprintf("%-*s", labelWidth, f.Label)
		body.WriteString(fmt.Sprintf("%s  %s\n", StyleAccent.Render(label), f.Value))
	}

	if c.Footer != "" {
		body.WriteString(StyleMuted.Render(c.Footer))
		body.WriteString("\n")
	}

	return StyleCardBorder.Render(strings.TrimRight(body.String(), "\n"))
}

// RenderSideBySide joins two rendered blocks horizontally with a gap
func RenderSideBySide(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}
