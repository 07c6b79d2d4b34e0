package color

import (
	"fmt"
	"os"
	"strings"
)

// ANSI color codes
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Bold   = "\033[1m"
)

// Color represents a colorizer that can be enabled or disabled
type Color struct {
	enabled bool
}

// New creates a new Color instance
func New(enabled bool) *Color {
	return &Color{enabled: enabled && shouldEnableColor()}
}

// shouldEnableColor determines if color should be enabled based on environment
func shouldEnableColor() bool {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	term := os.Getenv("TERM")
	return term != "dumb" && term != ""
}

func (c *Color) wrap(code, text string) string {
	if !c.enabled {
		return text
	}
	return code + text + Reset
}

// Add colors a string to indicate additions
func (c *Color) Add(text string) string { return c.wrap(Green, text) }

// Change colors a string to indicate modifications
func (c *Color) Change(text string) string { return c.wrap(Yellow, text) }

// Destroy colors a string to indicate deletions
func (c *Color) Destroy(text string) string { return c.wrap(Red, text) }

// Bold makes text bold
func (c *Color) Bold(text string) string { return c.wrap(Bold, text) }

// Cyan colors text cyan (for headers and labels)
func (c *Color) Cyan(text string) string { return c.wrap(Cyan, text) }

// Symbol returns the plan symbol for an action.
func (c *Color) Symbol(action string) string {
	switch action {
	case "create", "add":
		return c.Add("+")
	case "rename", "stage", "migrate":
		return c.Change("~")
	case "drop":
		return c.Destroy("-")
	default:
		return " "
	}
}

// FormatStepLine formats one plan step as "  <symbol> <description>".
func (c *Color) FormatStepLine(action, description string) string {
	return fmt.Sprintf("  %s %s", c.Symbol(action), description)
}

// FormatPlanHeader summarizes a plan.
func (c *Color) FormatPlanHeader(tables, columns, statements int) string {
	parts := []string{
		c.Bold(fmt.Sprintf("%d table(s)", tables)),
		c.Change(fmt.Sprintf("%d column(s) to retype", columns)),
		fmt.Sprintf("%d statement(s)", statements),
	}
	return fmt.Sprintf("Plan: %s.", strings.Join(parts, ", "))
}
