// Package logging builds the stderr logger. Stdout carries the MCP stdio
// stream and must never be written to.
package logging

import (
    "io"
    "os"

    "github.com/charmbracelet/lipgloss"
    "github.com/charmbracelet/log"
)

// New returns a logger writing to stderr at the named level. verbose forces debug.
func New(level string, verbose bool) *log.Logger {
    return NewWriter(os.Stderr, level, verbose)
}

func NewWriter(w io.Writer, level string, verbose bool) *log.Logger {
    logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true, Prefix: "voispark"})
    logger.SetStyles(styles())
    lvl, err := log.ParseLevel(level)
    if err != nil {
        lvl = log.InfoLevel
        logger.Warn("unknown log level, using info", "level", level)
    }
    if verbose {
        lvl = log.DebugLevel
    }
    logger.SetLevel(lvl)
    return logger
}

func styles() *log.Styles {
    s := log.DefaultStyles()
    s.Levels[log.ErrorLevel] = lipgloss.NewStyle().
        SetString("ERROR").
        Padding(0, 1, 0, 1).
        Background(lipgloss.Color("204")).
        Foreground(lipgloss.Color("0"))
    s.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
    s.Values["err"] = lipgloss.NewStyle().Bold(true)
    s.Keys["op"] = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
    return s
}
