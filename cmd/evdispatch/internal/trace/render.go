// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package trace

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")) // Gray

	deliveredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")) // Green

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")). // Red
			Bold(true)

	priorityStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // Cyan
)

// Render writes one line per delivery in call order.
func Render(w io.Writer, deliveries []Delivery, color bool) error {
	for _, d := range deliveries {
		if _, err := fmt.Fprintln(w, line(d, color)); err != nil {
			return err
		}
	}
	return nil
}

func line(d Delivery, color bool) string {
	step := fmt.Sprintf("%3d.", d.Step)
	prio := fmt.Sprintf("[priority %d]", d.Priority)
	mark, target := "->", fmt.Sprintf("%s (#%d) <- %s", d.Name, d.Listener, d.Event)
	if d.Failed {
		mark = "!!"
		target += " failed"
	}

	if !color {
		return fmt.Sprintf("%s %s %s %s", step, mark, target, prio)
	}

	style := deliveredStyle
	if d.Failed {
		style = failedStyle
	}
	return fmt.Sprintf("%s %s %s",
		stepStyle.Render(step),
		style.Render(mark+" "+target),
		priorityStyle.Render(prio))
}
