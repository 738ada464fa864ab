package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

type entryView struct {
	Position int    `json:"position" yaml:"position"`
	Listener int    `json:"listener" yaml:"listener"`
	Name     string `json:"name" yaml:"name"`
	Event    string `json:"event" yaml:"event"`
	Priority uint8  `json:"priority" yaml:"priority"`
}

type tableView struct {
	ID        string      `json:"id" yaml:"id"`
	Strict    bool        `json:"strict" yaml:"strict"`
	Events    []string    `json:"events" yaml:"events"`
	Listeners []string    `json:"listeners" yaml:"listeners"`
	Entries   []entryView `json:"entries" yaml:"entries"`
}

// NewTableCommand returns the "table" command.
func NewTableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the dispatch table built from the manifest",
		Long: `Print every (listener, event, priority) entry of the dispatch table in
table order: highest priority first, ties in listener order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := buildTable(cmd, nil)
			if err != nil {
				return err
			}

			view := tableView{
				ID:        b.table.ID().String(),
				Strict:    b.strict,
				Listeners: make([]string, b.table.Listeners()),
			}
			for _, typ := range b.events.Types() {
				view.Events = append(view.Events, typ.Name)
			}
			for i := range view.Listeners {
				view.Listeners[i] = b.table.ListenerName(i)
			}

			rows := make([][]string, 0, b.table.Len())
			for pos, e := range b.table.Entries() {
				name, _ := b.events.Name(e.Kind)
				ev := entryView{
					Position: pos,
					Listener: e.Listener,
					Name:     b.table.ListenerName(e.Listener),
					Event:    name,
					Priority: e.Priority,
				}
				view.Entries = append(view.Entries, ev)
				rows = append(rows, []string{
					strconv.Itoa(ev.Position),
					strconv.Itoa(ev.Listener),
					ev.Name,
					ev.Event,
					strconv.Itoa(int(ev.Priority)),
				})
			}

			f := newFormatter(cmd)
			if err := f.Render(view, []string{"Pos", "Listener", "Name", "Event", "Priority"}, rows); err != nil {
				return err
			}
			return f.PrintSummary(fmt.Sprintf("%d entries (%d listeners x %d events)",
				b.table.Len(), b.table.Listeners(), b.events.Size()))
		},
	}
}
