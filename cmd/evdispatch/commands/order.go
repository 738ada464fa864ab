package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

type orderStep struct {
	Step     int    `json:"step" yaml:"step"`
	Listener int    `json:"listener" yaml:"listener"`
	Name     string `json:"name" yaml:"name"`
	Priority uint8  `json:"priority" yaml:"priority"`
	Handles  bool   `json:"handles" yaml:"handles"`
}

type orderView struct {
	Event string      `json:"event" yaml:"event"`
	Order []orderStep `json:"order" yaml:"order"`
}

// NewOrderCommand returns the "order" command.
func NewOrderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "order <event>",
		Short: "Show the order listeners are called in for an event",
		Long: `Show the listeners an event reaches, in call order. Listeners that do not
handle the event keep their place in the order but are skipped when firing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := buildTable(cmd, nil)
			if err != nil {
				return err
			}
			typ, err := b.lookupEvent(args[0])
			if err != nil {
				return err
			}

			view := orderView{Event: typ.Name}
			rows := [][]string{}
			for step, i := range b.table.Order(typ.Kind) {
				s := orderStep{
					Step:     step + 1,
					Listener: i,
					Name:     b.table.ListenerName(i),
					Priority: b.priorityOf(i, typ.Kind),
					Handles:  b.specs[i].Handles(typ.Kind),
				}
				view.Order = append(view.Order, s)

				handles := "yes"
				if !s.Handles {
					handles = "no"
				}
				rows = append(rows, []string{
					strconv.Itoa(s.Step),
					strconv.Itoa(s.Listener),
					s.Name,
					strconv.Itoa(int(s.Priority)),
					handles,
				})
			}

			f := newFormatter(cmd)
			if err := f.Render(view, []string{"Step", "Listener", "Name", "Priority", "Handles"}, rows); err != nil {
				return err
			}
			return f.PrintSummary(fmt.Sprintf("%s reaches %d listeners", typ.Name, len(view.Order)))
		},
	}
}
