package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/vulntor/evdispatch/cmd/evdispatch/internal/format"
	"github.com/vulntor/evdispatch/cmd/evdispatch/internal/trace"
	"github.com/vulntor/evdispatch/pkg/dispatch"
)

type fireView struct {
	Event      string             `json:"event" yaml:"event"`
	Fires      int                `json:"fires" yaml:"fires"`
	Deliveries []trace.Delivery   `json:"deliveries" yaml:"deliveries"`
	Error      string             `json:"error,omitempty" yaml:"error,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// NewFireCommand returns the "fire" command.
func NewFireCommand() *cobra.Command {
	var (
		data        string
		failing     []string
		times       int
		showMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "fire <event>",
		Short: "Fire an event through stand-in listeners and print the delivery trace",
		Long: `Build the table from the manifest, attach a recording listener for every
configured listener and fire the event. Each listener handles the events in its
"handles" list (all events when empty).

A listener named with --fail returns an error, which aborts the firing: the
listeners after it are not called and the command exits with code 3.`,
		Example: `  evdispatch fire opened -c manifest.yaml
  evdispatch fire opened -c manifest.yaml --fail audit
  evdispatch fire opened -c manifest.yaml --times 3 --metrics -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if times < 1 {
				return fmt.Errorf("--times must be at least 1, got %d", times)
			}

			reg := prometheus.NewRegistry()
			b, err := buildTable(cmd, reg)
			if err != nil {
				return err
			}
			typ, err := b.lookupEvent(args[0])
			if err != nil {
				return err
			}
			for _, name := range failing {
				if !hasListener(b, name) {
					return fmt.Errorf("--fail: unknown listener %q", name)
				}
			}

			ls, tr := trace.Listeners(b.events, b.specs, failing...)
			view := fireView{Event: typ.Name}

			var fireErr error
			for view.Fires < times && fireErr == nil {
				fireErr = dispatch.FireKind(b.table, ls, typ.Kind, &trace.Payload{Event: typ.Name, Data: data})
				view.Fires++
			}
			view.Deliveries = tr.Deliveries()
			if fireErr != nil {
				view.Error = fireErr.Error()
			}

			var families []*dto.MetricFamily
			if showMetrics {
				if families, err = reg.Gather(); err != nil {
					return fmt.Errorf("gather metrics: %w", err)
				}
				view.Metrics = flattenMetrics(families)
			}

			f := newFormatter(cmd)
			if f.Mode() == format.ModeTable {
				noColor, _ := cmd.Flags().GetBool("no-color")
				if err := trace.Render(cmd.OutOrStdout(), view.Deliveries, colorEnabled(noColor)); err != nil {
					return err
				}
				if showMetrics {
					if err := writeMetrics(cmd.OutOrStdout(), families); err != nil {
						return err
					}
				}
			} else if err := f.Render(view, nil, nil); err != nil {
				return err
			}

			if fireErr != nil {
				if f.Mode() != format.ModeTable {
					// already part of the structured output
					return &reportedError{fireErr}
				}
				return fireErr
			}
			return f.PrintSummary(fmt.Sprintf("%s fired %d time(s), %d deliveries", typ.Name, view.Fires, len(view.Deliveries)))
		},
	}

	cmd.Flags().StringVar(&data, "data", "", "Payload data attached to the fired event")
	cmd.Flags().StringSliceVar(&failing, "fail", nil, "Listener names whose handler returns an error")
	cmd.Flags().IntVar(&times, "times", 1, "Number of times to fire the event")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Print dispatch metrics after firing")

	return cmd
}

func hasListener(b *built, name string) bool {
	for _, s := range b.specs {
		if s.Name() == name {
			return true
		}
	}
	return false
}

// flattenMetrics maps "name{label=value,...}" to the sample value.
func flattenMetrics(families []*dto.MetricFamily) map[string]float64 {
	out := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			if labels := m.GetLabel(); len(labels) > 0 {
				pairs := make([]string, 0, len(labels))
				for _, l := range labels {
					pairs = append(pairs, l.GetName()+"="+l.GetValue())
				}
				sort.Strings(pairs)
				key += "{" + strings.Join(pairs, ",") + "}"
			}

			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out[key] = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				out[key] = m.GetGauge().GetValue()
			}
		}
	}
	return out
}

// writeMetrics writes families in the Prometheus text exposition format.
func writeMetrics(w io.Writer, families []*dto.MetricFamily) error {
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	var errs []error
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
