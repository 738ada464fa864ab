package commands

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/vulntor/evdispatch/pkg/appctx"
	"github.com/vulntor/evdispatch/pkg/dispatch"
	"github.com/vulntor/evdispatch/pkg/event"
)

var errNoConfig = errors.New("configuration not loaded")

// built is a dispatch table together with the manifest it came from.
type built struct {
	table  *dispatch.Table
	events event.Set
	specs  []dispatch.Spec
	strict bool
}

// buildTable resolves the loaded manifest and builds its dispatch table. A
// non-nil reg receives the dispatch metrics.
func buildTable(cmd *cobra.Command, reg prometheus.Registerer) (*built, error) {
	mgr, ok := appctx.Config(cmd.Context())
	if !ok {
		return nil, errNoConfig
	}
	cfg := mgr.Get()

	events, specs, err := cfg.Dispatch.Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve manifest: %w", err)
	}

	listeners := make([]dispatch.Prioritized, len(specs))
	for i := range specs {
		listeners[i] = specs[i]
	}

	opts := []dispatch.BuildOption{
		dispatch.WithLogger(log.Logger),
	}
	if cfg.Dispatch.StrictHandlers {
		opts = append(opts, dispatch.WithStrictHandlers())
	}
	if reg != nil {
		opts = append(opts, dispatch.WithMetrics(dispatch.NewMetrics(reg)))
	}

	table, err := dispatch.Build(events, listeners, opts...)
	if err != nil {
		return nil, err
	}

	return &built{table: table, events: events, specs: specs, strict: cfg.Dispatch.StrictHandlers}, nil
}

// lookupEvent resolves a registered event by name.
func (b *built) lookupEvent(name string) (event.Type, error) {
	typ, ok := b.events.Lookup(name)
	if !ok {
		return event.Type{}, &dispatch.UnregisteredEventError{Kind: event.Named(name).Kind, Name: name}
	}
	return typ, nil
}

// priorityOf returns listener i's normalized priority for kind.
func (b *built) priorityOf(i int, kind event.Kind) uint8 {
	p, _ := b.specs[i].Priorities().Lookup(kind)
	return p
}
