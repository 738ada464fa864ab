// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package dispatch builds immutable, priority-sorted dispatch tables and uses
// them to fan events out to an ordered set of listeners.
//
// A table is built once from the registered event kinds and the listeners'
// priority declarations:
//
//	events := event.MustRegister(event.TypeOf[PortOpened](), event.TypeOf[PortClosed]())
//	slots := dispatch.NewSlots(2)
//	slots.MustAdd(auditListener, reportListener)
//	table, err := dispatch.BuildFrom(events, slots)
//
// and then fired any number of times:
//
//	err = dispatch.Fire(table, slots, &PortOpened{Port: 22})
//
// The table holds one entry per (listener, event kind) pair, sorted by
// priority descending with a stable sort, so listeners sharing a priority are
// called in registration order. Firing scans the whole table and calls every
// listener registered for the fired kind, synchronously, on the calling
// goroutine. The first handler error aborts the scan. Panics are not recovered.
//
// A built table is read-only and safe for concurrent Fire calls as long as the
// listener collection is not mutated and the handlers themselves are safe.
package dispatch
