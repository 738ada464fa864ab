// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package dispatch_test

import (
	"fmt"

	"github.com/vulntor/evdispatch/pkg/dispatch"
	"github.com/vulntor/evdispatch/pkg/event"
	"github.com/vulntor/evdispatch/pkg/priority"
)

type portOpened struct{ Port int }
type portClosed struct{ Port int }

func Example() {
	events := event.MustRegister(event.TypeOf[portOpened](), event.TypeOf[portClosed]())

	audit := dispatch.MustListener("audit", priority.MustDeclare(priority.For[portOpened](10)),
		dispatch.OnFunc(func(ev *portOpened) { fmt.Println("audit: opened", ev.Port) }),
		dispatch.OnFunc(func(ev *portClosed) { fmt.Println("audit: closed", ev.Port) }),
	)
	report := dispatch.MustListener("report", priority.MustDeclare(priority.For[portOpened](20)),
		dispatch.OnFunc(func(ev *portOpened) { fmt.Println("report: opened", ev.Port) }),
	)

	slots := dispatch.NewSlots(2)
	slots.MustAdd(audit, report)

	table, err := dispatch.BuildFrom(events, slots)
	if err != nil {
		fmt.Println(err)
		return
	}

	_ = dispatch.Fire(table, slots, &portOpened{Port: 22})
	_ = dispatch.Fire(table, slots, &portClosed{Port: 22})
	// Output:
	// report: opened 22
	// audit: opened 22
	// audit: closed 22
}

func ExampleEmitter() {
	events := event.MustRegister(event.TypeOf[portOpened]())
	ls := dispatch.Slice{
		dispatch.MustListener("first", nil, dispatch.OnFunc(func(ev *portOpened) { fmt.Println("first", ev.Port) })),
		dispatch.MustListener("second", priority.MustDeclare(priority.For[portOpened](1)),
			dispatch.OnFunc(func(ev *portOpened) { fmt.Println("second", ev.Port) })),
	}

	table, err := dispatch.BuildFrom(events, ls)
	if err != nil {
		fmt.Println(err)
		return
	}

	opened := dispatch.MustEmitter[portOpened](table)
	_ = opened.FireEmplace(ls, func() portOpened { return portOpened{Port: 443} })

	if _, err := dispatch.NewEmitter[portClosed](table); err != nil {
		fmt.Println(err)
	}
	// Output:
	// second 443
	// first 443
	// event kind not registered: github.com/vulntor/evdispatch/pkg/dispatch_test.portClosed
}
