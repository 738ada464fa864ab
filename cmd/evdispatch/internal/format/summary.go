// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package format

// GetSuggestions returns follow-up hints for a dispatch error code.
func GetSuggestions(errorCode string) []string {
	suggestions := []string{}

	switch errorCode {
	case "DISPATCH_UNREGISTERED_EVENT":
		suggestions = append(suggestions,
			"List registered events:  evdispatch table",
			"Register it under dispatch.events in the manifest",
		)

	case "DISPATCH_MISSING_HANDLER":
		suggestions = append(suggestions,
			"Add the event to the listener's handles list",
			"Disable strict checks:   evdispatch --strict=false",
		)

	case "DISPATCH_HANDLER_FAILED":
		suggestions = append(suggestions,
			"Trace deliveries:        evdispatch fire <event> --log-level trace",
		)

	case "DISPATCH_INVALID_BUILD":
		suggestions = append(suggestions,
			"Check dispatch.events for duplicates or an empty list",
		)

	case "CONFIG_INVALID":
		suggestions = append(suggestions,
			"Validate the manifest:   evdispatch table --config <file>",
		)
	}

	return suggestions
}
