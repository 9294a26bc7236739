package main

import (
	"encoding/json"
	"io"

	"flightdeck/internal/orchestrator"
)

func writeStateJSON(w io.Writer, s orchestrator.State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
