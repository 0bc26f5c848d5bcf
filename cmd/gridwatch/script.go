package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/furry-grid/store"
)

// actionScript is the YAML form of a recorded action sequence:
//
//	actions:
//	  - type: UPDATE_GRID
//	  - type: UPDATE_GRID_CELL
//	    row: 3
//	    column: 7
type actionScript struct {
	Actions []store.Tagged `yaml:"actions"`
}

// loadActions reads a script and decodes every entry. An unknown tag
// rejects the whole script before anything is dispatched.
func loadActions(path string) ([]store.Action, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read actions: %w", err)
	}
	return parseActions(data)
}

func parseActions(data []byte) ([]store.Action, error) {
	var script actionScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse actions: %w", err)
	}
	actions := make([]store.Action, 0, len(script.Actions))
	for i, t := range script.Actions {
		a, err := store.Decode(t)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, a)
	}
	return actions, nil
}
