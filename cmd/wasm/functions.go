//go:build js && wasm

package main

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/speakeasy-api/symtypes/pkg/typeinspect"
)

// InspectUniverse runs a query file against a universe and returns the
// report as an aligned text table.
func InspectUniverse(universeYAML, queriesYAML string) (string, error) {
	report, err := typeinspect.Inspect(universeYAML, queriesYAML)
	if err != nil {
		return "", fmt.Errorf("failed to inspect universe: %w", err)
	}

	var b strings.Builder
	if err := typeinspect.RenderText(&b, report, typeinspect.TextOptions{MaxCellWidth: 120}); err != nil {
		return "", err
	}
	if msg := typeinspect.FormatQueryErrors(report); msg != "" {
		b.WriteString("\n")
		b.WriteString(msg)
	}
	return b.String(), nil
}

// InspectUniverseYAML is InspectUniverse with a YAML report.
func InspectUniverseYAML(universeYAML, queriesYAML string) (string, error) {
	report, err := typeinspect.Inspect(universeYAML, queriesYAML)
	if err != nil {
		return "", fmt.Errorf("failed to inspect universe: %w", err)
	}

	var b strings.Builder
	if err := typeinspect.RenderYAML(&b, report); err != nil {
		return "", err
	}
	return b.String(), nil
}

// promisify wraps a Go function to return a JavaScript Promise
func promisify(fn func(args []js.Value) (string, error)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		// Handler for the Promise
		handler := js.FuncOf(func(this js.Value, promiseArgs []js.Value) interface{} {
			resolve := promiseArgs[0]
			reject := promiseArgs[1]

			// Run this code asynchronously
			go func() {
				result, err := fn(args)
				if err != nil {
					errorConstructor := js.Global().Get("Error")
					errorObject := errorConstructor.New(err.Error())
					reject.Invoke(errorObject)
					return
				}

				resolve.Invoke(result)
			}()

			// The handler of a Promise doesn't return any value
			return nil
		})

		// Create and return the Promise object
		promiseConstructor := js.Global().Get("Promise")
		return promiseConstructor.New(handler)
	})
}

func main() {
	js.Global().Set("InspectUniverse", promisify(func(args []js.Value) (string, error) {
		if len(args) != 2 {
			return "", fmt.Errorf("InspectUniverse: expected 2 args (universeYAML, queriesYAML), got %v", len(args))
		}

		return InspectUniverse(args[0].String(), args[1].String())
	}))

	js.Global().Set("InspectUniverseYAML", promisify(func(args []js.Value) (string, error) {
		if len(args) != 2 {
			return "", fmt.Errorf("InspectUniverseYAML: expected 2 args (universeYAML, queriesYAML), got %v", len(args))
		}

		return InspectUniverseYAML(args[0].String(), args[1].String())
	}))

	// Keep the program running
	<-make(chan bool)
}
