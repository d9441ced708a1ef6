// Command charlie is the CLI front-end for the allocation engine:
// "charlie allocate <path.yaml>" and "charlie analyze <path.yaml>",
// per spec §6.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aristath/charlie/internal/domain"
	"github.com/aristath/charlie/internal/modules/allocation"
	"github.com/aristath/charlie/pkg/logger"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: charlie <allocate|analyze> <path-to-yaml>")
		os.Exit(2)
	}

	cmd, path := os.Args[1], os.Args[2]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading %s: %v\n", path, err)
		os.Exit(2)
	}

	log := logger.New(logger.Config{Level: "warn"})
	svc := allocation.NewService(log)

	switch cmd {
	case "allocate":
		os.Exit(runAllocate(svc, data))
	case "analyze":
		os.Exit(runAnalyze(svc, data))
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", cmd)
		os.Exit(2)
	}
}

func runAllocate(svc *allocation.Service, data []byte) int {
	var input domain.AllocationInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		fmt.Fprintf(os.Stderr, "parsing YAML: %v\n", err)
		return 2
	}

	resp := svc.Allocate(context.Background(), input)
	printJSON(resp)

	if resp.Error == nil {
		return 0
	}
	if resp.Error.Kind == domain.KindValidationError {
		return 1
	}
	return 2
}

func runAnalyze(svc *allocation.Service, data []byte) int {
	var portfolio domain.Portfolio
	if err := yaml.Unmarshal(data, &portfolio); err != nil {
		fmt.Fprintf(os.Stderr, "parsing YAML: %v\n", err)
		return 2
	}

	resp := svc.Analyze(portfolio)
	printJSON(resp)

	if resp.Error != nil {
		return 2
	}
	return 0
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
