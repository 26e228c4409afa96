package commands

import (
	"context"

	"github.com/aquamarinepk/aqm"
)

// Command is one storefront-utils subcommand.
type Command struct {
	Name    string
	Summary string
	// Destructive commands need utils.confirm set to the database name.
	Destructive bool
	Run         func(ctx context.Context, target Target, logger aqm.Logger) error
}

var registry = []Command{
	{Name: "seed-demo", Summary: "Insert demo receipts for the demo customers (once)", Run: SeedDemo},
	{Name: "clear-demo", Summary: "Remove demo receipts and their seed marker", Run: ClearDemo},
	{Name: "reset-db", Summary: "Drop the storefront database", Destructive: true, Run: ResetDB},
}

// All returns the database commands in help order.
func All() []Command {
	return append([]Command(nil), registry...)
}

func Lookup(name string) (Command, bool) {
	for _, c := range registry {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}
