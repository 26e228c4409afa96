package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/storefront/cmd/utils/internal/commands"
)

const (
	// Shares the service's namespace so STOREFRONT_DB_MONGO_* point both at
	// the same receipts database.
	appNamespace = "STOREFRONT"
	appName      = "storefront-utils"
	appVersion   = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	name := os.Args[1]
	switch name {
	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)
		return
	case "help", "-h", "--help":
		usage(os.Stdout)
		return
	}

	cmd, ok := commands.Lookup(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		usage(os.Stderr)
		os.Exit(2)
	}

	config, err := aqm.LoadConfig(appNamespace, os.Args[2:])
	if err != nil {
		log.Fatalf("%s(%s) cannot load config: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := aqm.NewLogger(logLevel)

	target, err := commands.ResolveTarget(config)
	if err != nil {
		log.Fatalf("%s: %v", name, err)
	}

	if cmd.Destructive {
		confirm, _ := config.GetString("utils.confirm")
		if confirm != target.Database {
			log.Fatalf("%s drops %q; set %s_UTILS_CONFIRM=%s to proceed", name, target.Database, appNamespace, target.Database)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, target, logger); err != nil {
		log.Fatalf("%s failed: %v", name, err)
	}
	logger.Info("command completed", "command", name, "database", target.Database)
}

func usage(out io.Writer) {
	fmt.Fprintf(out, "%s - maintenance for the storefront receipts database\n\n", appName)
	fmt.Fprintf(out, "Usage:\n  %s <command>\n\nCommands:\n", appName)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range commands.All() {
		summary := c.Summary
		if c.Destructive {
			summary += " (needs " + appNamespace + "_UTILS_CONFIRM)"
		}
		fmt.Fprintf(tw, "  %s\t%s\n", c.Name, summary)
	}
	fmt.Fprintf(tw, "  version\tPrint version information\n")
	fmt.Fprintf(tw, "  help\tShow this help message\n")
	tw.Flush()

	env := []string{
		"DB_MONGO_URL\tReceipts MongoDB URL (default: mongodb://localhost:27017)",
		"DB_MONGO_NAME\tReceipts database, letters, digits, '-' or '_' (default: storefront)",
		"UTILS_CONFIRM\tDatabase name, required by destructive commands",
		"LOG_LEVEL\tdebug, info, warn or error (default: info)",
	}
	fmt.Fprintf(out, "\nEnvironment (shared with the storefront service):\n")
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, line := range env {
		fmt.Fprintf(tw, "  %s_%s\n", appNamespace, line)
	}
	tw.Flush()

	fmt.Fprintf(out, "\nExample:\n  %s_UTILS_CONFIRM=storefront %s reset-db\n", appNamespace, appName)
}
