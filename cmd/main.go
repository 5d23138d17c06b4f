// file: cmd/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dkoosis/syscontrol/cmd/server"
	"github.com/dkoosis/syscontrol/internal/version"
	"github.com/fatih/color"
)

func main() {
	// serve is the default so MCP clients can launch the bare binary.
	command := "serve"
	args := os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		command, args = args[0], args[1:]
	}

	switch command {
	case "serve":
		serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
		configPath := serveCmd.String("config", defaultConfigPath(), "Path to configuration file.")
		debug := serveCmd.Bool("debug", false, "Enable debug logging.")
		if err := serveCmd.Parse(args); err != nil {
			log.Fatalf("Failed to parse serve command flags: %+v", err)
		}
		if err := server.RunServer(context.Background(), server.Options{ConfigPath: *configPath, Debug: *debug}); err != nil {
			log.Printf("Server failed: %+v", err)
			os.Exit(1)
		}

	case "tools":
		toolsCmd := flag.NewFlagSet("tools", flag.ExitOnError)
		configPath := toolsCmd.String("config", defaultConfigPath(), "Path to configuration file.")
		if err := toolsCmd.Parse(args); err != nil {
			log.Fatalf("Failed to parse tools command flags: %+v", err)
		}
		if err := server.PrintTools(os.Stdout, *configPath); err != nil {
			log.Fatalf("Listing tools failed: %+v", err)
		}

	case "diagnose":
		diagnoseCmd := flag.NewFlagSet("diagnose", flag.ExitOnError)
		configPath := diagnoseCmd.String("config", defaultConfigPath(), "Path to configuration file.")
		noColor := diagnoseCmd.Bool("no-color", false, "Disable colored status output.")
		if err := diagnoseCmd.Parse(args); err != nil {
			log.Fatalf("Failed to parse diagnose command flags: %+v", err)
		}
		if *noColor {
			color.NoColor = true
		}
		if err := server.RunDiagnostics(context.Background(), os.Stdout, *configPath); err != nil {
			log.Fatalf("Diagnostics failed: %+v", err)
		}

	case "version":
		fmt.Println(version.Get().String())

	default:
		printUsage()
		os.Exit(1)
	}
}

// printUsage prints usage information to stderr; stdout belongs to the protocol.
func printUsage() {
	log.Println("Usage:")
	log.Println("  syscontrol [serve] [options]  - Serve MCP over stdin/stdout (default)")
	log.Println("  syscontrol tools [options]    - Print the tool list as JSON")
	log.Println("  syscontrol diagnose [options] - Probe brightness, audio and system information")
	log.Println("  syscontrol version            - Print build information")
	log.Println("\nRun 'syscontrol <command> -h' for help on a specific command.")
}

// defaultConfigPath returns the config file path when it exists, or "" to
// run on defaults and environment alone.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "syscontrol", "syscontrol.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
