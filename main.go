// ABOUTME: Entry point for the prospection sheet TUI and CLI
// ABOUTME: Routes to the interactive sheet or batch commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/koochoy97/sheet-app/cli"
	"github.com/koochoy97/sheet-app/config"
	"github.com/koochoy97/sheet-app/models"
	"github.com/koochoy97/sheet-app/tui"
)

const version = "0.1.0"

func main() {
	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")

	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("sheet-app version %s\n", version)
		os.Exit(0)
	}

	cfg := config.Load()

	args := flag.Args()

	// No command starts the interactive sheet
	if len(args) == 0 {
		runTUI(cfg)
		return
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "tui":
		runTUI(cfg)

	case "list":
		if err := cli.ListCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "export":
		if err := cli.ExportCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "create":
		if err := cli.CreateCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "archive":
		if err := cli.ArchiveCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "brief":
		if err := cli.BriefCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case "login":
		if err := cli.LoginCommand(cfg, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runTUI(cfg *config.Config) {
	client := cli.NewRestClient(cfg)

	clientFilter := cfg.DefaultClient
	if state, err := config.LoadState(); err == nil && state.ClientFilter != "" {
		clientFilter = state.ClientFilter
	}
	if clientFilter == "" {
		clientFilter = models.AllClients
	}

	if err := tui.Run(cfg, client, clientFilter); err != nil {
		log.Fatalf("TUI failed: %v", err)
	}
}

func printUsage() {
	fmt.Println(`sheet-app - prospection sheet over the remote record store

Usage:
  sheet-app                    Start the interactive sheet (default)
  sheet-app tui                Start the interactive sheet
  sheet-app list [flags]       List meetings (filter/sort flags available)
  sheet-app export [flags]     Export the visible rows to CSV
  sheet-app create [flags]     Create a meeting record
  sheet-app archive <id>...    Archive records by id
  sheet-app brief <id>         Send the brief for one record
  sheet-app login              Store the API token
  sheet-app -version           Show version

Common flags:
  -client <id|all>             Scope to one client or every client

Examples:
  sheet-app list -status "Completada" -sort fecha -desc
  sheet-app export -client 46 -out datos.csv
  sheet-app archive 1201 1202
  sheet-app brief 1201`)
}
