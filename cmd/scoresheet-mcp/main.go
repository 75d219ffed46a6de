package main

import (
	"fmt"
	"log"
	"os"

	"github.com/chesslens/scoresheet-mcp/internal/detection"
	"github.com/chesslens/scoresheet-mcp/internal/ocr"
	"github.com/chesslens/scoresheet-mcp/internal/pipeline"
	"github.com/chesslens/scoresheet-mcp/internal/server"
	"github.com/chesslens/scoresheet-mcp/internal/validate"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("scoresheet-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("scoresheet-mcp - MCP server for chess scoresheet transcription")
			fmt.Println()
			fmt.Println("Usage: scoresheet-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  SCORESHEET_MCP_LOG_LEVEL=debug     Enable debug logging")
			fmt.Println("  SCORESHEET_MCP_TUNING=<file>       YAML file overriding detection thresholds")
			fmt.Println("  SCORESHEET_MCP_VALIDATOR_URL=<url> External legality-validator endpoint")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("SCORESHEET_MCP_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("Scoresheet MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	params := detection.DefaultParams()
	if tuningPath := os.Getenv("SCORESHEET_MCP_TUNING"); tuningPath != "" {
		loaded, err := detection.LoadParams(tuningPath)
		if err != nil {
			log.Fatalf("Failed to load tuning file: %v", err)
		}
		params = loaded
		if logLevel == "debug" {
			log.Printf("Loaded detection tuning from %s", tuningPath)
		}
	}

	var validator validate.MoveValidator = validate.NoopValidator{}
	if url := os.Getenv("SCORESHEET_MCP_VALIDATOR_URL"); url != "" {
		validator = validate.NewEngineClient(url)
	}

	transcriber := pipeline.New(params, ocr.NewTesseractReader(), validator)

	srv := server.New(transcriber)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
