package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	log.Println("[MCP Solver Server] Starting Project Match MCP Server v1.0.0")

	// 1. Create MCP server
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "projmatch-solver-server",
		Version: "v1.0.0",
	}, nil)

	// 2. Register run_assignment tool
	runTool := &mcp.Tool{
		Name:        "run_assignment",
		Description: "Assign students to projects from a roster with choices, capacities and options; returns the assignment with per-student ranks and the objective value",
	}
	mcp.AddTool(server, runTool, HandleRunAssignment)
	log.Println("[MCP Solver Server] Registered tool: run_assignment")

	// 3. Register assignment_report tool
	reportTool := &mcp.Tool{
		Name:        "assignment_report",
		Description: "Summarize an assignment result: students assigned, first-choice and top-3 percentages, unassigned count",
	}
	mcp.AddTool(server, reportTool, HandleAssignmentReport)
	log.Println("[MCP Solver Server] Registered tool: assignment_report")

	// 4. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[MCP Solver Server] Received shutdown signal")
		cancel()
	}()

	// 5. Start server with stdio transport
	log.Println("[MCP Solver Server] Starting on stdio transport...")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatalf("[MCP Solver Server] Server error: %v", err)
	}
	log.Println("[MCP Solver Server] Server stopped gracefully")
}
