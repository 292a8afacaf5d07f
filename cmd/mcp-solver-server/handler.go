package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/courseforge/projmatch/internal/report"
	"github.com/courseforge/projmatch/internal/roster"
	"github.com/courseforge/projmatch/internal/solver"
)

// RunAssignmentParams defines the input parameters for run_assignment
type RunAssignmentParams struct {
	Students   []roster.Student `json:"students" jsonschema:"Students with their ranked project choices"`
	Capacities map[string]int   `json:"capacities" jsonschema:"Maximum team size per project id"`
	Options    *roster.Options  `json:"options,omitempty" jsonschema:"Solver options; defaults are applied when omitted"`
}

// HandleRunAssignment handles the run_assignment tool call
func HandleRunAssignment(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params RunAssignmentParams,
) (*mcp.CallToolResult, any, error) {
	log.Printf("[MCP Solver Server] Received run_assignment request (%d students)", len(params.Students))

	if params.Students == nil || params.Capacities == nil {
		return nil, nil, fmt.Errorf("students and capacities are required")
	}

	ro := &roster.Roster{
		Students:   params.Students,
		Capacities: params.Capacities,
		Options:    roster.DefaultOptions(),
	}
	if params.Options != nil {
		ro.Options = *params.Options
	}

	result, err := solver.Solve(ro)
	if err != nil {
		log.Printf("[MCP Solver Server] Solve failed: %v", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)},
			},
			IsError: true,
		}, nil, nil
	}

	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("marshal result: %w", err)
	}

	log.Printf("[MCP Solver Server] Assigned %d students, %d unassigned", len(result.Assigned), len(result.Unassigned))

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(body)},
		},
	}, nil, nil
}

// AssignmentReportParams defines the input parameters for assignment_report
type AssignmentReportParams struct {
	Assigned   []solver.Assigned   `json:"assigned" jsonschema:"Assigned students from a run_assignment result"`
	Unassigned []solver.Unassigned `json:"unassigned,omitempty" jsonschema:"Unassigned students from a run_assignment result"`
}

// HandleAssignmentReport handles the assignment_report tool call
func HandleAssignmentReport(
	ctx context.Context,
	req *mcp.CallToolRequest,
	params AssignmentReportParams,
) (*mcp.CallToolResult, any, error) {
	log.Printf("[MCP Solver Server] Received assignment_report request")

	stats := report.Build(&solver.Result{
		Assigned:   params.Assigned,
		Unassigned: params.Unassigned,
	})

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: stats.String()},
		},
	}, nil, nil
}
