package main

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/courseforge/projmatch/internal/roster"
	"github.com/courseforge/projmatch/internal/solver"
)

func TestHandleRunAssignment_MissingInput(t *testing.T) {
	params := RunAssignmentParams{}
	_, _, err := HandleRunAssignment(context.Background(), nil, params)

	if err == nil {
		t.Error("Expected error for missing students and capacities, got nil")
	}
}

func TestHandleRunAssignment_AssignsStudents(t *testing.T) {
	params := RunAssignmentParams{
		Students: []roster.Student{
			{PrefID: "U1", BUID: "U1", StudentName: "Ada",
				Choices: []roster.Choice{{ProjectID: "p1", ProjectName: "Apollo", Rank: 1}}},
			{PrefID: "U2", BUID: "U2", StudentName: "Grace",
				Choices: []roster.Choice{{ProjectID: "p1", ProjectName: "Apollo", Rank: 1}}},
		},
		Capacities: map[string]int{"p1": 8},
		Options:    &roster.Options{TeamSizeTarget: 8, MinTeamSize: 1, MaxSectionsPerTeam: 2},
	}

	result, _, err := HandleRunAssignment(context.Background(), nil, params)
	if err != nil {
		t.Fatalf("HandleRunAssignment returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("result marked as error: %v", result.Content)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, `"projectId": "p1"`) {
		t.Errorf("Expected assignment to p1 in result, got %s", text)
	}
	if !strings.Contains(text, `"totalCost"`) {
		t.Errorf("Expected totalCost in result, got %s", text)
	}
}

func TestHandleRunAssignment_InvalidRoster(t *testing.T) {
	params := RunAssignmentParams{
		Students: []roster.Student{
			{PrefID: "U1", BUID: "U1", StudentName: "Ada",
				Choices: []roster.Choice{{ProjectID: "", ProjectName: "Apollo", Rank: 1}}},
		},
		Capacities: map[string]int{"p1": 8},
	}

	result, _, err := HandleRunAssignment(context.Background(), nil, params)
	if err != nil {
		t.Fatalf("HandleRunAssignment returned error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for a choice without a projectId")
	}
}

func TestHandleAssignmentReport(t *testing.T) {
	params := AssignmentReportParams{
		Assigned: []solver.Assigned{
			{PrefID: "U1", StudentName: "Ada", ProjectID: "p1", ProjectName: "Apollo", Rank: 1},
			{PrefID: "U2", StudentName: "Grace", ProjectID: "p1", ProjectName: "Apollo", Rank: 2},
		},
		Unassigned: []solver.Unassigned{
			{PrefID: "U3", StudentName: "Alan", Reason: solver.ReasonNoCapacity},
		},
	}

	result, _, err := HandleAssignmentReport(context.Background(), nil, params)
	if err != nil {
		t.Fatalf("HandleAssignmentReport returned error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Got 1st choice: 1 (50.0%)") {
		t.Errorf("Expected first-choice line, got %s", text)
	}
	if !strings.Contains(text, "Total unassigned students: 1") {
		t.Errorf("Expected unassigned line, got %s", text)
	}
}
