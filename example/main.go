package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/meikuraledutech/workflow"
	"github.com/meikuraledutech/workflow/client"
	"github.com/meikuraledutech/workflow/internal/config"
	"github.com/meikuraledutech/workflow/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := logging.New(cfg.LogLevel, "text", os.Stderr)

	// Talk to a running server through the Repository interface.
	var repo workflow.Repository = client.New(cfg.APIURL, client.WithTimeout(cfg.HTTPTimeout))
	s := workflow.NewSession(repo, workflow.WithLogger(logger))
	s.Rename("Order follow-up", "call the CRM, then mail the customer")

	// ── Split start→end with an api node, then the new api→end edge with an email node
	api := s.ApplyEdgeSplit(workflow.SeedEdgeID, workflow.KindAPI, nil)
	if err := s.UpdateNodeField(api.ID, workflow.FieldEndpoint, "https://crm.example.com/orders"); err != nil {
		fail(err)
	}
	out := s.Graph().Outgoing(api.ID)[0]
	email := s.ApplyEdgeSplit(out.ID, workflow.KindEmail, nil)
	if err := s.UpdateNodeField(email.ID, workflow.FieldRecipient, "customer@example.com"); err != nil {
		fail(err)
	}

	// ── A decision branch that is later removed again
	decision := s.AddNode(workflow.KindDecision, &workflow.Position{X: 450, Y: 120})
	if _, err := s.Connect(api.ID, decision.ID); err != nil {
		fail(err)
	}
	if _, err := s.Connect(decision.ID, workflow.SeedEndID); err != nil {
		fail(err)
	}
	s.ApplyNodeDelete(decision.ID)

	// Type is fixed once a node exists.
	if err := s.UpdateNodeField(email.ID, workflow.FieldType, string(workflow.KindAPI)); err != nil {
		fmt.Println("rejected:", err)
	}

	saved, err := s.Save(ctx)
	if err != nil {
		fail(err)
	}
	fmt.Println("saved workflow:")
	printJSON(saved)

	// ── Reload in a fresh session
	reader := workflow.NewSession(repo, workflow.WithLogger(logger))
	if _, err := reader.Load(ctx, saved.ID); err != nil {
		fail(err)
	}
	fmt.Println("\nreloaded, issues:", len(reader.Issues()))
	printJSON(reader.Export())

	if err := repo.Delete(ctx, saved.ID); err != nil {
		fail(err)
	}
	fmt.Println("\nworkflow deleted")
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
