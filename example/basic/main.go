package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/placeresolver"
	"github.com/siherrmann/placeresolver/helper"
	"github.com/siherrmann/placeresolver/model"
)

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	r, err := placeresolver.NewResolver(dbConfig, nil)
	if err != nil {
		log.Fatalf("Failed to create resolver: %v", err)
	}
	defer r.Close()

	// Trigram search on both slots keeps the example self-contained;
	// use UseDefaultSearchers for vector search with the MiniLM embedder.
	r.UseTrigramSearchers()

	// Load a small gazetteer
	entries := []*model.GazetteerEntry{
		{
			Name:     "Pandri",
			Kind:     model.KindVillage,
			Block:    model.ParentRef{Name: "Kharora"},
			District: model.ParentRef{Name: "Raipur"},
			State:    model.ParentRef{Name: "Chhattisgarh"},
			Country:  model.ParentRef{Name: "India"},
			LocalBody: model.LocalBody{
				Type: model.LocalBodyGP,
				Name: "Pandri GP",
			},
			Path: model.PathList{"India", "Chhattisgarh", "Raipur", "Kharora", "Pandri"},
		},
		{
			Name:     "Pandri",
			Kind:     model.KindWard,
			District: model.ParentRef{Name: "Raipur"},
			State:    model.ParentRef{Name: "Chhattisgarh"},
			Country:  model.ParentRef{Name: "India"},
			LocalBody: model.LocalBody{
				Type:   model.LocalBodyUrban,
				Name:   "Raipur Municipal Corporation",
				WardNo: "12",
			},
			Path: model.PathList{"India", "Chhattisgarh", "Raipur", "Raipur Municipal Corporation", "Pandri"},
		},
	}

	fmt.Println("Indexing gazetteer entries...")
	for _, entry := range entries {
		if err := r.IndexEntry(entry); err != nil {
			log.Fatalf("Failed to index entry: %v", err)
		}
	}

	// Resolve a mention from a citizen report
	mention := &model.PlaceMention{
		RawText:  "Pandri",
		KindHint: model.KindVillage,
		Context: model.MentionContext{
			SourceID: "post-42",
			Text:     "hand pump broken near Pandri, Kharora block",
		},
	}

	fmt.Printf("\nResolving mention: %s\n", mention.RawText)
	result, err := r.Resolve(context.Background(), mention)
	if err != nil {
		log.Fatalf("Failed to resolve: %v", err)
	}

	fmt.Printf("\nStatus: %s\n", result.Status)
	fmt.Printf("Reason: %s\n", result.Reason)
	for i, candidate := range result.Candidates {
		fmt.Printf("\n--- Candidate %d ---\n", i+1)
		fmt.Printf("Name: %s (%s)\n", candidate.Name, candidate.Kind)
		fmt.Printf("Score: %.4f\n", candidate.Score)
		if candidate.Entry != nil {
			fmt.Printf("Path: %v\n", candidate.Entry.Path)
		}
	}
	if result.PersistedChoice != nil {
		fmt.Printf("\nPersisted as version %d under key %s\n", result.PersistedChoice.Version, result.PlaceKey)
	}

	// Disambiguate an ambiguous name using the post text
	disambiguation, err := r.Disambiguate("Pandri", mention.Context.Text)
	if err != nil {
		log.Fatalf("Failed to disambiguate: %v", err)
	}
	if disambiguation.Chosen != nil {
		if disambiguation.Chosen.IsUrban {
			fmt.Printf("\nContext places Pandri in ULB %s\n", disambiguation.Chosen.Urban.ULB)
		} else {
			fmt.Printf("\nContext places Pandri in GP %s\n", disambiguation.Chosen.Rural.GramPanchayat)
		}
	} else {
		fmt.Printf("\nPandri stays ambiguous between %d placements\n", len(disambiguation.Placements))
	}

	fmt.Println("\nBasic example completed successfully!")
}
