package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"workflow-controller/internal/config"
	"workflow-controller/internal/logging"
	"workflow-controller/internal/repository"
	"workflow-controller/pkg/models"
)

func main() {
	ctx := context.Background()
	logger := logging.NewLogger()

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode,
	)
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	store := repository.NewPostgresStore(pool)

	// Fixed demo owner so reseeding is idempotent.
	owner := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	logger.Info("Seeding workflows for owner %s", owner)

	// Skip names that already exist from a previous run.
	existing, err := store.ListWorkflows(ctx, owner)
	if err != nil {
		log.Fatalf("Failed to list existing workflows: %v", err)
	}
	existingMap := make(map[string]bool)
	for _, w := range existing {
		existingMap[w.Name] = true
	}

	workflows := []struct {
		Name   string
		Status models.RunStatus
	}{
		{"demo-analysis", models.RunStatusRunning},
		{"demo-fit", models.RunStatusFinished},
		{"demo-archived", models.RunStatusDeleted},
	}

	for _, w := range workflows {
		if existingMap[w.Name] {
			logger.Info("Skipping existing workflow %s", w.Name)
			continue
		}

		now := time.Now().UTC()
		wf := &models.Workflow{
			ID:        uuid.New(),
			Name:      w.Name,
			OwnerID:   owner,
			Status:    w.Status,
			Workspace: fmt.Sprintf("/var/workflows/%s", w.Name),
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.CreateWorkflow(ctx, wf); err != nil {
			log.Printf("Failed to create workflow %s: %v", w.Name, err)
		} else {
			logger.Info("Seeded workflow %s (%s)", w.Name, wf.ID)
		}
	}
	logger.Info("Seeding complete! Pass user=%s to the API.", owner)
}
