// Seeds the database with the starter exercise library and workout templates.
// Run it once against a fresh environment; repeat runs are no-ops.
package main

import (
	"athletiq/coach-app/internal/config"
	"athletiq/coach-app/internal/repository/mongo"
	"athletiq/coach-app/internal/seed"
	"context"
	"log"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("FATAL: Could not build logger: %v", err)
	}
	defer logger.Sync()

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logger.Fatal("could not connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logger.Error("failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
	mongo.EnsureTemplateIndexes(ctx, appDB.Collection("workout_templates"))

	seeder := seed.NewSeeder(
		mongo.NewMongoExerciseRepository(appDB),
		mongo.NewMongoTemplateRepository(appDB),
		logger,
	)

	result, err := seeder.Run(ctx)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	logger.Info("seeding complete",
		zap.Int("exercisesCreated", result.ExercisesCreated),
		zap.Int("templatesCreated", result.TemplatesCreated))
}
