package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"fenrir/bot"
	"fenrir/config"
	"fenrir/database"
	"fenrir/repository"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting fenrir bot...")

	// Load configuration
	cfg := config.Get()

	// Apply pending migrations before anything touches the schema
	log.Println("Running database migrations...")
	if err := database.RunMigrationsWithURL(cfg.GetDatabaseURL()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize repositories
	guildRepo := repository.NewGuildConfigRepository(db)
	eventRepo := repository.NewEventConfigRepository(db)
	channelRepo := repository.NewEventChannelRepository(db)

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:            cfg.DiscordToken,
		MessageCacheSize: cfg.MessageCacheSize,
	}
	discordBot, err := bot.New(botConfig, guildRepo, eventRepo, channelRepo)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
