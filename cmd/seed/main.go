// Command main runs the database seeder.
package main

import (
	"context"
	"flag"
	"log"

	"unpolished/internal/config"
	"unpolished/internal/database"
	"unpolished/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numBlogs := flag.Int("blogs", 200, "Number of blogs to create")
	maxRoots := flag.Int("comments", defaults.MaxRootComments, "Maximum top-level comments per published blog")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Store plain-text passwords instead of bcrypt hashes (development only)")
	dryRun := flag.Bool("dry-run", false, "Build the data set without writing to the database")
	maxDays := flag.Int("days", defaults.MaxDays, "Spread creation dates over this many past days")
	randSeed := flag.Int64("seed", 0, "Random seed for a reproducible data set (0 picks one)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, %d blogs, clean=%v dry-run=%v\n", *numUsers, *numBlogs, *shouldClean, *dryRun)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close() }()

	if err := database.ApplySchema(context.Background(), db, cfg); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}

	res, err := seed.Seed(db, seed.Options{
		NumUsers:        *numUsers,
		NumBlogs:        *numBlogs,
		MaxRootComments: *maxRoots,
		ShouldClean:     *shouldClean,
		SkipBcrypt:      *fast,
		DryRun:          *dryRun,
		MaxDays:         *maxDays,
		RandSeed:        *randSeed,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Created %d users, %d blogs, %d comments, %d likes, %d bookmarks, %d follows",
		len(res.Users), len(res.Blogs), res.Comments, res.Likes, res.Bookmarks, res.Follows)
	log.Println("All test users have the password: password123 (demo@example.com, writer@example.com)")
}
