//go:build ignore

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/config"
	"github.com/fenilmodi00/neet-cutoff-backend/database"
	"github.com/fenilmodi00/neet-cutoff-backend/services"
)

func main() {
	fmt.Printf("🏥 Cutoff Backend Health Check - %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println(strings.Repeat("=", 50))

	healthScore := 0
	totalTests := 4

	cfg := config.LoadConfig().Unified()
	dialect, err := database.ParseDialect(cfg.Database.Driver)
	if err != nil {
		fmt.Printf("❌ Invalid DATABASE_DRIVER (%v)\n", err)
		return
	}

	// Test 1: Database connection
	fmt.Print("🗄️  Database: ")
	db, err := database.Connect(cfg.Database)
	if err != nil {
		fmt.Printf("❌ FAILED (%v)\n", err)
	} else {
		fmt.Println("✅ OK")
		healthScore++
		defer database.Close(db)
	}

	ctx := context.Background()
	var catalog *services.CatalogService
	if db != nil {
		catalog = services.NewCatalogService(database.NewSQLStore(db, dialect), services.NewQueryExecutor(cfg))
	}

	// Test 2: States
	fmt.Print("🗺️  States: ")
	if catalog == nil {
		fmt.Println("❌ SKIPPED (no database)")
	} else if states, err := catalog.ListStates(ctx); err != nil {
		fmt.Printf("❌ FAILED (%v)\n", err)
	} else {
		fmt.Printf("✅ OK (%d states)\n", len(states))
		healthScore++
	}

	// Test 3: Colleges
	fmt.Print("🏫 Colleges: ")
	if catalog == nil {
		fmt.Println("❌ SKIPPED (no database)")
	} else if colleges, err := catalog.ListColleges(ctx, nil); err != nil {
		fmt.Printf("❌ FAILED (%v)\n", err)
	} else {
		fmt.Printf("✅ OK (%d colleges)\n", len(colleges))
		healthScore++
	}

	// Test 4: Redis, when configured
	fmt.Print("⚡ Cache: ")
	if cfg.Cache.RedisURL == "" {
		fmt.Println("✅ OK (in-memory)")
		healthScore++
	} else if redisCache, err := services.NewRedisCache(cfg.Cache.RedisURL, cfg.Cache.KeyPrefix); err != nil {
		fmt.Printf("❌ FAILED (%v)\n", err)
	} else {
		fmt.Println("✅ OK (redis)")
		healthScore++
		redisCache.Close()
	}

	fmt.Println(strings.Repeat("-", 50))
	healthPercent := float64(healthScore) / float64(totalTests) * 100

	if healthScore == totalTests {
		fmt.Printf("🎉 SYSTEM HEALTHY: %d/%d tests passed (%.0f%%)\n", healthScore, totalTests, healthPercent)
	} else if healthScore >= totalTests/2 {
		fmt.Printf("⚠️  SYSTEM DEGRADED: %d/%d tests passed (%.0f%%)\n", healthScore, totalTests, healthPercent)
	} else {
		fmt.Printf("❌ SYSTEM UNHEALTHY: %d/%d tests passed (%.0f%%)\n", healthScore, totalTests, healthPercent)
	}

	fmt.Printf("⏰ Check completed at: %s\n", time.Now().Format("15:04:05"))
}
