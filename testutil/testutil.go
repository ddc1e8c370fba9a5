package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fenilmodi00/neet-cutoff-backend/database"
	"github.com/fenilmodi00/neet-cutoff-backend/models"
)

var dbCounter int64

// SetupTestDB opens a private in-memory SQLite database with the full schema.
// The database lives until the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, atomic.AddInt64(&dbCounter, 1))

	db, err := sql.Open(database.DialectSQLite.DriverName(), dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// One connection keeps the in-memory database alive and avoids table locks
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// SetupTestStore returns a store over a fresh test database
func SetupTestStore(t *testing.T) (*database.SQLStore, *sql.DB) {
	t.Helper()
	db := SetupTestDB(t)
	return database.NewSQLStore(db, database.DialectSQLite), db
}

// SetupSeededStore returns a store loaded with the fixture from SeedFixture
func SetupSeededStore(t *testing.T) (*database.SQLStore, *sql.DB) {
	t.Helper()
	store, db := SetupTestStore(t)
	SeedFixture(t, db)
	return store, db
}

// InsertState inserts a state row
func InsertState(t *testing.T, db *sql.DB, state models.State) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO states (id, name) VALUES (?, ?)`, state.ID, state.Name)
	if err != nil {
		t.Fatalf("Failed to insert state %d: %v", state.ID, err)
	}
}

// InsertCollege inserts a college row
func InsertCollege(t *testing.T, db *sql.DB, college models.College) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO colleges (id, name, formatted_name, state_id, location, website, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		college.ID, college.Name, college.FormattedName, college.StateID,
		college.Location, college.Website, college.Summary,
	)
	if err != nil {
		t.Fatalf("Failed to insert college %d: %v", college.ID, err)
	}
}

// InsertCutoff inserts a cutoff row
func InsertCutoff(t *testing.T, db *sql.DB, cutoff models.Cutoff) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO cutoffs (id, college_id, state_id, category, quota, year, opening_rank, closing_rank)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		cutoff.ID, cutoff.CollegeID, cutoff.StateID, cutoff.Category,
		cutoff.Quota, cutoff.Year, cutoff.OpeningRank, cutoff.ClosingRank,
	)
	if err != nil {
		t.Fatalf("Failed to insert cutoff %d: %v", cutoff.ID, err)
	}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Fixture ids
const (
	StateKarnataka   int64 = 1
	StateMaharashtra int64 = 2
	StateAndhra      int64 = 3
	StateGoa         int64 = 4

	CollegeBangalore int64 = 10
	CollegeMysore    int64 = 11
	CollegeGrant     int64 = 12
	CollegeArmed     int64 = 13
	CollegeAndhra    int64 = 14

	// OrphanCollegeID is referenced by cutoffs but has no college row
	OrphanCollegeID int64 = 99
)

// SeedFixture loads a small data set:
//
//   - Karnataka has a General state_quota tie at closing rank 500 between
//     Bangalore and Mysore, an older Bangalore row, and OBC rows whose
//     maximum belongs to an orphaned college.
//   - Goa has no colleges and no cutoffs.
//   - "andhra Pradesh" and "armed Forces Medical College" exercise
//     case-insensitive ordering.
func SeedFixture(t *testing.T, db *sql.DB) {
	t.Helper()

	for _, state := range []models.State{
		{ID: StateKarnataka, Name: "Karnataka"},
		{ID: StateMaharashtra, Name: "Maharashtra"},
		{ID: StateAndhra, Name: "andhra Pradesh"},
		{ID: StateGoa, Name: "Goa"},
	} {
		InsertState(t, db, state)
	}

	for _, college := range []models.College{
		{ID: CollegeBangalore, Name: "Bangalore Medical College", StateID: StateKarnataka, Location: StringPtr("Bengaluru"), Website: StringPtr("https://bmcri.org")},
		{ID: CollegeMysore, Name: "Mysore Medical College", StateID: StateKarnataka, Location: StringPtr("Mysuru")},
		{ID: CollegeGrant, Name: "Grant Medical College", FormattedName: StringPtr("grant-medical-college"), StateID: StateMaharashtra, Location: StringPtr("Mumbai")},
		{ID: CollegeArmed, Name: "armed Forces Medical College", StateID: StateMaharashtra},
		{ID: CollegeAndhra, Name: "Andhra Medical College", StateID: StateAndhra, Location: StringPtr("Visakhapatnam")},
	} {
		InsertCollege(t, db, college)
	}

	for _, cutoff := range []models.Cutoff{
		{ID: 100, CollegeID: CollegeBangalore, StateID: StateKarnataka, Category: "General", Quota: models.QuotaState, Year: 2023, OpeningRank: 100, ClosingRank: 500},
		{ID: 101, CollegeID: CollegeMysore, StateID: StateKarnataka, Category: "General", Quota: models.QuotaState, Year: 2023, OpeningRank: 150, ClosingRank: 500},
		{ID: 102, CollegeID: CollegeBangalore, StateID: StateKarnataka, Category: "General", Quota: models.QuotaState, Year: 2022, OpeningRank: 90, ClosingRank: 450},
		{ID: 103, CollegeID: OrphanCollegeID, StateID: StateKarnataka, Category: "General", Quota: models.QuotaAllIndia, Year: 2023, OpeningRank: 50, ClosingRank: 300},
		{ID: 104, CollegeID: CollegeBangalore, StateID: StateKarnataka, Category: "OBC", Quota: models.QuotaState, Year: 2023, OpeningRank: 200, ClosingRank: 900},
		{ID: 105, CollegeID: OrphanCollegeID, StateID: StateKarnataka, Category: "OBC", Quota: models.QuotaAllIndia, Year: 2023, OpeningRank: 300, ClosingRank: 1200},
		{ID: 106, CollegeID: CollegeGrant, StateID: StateMaharashtra, Category: "General", Quota: models.QuotaState, Year: 2023, OpeningRank: 20, ClosingRank: 400},
		{ID: 107, CollegeID: CollegeArmed, StateID: StateMaharashtra, Category: "General", Quota: models.QuotaAllIndia, Year: 2023, OpeningRank: 10, ClosingRank: 250},
		{ID: 108, CollegeID: CollegeGrant, StateID: StateMaharashtra, Category: "SC", Quota: models.QuotaState, Year: 2022, OpeningRank: 800, ClosingRank: 2000},
		{ID: 109, CollegeID: CollegeAndhra, StateID: StateAndhra, Category: "General", Quota: models.QuotaState, Year: 2023, OpeningRank: 600, ClosingRank: 1000},
	} {
		InsertCutoff(t, db, cutoff)
	}
}
