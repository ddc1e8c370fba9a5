package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/models"
	"github.com/sirupsen/logrus"
)

// Store is the read-only query layer over the states, colleges and cutoffs
// tables. List methods return empty, non-nil slices when nothing matches;
// single-row lookups return nil, nil when the row is absent.
type Store interface {
	Ping(ctx context.Context) error
	ListStates(ctx context.Context) ([]models.State, error)
	GetState(ctx context.Context, id int64) (*models.State, error)
	ListColleges(ctx context.Context) ([]models.College, error)
	ListCollegesByState(ctx context.Context, stateID int64) ([]models.College, error)
	GetCollege(ctx context.Context, id int64) (*models.College, error)
	CollegeNames(ctx context.Context, ids []int64) (map[int64]string, error)
	DistinctCategoriesByState(ctx context.Context, stateID int64) ([]string, error)
	CutoffsByCollege(ctx context.Context, collegeID int64) ([]models.Cutoff, error)
	MaxClosingCutoffsByState(ctx context.Context, stateID int64) ([]models.Cutoff, error)
	MatchingCutoffs(ctx context.Context, filter CutoffFilter) ([]models.PredictionCandidate, error)
}

// CutoffFilter selects predictor candidates. DomicileState, when set,
// restricts rows to cutoffs whose state name matches exactly.
type CutoffFilter struct {
	Category      string
	Quota         string
	DomicileState *string
}

const (
	collegeColumns = `id, name, formatted_name, state_id, location, website, summary`
	cutoffColumns  = `id, college_id, state_id, category, quota, year, opening_rank, closing_rank`
	nameOrdering   = `ORDER BY LOWER(name), name, id`
)

// SQLStore implements Store on database/sql
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLStore creates a store over an open pool
func NewSQLStore(db *sql.DB, dialect Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return HealthCheck(ctx, s.db)
}

func (s *SQLStore) ListStates(ctx context.Context) ([]models.State, error) {
	rows, err := s.query(ctx, "list_states", `SELECT id, name FROM states `+nameOrdering)
	if err != nil {
		return nil, fmt.Errorf("failed to query states: %w", err)
	}
	defer rows.Close()

	states := make([]models.State, 0)
	for rows.Next() {
		var state models.State
		if err := rows.Scan(&state.ID, &state.Name); err != nil {
			return nil, fmt.Errorf("failed to scan state row: %w", err)
		}
		states = append(states, state)
	}
	return states, rows.Err()
}

func (s *SQLStore) GetState(ctx context.Context, id int64) (*models.State, error) {
	row := s.queryRow(ctx, "get_state", `SELECT id, name FROM states WHERE id = $1`, id)

	var state models.State
	if err := row.Scan(&state.ID, &state.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan state: %w", err)
	}
	return &state, nil
}

func (s *SQLStore) ListColleges(ctx context.Context) ([]models.College, error) {
	rows, err := s.query(ctx, "list_colleges", `SELECT `+collegeColumns+` FROM colleges `+nameOrdering)
	if err != nil {
		return nil, fmt.Errorf("failed to query colleges: %w", err)
	}
	defer rows.Close()

	return scanColleges(rows)
}

func (s *SQLStore) ListCollegesByState(ctx context.Context, stateID int64) ([]models.College, error) {
	rows, err := s.query(ctx, "list_colleges_by_state",
		`SELECT `+collegeColumns+` FROM colleges WHERE state_id = $1 `+nameOrdering, stateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query colleges for state %d: %w", stateID, err)
	}
	defer rows.Close()

	return scanColleges(rows)
}

func (s *SQLStore) GetCollege(ctx context.Context, id int64) (*models.College, error) {
	row := s.queryRow(ctx, "get_college", `SELECT `+collegeColumns+` FROM colleges WHERE id = $1`, id)

	var college models.College
	err := row.Scan(
		&college.ID, &college.Name, &college.FormattedName, &college.StateID,
		&college.Location, &college.Website, &college.Summary,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan college: %w", err)
	}
	return &college, nil
}

// CollegeNames resolves ids to names in one query. Ids without a college are
// absent from the map.
func (s *SQLStore) CollegeNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.query(ctx, "college_names",
		`SELECT id, name FROM colleges WHERE id IN (`+Placeholders(1, len(ids))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query college names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan college name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (s *SQLStore) DistinctCategoriesByState(ctx context.Context, stateID int64) ([]string, error) {
	rows, err := s.query(ctx, "distinct_categories",
		`SELECT DISTINCT category FROM cutoffs WHERE state_id = $1 ORDER BY category`, stateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for state %d: %w", stateID, err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (s *SQLStore) CutoffsByCollege(ctx context.Context, collegeID int64) ([]models.Cutoff, error) {
	rows, err := s.query(ctx, "cutoffs_by_college",
		`SELECT `+cutoffColumns+` FROM cutoffs WHERE college_id = $1
		 ORDER BY year DESC, category, quota, id`, collegeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cutoffs for college %d: %w", collegeID, err)
	}
	defer rows.Close()

	return scanCutoffs(rows)
}

// MaxClosingCutoffsByState returns, per category, every cutoff of the state
// whose closing rank equals that category's maximum. Ties are all returned.
func (s *SQLStore) MaxClosingCutoffsByState(ctx context.Context, stateID int64) ([]models.Cutoff, error) {
	query := `
		SELECT c.id, c.college_id, c.state_id, c.category, c.quota, c.year, c.opening_rank, c.closing_rank
		FROM cutoffs c
		INNER JOIN (
			SELECT category, MAX(closing_rank) AS max_rank
			FROM cutoffs
			WHERE state_id = $1
			GROUP BY category
		) m ON c.category = m.category AND c.closing_rank = m.max_rank
		WHERE c.state_id = $2
		ORDER BY c.category, c.id`

	rows, err := s.query(ctx, "max_closing_cutoffs_by_state", query, stateID, stateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query top cutoffs for state %d: %w", stateID, err)
	}
	defer rows.Close()

	return scanCutoffs(rows)
}

// MatchingCutoffs returns cutoffs for a category and quota joined with their
// college and state. Missing joins yield empty names rather than dropping rows.
func (s *SQLStore) MatchingCutoffs(ctx context.Context, filter CutoffFilter) ([]models.PredictionCandidate, error) {
	query := `
		SELECT c.id, c.college_id, c.state_id, c.category, c.quota, c.year, c.opening_rank, c.closing_rank,
		       COALESCE(col.name, ''), COALESCE(st.name, ''), col.location
		FROM cutoffs c
		LEFT JOIN colleges col ON col.id = c.college_id
		LEFT JOIN states st ON st.id = c.state_id
		WHERE c.category = $1 AND c.quota = $2`
	args := []interface{}{filter.Category, filter.Quota}

	if filter.DomicileState != nil {
		query += ` AND st.name = $3`
		args = append(args, *filter.DomicileState)
	}
	query += ` ORDER BY c.college_id, c.year DESC, c.id`

	rows, err := s.query(ctx, "matching_cutoffs", query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matching cutoffs: %w", err)
	}
	defer rows.Close()

	candidates := make([]models.PredictionCandidate, 0)
	for rows.Next() {
		var candidate models.PredictionCandidate
		err := rows.Scan(
			&candidate.ID, &candidate.CollegeID, &candidate.StateID, &candidate.Category,
			&candidate.Quota, &candidate.Year, &candidate.OpeningRank, &candidate.ClosingRank,
			&candidate.CollegeName, &candidate.StateName, &candidate.City,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction candidate: %w", err)
		}
		candidates = append(candidates, candidate)
	}
	return candidates, rows.Err()
}

func (s *SQLStore) query(ctx context.Context, operation, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	logQuery(operation, start, err)
	return rows, err
}

func (s *SQLStore) queryRow(ctx context.Context, operation, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
	logQuery(operation, start, row.Err())
	return row
}

func logQuery(operation string, start time.Time, err error) {
	entry := logrus.WithFields(logrus.Fields{
		"component": "SQLStore",
		"operation": operation,
		"duration":  time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Debug("Query failed")
		return
	}
	entry.Debug("Executed query")
}

func scanColleges(rows *sql.Rows) ([]models.College, error) {
	colleges := make([]models.College, 0)
	for rows.Next() {
		var college models.College
		err := rows.Scan(
			&college.ID, &college.Name, &college.FormattedName, &college.StateID,
			&college.Location, &college.Website, &college.Summary,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan college row: %w", err)
		}
		colleges = append(colleges, college)
	}
	return colleges, rows.Err()
}

func scanCutoffs(rows *sql.Rows) ([]models.Cutoff, error) {
	cutoffs := make([]models.Cutoff, 0)
	for rows.Next() {
		var cutoff models.Cutoff
		err := rows.Scan(
			&cutoff.ID, &cutoff.CollegeID, &cutoff.StateID, &cutoff.Category,
			&cutoff.Quota, &cutoff.Year, &cutoff.OpeningRank, &cutoff.ClosingRank,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cutoff row: %w", err)
		}
		cutoffs = append(cutoffs, cutoff)
	}
	return cutoffs, rows.Err()
}
