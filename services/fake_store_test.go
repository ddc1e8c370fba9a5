package services

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/fenilmodi00/neet-cutoff-backend/database"
	"github.com/fenilmodi00/neet-cutoff-backend/models"
	"github.com/fenilmodi00/neet-cutoff-backend/shared"
)

var errStoreDown = errors.New("connection refused")

// fakeStore counts calls and serves canned data or a fixed error
type fakeStore struct {
	calls      int64
	err        error
	states     []models.State
	candidates []models.PredictionCandidate
	topCutoffs []models.Cutoff
	names      map[int64]string
}

var _ database.Store = (*fakeStore)(nil)

func (f *fakeStore) hit() error {
	atomic.AddInt64(&f.calls, 1)
	return f.err
}

func (f *fakeStore) callCount() int64 {
	return atomic.LoadInt64(&f.calls)
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.hit() }

func (f *fakeStore) ListStates(ctx context.Context) ([]models.State, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	if f.states == nil {
		return []models.State{}, nil
	}
	return f.states, nil
}

func (f *fakeStore) GetState(ctx context.Context, id int64) (*models.State, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	for _, state := range f.states {
		if state.ID == id {
			s := state
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListColleges(ctx context.Context) ([]models.College, error) {
	return []models.College{}, f.hit()
}

func (f *fakeStore) ListCollegesByState(ctx context.Context, stateID int64) ([]models.College, error) {
	return []models.College{}, f.hit()
}

func (f *fakeStore) GetCollege(ctx context.Context, id int64) (*models.College, error) {
	return nil, f.hit()
}

func (f *fakeStore) CollegeNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	names := make(map[int64]string)
	for _, id := range ids {
		if name, ok := f.names[id]; ok {
			names[id] = name
		}
	}
	return names, nil
}

func (f *fakeStore) DistinctCategoriesByState(ctx context.Context, stateID int64) ([]string, error) {
	return []string{}, f.hit()
}

func (f *fakeStore) CutoffsByCollege(ctx context.Context, collegeID int64) ([]models.Cutoff, error) {
	return []models.Cutoff{}, f.hit()
}

func (f *fakeStore) MaxClosingCutoffsByState(ctx context.Context, stateID int64) ([]models.Cutoff, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return f.topCutoffs, nil
}

func (f *fakeStore) MatchingCutoffs(ctx context.Context, filter database.CutoffFilter) ([]models.PredictionCandidate, error) {
	if err := f.hit(); err != nil {
		return nil, err
	}
	return f.candidates, nil
}

// testExecutor retries without sleeping long
func testExecutor() *QueryExecutor {
	config := shared.NewDefaultUnifiedConfiguration()
	executor := NewQueryExecutor(config)
	executor.retryConfig.BaseDelay = 0
	executor.retryConfig.MaxDelay = 0
	return executor
}
