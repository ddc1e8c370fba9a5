package services

import (
	"context"
	"sort"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/database"
	"github.com/fenilmodi00/neet-cutoff-backend/models"
	"github.com/fenilmodi00/neet-cutoff-backend/shared"
)

const catalogServiceName = "catalog-service"

// CatalogReader is the read surface served over HTTP. Every method returns a
// usable value even when it also returns an error: lists are empty and
// lookups are nil.
type CatalogReader interface {
	ListStates(ctx context.Context) ([]models.State, error)
	ListColleges(ctx context.Context, stateID *int64) ([]models.College, error)
	ListCategoriesForState(ctx context.Context, stateID int64) ([]string, error)
	GetCollege(ctx context.Context, id int64) (*models.College, error)
	GetStateName(ctx context.Context, id int64) (*string, error)
	CutoffsForCollege(ctx context.Context, collegeID int64) ([]models.Cutoff, error)
	TopCutoffsForState(ctx context.Context, stateID int64) ([]models.CutoffWithCollege, error)
}

// CatalogService serves states, colleges, categories and cutoff aggregates
type CatalogService struct {
	store    database.Store
	executor *QueryExecutor
	metrics  *shared.ServiceMetrics
}

// NewCatalogService creates a catalog service over a store
func NewCatalogService(store database.Store, executor *QueryExecutor) *CatalogService {
	return &CatalogService{
		store:    store,
		executor: executor,
		metrics:  shared.NewServiceMetrics(catalogServiceName),
	}
}

// Metrics exposes per-operation counters
func (s *CatalogService) Metrics() *shared.ServiceMetrics {
	return s.metrics
}

// ListStates returns all states sorted by name
func (s *CatalogService) ListStates(ctx context.Context) ([]models.State, error) {
	var states []models.State
	err := s.run(ctx, "ListStates", nil, func(ctx context.Context) error {
		var err error
		states, err = s.store.ListStates(ctx)
		return err
	})
	if err != nil {
		return []models.State{}, err
	}
	return states, nil
}

// ListColleges returns colleges sorted by name, restricted to a state when
// stateID is set. An unknown state yields an empty list.
func (s *CatalogService) ListColleges(ctx context.Context, stateID *int64) ([]models.College, error) {
	var colleges []models.College
	details := map[string]interface{}{}
	if stateID != nil {
		details["state_id"] = *stateID
	}

	err := s.run(ctx, "ListColleges", details, func(ctx context.Context) error {
		var err error
		if stateID != nil {
			colleges, err = s.store.ListCollegesByState(ctx, *stateID)
		} else {
			colleges, err = s.store.ListColleges(ctx)
		}
		return err
	})
	if err != nil {
		return []models.College{}, err
	}
	return colleges, nil
}

// ListCategoriesForState returns the distinct categories seen in a state's cutoffs
func (s *CatalogService) ListCategoriesForState(ctx context.Context, stateID int64) ([]string, error) {
	var categories []string
	err := s.run(ctx, "ListCategoriesForState", map[string]interface{}{"state_id": stateID}, func(ctx context.Context) error {
		var err error
		categories, err = s.store.DistinctCategoriesByState(ctx, stateID)
		return err
	})
	if err != nil {
		return []string{}, err
	}
	return categories, nil
}

// GetCollege returns a college or nil when absent
func (s *CatalogService) GetCollege(ctx context.Context, id int64) (*models.College, error) {
	var college *models.College
	err := s.run(ctx, "GetCollege", map[string]interface{}{"college_id": id}, func(ctx context.Context) error {
		var err error
		college, err = s.store.GetCollege(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return college, nil
}

// GetStateName returns a state's name or nil when absent
func (s *CatalogService) GetStateName(ctx context.Context, id int64) (*string, error) {
	var state *models.State
	err := s.run(ctx, "GetStateName", map[string]interface{}{"state_id": id}, func(ctx context.Context) error {
		var err error
		state, err = s.store.GetState(ctx, id)
		return err
	})
	if err != nil || state == nil {
		return nil, err
	}
	name := state.Name
	return &name, nil
}

// CutoffsForCollege returns every cutoff recorded for a college
func (s *CatalogService) CutoffsForCollege(ctx context.Context, collegeID int64) ([]models.Cutoff, error) {
	var cutoffs []models.Cutoff
	err := s.run(ctx, "CutoffsForCollege", map[string]interface{}{"college_id": collegeID}, func(ctx context.Context) error {
		var err error
		cutoffs, err = s.store.CutoffsByCollege(ctx, collegeID)
		return err
	})
	if err != nil {
		return []models.Cutoff{}, err
	}
	return cutoffs, nil
}

// TopCutoffsForState returns, for each category in the state, every cutoff
// holding the category's highest closing rank. Colleges that cannot be
// resolved are reported as models.UnknownCollegeName.
func (s *CatalogService) TopCutoffsForState(ctx context.Context, stateID int64) ([]models.CutoffWithCollege, error) {
	var top []models.Cutoff
	var names map[int64]string

	err := s.run(ctx, "TopCutoffsForState", map[string]interface{}{"state_id": stateID}, func(ctx context.Context) error {
		var err error
		top, err = s.store.MaxClosingCutoffsByState(ctx, stateID)
		if err != nil {
			return err
		}
		names, err = s.store.CollegeNames(ctx, uniqueCollegeIDs(top))
		return err
	})
	if err != nil {
		return []models.CutoffWithCollege{}, err
	}

	return attachCollegeNames(top, names), nil
}

func (s *CatalogService) run(ctx context.Context, operation string, details map[string]interface{}, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := s.executor.ExecuteWithRetry(ctx, operation, fn)
	s.metrics.RecordRequest(operation, err == nil, time.Since(start))
	if err == nil {
		return nil
	}

	serviceErr := shared.WrapError(err, shared.ErrorCategoryDatabase, shared.CodeQueryFailed, catalogServiceName, operation, true)
	if len(details) > 0 {
		serviceErr.WithDetails(details)
	}
	serviceErr.LogError()
	return serviceErr
}

func uniqueCollegeIDs(cutoffs []models.Cutoff) []int64 {
	seen := make(map[int64]struct{}, len(cutoffs))
	ids := make([]int64, 0, len(cutoffs))
	for _, cutoff := range cutoffs {
		if _, ok := seen[cutoff.CollegeID]; ok {
			continue
		}
		seen[cutoff.CollegeID] = struct{}{}
		ids = append(ids, cutoff.CollegeID)
	}
	return ids
}

func attachCollegeNames(cutoffs []models.Cutoff, names map[int64]string) []models.CutoffWithCollege {
	result := make([]models.CutoffWithCollege, 0, len(cutoffs))
	for _, cutoff := range cutoffs {
		name, ok := names[cutoff.CollegeID]
		if !ok {
			name = models.UnknownCollegeName
		}
		result = append(result, models.CutoffWithCollege{Cutoff: cutoff, CollegeName: name})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		if result[i].CollegeName != result[j].CollegeName {
			return result[i].CollegeName < result[j].CollegeName
		}
		return result[i].ID < result[j].ID
	})
	return result
}
