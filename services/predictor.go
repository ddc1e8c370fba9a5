package services

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/fenilmodi00/neet-cutoff-backend/database"
	"github.com/fenilmodi00/neet-cutoff-backend/models"
	"github.com/fenilmodi00/neet-cutoff-backend/shared"
	"github.com/go-playground/validator/v10"
)

const predictorServiceName = "predictor-service"

// Predictor classifies colleges by admission chance for a rank
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) ([]models.PredictionResult, error)
}

// PredictorService compares a candidate's rank against historical closing ranks
type PredictorService struct {
	store      database.Store
	executor   *QueryExecutor
	thresholds shared.PredictionConfig
	validate   *validator.Validate
	metrics    *shared.ServiceMetrics
}

// NewPredictorService creates a predictor with the given thresholds
func NewPredictorService(store database.Store, executor *QueryExecutor, thresholds shared.PredictionConfig) *PredictorService {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &PredictorService{
		store:      store,
		executor:   executor,
		thresholds: thresholds,
		validate:   validate,
		metrics:    shared.NewServiceMetrics(predictorServiceName),
	}
}

// Metrics exposes per-operation counters
func (p *PredictorService) Metrics() *shared.ServiceMetrics {
	return p.metrics
}

// Predict returns one result per college with a cutoff matching the request's
// category and quota. Invalid requests are rejected before the store is queried.
func (p *PredictorService) Predict(ctx context.Context, req models.PredictionRequest) ([]models.PredictionResult, error) {
	if err := p.Validate(req); err != nil {
		p.metrics.RecordRequest("Predict", false, 0)
		return []models.PredictionResult{}, err
	}

	filter := database.CutoffFilter{Category: req.Category, Quota: req.Quota}
	if req.Quota == models.QuotaState && req.DomicileState != nil && *req.DomicileState != "" {
		filter.DomicileState = req.DomicileState
	}

	start := time.Now()
	var candidates []models.PredictionCandidate
	err := p.executor.ExecuteWithRetry(ctx, "Predict", func(ctx context.Context) error {
		var err error
		candidates, err = p.store.MatchingCutoffs(ctx, filter)
		return err
	})
	p.metrics.RecordRequest("Predict", err == nil, time.Since(start))

	if err != nil {
		serviceErr := shared.WrapError(err, shared.ErrorCategoryDatabase, shared.CodeQueryFailed, predictorServiceName, "Predict", true).
			WithDetails(map[string]interface{}{"category": req.Category, "quota": req.Quota})
		serviceErr.LogError()
		return []models.PredictionResult{}, serviceErr
	}

	return p.classify(req.Rank, latestPerCollege(candidates)), nil
}

// Validate checks the request without touching the store
func (p *PredictorService) Validate(req models.PredictionRequest) error {
	fields := map[string]string{}

	if err := p.validate.Struct(req); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrs {
				fields[e.Field()] = validationMessage(e)
			}
		} else {
			return shared.NewValidationError(predictorServiceName, "Validate", err.Error(), nil)
		}
	}

	if _, ok := fields["category"]; !ok && strings.TrimSpace(req.Category) == "" {
		fields["category"] = "category is required"
	}
	if _, ok := fields["quota"]; !ok && strings.TrimSpace(req.Quota) == "" {
		fields["quota"] = "quota is required"
	}

	if len(fields) == 0 {
		return nil
	}
	return shared.NewValidationError(predictorServiceName, "Validate", "invalid prediction request", fields)
}

// Classify maps a rank against a closing rank to a chance tier
func (p *PredictorService) Classify(rank, closingRank int64) models.Chance {
	r := float64(rank)
	c := float64(closingRank)
	switch {
	case r <= p.thresholds.HighRatio*c:
		return models.ChanceHigh
	case r <= p.thresholds.MediumRatio*c:
		return models.ChanceMedium
	default:
		return models.ChanceLow
	}
}

func (p *PredictorService) classify(rank int64, candidates []models.PredictionCandidate) []models.PredictionResult {
	results := make([]models.PredictionResult, 0, len(candidates))
	for _, candidate := range candidates {
		name := candidate.CollegeName
		if name == "" {
			name = models.UnknownCollegeName
		}
		results = append(results, models.PredictionResult{
			CollegeID:   candidate.CollegeID,
			CollegeName: name,
			Chance:      p.Classify(rank, candidate.ClosingRank),
			OpeningRank: candidate.OpeningRank,
			ClosingRank: candidate.ClosingRank,
			Year:        candidate.Year,
			State:       candidate.StateName,
			City:        candidate.City,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Chance.Rank() != results[j].Chance.Rank() {
			return results[i].Chance.Rank() < results[j].Chance.Rank()
		}
		if results[i].ClosingRank != results[j].ClosingRank {
			return results[i].ClosingRank < results[j].ClosingRank
		}
		if results[i].CollegeName != results[j].CollegeName {
			return results[i].CollegeName < results[j].CollegeName
		}
		return results[i].CollegeID < results[j].CollegeID
	})
	return results
}

// latestPerCollege keeps one candidate per college: the latest year, then the
// largest closing rank, then the lowest cutoff id
func latestPerCollege(candidates []models.PredictionCandidate) []models.PredictionCandidate {
	best := make(map[int64]models.PredictionCandidate, len(candidates))
	order := make([]int64, 0)

	for _, candidate := range candidates {
		current, ok := best[candidate.CollegeID]
		if !ok {
			order = append(order, candidate.CollegeID)
			best[candidate.CollegeID] = candidate
			continue
		}
		if preferCandidate(candidate, current) {
			best[candidate.CollegeID] = candidate
		}
	}

	result := make([]models.PredictionCandidate, 0, len(order))
	for _, id := range order {
		result = append(result, best[id])
	}
	return result
}

func preferCandidate(a, b models.PredictionCandidate) bool {
	if a.Year != b.Year {
		return a.Year > b.Year
	}
	if a.ClosingRank != b.ClosingRank {
		return a.ClosingRank > b.ClosingRank
	}
	return a.ID < b.ID
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}
