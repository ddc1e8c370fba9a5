package database_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fenilmodi00/neet-cutoff-backend/database"
	"github.com/fenilmodi00/neet-cutoff-backend/models"
	"github.com/fenilmodi00/neet-cutoff-backend/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListStatesSortedCaseInsensitively(t *testing.T) {
	store, _ := testutil.SetupSeededStore(t)

	states, err := store.ListStates(context.Background())
	require.NoError(t, err)

	names := make([]string, len(states))
	for i, state := range states {
		names[i] = state.Name
	}
	assert.Equal(t, []string{"andhra Pradesh", "Goa", "Karnataka", "Maharashtra"}, names)
}

func TestListCollegesSortedAndFiltered(t *testing.T) {
	store, _ := testutil.SetupSeededStore(t)
	ctx := context.Background()

	all, err := store.ListColleges(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, strings.ToLower(all[i-1].Name), strings.ToLower(all[i].Name))
	}

	byState, err := store.ListCollegesByState(ctx, testutil.StateMaharashtra)
	require.NoError(t, err)
	require.Len(t, byState, 2)
	assert.Equal(t, "armed Forces Medical College", byState[0].Name)
	assert.Equal(t, "Grant Medical College", byState[1].Name)
	for _, college := range byState {
		assert.Equal(t, testutil.StateMaharashtra, college.StateID)
	}

	unknown, err := store.ListCollegesByState(ctx, 12345)
	require.NoError(t, err)
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)
}

func TestGetCollegeScansNullableColumns(t *testing.T) {
	store, _ := testutil.SetupSeededStore(t)
	ctx := context.Background()

	college, err := store.GetCollege(ctx, testutil.CollegeGrant)
	require.NoError(t, err)
	require.NotNil(t, college)
	assert.Equal(t, "Grant Medical College", college.Name)
	require.NotNil(t, college.FormattedName)
	assert.Equal(t, "grant-medical-college", *college.FormattedName)
	assert.Nil(t, college.Website)
	assert.Nil(t, college.Summary)

	missing, err := store.GetCollege(ctx, testutil.OrphanCollegeID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetState(t *testing.T) {
	store, _ := testutil.SetupSeededStore(t)
	ctx := context.Background()

	state, err := store.GetState(ctx, testutil.StateGoa)
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "Goa", state.Name)

	missing, err := store.GetState(ctx, 777)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCollegeNamesSkipsUnknownIDs(t *testing.T) {
	store, _ := testutil.SetupSeededStore(t)

	names, err := store.CollegeNames(context.Background(), []int64{
		testutil.CollegeBangalore, testutil.OrphanCollegeID, testutil.CollegeAndhra,
	})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{
		testutil.CollegeBangalore: "Bangalore Medical College",
		testutil.CollegeAndhra:    "Andhra Medical College",
	}, names)

	empty, err := store.CollegeNames(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDistinctCategoriesByState(t *testing.T) {
	store, _ := testutil.SetupSeededStore(t)
	ctx := context.Background()

	categories, err := store.DistinctCategoriesByState(ctx, testutil.StateKarnataka)
	require.NoError(t, err)
	assert.Equal(t, []string{"General", "OBC"}, categories)

	none, err := store.DistinctCategoriesByState(ctx, testutil.StateGoa)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCutoffsByCollege(t *testing.T) {
	store, _ := testutil.SetupSeededStore(t)

	cutoffs, err := store.CutoffsByCollege(context.Background(), testutil.CollegeBangalore)
	require.NoError(t, err)
	require.Len(t, cutoffs, 3)
	for _, cutoff := range cutoffs {
		assert.Equal(t, testutil.CollegeBangalore, cutoff.CollegeID)
	}
	assert.Equal(t, 2023, cutoffs[0].Year)
	assert.Equal(t, 2022, cutoffs[2].Year)
}

func TestMaxClosingCutoffsByStateKeepsTies(t *testing.T) {
	store, _ := testutil.SetupSeededStore(t)

	cutoffs, err := store.MaxClosingCutoffsByState(context.Background(), testutil.StateKarnataka)
	require.NoError(t, err)

	ids := make([]int64, len(cutoffs))
	for i, cutoff := range cutoffs {
		ids[i] = cutoff.ID
	}
	// General ties at 500 (ids 100, 101); OBC max is the orphaned 1200 row
	assert.Equal(t, []int64{100, 101, 105}, ids)
}

func TestMatchingCutoffsJoinsNamesAndFiltersDomicile(t *testing.T) {
	store, _ := testutil.SetupSeededStore(t)
	ctx := context.Background()

	all, err := store.MatchingCutoffs(ctx, database.CutoffFilter{Category: "General", Quota: models.QuotaState})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	karnataka := "Karnataka"
	filtered, err := store.MatchingCutoffs(ctx, database.CutoffFilter{
		Category: "General", Quota: models.QuotaState, DomicileState: &karnataka,
	})
	require.NoError(t, err)
	require.Len(t, filtered, 3)
	for _, candidate := range filtered {
		assert.Equal(t, "Karnataka", candidate.StateName)
	}
	assert.Equal(t, "Bangalore Medical College", filtered[0].CollegeName)
	require.NotNil(t, filtered[0].City)
	assert.Equal(t, "Bengaluru", *filtered[0].City)

	orphans, err := store.MatchingCutoffs(ctx, database.CutoffFilter{Category: "OBC", Quota: models.QuotaAllIndia})
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "", orphans[0].CollegeName)
	assert.Nil(t, orphans[0].City)

	caseSensitive, err := store.MatchingCutoffs(ctx, database.CutoffFilter{Category: "general", Quota: models.QuotaState})
	require.NoError(t, err)
	assert.Empty(t, caseSensitive)
}

func TestStoreOnClosedDatabaseReturnsErrors(t *testing.T) {
	store, db := testutil.SetupSeededStore(t)
	db.Close()

	_, err := store.ListStates(context.Background())
	assert.Error(t, err)

	_, err = store.GetCollege(context.Background(), testutil.CollegeBangalore)
	assert.Error(t, err)
}
