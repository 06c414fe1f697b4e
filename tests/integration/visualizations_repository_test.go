package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/algoviz-io/algoviz-backend/internal/users/repository"
	vizdomain "github.com/algoviz-io/algoviz-backend/internal/visualizations/domain"
	vizrepo "github.com/algoviz-io/algoviz-backend/internal/visualizations/repository"
)

func seedUser(t *testing.T, users *repository.Repo) string {
	t.Helper()

	user, err := users.Create(context.Background(), testEmail(), "hash", "Viz Owner")
	require.NoError(t, err)
	cleanupUser(t, user.ID)
	return user.ID
}

func sampleRequest(i int) vizdomain.VisualizationRequest {
	return vizdomain.VisualizationRequest{
		AlgorithmType: vizdomain.TypeSorting,
		Algorithm:     fmt.Sprintf("bubble-sort-%d", i),
		Input:         json.RawMessage(`[3,1,2]`),
	}
}

func sampleResponse() vizdomain.VisualizationResponse {
	return vizdomain.VisualizationResponse{
		Steps: []vizdomain.VisualizationStep{
			{Step: 1, Description: "Initial state", Data: json.RawMessage(`[3,1,2]`)},
		},
		TimeComplexity:  "O(n^2)",
		SpaceComplexity: "O(1)",
		Explanation:     "bubble sort walkthrough",
	}
}

func TestVizRepo_CreateAndGet(t *testing.T) {
	pool := setupTestPool(t)
	users := repository.NewRepo(pool)
	repo := vizrepo.NewRepo(pool)
	ctx := context.Background()

	owner := seedUser(t, users)

	rec, err := repo.Create(ctx, owner, sampleRequest(0), sampleResponse(), "Bubble sort", "class demo")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, owner, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bubble sort", got.Title)
	assert.Equal(t, "bubble-sort-0", got.Request.Algorithm)
	require.Len(t, got.Response.Steps, 1)
	assert.JSONEq(t, `[3,1,2]`, string(got.Response.Steps[0].Data))
}

func TestVizRepo_GetMissingOrMalformedID(t *testing.T) {
	pool := setupTestPool(t)
	users := repository.NewRepo(pool)
	repo := vizrepo.NewRepo(pool)
	ctx := context.Background()

	owner := seedUser(t, users)

	_, err := repo.GetByID(ctx, owner, "not-a-uuid")
	assert.ErrorIs(t, err, vizdomain.ErrNotFound)

	_, err = repo.GetByID(ctx, owner, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, vizdomain.ErrNotFound)
}

func TestVizRepo_ListPagination(t *testing.T) {
	pool := setupTestPool(t)
	users := repository.NewRepo(pool)
	repo := vizrepo.NewRepo(pool)
	ctx := context.Background()

	owner := seedUser(t, users)
	for i := 0; i < 25; i++ {
		_, err := repo.Create(ctx, owner, sampleRequest(i), sampleResponse(), "", "")
		require.NoError(t, err)
	}

	page1, total, err := repo.List(ctx, owner, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, page1, 10)

	page2, total, err := repo.List(ctx, owner, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, page2, 10)

	page3, _, err := repo.List(ctx, owner, 3, 10)
	require.NoError(t, err)
	assert.Len(t, page3, 5)

	// newest first, no overlap between pages
	seen := make(map[string]bool)
	var all []vizdomain.SavedVisualization
	all = append(all, page1...)
	all = append(all, page2...)
	all = append(all, page3...)
	for i, rec := range all {
		assert.False(t, seen[rec.ID], "record repeated across pages")
		seen[rec.ID] = true
		if i > 0 {
			assert.False(t, rec.CreatedAt.After(all[i-1].CreatedAt), "records out of order")
		}
	}
}

func TestVizRepo_OwnershipIsolation(t *testing.T) {
	pool := setupTestPool(t)
	users := repository.NewRepo(pool)
	repo := vizrepo.NewRepo(pool)
	ctx := context.Background()

	owner := seedUser(t, users)
	other := seedUser(t, users)

	rec, err := repo.Create(ctx, owner, sampleRequest(0), sampleResponse(), "", "")
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, other, rec.ID)
	assert.ErrorIs(t, err, vizdomain.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, other, rec.ID), vizdomain.ErrNotFound)

	_, total, err := repo.List(ctx, other, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestVizRepo_Delete(t *testing.T) {
	pool := setupTestPool(t)
	users := repository.NewRepo(pool)
	repo := vizrepo.NewRepo(pool)
	ctx := context.Background()

	owner := seedUser(t, users)
	rec, err := repo.Create(ctx, owner, sampleRequest(0), sampleResponse(), "", "")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, owner, rec.ID))
	assert.ErrorIs(t, repo.Delete(ctx, owner, rec.ID), vizdomain.ErrNotFound)
	_, err = repo.GetByID(ctx, owner, rec.ID)
	assert.ErrorIs(t, err, vizdomain.ErrNotFound)
}

// TestVizRepo_SurvivesOwnerSoftDelete pins down the retention choice:
// deleting an account does not cascade to its saved visualizations.
func TestVizRepo_SurvivesOwnerSoftDelete(t *testing.T) {
	pool := setupTestPool(t)
	users := repository.NewRepo(pool)
	repo := vizrepo.NewRepo(pool)
	ctx := context.Background()

	owner := seedUser(t, users)
	rec, err := repo.Create(ctx, owner, sampleRequest(0), sampleResponse(), "", "")
	require.NoError(t, err)

	require.NoError(t, users.SoftDelete(ctx, owner))

	got, err := repo.GetByID(ctx, owner, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
}
