package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pantrypal-backend/internal/apperr"
	"pantrypal-backend/internal/models"
)

func newTestInventoryService(t *testing.T) (*InventoryService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewInventoryService(db, zap.NewNop()), db
}

func seedUser(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: email, Password: "x", Enabled: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func floatPtr(f float64) *float64 { return &f }

func TestCreateAndGetItem(t *testing.T) {
	svc, db := newTestInventoryService(t)
	user := seedUser(t, db, "a@b.com", "alice")

	item, err := svc.Create(user.ID, ItemRequest{
		Name:      "Olive oil",
		Category:  models.CategoryPantry,
		Status:    models.StatusOK,
		Frequency: models.FrequencyMonthly,
		Price:     floatPtr(8.5),
		NeedBy:    "2026-09-15",
	})
	require.NoError(t, err)
	require.NotZero(t, item.ID)

	got, err := svc.Get(user.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Olive oil", got.Name)
	require.NotNil(t, got.NeedBy)
	assert.Equal(t, "2026-09-15", got.NeedBy.Format("2006-01-02"))
}

func TestCreateValidatesEnums(t *testing.T) {
	svc, db := newTestInventoryService(t)
	user := seedUser(t, db, "a@b.com", "alice")

	_, err := svc.Create(user.ID, ItemRequest{Name: "x", Category: "attic", Status: models.StatusOK, Frequency: models.FrequencyWeekly})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(user.ID, ItemRequest{Name: "", Category: models.CategoryPantry, Status: models.StatusOK, Frequency: models.FrequencyWeekly})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(user.ID, ItemRequest{Name: "x", Category: models.CategoryPantry, Status: models.StatusOK, Frequency: models.FrequencyWeekly, NeedBy: "15/09/2026"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestListFiltersAndPaginates(t *testing.T) {
	svc, db := newTestInventoryService(t)
	user := seedUser(t, db, "a@b.com", "alice")

	seed := []ItemRequest{
		{Name: "Milk", Category: models.CategoryFridge, Status: models.StatusLow, Frequency: models.FrequencyWeekly},
		{Name: "Rice", Category: models.CategoryPantry, Status: models.StatusOK, Frequency: models.FrequencyMonthly},
		{Name: "Soap", Category: models.CategoryHousehold, Status: models.StatusOutOfStock, Frequency: models.FrequencyRarely},
	}
	_, err := svc.BulkCreate(user.ID, seed)
	require.NoError(t, err)

	all, err := svc.List(user.ID, ItemFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.TotalElements)

	low, err := svc.List(user.ID, ItemFilter{Status: models.StatusLow})
	require.NoError(t, err)
	require.Len(t, low.Content, 1)
	assert.Equal(t, "Milk", low.Content[0].Name)

	search, err := svc.List(user.ID, ItemFilter{Search: "ri"})
	require.NoError(t, err)
	require.Len(t, search.Content, 1)
	assert.Equal(t, "Rice", search.Content[0].Name)

	paged, err := svc.List(user.ID, ItemFilter{Size: 2, SortBy: "name", SortDir: "asc"})
	require.NoError(t, err)
	assert.Len(t, paged.Content, 2)
	assert.Equal(t, 2, paged.TotalPages)
	assert.False(t, paged.Last)
	assert.Equal(t, "Milk", paged.Content[0].Name)

	_, err = svc.List(user.ID, ItemFilter{Status: "bogus"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateAndPatch(t *testing.T) {
	svc, db := newTestInventoryService(t)
	user := seedUser(t, db, "a@b.com", "alice")

	item, err := svc.Create(user.ID, ItemRequest{Name: "Milk", Category: models.CategoryFridge, Status: models.StatusOK, Frequency: models.FrequencyWeekly})
	require.NoError(t, err)

	updated, err := svc.Update(user.ID, item.ID, ItemRequest{Name: "Oat milk", Category: models.CategoryFridge, Status: models.StatusLow, Frequency: models.FrequencyWeekly, Price: floatPtr(3.2)})
	require.NoError(t, err)
	assert.Equal(t, "Oat milk", updated.Name)
	assert.Equal(t, models.StatusLow, updated.Status)

	patched, err := svc.Patch(user.ID, item.ID, ItemRequest{Status: models.StatusOutOfStock})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOutOfStock, patched.Status)
	assert.Equal(t, "Oat milk", patched.Name)

	statused, err := svc.UpdateStatus(user.ID, item.ID, models.StatusOK)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOK, statused.Status)

	_, err = svc.UpdateStatus(user.ID, item.ID, "bogus")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestOwnershipReadsAsNotFound(t *testing.T) {
	svc, db := newTestInventoryService(t)
	alice := seedUser(t, db, "a@b.com", "alice")
	mallory := seedUser(t, db, "m@b.com", "mallory")

	item, err := svc.Create(alice.ID, ItemRequest{Name: "Milk", Category: models.CategoryFridge, Status: models.StatusOK, Frequency: models.FrequencyWeekly})
	require.NoError(t, err)

	_, err = svc.Get(mallory.ID, item.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = svc.Delete(mallory.ID, item.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Bulk delete silently skips rows the caller does not own.
	n, err := svc.BulkDelete(mallory.ID, []uint{item.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestDeleteAndBulkDelete(t *testing.T) {
	svc, db := newTestInventoryService(t)
	user := seedUser(t, db, "a@b.com", "alice")

	items, err := svc.BulkCreate(user.ID, []ItemRequest{
		{Name: "A", Category: models.CategoryPantry, Status: models.StatusOK, Frequency: models.FrequencyWeekly},
		{Name: "B", Category: models.CategoryPantry, Status: models.StatusOK, Frequency: models.FrequencyWeekly},
		{Name: "C", Category: models.CategoryPantry, Status: models.StatusOK, Frequency: models.FrequencyWeekly},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(user.ID, items[0].ID))
	_, err = svc.Get(user.ID, items[0].ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	n, err := svc.BulkDelete(user.ID, []uint{items[1].ID, items[2].ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = svc.BulkDelete(user.ID, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
