package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repo"
)

func (env *testEnv) createCategory(t *testing.T, user *models.User, name string) models.Category {
	t.Helper()
	c, rec := env.jsonContext(t, http.MethodPost, "/api/v1/categories", map[string]string{"name": name})
	c.Set("user", user)
	require.NoError(t, env.catHandler.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var category models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &category))
	return category
}

func TestCategoryCreateHandler(t *testing.T) {
	env := newTestEnv(t)
	alice := env.loadUser(t, env.registerUser(t, "alice", "a@x.com", "P@ssw0rd1").ID)

	category := env.createCategory(t, alice, "Work")
	require.NotZero(t, category.ID)
	require.Equal(t, "Work", category.Name)
	require.Equal(t, alice.ID, category.UserID)

	// too short
	c, _ := env.jsonContext(t, http.MethodPost, "/api/v1/categories", map[string]string{"name": "ab"})
	c.Set("user", alice)
	requireHTTPError(t, env.catHandler.Create(c), http.StatusUnprocessableEntity)
}

func TestCategoryNameUniquePerOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.loadUser(t, env.registerUser(t, "alice", "a@x.com", "P@ssw0rd1").ID)
	bob := env.loadUser(t, env.registerUser(t, "bob", "b@x.com", "P@ssw0rd1").ID)

	env.createCategory(t, alice, "Work")

	c, _ := env.jsonContext(t, http.MethodPost, "/api/v1/categories", map[string]string{"name": "Work"})
	c.Set("user", alice)
	requireHTTPError(t, env.catHandler.Create(c), http.StatusConflict)

	// the same name works for another user
	env.createCategory(t, bob, "Work")
}

func TestCategoryDeleteDetachesTasksHandler(t *testing.T) {
	env := newTestEnv(t)
	alice := env.loadUser(t, env.registerUser(t, "alice", "a@x.com", "P@ssw0rd1").ID)
	bob := env.loadUser(t, env.registerUser(t, "bob", "b@x.com", "P@ssw0rd1").ID)

	category := env.createCategory(t, alice, "Work")
	task := env.createTask(t, alice, map[string]any{"title": "report", "category_id": category.ID})
	require.NotNil(t, task.CategoryID)

	// deleting a non-owned category is a 404 and must not mutate
	c, _ := env.jsonContext(t, http.MethodDelete, "/api/v1/categories/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("user", bob)
	requireHTTPError(t, env.catHandler.Delete(c), http.StatusNotFound)

	var count int64
	require.NoError(t, env.db.Model(&models.Category{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	c, rec := env.jsonContext(t, http.MethodDelete, "/api/v1/categories/1", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("user", alice)
	require.NoError(t, env.catHandler.Delete(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	// the task survives, detached
	var stored models.Task
	require.NoError(t, env.db.First(&stored, task.ID).Error)
	require.Nil(t, stored.CategoryID)
}

func TestCategoryListHandler(t *testing.T) {
	env := newTestEnv(t)
	alice := env.loadUser(t, env.registerUser(t, "alice", "a@x.com", "P@ssw0rd1").ID)

	work := env.createCategory(t, alice, "Work")
	env.createCategory(t, alice, "Home")
	env.createTask(t, alice, map[string]any{"title": "report", "category_id": work.ID})

	c, rec := env.jsonContext(t, http.MethodGet, "/api/v1/categories", nil)
	c.Set("user", alice)
	require.NoError(t, env.catHandler.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []repo.CategoryWithCount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	require.Equal(t, "Home", list[0].Name)
	require.EqualValues(t, 0, list[0].TasksCount)
	require.Equal(t, "Work", list[1].Name)
	require.EqualValues(t, 1, list[1].TasksCount)
}

func TestCategoryUpdateHandler(t *testing.T) {
	env := newTestEnv(t)
	alice := env.loadUser(t, env.registerUser(t, "alice", "a@x.com", "P@ssw0rd1").ID)

	env.createCategory(t, alice, "Work")
	env.createCategory(t, alice, "Home")

	c, _ := env.jsonContext(t, http.MethodPut, "/api/v1/categories/1", map[string]string{"name": "Home"})
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("user", alice)
	requireHTTPError(t, env.catHandler.Update(c), http.StatusConflict)

	c, rec := env.jsonContext(t, http.MethodPut, "/api/v1/categories/1", map[string]string{"name": "Office"})
	c.SetParamNames("id")
	c.SetParamValues("1")
	c.Set("user", alice)
	require.NoError(t, env.catHandler.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "Office", updated.Name)
}
