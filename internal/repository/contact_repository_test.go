package repository

import (
	"context"
	"testing"

	"github.com/recordar/contact-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewContactRepository(db)
	ctx := context.Background()

	t.Run("create contact successfully", func(t *testing.T) {
		contact := &model.Contact{
			Name:     "Maria Gonzalez",
			Email:    "maria@example.com",
			Whatsapp: "+5491122334455",
			Tags:     []string{"family"},
		}

		created, err := repo.Create(ctx, contact)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, contact.Name, created.Name)
		assert.Equal(t, contact.Email, created.Email)
		assert.Equal(t, model.ContactStatusActive, created.Status)
		assert.Equal(t, []string{"family"}, created.Tags)
	})

	t.Run("create contact without tags", func(t *testing.T) {
		contact := &model.Contact{
			Name:  "Juan Perez",
			Email: "juan@example.com",
		}

		created, err := repo.Create(ctx, contact)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Empty(t, created.Tags)
	})
}

func TestContactRepository_Get(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewContactRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Contact{
		Name:  "Maria Gonzalez",
		Email: "maria@example.com",
	})
	require.NoError(t, err)

	t.Run("get existing contact", func(t *testing.T) {
		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Name, got.Name)
	})

	t.Run("get missing contact", func(t *testing.T) {
		_, err := repo.Get(ctx, "missing-id")
		assert.ErrorIs(t, err, ErrContactNotFound)
	})
}

func TestContactRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewContactRepository(db)
	ctx := context.Background()

	seed := []*model.Contact{
		{Name: "Ana", Email: "ana@example.com", Tags: []string{"family"}},
		{Name: "Andres", Email: "andres@example.com", Tags: []string{"work"}},
		{Name: "Berta", Whatsapp: "+5491100000001", Tags: []string{"family", "work"}},
		{Name: "Carla", Email: "carla@example.com", Status: model.ContactStatusInactive},
	}
	for _, c := range seed {
		_, err := repo.Create(ctx, c)
		require.NoError(t, err)
	}

	t.Run("list all contacts", func(t *testing.T) {
		contacts, total, err := repo.List(ctx, model.ContactFilter{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, contacts, 4)
	})

	t.Run("filter by status", func(t *testing.T) {
		status := model.ContactStatusActive
		contacts, total, err := repo.List(ctx, model.ContactFilter{Status: &status, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, contacts, 3)
	})

	t.Run("filter by tag", func(t *testing.T) {
		tag := "family"
		contacts, total, err := repo.List(ctx, model.ContactFilter{Tag: &tag, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, contacts, 2)
	})

	t.Run("filter by name prefix", func(t *testing.T) {
		search := "An"
		contacts, total, err := repo.List(ctx, model.ContactFilter{Search: &search, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, contacts, 2)
	})

	t.Run("list with pagination", func(t *testing.T) {
		contacts, total, err := repo.List(ctx, model.ContactFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, contacts, 2)
	})

	t.Run("list with default limit", func(t *testing.T) {
		contacts, total, err := repo.List(ctx, model.ContactFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, contacts, 4)
	})
}

func TestContactRepository_Update(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewContactRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Contact{
		Name:  "Maria Gonzalez",
		Email: "maria@example.com",
	})
	require.NoError(t, err)

	t.Run("update existing contact", func(t *testing.T) {
		created.Name = "Maria G. de Lopez"
		created.Status = model.ContactStatusInactive
		created.Tags = []string{"family"}

		updated, err := repo.Update(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, "Maria G. de Lopez", updated.Name)
		assert.Equal(t, model.ContactStatusInactive, updated.Status)
		assert.Equal(t, []string{"family"}, updated.Tags)
	})

	t.Run("update missing contact", func(t *testing.T) {
		_, err := repo.Update(ctx, &model.Contact{ID: "missing-id", Name: "Nobody"})
		assert.ErrorIs(t, err, ErrContactNotFound)
	})
}

func TestContactRepository_Delete(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewContactRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Contact{
		Name:  "Maria Gonzalez",
		Email: "maria@example.com",
	})
	require.NoError(t, err)

	t.Run("delete existing contact", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ID))

		_, err := repo.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrContactNotFound)
	})

	t.Run("delete missing contact", func(t *testing.T) {
		err := repo.Delete(ctx, "missing-id")
		assert.ErrorIs(t, err, ErrContactNotFound)
	})
}
