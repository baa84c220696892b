package dispatch

import (
	"context"
	"testing"

	"github.com/recordar/contact-gateway/internal/model"
	"github.com/recordar/contact-gateway/internal/repository"
	"github.com/recordar/contact-gateway/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	db := helpers.SetupTestDB(t)
	contacts := repository.NewContactRepository(db)
	groups := repository.NewGroupRepository(db)
	resolver := NewResolver(contacts, groups)
	ctx := context.Background()

	active := helpers.CreateTestContact(t, db, "Ana", "ana@example.com", "+5491100000001")
	inactive := helpers.CreateInactiveTestContact(t, db, "Berta", "berta@example.com")
	other := helpers.CreateTestContact(t, db, "Carla", "carla@example.com", "")
	group := helpers.CreateTestGroup(t, db, "Vecinos", active.ID, inactive.ID, other.ID)

	t.Run("direct active contact", func(t *testing.T) {
		resolved, err := resolver.Resolve(ctx, []*model.RecipientTarget{{ContactID: active.ID}})
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		require.Len(t, resolved[0].Contacts, 1)
		assert.Equal(t, active.ID, resolved[0].Contacts[0].ID)
	})

	t.Run("direct inactive contact resolves empty", func(t *testing.T) {
		resolved, err := resolver.Resolve(ctx, []*model.RecipientTarget{{ContactID: inactive.ID}})
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		assert.Empty(t, resolved[0].Contacts)
	})

	t.Run("missing contact resolves empty", func(t *testing.T) {
		resolved, err := resolver.Resolve(ctx, []*model.RecipientTarget{{ContactID: "missing-id"}})
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		assert.Empty(t, resolved[0].Contacts)
	})

	t.Run("group expands to active members in order", func(t *testing.T) {
		resolved, err := resolver.Resolve(ctx, []*model.RecipientTarget{{GroupID: group.ID}})
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		require.Len(t, resolved[0].Contacts, 2)
		assert.Equal(t, active.ID, resolved[0].Contacts[0].ID)
		assert.Equal(t, other.ID, resolved[0].Contacts[1].ID)
	})

	t.Run("missing group resolves empty", func(t *testing.T) {
		resolved, err := resolver.Resolve(ctx, []*model.RecipientTarget{{GroupID: "missing-id"}})
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		assert.Empty(t, resolved[0].Contacts)
	})

	t.Run("no dedup across targets", func(t *testing.T) {
		resolved, err := resolver.Resolve(ctx, []*model.RecipientTarget{
			{ContactID: active.ID},
			{GroupID: group.ID},
		})
		require.NoError(t, err)
		require.Len(t, resolved, 2)
		assert.Len(t, resolved[0].Contacts, 1)
		assert.Len(t, resolved[1].Contacts, 2)
	})
}

func TestResolver_PreviewRender(t *testing.T) {
	db := helpers.SetupTestDB(t)
	contacts := repository.NewContactRepository(db)
	groups := repository.NewGroupRepository(db)
	resolver := NewResolver(contacts, groups)
	ctx := context.Background()

	ana := helpers.CreateTestContact(t, db, "Ana", "ana@example.com", "")
	ids := []string{ana.ID}
	for _, name := range []string{"Berta", "Carla", "Diana", "Elena"} {
		c := helpers.CreateTestContact(t, db, name, name+"@example.com", "")
		ids = append(ids, c.ID)
	}
	group := helpers.CreateTestGroup(t, db, "Todos", ids...)

	comm := &model.Communication{Content: "Hola {{name}}"}
	targets := []*model.RecipientTarget{{GroupID: group.ID}}

	t.Run("samples capped, total uncapped", func(t *testing.T) {
		preview, err := resolver.PreviewRender(ctx, comm, targets, 3)
		require.NoError(t, err)
		assert.Equal(t, 5, preview.TotalRecipients)
		require.Len(t, preview.Samples, 3)
		assert.Equal(t, "Hola Ana", preview.Samples[0].Content)
	})

	t.Run("default cap", func(t *testing.T) {
		preview, err := resolver.PreviewRender(ctx, comm, targets, 0)
		require.NoError(t, err)
		assert.Len(t, preview.Samples, 3)
	})
}
