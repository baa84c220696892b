package repository

import (
	"context"
	"testing"

	"github.com/recordar/contact-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewGroupRepository(db)
	ctx := context.Background()

	t.Run("create group successfully", func(t *testing.T) {
		group := &model.Group{
			Name:        "Familia cercana",
			Description: "Parientes directos",
			Channel:     model.ChannelWhatsapp,
		}

		created, err := repo.Create(ctx, group)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, group.Name, created.Name)
		assert.Equal(t, model.GroupStatusActive, created.Status)
	})
}

func TestGroupRepository_Members(t *testing.T) {
	db := setupTestDB(t).DB
	groups := NewGroupRepository(db)
	contacts := NewContactRepository(db)
	ctx := context.Background()

	group, err := groups.Create(ctx, &model.Group{Name: "Vecinos", Channel: model.ChannelBoth})
	require.NoError(t, err)

	active, err := contacts.Create(ctx, &model.Contact{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	inactive, err := contacts.Create(ctx, &model.Contact{
		Name:   "Berta",
		Email:  "berta@example.com",
		Status: model.ContactStatusInactive,
	})
	require.NoError(t, err)

	t.Run("add members", func(t *testing.T) {
		require.NoError(t, groups.AddMember(ctx, group.ID, active.ID))
		require.NoError(t, groups.AddMember(ctx, group.ID, inactive.ID))

		count, err := groups.CountMembers(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("add duplicate member", func(t *testing.T) {
		err := groups.AddMember(ctx, group.ID, active.ID)
		assert.ErrorIs(t, err, ErrMemberExists)
	})

	t.Run("list member contacts", func(t *testing.T) {
		members, err := groups.ListMemberContacts(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, active.ID, members[0].ID)
		assert.Equal(t, inactive.ID, members[1].ID)
	})

	t.Run("list active member contacts", func(t *testing.T) {
		members, err := groups.ListActiveMemberContacts(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, active.ID, members[0].ID)
	})

	t.Run("remove member", func(t *testing.T) {
		require.NoError(t, groups.RemoveMember(ctx, group.ID, inactive.ID))

		count, err := groups.CountMembers(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("remove missing member", func(t *testing.T) {
		err := groups.RemoveMember(ctx, group.ID, "missing-id")
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}

func TestGroupRepository_Delete(t *testing.T) {
	db := setupTestDB(t).DB
	groups := NewGroupRepository(db)
	contacts := NewContactRepository(db)
	ctx := context.Background()

	group, err := groups.Create(ctx, &model.Group{Name: "Club", Channel: model.ChannelEmail})
	require.NoError(t, err)
	contact, err := contacts.Create(ctx, &model.Contact{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	require.NoError(t, groups.AddMember(ctx, group.ID, contact.ID))

	t.Run("delete cascades members", func(t *testing.T) {
		require.NoError(t, groups.Delete(ctx, group.ID))

		_, err := groups.Get(ctx, group.ID)
		assert.ErrorIs(t, err, ErrGroupNotFound)

		count, err := groups.CountMembers(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("delete missing group", func(t *testing.T) {
		err := groups.Delete(ctx, "missing-id")
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})
}

func TestGroupRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewGroupRepository(db)
	ctx := context.Background()

	seed := []*model.Group{
		{Name: "Familia", Channel: model.ChannelWhatsapp},
		{Name: "Trabajo", Channel: model.ChannelEmail},
		{Name: "Archivo", Channel: model.ChannelEmail, Status: model.GroupStatusInactive},
	}
	for _, g := range seed {
		_, err := repo.Create(ctx, g)
		require.NoError(t, err)
	}

	t.Run("filter by channel", func(t *testing.T) {
		channel := model.ChannelEmail
		groups, total, err := repo.List(ctx, model.GroupFilter{Channel: &channel, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, groups, 2)
	})

	t.Run("filter by status", func(t *testing.T) {
		status := model.GroupStatusActive
		groups, total, err := repo.List(ctx, model.GroupFilter{Status: &status, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, groups, 2)
	})
}
