package helpers

import (
	"context"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/recordar/contact-gateway/internal/model"
	"github.com/recordar/contact-gateway/internal/repository"
	"github.com/recordar/contact-gateway/pkg/pg"
	"github.com/recordar/contact-gateway/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&repository.ContactEntity{},
		&repository.GroupEntity{},
		&repository.GroupMemberEntity{},
		&repository.CommunicationEntity{},
		&repository.RecipientTargetEntity{},
		&repository.DeliveryLogEntity{},
		&repository.TaskEntity{},
		&repository.TaskLogEntity{},
		&repository.MessageTemplateEntity{},
	)
	require.NoError(t, err)

	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	readField := pgDBValue.FieldByName("read")
	writeField := pgDBValue.FieldByName("write")

	readField = reflect.NewAt(readField.Type(), readField.Addr().UnsafePointer()).Elem()
	writeField = reflect.NewAt(writeField.Type(), writeField.Addr().UnsafePointer()).Elem()

	readField.Set(reflect.ValueOf(db))
	writeField.Set(reflect.ValueOf(db))

	return pgDB
}

// SetupTestRedis starts a fresh miniredis and an adapter pointing at it.
// The connection name carries the address because adapters are cached per
// name process-wide.
func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	adapter, err := redis.NewRedisAdapter("test-"+mr.Addr(), "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestContact(t *testing.T, db *pg.DB, name, email, whatsapp string) *model.Contact {
	repo := repository.NewContactRepository(db)
	contact, err := repo.Create(context.Background(), &model.Contact{
		Name:     name,
		Email:    email,
		Whatsapp: whatsapp,
	})
	require.NoError(t, err)
	return contact
}

func CreateInactiveTestContact(t *testing.T, db *pg.DB, name, email string) *model.Contact {
	repo := repository.NewContactRepository(db)
	contact, err := repo.Create(context.Background(), &model.Contact{
		Name:   name,
		Email:  email,
		Status: model.ContactStatusInactive,
	})
	require.NoError(t, err)
	return contact
}

func CreateTestGroup(t *testing.T, db *pg.DB, name string, memberIDs ...string) *model.Group {
	repo := repository.NewGroupRepository(db)
	ctx := context.Background()

	group, err := repo.Create(ctx, &model.Group{Name: name, Channel: model.ChannelBoth})
	require.NoError(t, err)

	for _, id := range memberIDs {
		require.NoError(t, repo.AddMember(ctx, group.ID, id))
	}
	return group
}

func CreateTestCommunication(t *testing.T, db *pg.DB, channel model.Channel, content string, targets []*model.RecipientTarget) *model.Communication {
	repo := repository.NewCommunicationRepository(db)
	comm, err := repo.Create(context.Background(), &model.Communication{
		Title:   "Aviso de prueba",
		Channel: channel,
		Content: content,
	}, targets)
	require.NoError(t, err)
	return comm
}
