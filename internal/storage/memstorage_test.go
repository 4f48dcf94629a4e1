package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nkruglova/bookstand/internal/domain/models"
	storerrors "github.com/nkruglova/bookstand/internal/storage/errors"
)

func TestMemStorage_bookRoundTrip(t *testing.T) {
	ms := New()
	id, err := ms.SaveBook(models.Document{"title": "Dune", "category": "fiction"})
	require.NoError(t, err)

	book, err := ms.GetBook(id)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book["title"])
	assert.Equal(t, id, book["_id"])
}

func TestMemStorage_updateBookUpsert(t *testing.T) {
	ms := New()

	// обновление несуществующего id создает запись
	id := primitive.NewObjectID().Hex()
	res, err := ms.UpdateBook(id, models.Document{"title": "Dune"})
	require.NoError(t, err)
	assert.Equal(t, id, res.UpsertedID)

	book, err := ms.GetBook(id)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book["title"])

	// частичное обновление не трогает остальные поля
	res, err = ms.UpdateBook(id, models.Document{"price": 12})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)

	book, err = ms.GetBook(id)
	require.NoError(t, err)
	assert.Equal(t, "Dune", book["title"])
	assert.Equal(t, 12, book["price"])
}

func TestMemStorage_deleteBookIdempotent(t *testing.T) {
	ms := New()
	id, err := ms.SaveBook(models.Document{"title": "Dune"})
	require.NoError(t, err)

	require.NoError(t, ms.DeleteBook(id))
	_, err = ms.GetBook(id)
	assert.ErrorIs(t, err, storerrors.ErrBookNotFound)

	// повторное удаление не ошибка
	assert.NoError(t, ms.DeleteBook(id))
}

func TestMemStorage_booksCategoryFilter(t *testing.T) {
	ms := New()
	_, err := ms.SaveBook(models.Document{"title": "Dune", "category": "fiction"})
	require.NoError(t, err)
	_, err = ms.SaveBook(models.Document{"title": "SICP", "category": "cs"})
	require.NoError(t, err)
	_, err = ms.SaveBook(models.Document{"title": "Untagged"})
	require.NoError(t, err)

	all, err := ms.GetBooks("")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	fiction, err := ms.GetBooks("fiction")
	require.NoError(t, err)
	require.Len(t, fiction, 1)
	assert.Equal(t, "Dune", fiction[0]["title"])

	none, err := ms.GetBooks("poetry")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemStorage_saveUser(t *testing.T) {
	ms := New()
	uid, err := ms.SaveUser(models.User{
		Email:    "reader@example.com",
		Pass:     "secret123",
		Username: "reader",
	})
	require.NoError(t, err)

	user, err := ms.GetUser(uid)
	require.NoError(t, err)
	assert.Equal(t, "reader", user.Username)
	// пароль хранится только как bcrypt-хеш
	assert.NotEqual(t, "secret123", user.Pass)

	_, err = ms.SaveUser(models.User{
		Email:    "other@example.com",
		Pass:     "secret123",
		Username: "reader",
	})
	assert.ErrorIs(t, err, storerrors.ErrUserExists)

	_, err = ms.SaveUser(models.User{
		Email:    "reader@example.com",
		Pass:     "secret123",
		Username: "other",
	})
	assert.ErrorIs(t, err, storerrors.ErrUserExists)
}

func TestMemStorage_validUser(t *testing.T) {
	ms := New()
	uid, err := ms.SaveUser(models.User{
		Email:    "reader@example.com",
		Pass:     "secret123",
		Username: "reader",
	})
	require.NoError(t, err)

	got, err := ms.ValidUser("reader", "secret123")
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	_, err = ms.ValidUser("reader", "wrong")
	assert.ErrorIs(t, err, storerrors.ErrInvalidPassword)

	_, err = ms.ValidUser("ghost", "secret123")
	assert.ErrorIs(t, err, storerrors.ErrUserNotFound)
}

func TestMemStorage_userExistenceChecks(t *testing.T) {
	ms := New()

	exists, err := ms.UsernameExists("reader")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = ms.SaveUser(models.User{
		Email:    "reader@example.com",
		Pass:     "secret123",
		Username: "reader",
	})
	require.NoError(t, err)

	exists, err = ms.UsernameExists("reader")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = ms.EmailExists("reader@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = ms.EmailExists("other@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemStorage_updateUserFields(t *testing.T) {
	ms := New()
	uid, err := ms.SaveUser(models.User{
		Email:    "reader@example.com",
		Pass:     "secret123",
		Username: "reader",
	})
	require.NoError(t, err)

	err = ms.UpdateUserFields(uid, models.Document{
		"location": "Berlin",
		"username": "hacker",
		"email":    "x@y.z",
	})
	require.NoError(t, err)

	user, err := ms.GetUser(uid)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", user.Location)
	assert.Equal(t, "reader", user.Username)
	assert.Equal(t, "reader@example.com", user.Email)

	err = ms.UpdateUserFields(primitive.NewObjectID().Hex(), models.Document{"location": "Berlin"})
	assert.ErrorIs(t, err, storerrors.ErrUserNotFound)
}

func TestMemStorage_updateProfile(t *testing.T) {
	ms := New()
	uid, err := ms.SaveUser(models.User{
		Email:    "reader@example.com",
		Pass:     "secret123",
		Username: "reader",
	})
	require.NoError(t, err)

	err = ms.UpdateProfile(uid, models.Profile{
		Location:    "Berlin",
		Age:         "33",
		Work:        "editor",
		DOB:         "1993-02-01",
		Description: "reads a lot",
	})
	require.NoError(t, err)

	user, err := ms.GetUser(uid)
	require.NoError(t, err)
	assert.Equal(t, "editor", user.Work)
	assert.Equal(t, "reads a lot", user.Description)
}

func TestMemStorage_cart(t *testing.T) {
	ms := New()
	owner := primitive.NewObjectID().Hex()
	stranger := primitive.NewObjectID().Hex()

	id, err := ms.SaveCartItem(models.Document{"userId": owner, "bookId": "b1"})
	require.NoError(t, err)
	_, err = ms.SaveCartItem(models.Document{"userId": stranger, "bookId": "b2"})
	require.NoError(t, err)

	items, err := ms.GetCartItems(owner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b1", items[0]["bookId"])

	// чужой userId не удаляет запись
	require.NoError(t, ms.RemoveCartItem(stranger, id))
	items, err = ms.GetCartItems(owner)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	require.NoError(t, ms.RemoveCartItem(owner, id))
	items, err = ms.GetCartItems(owner)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemStorage_reviews(t *testing.T) {
	ms := New()
	_, err := ms.SaveReview(models.Document{"text": "great", "category": "fiction"})
	require.NoError(t, err)
	_, err = ms.SaveReview(models.Document{"text": "meh"})
	require.NoError(t, err)

	all, err := ms.GetReviews("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	fiction, err := ms.GetReviews("fiction")
	require.NoError(t, err)
	require.Len(t, fiction, 1)
	assert.Equal(t, "great", fiction[0]["text"])
}
