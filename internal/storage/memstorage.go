package storage

import (
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkruglova/bookstand/internal/domain/models"
	"github.com/nkruglova/bookstand/internal/logger"
	storerrors "github.com/nkruglova/bookstand/internal/storage/errors"
)

// MemStorage is the fallback used when the document store is unreachable
// at startup. It keeps the same identifier shape (ObjectID hex strings).
type MemStorage struct {
	mu        sync.RWMutex
	bookStor  map[string]models.Document
	cartStor  map[string]models.Document
	revStor   map[string]models.Document
	usersStor map[string]models.User
}

func New() *MemStorage {
	return &MemStorage{
		bookStor:  make(map[string]models.Document),
		cartStor:  make(map[string]models.Document),
		revStor:   make(map[string]models.Document),
		usersStor: make(map[string]models.User),
	}
}

func (ms *MemStorage) SaveBook(book models.Document) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return saveDoc(ms.bookStor, book), nil
}

func (ms *MemStorage) GetBook(id string) (models.Document, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	book, ok := ms.bookStor[id]
	if !ok {
		return nil, storerrors.ErrBookNotFound
	}
	return book, nil
}

func (ms *MemStorage) GetBooks(category string) ([]models.Document, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return filterDocs(ms.bookStor, category), nil
}

func (ms *MemStorage) UpdateBook(id string, fields models.Document) (models.UpdateResult, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	book, ok := ms.bookStor[id]
	if !ok {
		// upsert: несуществующий id создает новую запись
		book = models.Document{"_id": id}
		for k, v := range fields {
			book[k] = v
		}
		ms.bookStor[id] = book
		return models.UpdateResult{UpsertedID: id}, nil
	}
	for k, v := range fields {
		book[k] = v
	}
	return models.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (ms *MemStorage) DeleteBook(id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.bookStor, id)
	return nil
}

func (ms *MemStorage) SaveCartItem(item models.Document) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return saveDoc(ms.cartStor, item), nil
}

func (ms *MemStorage) GetCartItems(userID string) ([]models.Document, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	var items []models.Document
	for _, item := range ms.cartStor {
		if item["userId"] == userID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (ms *MemStorage) RemoveCartItem(userID, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	item, ok := ms.cartStor[id]
	if !ok || item["userId"] != userID {
		// несовпадение владельца оставляет запись на месте, ответ все равно успешный
		return nil
	}
	delete(ms.cartStor, id)
	return nil
}

func (ms *MemStorage) SaveUser(user models.User) (string, error) {
	log := logger.Get()
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, existing := range ms.usersStor {
		if existing.Username == user.Username || existing.Email == user.Email {
			return "", storerrors.ErrUserExists
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Pass), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("save user failed")
		return "", err
	}
	user.Pass = string(hash)
	user.UID = primitive.NewObjectID()
	ms.usersStor[user.UID.Hex()] = user
	return user.UID.Hex(), nil
}

func (ms *MemStorage) ValidUser(username, password string) (string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	user, err := ms.findUser(username)
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Pass), []byte(password)); err != nil {
		return "", storerrors.ErrInvalidPassword
	}
	return user.UID.Hex(), nil
}

func (ms *MemStorage) GetUser(uid string) (models.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	user, ok := ms.usersStor[uid]
	if !ok {
		return models.User{}, storerrors.ErrUserNotFound
	}
	return user, nil
}

func (ms *MemStorage) UpdateProfile(uid string, profile models.Profile) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	user, ok := ms.usersStor[uid]
	if !ok {
		return nil
	}
	user.Location = profile.Location
	user.Age = profile.Age
	user.Work = profile.Work
	user.DOB = profile.DOB
	user.Description = profile.Description
	ms.usersStor[uid] = user
	return nil
}

func (ms *MemStorage) UpdateUserFields(uid string, fields models.Document) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	user, ok := ms.usersStor[uid]
	if !ok {
		return storerrors.ErrUserNotFound
	}
	// username, email и password через этот путь не меняются
	if v, ok := fields["location"].(string); ok {
		user.Location = v
	}
	if v, ok := fields["age"].(string); ok {
		user.Age = v
	}
	if v, ok := fields["work"].(string); ok {
		user.Work = v
	}
	if v, ok := fields["dob"].(string); ok {
		user.DOB = v
	}
	if v, ok := fields["description"].(string); ok {
		user.Description = v
	}
	ms.usersStor[uid] = user
	return nil
}

func (ms *MemStorage) UsernameExists(username string) (bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	_, err := ms.findUser(username)
	return err == nil, nil
}

func (ms *MemStorage) EmailExists(email string) (bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for _, user := range ms.usersStor {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (ms *MemStorage) SaveReview(review models.Document) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return saveDoc(ms.revStor, review), nil
}

func (ms *MemStorage) GetReviews(category string) ([]models.Document, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return filterDocs(ms.revStor, category), nil
}

func (ms *MemStorage) findUser(username string) (models.User, error) {
	for _, user := range ms.usersStor {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, storerrors.ErrUserNotFound
}

func saveDoc(stor map[string]models.Document, doc models.Document) string {
	id := primitive.NewObjectID().Hex()
	stored := models.Document{"_id": id}
	for k, v := range doc {
		stored[k] = v
	}
	stor[id] = stored
	return id
}

func filterDocs(stor map[string]models.Document, category string) []models.Document {
	var docs []models.Document
	for _, doc := range stor {
		if category != "" && fmt.Sprint(doc["category"]) != category {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}
