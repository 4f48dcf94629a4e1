package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkruglova/bookstand/internal/domain/consts"
	"github.com/nkruglova/bookstand/internal/domain/models"
	"github.com/nkruglova/bookstand/internal/logger"
	storerrors "github.com/nkruglova/bookstand/internal/storage/errors"
)

const dbName = "bookstand"

// поля пользователя, которые нельзя менять через общий путь обновления
var protectedUserFields = []string{"_id", "username", "email", "password"}

type DBStorage struct {
	client  *mongo.Client
	books   *mongo.Collection
	users   *mongo.Collection
	cart    *mongo.Collection
	reviews *mongo.Collection
}

func NewDB(ctx context.Context, uri string) (*DBStorage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	db := client.Database(dbName)
	return &DBStorage{
		client:  client,
		books:   db.Collection("books"),
		users:   db.Collection("users"),
		cart:    db.Collection("cart"),
		reviews: db.Collection("reviews"),
	}, nil
}

func (dbs *DBStorage) Close(ctx context.Context) error {
	return dbs.client.Disconnect(ctx)
}

func (dbs *DBStorage) SaveBook(book models.Document) (string, error) {
	return dbs.insertOne(dbs.books, book)
}

func (dbs *DBStorage) GetBook(id string) (models.Document, error) {
	log := logger.Get()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	var book models.Document
	if err := dbs.books.FindOne(ctx, bson.M{"_id": oid}).Decode(&book); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storerrors.ErrBookNotFound
		}
		log.Error().Err(err).Msg("failed to fetch book")
		return nil, err
	}
	return book, nil
}

func (dbs *DBStorage) GetBooks(category string) ([]models.Document, error) {
	return dbs.findAll(dbs.books, category)
}

func (dbs *DBStorage) UpdateBook(id string, fields models.Document) (models.UpdateResult, error) {
	log := logger.Get()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.UpdateResult{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	opts := options.Update().SetUpsert(true)
	res, err := dbs.books.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields}, opts)
	if err != nil {
		log.Error().Err(err).Msg("failed to update book")
		return models.UpdateResult{}, err
	}
	out := models.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = oid.Hex()
	}
	return out, nil
}

func (dbs *DBStorage) DeleteBook(id string) error {
	log := logger.Get()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	res, err := dbs.books.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete book")
		return err
	}
	// нулевой счетчик удаления не считается ошибкой
	log.Debug().Str("bid", id).Int64("deleted", res.DeletedCount).Msg("book delete ack")
	return nil
}

func (dbs *DBStorage) SaveCartItem(item models.Document) (string, error) {
	return dbs.insertOne(dbs.cart, item)
}

func (dbs *DBStorage) GetCartItems(userID string) ([]models.Document, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	cur, err := dbs.cart.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch cart items")
		return nil, err
	}
	var items []models.Document
	if err := cur.All(ctx, &items); err != nil {
		log.Error().Err(err).Msg("failed to decode cart items")
		return nil, err
	}
	return items, nil
}

func (dbs *DBStorage) RemoveCartItem(userID, id string) error {
	log := logger.Get()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	res, err := dbs.cart.DeleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		log.Error().Err(err).Msg("failed to remove item from cart")
		return err
	}
	log.Debug().Str("userId", userID).Str("itemId", id).Int64("deleted", res.DeletedCount).Msg("cart delete ack")
	return nil
}

func (dbs *DBStorage) SaveUser(user models.User) (string, error) {
	log := logger.Get()
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Pass), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("save user failed")
		return "", err
	}
	user.Pass = string(hash)

	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	res, err := dbs.users.InsertOne(ctx, user)
	if err != nil {
		// уникальность username/email обеспечивают индексы из миграций
		if mongo.IsDuplicateKeyError(err) {
			return "", storerrors.ErrUserExists
		}
		log.Error().Err(err).Msg("failed to insert user")
		return "", err
	}
	return insertedID(res), nil
}

func (dbs *DBStorage) ValidUser(username, password string) (string, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	var usr models.User
	if err := dbs.users.FindOne(ctx, bson.M{"username": username}).Decode(&usr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", storerrors.ErrUserNotFound
		}
		log.Error().Err(err).Msg("failed to fetch user")
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.Pass), []byte(password)); err != nil {
		return "", storerrors.ErrInvalidPassword
	}
	return usr.UID.Hex(), nil
}

func (dbs *DBStorage) GetUser(uid string) (models.User, error) {
	log := logger.Get()
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return models.User{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	var usr models.User
	if err := dbs.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&usr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, storerrors.ErrUserNotFound
		}
		log.Error().Err(err).Msg("failed to fetch user")
		return models.User{}, err
	}
	return usr, nil
}

func (dbs *DBStorage) UpdateProfile(uid string, profile models.Profile) error {
	log := logger.Get()
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	res, err := dbs.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": profile})
	if err != nil {
		log.Error().Err(err).Msg("failed to update profile")
		return err
	}
	if res.MatchedCount == 0 {
		log.Warn().Str("uid", uid).Msg("profile update matched no user")
	}
	return nil
}

func (dbs *DBStorage) UpdateUserFields(uid string, fields models.Document) error {
	log := logger.Get()
	oid, err := primitive.ObjectIDFromHex(uid)
	if err != nil {
		return err
	}
	for _, f := range protectedUserFields {
		delete(fields, f)
	}
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	if len(fields) == 0 {
		count, err := dbs.users.CountDocuments(ctx, bson.M{"_id": oid})
		if err != nil {
			return err
		}
		if count == 0 {
			return storerrors.ErrUserNotFound
		}
		return nil
	}
	res, err := dbs.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		log.Error().Err(err).Msg("failed to update user fields")
		return err
	}
	if res.MatchedCount == 0 {
		return storerrors.ErrUserNotFound
	}
	return nil
}

func (dbs *DBStorage) UsernameExists(username string) (bool, error) {
	return dbs.userExists(bson.M{"username": username})
}

func (dbs *DBStorage) EmailExists(email string) (bool, error) {
	return dbs.userExists(bson.M{"email": email})
}

func (dbs *DBStorage) userExists(filter bson.M) (bool, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	count, err := dbs.users.CountDocuments(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count users")
		return false, err
	}
	return count > 0, nil
}

func (dbs *DBStorage) SaveReview(review models.Document) (string, error) {
	return dbs.insertOne(dbs.reviews, review)
}

func (dbs *DBStorage) GetReviews(category string) ([]models.Document, error) {
	return dbs.findAll(dbs.reviews, category)
}

func (dbs *DBStorage) insertOne(coll *mongo.Collection, doc models.Document) (string, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	res, err := coll.InsertOne(ctx, doc)
	if err != nil {
		log.Error().Err(err).Str("collection", coll.Name()).Msg("insert failed")
		return "", err
	}
	return insertedID(res), nil
}

func (dbs *DBStorage) findAll(coll *mongo.Collection, category string) ([]models.Document, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(context.Background(), consts.DBCtxTimeout)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	cur, err := coll.Find(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("collection", coll.Name()).Msg("find failed")
		return nil, err
	}
	var docs []models.Document
	if err := cur.All(ctx, &docs); err != nil {
		log.Error().Err(err).Str("collection", coll.Name()).Msg("decode failed")
		return nil, err
	}
	return docs, nil
}

func insertedID(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", res.InsertedID)
}

func Migrations(dbURI string, migrationsPath string) error {
	log := logger.Get()
	migratePath := fmt.Sprintf("file://%s", migrationsPath)
	m, err := migrate.New(migratePath, dbURI)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("no migrations apply")
			return nil
		}
		return err
	}
	log.Info().Msg("all migrations apply")
	return nil
}
