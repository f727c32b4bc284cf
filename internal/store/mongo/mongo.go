// Package mongo implements store.Store on MongoDB. Today items live in the
// "items" collection; custom lists live in "lists" with their items embedded.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Bhavishyakolloori/todolist-v1/internal/model"
	"github.com/Bhavishyakolloori/todolist-v1/internal/store"
)

const (
	itemsCollection = "items"
	listsCollection = "lists"
)

type itemDoc struct {
	ID   primitive.ObjectID `bson:"_id"`
	Name string             `bson:"name"`
}

type listDoc struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Items []itemDoc          `bson:"items"`
}

func (d itemDoc) model() model.Item {
	return model.Item{ID: d.ID.Hex(), Name: d.Name}
}

func (d listDoc) model() *model.List {
	out := &model.List{ID: d.ID.Hex(), Name: d.Name, Items: make([]model.Item, 0, len(d.Items))}
	for _, it := range d.Items {
		out.Items = append(out.Items, it.model())
	}
	return out
}

func newItemDoc(name string) itemDoc {
	return itemDoc{ID: primitive.NewObjectID(), Name: name}
}

// newItemDocs never returns nil: a nil slice is stored as null and $push
// rejects null fields.
func newItemDocs(names []string) []itemDoc {
	out := make([]itemDoc, 0, len(names))
	for _, n := range names {
		out = append(out, newItemDoc(n))
	}
	return out
}

// Open creates a client for uri. The driver connects lazily, so an
// unreachable server surfaces on the first operation, not here.
func Open(ctx context.Context, uri string) (*mongo.Client, error) {
	return mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("todolist"))
}

// NewWithClient binds the store to database dbName.
func NewWithClient(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	return &MongoStore{
		client: client,
		db:     db,
		items:  db.Collection(itemsCollection),
		lists:  db.Collection(listsCollection),
	}
}

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	items  *mongo.Collection
	lists  *mongo.Collection
}

func (s *MongoStore) Items() store.Items { return &items{c: s.items} }
func (s *MongoStore) Lists() store.Lists { return &lists{c: s.lists} }

func (s *MongoStore) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// Database exposes the bound database.
func (s *MongoStore) Database() *mongo.Database { return s.db }

// HealthPing implements health.HealthPinger.
func (s *MongoStore) HealthPing(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Bootstrap verifies connectivity and creates the unique index on list names.
func (s *MongoStore) Bootstrap(ctx context.Context) error {
	if err := s.HealthPing(ctx); err != nil {
		return err
	}
	return s.EnsureIndexes(ctx)
}

// EnsureIndexes creates the unique index that makes find-or-create atomic.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.lists.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("name_unique"),
	})
	if err != nil {
		return fmt.Errorf("create lists.name index: %w", err)
	}
	return nil
}

// nameFilter matches name exactly, ignoring case.
func nameFilter(name string) bson.M {
	return bson.M{"name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}}
}

// --- Today items ---
type items struct{ c *mongo.Collection }

func (i *items) List(ctx context.Context) ([]model.Item, error) {
	cur, err := i.c.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	var docs []itemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]model.Item, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (i *items) Insert(ctx context.Context, name string) (*model.Item, error) {
	d := newItemDoc(name)
	if _, err := i.c.InsertOne(ctx, d); err != nil {
		return nil, err
	}
	it := d.model()
	return &it, nil
}

// SeedIfEmpty is check-then-insert; two concurrent seeders on an empty
// collection can both insert.
func (i *items) SeedIfEmpty(ctx context.Context, names []string) (bool, error) {
	n, err := i.c.CountDocuments(ctx, bson.D{}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	if n > 0 || len(names) == 0 {
		return false, nil
	}
	docs := make([]interface{}, 0, len(names))
	for _, d := range newItemDocs(names) {
		docs = append(docs, d)
	}
	if _, err := i.c.InsertMany(ctx, docs); err != nil {
		return false, err
	}
	return true, nil
}

func (i *items) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = i.c.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// --- Lists ---
type lists struct{ c *mongo.Collection }

func (l *lists) FindByName(ctx context.Context, name string) (*model.List, error) {
	var d listDoc
	if err := l.c.FindOne(ctx, nameFilter(name)).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return d.model(), nil
}

func (l *lists) Create(ctx context.Context, name string, itemNames []string) (*model.List, error) {
	d := listDoc{ID: primitive.NewObjectID(), Name: model.CanonicalName(name), Items: newItemDocs(itemNames)}
	if _, err := l.c.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, model.ErrConflict
		}
		return nil, err
	}
	return d.model(), nil
}

func (l *lists) FindOrCreate(ctx context.Context, name string, itemNames []string) (*model.List, bool, error) {
	key := model.CanonicalName(name)
	newID := primitive.NewObjectID()
	update := bson.M{"$setOnInsert": bson.M{"_id": newID, "items": newItemDocs(itemNames)}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var d listDoc
	err := l.c.FindOneAndUpdate(ctx, bson.M{"name": key}, update, opts).Decode(&d)
	if mongo.IsDuplicateKeyError(err) {
		// Lost an upsert race on the unique index; the winner's list exists now.
		out, err := l.FindByName(ctx, key)
		return out, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return d.model(), d.ID == newID, nil
}

func (l *lists) AppendItem(ctx context.Context, list *model.List, itemName string) (*model.Item, error) {
	oid, err := primitive.ObjectIDFromHex(list.ID)
	if err != nil {
		return nil, model.ErrNotFound
	}
	d := newItemDoc(itemName)
	res, err := l.c.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"items": d}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, model.ErrNotFound
	}
	it := d.model()
	list.Items = append(list.Items, it)
	return &it, nil
}

func (l *lists) PushItem(ctx context.Context, name, itemName string) (*model.Item, bool, error) {
	key := model.CanonicalName(name)
	d := newItemDoc(itemName)
	push := func() (*mongo.UpdateResult, error) {
		return l.c.UpdateOne(ctx, bson.M{"name": key}, bson.M{"$push": bson.M{"items": d}}, options.Update().SetUpsert(true))
	}
	res, err := push()
	if mongo.IsDuplicateKeyError(err) {
		res, err = push()
	}
	if err != nil {
		return nil, false, err
	}
	it := d.model()
	return &it, res.UpsertedCount > 0, nil
}

func (l *lists) PullItem(ctx context.Context, name, itemID string) error {
	oid, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil
	}
	_, err = l.c.UpdateOne(ctx, nameFilter(name), bson.M{"$pull": bson.M{"items": bson.M{"_id": oid}}})
	return err
}
