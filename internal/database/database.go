package database

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/logger"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout   = 10 * time.Second
	operationTimeout = 5 * time.Second
)

// Database presents one CRUD API over either a real MongoDB deployment or the
// in-memory fallback store. Connect never fails the caller: when MongoDB is
// unreachable the facade degrades to the fallback and the bot still starts.
type Database struct {
	uri    string
	dbName string
	logger *logger.Logger

	mu            sync.RWMutex
	client        *mongo.Client
	db            *mongo.Database
	memory        *memoryStore
	connected     bool
	usingFallback bool
}

func New(uri, dbName string, l *logger.Logger) *Database {
	return &Database{
		uri:    uri,
		dbName: dbName,
		logger: l,
	}
}

// Connect attempts a real MongoDB connection and falls back to the in-memory
// store on any failure. The returned error is always nil today; the signature
// leaves room for a strict mode.
func (d *Database) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.uri == "" {
		d.warn("No MongoDB URI configured, using in-memory fallback store")
		d.enableFallbackLocked()
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(d.uri))
	if err != nil {
		d.warn("Failed to connect to MongoDB: ", err, " - using in-memory fallback store")
		d.enableFallbackLocked()
		return nil
	}

	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		d.warn("MongoDB ping failed: ", err, " - using in-memory fallback store")
		if disconnectErr := client.Disconnect(context.Background()); disconnectErr != nil {
			d.warn("Failed to disconnect MongoDB client after ping failure: ", disconnectErr)
		}
		d.enableFallbackLocked()
		return nil
	}

	d.client = client
	d.db = client.Database(d.dbName)
	d.connected = true
	d.usingFallback = false
	d.info("Connected to MongoDB database: ", d.dbName)
	return nil
}

func (d *Database) enableFallbackLocked() {
	d.memory = newMemoryStore()
	d.usingFallback = true
	d.connected = true
}

// Disconnect releases the real client handle if any and resets state.
func (d *Database) Disconnect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	if d.client != nil {
		err = d.client.Disconnect(ctx)
		d.client = nil
		d.db = nil
	}
	d.memory = nil
	d.connected = false
	d.usingFallback = false
	return err
}

func (d *Database) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

func (d *Database) UsingFallback() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.usingFallback
}

func (d *Database) backend() (*mongo.Database, *memoryStore, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.db, d.memory, d.connected
}

// InsertOne stores a document, assigning a string _id and a created_at
// timestamp when missing. The Result carries the id of the inserted document.
func (d *Database) InsertOne(ctx context.Context, collection string, document bson.M) *Result {
	db, memory, connected := d.backend()
	if !connected {
		return d.notConnected(collection)
	}

	doc := cloneDoc(document)
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = uuid.NewString()
	}
	if _, ok := doc["created_at"]; !ok {
		doc["created_at"] = time.Now().UTC()
	}

	if memory != nil {
		return okInserted(memory.insertOne(collection, doc))
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	if _, err := db.Collection(collection).InsertOne(opCtx, doc); err != nil {
		return d.operationFailed("insert into", collection, err)
	}
	id, _ := doc["_id"].(string)
	return okInserted(id)
}

// FindOne returns the first document matching the query, or a successful
// Result with a nil Document when nothing matches.
func (d *Database) FindOne(ctx context.Context, collection string, query bson.M) *Result {
	db, memory, connected := d.backend()
	if !connected {
		return d.notConnected(collection)
	}

	if memory != nil {
		return okDocument(memory.findOne(collection, query))
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	var doc bson.M
	err := db.Collection(collection).FindOne(opCtx, query).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return okDocument(nil)
	}
	if err != nil {
		return d.operationFailed("query", collection, err)
	}
	return okDocument(doc)
}

// FindMany returns every matching document, optionally sorted and truncated.
// A limit of 0 means no limit.
func (d *Database) FindMany(ctx context.Context, collection string, query bson.M, limit int64, sortFields []SortField) *Result {
	db, memory, connected := d.backend()
	if !connected {
		return d.notConnected(collection)
	}

	if memory != nil {
		return okDocuments(memory.findMany(collection, query, limit, sortFields))
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	findOpts := options.Find()
	if len(sortFields) > 0 {
		sortDoc := bson.D{}
		for _, field := range sortFields {
			direction := 1
			if field.Descending {
				direction = -1
			}
			sortDoc = append(sortDoc, bson.E{Key: field.Key, Value: direction})
		}
		findOpts.SetSort(sortDoc)
	}
	if limit > 0 {
		findOpts.SetLimit(limit)
	}

	cursor, err := db.Collection(collection).Find(opCtx, query, findOpts)
	if err != nil {
		return d.operationFailed("query", collection, err)
	}
	defer cursor.Close(opCtx)

	docs := make([]bson.M, 0)
	if err := cursor.All(opCtx, &docs); err != nil {
		return d.operationFailed("decode results from", collection, err)
	}
	return okDocuments(docs)
}

// UpdateOne applies an update specification to the first matching document.
// Every update stamps updated_at; an upsert that inserts also stamps
// created_at through $setOnInsert unless the caller supplied one. The Result's
// Modified field reports whether a document was modified or created.
func (d *Database) UpdateOne(ctx context.Context, collection string, query bson.M, update bson.M, upsert bool) *Result {
	db, memory, connected := d.backend()
	if !connected {
		return d.notConnected(collection)
	}

	spec := normalizeUpdate(update)

	if memory != nil {
		return okModified(memory.updateOne(collection, query, spec, upsert))
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	res, err := db.Collection(collection).UpdateOne(opCtx, query, spec, options.Update().SetUpsert(upsert))
	if err != nil {
		return d.operationFailed("update", collection, err)
	}
	return okModified(res.ModifiedCount > 0 || res.UpsertedID != nil)
}

// DeleteOne removes the first matching document. Modified reports whether a
// document was found and removed; no match is not a failure.
func (d *Database) DeleteOne(ctx context.Context, collection string, query bson.M) *Result {
	db, memory, connected := d.backend()
	if !connected {
		return d.notConnected(collection)
	}

	if memory != nil {
		return okModified(memory.deleteOne(collection, query))
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	res, err := db.Collection(collection).DeleteOne(opCtx, query)
	if err != nil {
		return d.operationFailed("delete from", collection, err)
	}
	return okModified(res.DeletedCount > 0)
}

// DeleteMany removes every matching document and reports how many were
// removed in the Result's Count.
func (d *Database) DeleteMany(ctx context.Context, collection string, query bson.M) *Result {
	db, memory, connected := d.backend()
	if !connected {
		return d.notConnected(collection)
	}

	if memory != nil {
		return okCount(memory.deleteMany(collection, query))
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	res, err := db.Collection(collection).DeleteMany(opCtx, query)
	if err != nil {
		return d.operationFailed("delete from", collection, err)
	}
	return okCount(res.DeletedCount)
}

func (d *Database) CountDocuments(ctx context.Context, collection string, query bson.M) *Result {
	db, memory, connected := d.backend()
	if !connected {
		return d.notConnected(collection)
	}

	if memory != nil {
		return okCount(memory.countDocuments(collection, query))
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	count, err := db.Collection(collection).CountDocuments(opCtx, query)
	if err != nil {
		return d.operationFailed("count documents in", collection, err)
	}
	return okCount(count)
}

// CreateIndex builds an index on the real backend. The fallback store has no
// indexes, so it reports success without doing anything.
func (d *Database) CreateIndex(ctx context.Context, collection string, keys []SortField, unique, sparse bool) *Result {
	db, memory, connected := d.backend()
	if !connected {
		return d.notConnected(collection)
	}

	if memory != nil {
		return okResult()
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	indexKeys := bson.D{}
	for _, field := range keys {
		direction := 1
		if field.Descending {
			direction = -1
		}
		indexKeys = append(indexKeys, bson.E{Key: field.Key, Value: direction})
	}

	model := mongo.IndexModel{
		Keys:    indexKeys,
		Options: options.Index().SetUnique(unique).SetSparse(sparse),
	}
	if _, err := db.Collection(collection).Indexes().CreateOne(opCtx, model); err != nil {
		return d.operationFailed("create index in", collection, err)
	}
	return okResult()
}

func (d *Database) DropCollection(ctx context.Context, collection string) *Result {
	db, memory, connected := d.backend()
	if !connected {
		return d.notConnected(collection)
	}

	if memory != nil {
		memory.dropCollection(collection)
		return okResult()
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	if err := db.Collection(collection).Drop(opCtx); err != nil {
		return d.operationFailed("drop collection", collection, err)
	}
	return okResult()
}

// Aggregate runs an aggregation pipeline on the real backend. The fallback
// store does not emulate pipelines and reports an invalid-operation failure.
func (d *Database) Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline) *Result {
	db, memory, connected := d.backend()
	if !connected {
		return d.notConnected(collection)
	}

	if memory != nil {
		return errResult(ErrTypeInvalidOp, "aggregation is not supported by the in-memory fallback store")
	}

	opCtx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	cursor, err := db.Collection(collection).Aggregate(opCtx, pipeline)
	if err != nil {
		return d.operationFailed("aggregate", collection, err)
	}
	defer cursor.Close(opCtx)

	docs := make([]bson.M, 0)
	if err := cursor.All(opCtx, &docs); err != nil {
		return d.operationFailed("decode aggregation results from", collection, err)
	}
	return okDocuments(docs)
}

// normalizeUpdate brings an update specification into operator form and stamps
// the bookkeeping timestamps: updated_at on every update, created_at via
// $setOnInsert so only upsert-created documents receive it. The caller's maps
// are never mutated. _id and created_at are stripped from $set: _id is
// immutable, and created_at is write-once; leaving it in $set would also
// conflict with the $setOnInsert stamp and fail the whole update on the real
// backend.
func normalizeUpdate(update bson.M) bson.M {
	spec := bson.M{}
	hasOperator := false
	for key := range update {
		if len(key) > 0 && key[0] == '$' {
			hasOperator = true
			break
		}
	}

	if hasOperator {
		for op, fields := range update {
			if doc, ok := asDoc(fields); ok {
				spec[op] = cloneDoc(doc)
			} else {
				spec[op] = fields
			}
		}
	} else {
		spec["$set"] = cloneDoc(update)
	}

	set, ok := spec["$set"].(bson.M)
	if !ok {
		set = bson.M{}
		spec["$set"] = set
	}
	delete(set, "_id")
	delete(set, "created_at")
	set["updated_at"] = time.Now().UTC()

	setOnInsert, ok := spec["$setOnInsert"].(bson.M)
	if !ok {
		setOnInsert = bson.M{}
		spec["$setOnInsert"] = setOnInsert
	}
	if _, ok := setOnInsert["created_at"]; !ok {
		setOnInsert["created_at"] = time.Now().UTC()
	}

	return spec
}

func (d *Database) notConnected(collection string) *Result {
	d.warn("Not connected to database, operation on ", collection, " rejected")
	return errResult(ErrTypeNotConnected, "not connected to database (collection %s)", collection)
}

func (d *Database) operationFailed(verb, collection string, err error) *Result {
	d.error("Failed to ", verb, " ", collection, ": ", err)
	errType := ErrTypeUnknown
	if errors.Is(err, context.DeadlineExceeded) {
		errType = ErrTypeTimeout
	}
	return errResult(errType, "failed to %s %s: %v", verb, collection, err)
}

func (d *Database) info(v ...interface{}) {
	if d.logger != nil {
		d.logger.Info(v...)
	}
}

func (d *Database) warn(v ...interface{}) {
	if d.logger != nil {
		d.logger.Warn(v...)
	}
}

func (d *Database) error(v ...interface{}) {
	if d.logger != nil {
		d.logger.Error(v...)
	}
}
