package database

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func newFallbackDB(t *testing.T) *Database {
	t.Helper()
	db := New("", "test", nil)
	if err := db.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() = %v", err)
	}
	return db
}

func TestConnectWithoutURIFallsBack(t *testing.T) {
	db := newFallbackDB(t)

	if !db.Connected() {
		t.Error("Connected() = false after fallback connect")
	}
	if !db.UsingFallback() {
		t.Error("UsingFallback() = false, want true with no URI")
	}
}

func TestOperationsRejectedBeforeConnect(t *testing.T) {
	db := New("", "test", nil)

	res := db.InsertOne(context.Background(), "players", bson.M{"name": "x"})
	if res.Success {
		t.Fatal("InsertOne succeeded before Connect")
	}
	if res.ErrType != ErrTypeNotConnected {
		t.Errorf("ErrType = %v, want %v", res.ErrType, ErrTypeNotConnected)
	}
}

func TestInsertOneAssignsIDAndCreatedAt(t *testing.T) {
	db := newFallbackDB(t)
	ctx := context.Background()

	res := db.InsertOne(ctx, "players", bson.M{"name": "raven"})
	if !res.Success {
		t.Fatalf("InsertOne failed: %s", res.Err)
	}
	if res.InsertedID == "" {
		t.Fatal("InsertedID is empty")
	}

	found := db.FindOne(ctx, "players", bson.M{"_id": res.InsertedID})
	if !found.Success || found.Document == nil {
		t.Fatalf("FindOne after insert: %v", found)
	}
	if _, ok := found.Document["created_at"].(time.Time); !ok {
		t.Errorf("created_at = %T, want time.Time", found.Document["created_at"])
	}
}

func TestInsertOneDoesNotMutateCaller(t *testing.T) {
	db := newFallbackDB(t)

	doc := bson.M{"name": "raven"}
	db.InsertOne(context.Background(), "players", doc)

	if _, ok := doc["_id"]; ok {
		t.Error("InsertOne wrote _id into the caller's map")
	}
	if _, ok := doc["created_at"]; ok {
		t.Error("InsertOne wrote created_at into the caller's map")
	}
}

func TestFindOneNoMatchIsSuccess(t *testing.T) {
	db := newFallbackDB(t)

	res := db.FindOne(context.Background(), "players", bson.M{"name": "nobody"})
	if !res.Success {
		t.Fatalf("FindOne no-match reported failure: %s", res.Err)
	}
	if res.Document != nil {
		t.Errorf("Document = %v, want nil", res.Document)
	}
}

func TestUpdateOneStampsTimestamps(t *testing.T) {
	db := newFallbackDB(t)
	ctx := context.Background()

	ins := db.InsertOne(ctx, "players", bson.M{"name": "raven"})
	res := db.UpdateOne(ctx, "players", bson.M{"_id": ins.InsertedID},
		bson.M{"$set": bson.M{"kills": int64(1)}}, false)
	if !res.Success || !res.Modified {
		t.Fatalf("UpdateOne: %v", res)
	}

	found := db.FindOne(ctx, "players", bson.M{"_id": ins.InsertedID})
	if _, ok := found.Document["updated_at"].(time.Time); !ok {
		t.Errorf("updated_at = %T, want time.Time", found.Document["updated_at"])
	}
}

func TestUpdateOnePlainDocumentBecomesSet(t *testing.T) {
	db := newFallbackDB(t)
	ctx := context.Background()

	ins := db.InsertOne(ctx, "players", bson.M{"name": "raven", "kills": int64(5)})
	db.UpdateOne(ctx, "players", bson.M{"_id": ins.InsertedID},
		bson.M{"name": "crow"}, false)

	found := db.FindOne(ctx, "players", bson.M{"_id": ins.InsertedID})
	if found.Document["name"] != "crow" {
		t.Errorf("name = %v, want crow", found.Document["name"])
	}
	// A plain document update is a $set, not a replacement.
	if found.Document["kills"] != int64(5) {
		t.Errorf("kills = %v, want 5 preserved", found.Document["kills"])
	}
}

func TestUpsertCreatedAtOnlyOnInsert(t *testing.T) {
	db := newFallbackDB(t)
	ctx := context.Background()

	query := bson.M{"guild_id": "g1"}
	db.UpdateOne(ctx, "guilds", query, bson.M{"$set": bson.M{"name": "first"}}, true)

	first := db.FindOne(ctx, "guilds", query)
	createdAt, ok := first.Document["created_at"].(time.Time)
	if !ok {
		t.Fatalf("created_at = %T, want time.Time", first.Document["created_at"])
	}

	time.Sleep(5 * time.Millisecond)
	db.UpdateOne(ctx, "guilds", query, bson.M{"$set": bson.M{"name": "second"}}, true)

	second := db.FindOne(ctx, "guilds", query)
	if got := second.Document["created_at"].(time.Time); !got.Equal(createdAt) {
		t.Errorf("created_at changed on the second upsert: %v -> %v", createdAt, got)
	}
	if second.Document["name"] != "second" {
		t.Errorf("name = %v, want second", second.Document["name"])
	}
	if db.CountDocuments(ctx, "guilds", bson.M{}).Count != 1 {
		t.Error("upsert on a matching document created a duplicate")
	}
}

func TestNormalizeUpdateStripsWriteOnceFields(t *testing.T) {
	// A full-document $set, as produced when saving a previously loaded
	// entity, carries _id and created_at. Both must be stripped: they are
	// write-once, and leaving created_at in $set alongside the injected
	// $setOnInsert stamp makes the operators conflict on the real backend.
	spec := normalizeUpdate(bson.M{"$set": bson.M{
		"_id":        "abc",
		"created_at": time.Now().UTC().Add(-time.Hour),
		"kills":      int64(3),
	}})

	set, ok := spec["$set"].(bson.M)
	if !ok {
		t.Fatalf("$set = %T, want bson.M", spec["$set"])
	}
	if _, found := set["_id"]; found {
		t.Error("$set still names _id")
	}
	if _, found := set["created_at"]; found {
		t.Error("$set still names created_at")
	}
	if set["kills"] != int64(3) {
		t.Errorf("kills = %v, want 3", set["kills"])
	}
	if _, found := spec["$setOnInsert"].(bson.M)["created_at"]; !found {
		t.Error("$setOnInsert lost the created_at stamp")
	}
}

func TestUpdateOneCannotOverwriteCreatedAt(t *testing.T) {
	db := newFallbackDB(t)
	ctx := context.Background()

	ins := db.InsertOne(ctx, "players", bson.M{"name": "raven"})
	original := db.FindOne(ctx, "players", bson.M{"_id": ins.InsertedID}).Document["created_at"].(time.Time)

	res := db.UpdateOne(ctx, "players", bson.M{"_id": ins.InsertedID},
		bson.M{"$set": bson.M{"created_at": original.Add(-24 * time.Hour), "name": "crow"}}, false)
	if !res.Success {
		t.Fatalf("UpdateOne failed: %s", res.Err)
	}

	found := db.FindOne(ctx, "players", bson.M{"_id": ins.InsertedID})
	if got := found.Document["created_at"].(time.Time); !got.Equal(original) {
		t.Errorf("created_at rewritten by update: %v -> %v", original, got)
	}
	if found.Document["name"] != "crow" {
		t.Errorf("name = %v, want crow", found.Document["name"])
	}
}

func TestUpsertRepeatedIsIdempotent(t *testing.T) {
	db := newFallbackDB(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res := db.UpdateOne(ctx, "users",
			bson.M{"user_id": "u1"},
			bson.M{"$inc": bson.M{"commands_used": int64(1)}},
			true)
		if !res.Success {
			t.Fatalf("upsert %d failed: %s", i, res.Err)
		}
	}

	found := db.FindOne(ctx, "users", bson.M{"user_id": "u1"})
	if found.Document["commands_used"] != int64(3) {
		t.Errorf("commands_used = %v, want 3", found.Document["commands_used"])
	}
	if db.CountDocuments(ctx, "users", bson.M{}).Count != 1 {
		t.Error("repeated upserts created duplicates")
	}
}

func TestFindManyComparisonQuery(t *testing.T) {
	db := newFallbackDB(t)
	ctx := context.Background()

	now := time.Now().UTC()
	db.InsertOne(ctx, "message_logs", bson.M{"guild_id": "g1", "timestamp": now.Add(-48 * time.Hour)})
	db.InsertOne(ctx, "message_logs", bson.M{"guild_id": "g1", "timestamp": now})
	db.InsertOne(ctx, "message_logs", bson.M{"guild_id": "g2", "timestamp": now.Add(-48 * time.Hour)})

	res := db.DeleteMany(ctx, "message_logs",
		bson.M{"guild_id": "g1", "timestamp": bson.M{"$lt": now.Add(-24 * time.Hour)}})
	if !res.Success {
		t.Fatalf("DeleteMany failed: %s", res.Err)
	}
	if res.Count != 1 {
		t.Errorf("deleted = %d, want 1", res.Count)
	}
	if db.CountDocuments(ctx, "message_logs", bson.M{}).Count != 2 {
		t.Error("wrong documents removed")
	}
}

func TestFindManySortLimit(t *testing.T) {
	db := newFallbackDB(t)
	ctx := context.Background()

	for _, p := range []bson.M{
		{"name": "a", "kills": int64(2)},
		{"name": "b", "kills": int64(8)},
		{"name": "c", "kills": int64(5)},
	} {
		db.InsertOne(ctx, "players", p)
	}

	res := db.FindMany(ctx, "players", bson.M{}, 2,
		[]SortField{{Key: "kills", Descending: true}})
	if !res.Success {
		t.Fatalf("FindMany failed: %s", res.Err)
	}
	if len(res.Documents) != 2 {
		t.Fatalf("len = %d, want 2", len(res.Documents))
	}
	if res.Documents[0]["name"] != "b" || res.Documents[1]["name"] != "c" {
		t.Errorf("order = %v, %v; want b, c", res.Documents[0]["name"], res.Documents[1]["name"])
	}
}

func TestCreateIndexOnFallbackSucceeds(t *testing.T) {
	db := newFallbackDB(t)

	res := db.CreateIndex(context.Background(), "players",
		[]SortField{{Key: "name"}}, true, false)
	if !res.Success {
		t.Errorf("CreateIndex on fallback failed: %s", res.Err)
	}
}

func TestAggregateOnFallbackIsInvalid(t *testing.T) {
	db := newFallbackDB(t)

	res := db.Aggregate(context.Background(), "players", nil)
	if res.Success {
		t.Fatal("Aggregate succeeded on the fallback store")
	}
	if res.ErrType != ErrTypeInvalidOp {
		t.Errorf("ErrType = %v, want %v", res.ErrType, ErrTypeInvalidOp)
	}
}

func TestDisconnectResetsState(t *testing.T) {
	db := newFallbackDB(t)
	if err := db.Disconnect(context.Background()); err != nil {
		t.Fatalf("Disconnect() = %v", err)
	}
	if db.Connected() {
		t.Error("Connected() = true after Disconnect")
	}
	if db.InsertOne(context.Background(), "players", bson.M{}).Success {
		t.Error("operation succeeded after Disconnect")
	}
}
