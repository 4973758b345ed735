package database

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestMemoryInsertAndFind(t *testing.T) {
	store := newMemoryStore()

	id := store.insertOne("players", bson.M{"name": "raven", "kills": int64(3)})
	if id == "" {
		t.Fatal("insertOne returned an empty id")
	}

	doc := store.findOne("players", bson.M{"name": "raven"})
	if doc == nil {
		t.Fatal("findOne returned nil for an inserted document")
	}
	if doc["_id"] != id {
		t.Errorf("_id = %v, want %v", doc["_id"], id)
	}

	if store.findOne("players", bson.M{"name": "crow"}) != nil {
		t.Error("findOne matched a document that does not exist")
	}
}

func TestMemoryFindReturnsCopy(t *testing.T) {
	store := newMemoryStore()
	store.insertOne("players", bson.M{"name": "raven", "stats": bson.M{"hp": 100}})

	doc := store.findOne("players", bson.M{"name": "raven"})
	doc["name"] = "tampered"
	doc["stats"].(bson.M)["hp"] = 0

	stored := store.findOne("players", bson.M{"name": "raven"})
	if stored == nil {
		t.Fatal("original document gone after mutating a returned copy")
	}
	if stored["stats"].(bson.M)["hp"] != 100 {
		t.Error("mutating a returned document changed stored state")
	}
}

func TestMemoryFindManySortAndLimit(t *testing.T) {
	store := newMemoryStore()
	store.insertOne("players", bson.M{"name": "a", "kills": int64(1)})
	store.insertOne("players", bson.M{"name": "b", "kills": int64(9)})
	store.insertOne("players", bson.M{"name": "c", "kills": int64(5)})

	docs := store.findMany("players", bson.M{}, 2,
		[]SortField{{Key: "kills", Descending: true}})

	if len(docs) != 2 {
		t.Fatalf("len = %d, want 2", len(docs))
	}
	if docs[0]["name"] != "b" || docs[1]["name"] != "c" {
		t.Errorf("order = %v, %v; want b, c", docs[0]["name"], docs[1]["name"])
	}
}

func TestMemoryUpdateOne(t *testing.T) {
	store := newMemoryStore()
	store.insertOne("players", bson.M{"name": "raven", "kills": int64(1)})

	modified := store.updateOne("players",
		bson.M{"name": "raven"},
		bson.M{"$inc": bson.M{"kills": int64(2)}},
		false)
	if !modified {
		t.Fatal("updateOne did not report a modification")
	}

	doc := store.findOne("players", bson.M{"name": "raven"})
	if doc["kills"] != int64(3) {
		t.Errorf("kills = %v, want 3", doc["kills"])
	}
}

func TestMemoryUpdateOneNoMatchWithoutUpsert(t *testing.T) {
	store := newMemoryStore()
	if store.updateOne("players", bson.M{"name": "ghost"}, bson.M{"$set": bson.M{"kills": 1}}, false) {
		t.Error("updateOne modified something in an empty collection")
	}
	if store.countDocuments("players", bson.M{}) != 0 {
		t.Error("non-upsert update created a document")
	}
}

func TestMemoryUpsertCreatesFromQueryAndUpdate(t *testing.T) {
	store := newMemoryStore()

	created := store.updateOne("guilds",
		bson.M{"guild_id": "g1", "kills": bson.M{"$gt": 0}},
		bson.M{
			"$set":         bson.M{"name": "Test Guild"},
			"$setOnInsert": bson.M{"premium_tier": 0},
		},
		true)
	if !created {
		t.Fatal("upsert did not report a change")
	}

	doc := store.findOne("guilds", bson.M{"guild_id": "g1"})
	if doc == nil {
		t.Fatal("upserted document not found")
	}
	if doc["name"] != "Test Guild" {
		t.Errorf("name = %v, want Test Guild", doc["name"])
	}
	if doc["premium_tier"] != 0 {
		t.Errorf("premium_tier = %v, want 0", doc["premium_tier"])
	}
	// Operator-valued query fields must not leak into the created document.
	if _, ok := doc["kills"]; ok {
		t.Error("operator query field copied into the upserted document")
	}
	if _, ok := doc["_id"]; !ok {
		t.Error("upserted document has no _id")
	}
}

func TestMemoryUpsertSetOnInsertSkippedOnMatch(t *testing.T) {
	store := newMemoryStore()
	store.insertOne("guilds", bson.M{"guild_id": "g1", "premium_tier": 2})

	store.updateOne("guilds",
		bson.M{"guild_id": "g1"},
		bson.M{
			"$set":         bson.M{"name": "Renamed"},
			"$setOnInsert": bson.M{"premium_tier": 0},
		},
		true)

	doc := store.findOne("guilds", bson.M{"guild_id": "g1"})
	if doc["premium_tier"] != 2 {
		t.Errorf("premium_tier = %v, want 2 ($setOnInsert must not touch existing documents)", doc["premium_tier"])
	}
	if doc["name"] != "Renamed" {
		t.Errorf("name = %v, want Renamed", doc["name"])
	}
	if store.countDocuments("guilds", bson.M{}) != 1 {
		t.Error("matched upsert created a second document")
	}
}

func TestMemoryDelete(t *testing.T) {
	store := newMemoryStore()
	store.insertOne("logs", bson.M{"guild_id": "g1", "n": int64(1)})
	store.insertOne("logs", bson.M{"guild_id": "g1", "n": int64(2)})
	store.insertOne("logs", bson.M{"guild_id": "g2", "n": int64(3)})

	if !store.deleteOne("logs", bson.M{"n": int64(1)}) {
		t.Fatal("deleteOne did not find the document")
	}
	if store.deleteOne("logs", bson.M{"n": int64(99)}) {
		t.Error("deleteOne reported success for a missing document")
	}

	deleted := store.deleteMany("logs", bson.M{"guild_id": "g1"})
	if deleted != 1 {
		t.Errorf("deleteMany = %d, want 1", deleted)
	}
	if store.countDocuments("logs", bson.M{}) != 1 {
		t.Errorf("remaining = %d, want 1", store.countDocuments("logs", bson.M{}))
	}
}

func TestMemoryDropCollection(t *testing.T) {
	store := newMemoryStore()
	store.insertOne("tmp", bson.M{"a": 1})
	store.dropCollection("tmp")

	if store.countDocuments("tmp", bson.M{}) != 0 {
		t.Error("collection not empty after drop")
	}
}
