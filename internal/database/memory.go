package database

import (
	"sync"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// memoryStore is the fallback backend: a process-lifetime document store that
// emulates the subset of MongoDB semantics the bot relies on. Collections are
// created lazily on first access. A single lock guards every find-then-mutate
// sequence so concurrent updates to the same document cannot interleave.
type memoryStore struct {
	mu          sync.RWMutex
	collections map[string][]bson.M
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		collections: make(map[string][]bson.M),
	}
}

func (s *memoryStore) insertOne(collection string, doc bson.M) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneDoc(doc)
	if _, ok := stored["_id"]; !ok {
		stored["_id"] = uuid.NewString()
	}
	s.collections[collection] = append(s.collections[collection], stored)
	return stored["_id"].(string)
}

func (s *memoryStore) findOne(collection string, query bson.M) bson.M {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.collections[collection] {
		if matchesQuery(doc, query) {
			return cloneDoc(doc)
		}
	}
	return nil
}

func (s *memoryStore) findMany(collection string, query bson.M, limit int64, sortFields []SortField) []bson.M {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]bson.M, 0)
	for _, doc := range s.collections[collection] {
		if matchesQuery(doc, query) {
			results = append(results, cloneDoc(doc))
		}
	}

	sortDocuments(results, sortFields)

	if limit > 0 && int64(len(results)) > limit {
		results = results[:limit]
	}
	return results
}

// updateOne applies an update to the first matching document, or creates one
// when upsert is set. The bool reports whether a document was modified or
// created. An upsert-created document combines the query's equality fields
// with the update's $set and $setOnInsert fields.
func (s *memoryStore) updateOne(collection string, query bson.M, update bson.M, upsert bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if matchesQuery(doc, query) {
			applyUpdate(doc, update, false)
			return true
		}
	}

	if !upsert {
		return false
	}

	newDoc := bson.M{}
	for key, value := range query {
		if _, isOperator := operatorDoc(value); !isOperator {
			newDoc[key] = cloneValue(value)
		}
	}
	applyUpdate(newDoc, update, true)
	if _, ok := newDoc["_id"]; !ok {
		newDoc["_id"] = uuid.NewString()
	}
	s.collections[collection] = append(s.collections[collection], newDoc)
	return true
}

func (s *memoryStore) deleteOne(collection string, query bson.M) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[collection]
	for i, doc := range docs {
		if matchesQuery(doc, query) {
			s.collections[collection] = append(docs[:i], docs[i+1:]...)
			return true
		}
	}
	return false
}

func (s *memoryStore) deleteMany(collection string, query bson.M) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	kept := s.collections[collection][:0]
	for _, doc := range s.collections[collection] {
		if matchesQuery(doc, query) {
			deleted++
		} else {
			kept = append(kept, doc)
		}
	}
	s.collections[collection] = kept
	return deleted
}

func (s *memoryStore) countDocuments(collection string, query bson.M) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, doc := range s.collections[collection] {
		if matchesQuery(doc, query) {
			count++
		}
	}
	return count
}

func (s *memoryStore) dropCollection(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collection)
}
