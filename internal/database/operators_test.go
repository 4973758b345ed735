package database

import (
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestApplyUpdateSet(t *testing.T) {
	doc := bson.M{"_id": "1", "name": "old", "kills": int64(3)}
	applyUpdate(doc, bson.M{"$set": bson.M{"name": "new"}}, false)

	if doc["name"] != "new" {
		t.Errorf("name = %v, want new", doc["name"])
	}
	if doc["kills"] != int64(3) {
		t.Errorf("kills = %v, want 3", doc["kills"])
	}
}

func TestApplyUpdateSetDottedPath(t *testing.T) {
	doc := bson.M{"_id": "1"}
	applyUpdate(doc, bson.M{"$set": bson.M{"settings.prefix": "!"}}, false)

	settings, ok := doc["settings"].(bson.M)
	if !ok {
		t.Fatalf("settings = %T, want bson.M", doc["settings"])
	}
	if settings["prefix"] != "!" {
		t.Errorf("settings.prefix = %v, want !", settings["prefix"])
	}
}

func TestApplyUpdateSetOnInsert(t *testing.T) {
	tests := []struct {
		name     string
		isInsert bool
		want     interface{}
	}{
		{name: "applied on insert", isInsert: true, want: 1},
		{name: "ignored on update", isInsert: false, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := bson.M{"_id": "1"}
			applyUpdate(doc, bson.M{"$setOnInsert": bson.M{"level": 1}}, tt.isInsert)
			if doc["level"] != tt.want {
				t.Errorf("level = %v, want %v", doc["level"], tt.want)
			}
		})
	}
}

func TestApplyUpdateInc(t *testing.T) {
	tests := []struct {
		name   string
		doc    bson.M
		inc    bson.M
		field  string
		want   interface{}
	}{
		{
			name:  "adds to existing integer",
			doc:   bson.M{"kills": int64(5)},
			inc:   bson.M{"kills": int64(2)},
			field: "kills",
			want:  int64(7),
		},
		{
			name:  "creates missing field at delta",
			doc:   bson.M{},
			inc:   bson.M{"kills": int64(4)},
			field: "kills",
			want:  int64(4),
		},
		{
			name:  "negative delta subtracts",
			doc:   bson.M{"bounty_value": int64(100)},
			inc:   bson.M{"bounty_value": int64(-40)},
			field: "bounty_value",
			want:  int64(60),
		},
		{
			name:  "mixed int widths stay integral",
			doc:   bson.M{"total": int32(1)},
			inc:   bson.M{"total": 1},
			field: "total",
			want:  int64(2),
		},
		{
			name:  "float delta widens to float",
			doc:   bson.M{"score": int64(1)},
			inc:   bson.M{"score": 0.5},
			field: "score",
			want:  1.5,
		},
		{
			name:  "non-numeric target untouched",
			doc:   bson.M{"name": "abc"},
			inc:   bson.M{"name": int64(1)},
			field: "name",
			want:  "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			applyUpdate(tt.doc, bson.M{"$inc": tt.inc}, false)
			if got, _ := getPath(tt.doc, tt.field); got != tt.want {
				t.Errorf("%s = %v (%T), want %v (%T)", tt.field, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestApplyUpdateUnset(t *testing.T) {
	doc := bson.M{"_id": "1", "verification_code": "ABC", "nested": bson.M{"a": 1, "b": 2}}
	applyUpdate(doc, bson.M{"$unset": bson.M{"verification_code": "", "nested.a": ""}}, false)

	if _, ok := doc["verification_code"]; ok {
		t.Error("verification_code still present after $unset")
	}
	nested := doc["nested"].(bson.M)
	if _, ok := nested["a"]; ok {
		t.Error("nested.a still present after $unset")
	}
	if nested["b"] != 2 {
		t.Errorf("nested.b = %v, want 2", nested["b"])
	}
}

func TestApplyUpdateAddToSet(t *testing.T) {
	doc := bson.M{"servers": []interface{}{"s1"}}

	applyUpdate(doc, bson.M{"$addToSet": bson.M{"servers": "s2"}}, false)
	applyUpdate(doc, bson.M{"$addToSet": bson.M{"servers": "s2"}}, false)

	got := asList(doc["servers"])
	want := []interface{}{"s1", "s2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("servers = %v, want %v", got, want)
	}
}

func TestApplyUpdatePull(t *testing.T) {
	doc := bson.M{"servers": []interface{}{"s1", "s2", "s1"}}
	applyUpdate(doc, bson.M{"$pull": bson.M{"servers": "s1"}}, false)

	got := asList(doc["servers"])
	want := []interface{}{"s2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("servers = %v, want %v", got, want)
	}
}

func TestApplyUpdateReplacement(t *testing.T) {
	doc := bson.M{"_id": "keep", "old": "field", "kills": int64(3)}
	applyUpdate(doc, bson.M{"name": "fresh", "_id": "evil"}, false)

	want := bson.M{"_id": "keep", "name": "fresh"}
	if !reflect.DeepEqual(doc, want) {
		t.Errorf("doc = %v, want %v", doc, want)
	}
}

func TestApplyUpdateUnknownOperatorIgnored(t *testing.T) {
	doc := bson.M{"_id": "1", "kills": int64(3)}
	applyUpdate(doc, bson.M{"$rename": bson.M{"kills": "frags"}}, false)

	if doc["kills"] != int64(3) {
		t.Errorf("kills = %v, want untouched 3", doc["kills"])
	}
}

func TestMatchesQuery(t *testing.T) {
	now := time.Now().UTC()
	doc := bson.M{
		"_id":      "1",
		"name":     "raven",
		"kills":    int64(10),
		"due_at":   now,
		"settings": bson.M{"prefix": "!"},
	}

	tests := []struct {
		name  string
		query bson.M
		want  bool
	}{
		{name: "empty query matches", query: bson.M{}, want: true},
		{name: "equality match", query: bson.M{"name": "raven"}, want: true},
		{name: "equality mismatch", query: bson.M{"name": "crow"}, want: false},
		{name: "missing field", query: bson.M{"ghost": "x"}, want: false},
		{name: "dotted path equality", query: bson.M{"settings.prefix": "!"}, want: true},
		{name: "numeric equality across widths", query: bson.M{"kills": 10}, want: true},
		{name: "lt true", query: bson.M{"kills": bson.M{"$lt": int64(11)}}, want: true},
		{name: "lt false", query: bson.M{"kills": bson.M{"$lt": int64(10)}}, want: false},
		{name: "lte boundary", query: bson.M{"kills": bson.M{"$lte": int64(10)}}, want: true},
		{name: "gt false", query: bson.M{"kills": bson.M{"$gt": int64(10)}}, want: false},
		{name: "gte boundary", query: bson.M{"kills": bson.M{"$gte": int64(10)}}, want: true},
		{name: "ne mismatch matches", query: bson.M{"name": bson.M{"$ne": "crow"}}, want: true},
		{name: "ne equal fails", query: bson.M{"name": bson.M{"$ne": "raven"}}, want: false},
		{name: "ne missing field matches", query: bson.M{"ghost": bson.M{"$ne": "x"}}, want: true},
		{name: "in hit", query: bson.M{"name": bson.M{"$in": []interface{}{"crow", "raven"}}}, want: true},
		{name: "in miss", query: bson.M{"name": bson.M{"$in": []interface{}{"crow"}}}, want: false},
		{name: "comparison on missing field fails", query: bson.M{"ghost": bson.M{"$lt": 5}}, want: false},
		{name: "time lte", query: bson.M{"due_at": bson.M{"$lte": now.Add(time.Second)}}, want: true},
		{name: "time lt fails for future cutoff in past", query: bson.M{"due_at": bson.M{"$lt": now.Add(-time.Second)}}, want: false},
		{name: "unknown operator never matches", query: bson.M{"kills": bson.M{"$mod": 2}}, want: false},
		{name: "combined range", query: bson.M{"kills": bson.M{"$gte": 5, "$lt": 20}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesQuery(doc, tt.query); got != tt.want {
				t.Errorf("matchesQuery(%v) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSortDocuments(t *testing.T) {
	docs := []bson.M{
		{"name": "c", "kills": int64(5)},
		{"name": "a", "kills": int64(9)},
		{"name": "b", "kills": int64(5)},
		{"name": "d"},
	}

	sortDocuments(docs, []SortField{
		{Key: "kills", Descending: true},
		{Key: "name"},
	})

	gotNames := make([]string, len(docs))
	for i, doc := range docs {
		gotNames[i] = doc["name"].(string)
	}
	// Descending by kills puts the missing-kills doc last; ties break by name.
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(gotNames, want) {
		t.Errorf("order = %v, want %v", gotNames, want)
	}
}

func TestSortDocumentsMissingFieldAscending(t *testing.T) {
	docs := []bson.M{
		{"name": "has", "level": 2},
		{"name": "missing"},
	}
	sortDocuments(docs, []SortField{{Key: "level"}})

	if docs[0]["name"] != "missing" {
		t.Errorf("first = %v, want the document missing the sort field", docs[0]["name"])
	}
}

func TestCloneDocIsolation(t *testing.T) {
	original := bson.M{
		"nested": bson.M{"a": 1},
		"list":   []interface{}{"x"},
	}
	clone := cloneDoc(original)

	clone["nested"].(bson.M)["a"] = 2
	clone["list"] = append(clone["list"].([]interface{}), "y")

	if original["nested"].(bson.M)["a"] != 1 {
		t.Error("mutating the clone changed the original nested document")
	}
	if len(original["list"].([]interface{})) != 1 {
		t.Error("mutating the clone changed the original list")
	}
}
