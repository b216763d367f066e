package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveBody(id, title, timestamp string) map[string]any {
	saveData := map[string]any{"title": title, "timestamp": timestamp}
	if id != "" {
		saveData["id"] = id
	}
	return map[string]any{
		"save_data": saveData,
		"game_data": map[string]any{
			"title":    title,
			"entities": []any{map[string]any{"name": "hero", "type": "player"}},
		},
	}
}

func TestSaveAndLoadGame(t *testing.T) {
	r := newTestServer(t).router()

	w := doRequest(t, r, http.MethodPost, "/api/game/save", saveBody("quest-1", "Quest", "2026-01-02T00:00:00Z"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "quest-1", body["save_id"])

	w = doRequest(t, r, http.MethodGet, "/api/game/load/quest-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var game map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &game))
	assert.Equal(t, "Quest", game["title"])
	entities, ok := game["entities"].([]any)
	require.True(t, ok)
	assert.Len(t, entities, 1)
}

func TestSaveGeneratesID(t *testing.T) {
	r := newTestServer(t).router()

	w := doRequest(t, r, http.MethodPost, "/api/game/save", saveBody("", "Untitled", "2026-01-01T00:00:00Z"))
	require.Equal(t, http.StatusOK, w.Code)

	id, _ := decodeBody(t, w)["save_id"].(string)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "generated id %q should be a uuid", id)
}

func TestSaveRejectsUnsafeIDs(t *testing.T) {
	r := newTestServer(t).router()

	for _, id := range []string{"../evil", "a/b", "dot.dot", "sp ace"} {
		w := doRequest(t, r, http.MethodPost, "/api/game/save", saveBody(id, "Bad", "2026-01-01T00:00:00Z"))
		require.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)
		assert.Equal(t, "Invalid save id", decodeBody(t, w)["detail"])
	}

	w := doRequest(t, r, http.MethodGet, "/api/game/load/dot.dot", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/api/game/save/dot.dot", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoadMissingGame(t *testing.T) {
	r := newTestServer(t).router()

	w := doRequest(t, r, http.MethodGet, "/api/game/load/never-saved", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Saved game not found", decodeBody(t, w)["detail"])
}

func TestListSavesNewestFirst(t *testing.T) {
	r := newTestServer(t).router()

	// Empty directory lists as an empty array, not an error.
	w := doRequest(t, r, http.MethodGet, "/api/game/saves", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var empty []any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &empty))
	assert.Empty(t, empty)

	doRequest(t, r, http.MethodPost, "/api/game/save", saveBody("older", "Old", "2026-01-01T00:00:00Z"))
	doRequest(t, r, http.MethodPost, "/api/game/save", saveBody("newer", "New", "2026-06-01T00:00:00Z"))

	w = doRequest(t, r, http.MethodGet, "/api/game/saves", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var saves []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saves))
	require.Len(t, saves, 2)
	assert.Equal(t, "newer", saves[0]["id"])
	assert.Equal(t, "older", saves[1]["id"])
}

func TestDeleteSave(t *testing.T) {
	r := newTestServer(t).router()
	doRequest(t, r, http.MethodPost, "/api/game/save", saveBody("doomed", "Doomed", "2026-01-01T00:00:00Z"))

	w := doRequest(t, r, http.MethodDelete, "/api/game/save/doomed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Deleted 2 files for save doomed", decodeBody(t, w)["message"])

	w = doRequest(t, r, http.MethodGet, "/api/game/load/doomed", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Deleting again is not an error; there is just nothing left.
	w = doRequest(t, r, http.MethodDelete, "/api/game/save/doomed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Deleted 0 files for save doomed", decodeBody(t, w)["message"])
}

func TestMetaTimestampOrdering(t *testing.T) {
	cases := []struct {
		name string
		meta map[string]any
		want string
	}{
		{"string", map[string]any{"timestamp": "2026-01-01"}, "2026-01-01"},
		{"number", map[string]any{"timestamp": 1700000000.0}, "1700000000"},
		{"missing", map[string]any{}, ""},
		{"wrong_type", map[string]any{"timestamp": true}, ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, metaTimestamp(c.meta))
		})
	}
}
