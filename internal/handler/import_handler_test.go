package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesseglab/postduck/internal/model"
)

const importFixture = `{
  "info": {"name": "Duck API", "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"},
  "item": [
    {
      "name": "Ping",
      "request": {"method": "GET", "url": {"raw": "https://api.example.com/ping"}}
    },
    {
      "name": "Users",
      "item": [
        {
          "name": "List Users",
          "request": {"method": "GET", "url": {"raw": "https://api.example.com/users"}}
        }
      ]
    }
  ]
}`

func TestImportPostmanEndpoint(t *testing.T) {
	repo := newMemRepo()
	h := NewImportHandler(repo, log.New(io.Discard, "", 0))

	dto := model.DTOImportPostmanRequest{
		WorkspaceID: "ws-1",
		Collection:  importFixture,
	}

	w := httptest.NewRecorder()
	h.ImportPostman(w, authedRequest(t, http.MethodPost, "/api/v1/import/postman", dto, model.RoleStarNavigator))
	require.Equal(t, http.StatusCreated, w.Code)

	var summary importSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.Collections) // document root + Users folder
	assert.Equal(t, 2, summary.Requests)

	// Document becomes the root collection; the folder hangs off it.
	require.Len(t, repo.collection.collections, 2)
	root := repo.collection.collections[0]
	folder := repo.collection.collections[1]
	assert.Equal(t, "Duck API", root.Name)
	assert.Nil(t, root.ParentID)
	assert.Equal(t, "Users", folder.Name)
	require.NotNil(t, folder.ParentID)
	assert.Equal(t, root.ID, *folder.ParentID)

	// Top-level request lands in the root, nested request in the folder.
	require.Len(t, repo.request.requests, 2)
	assert.Equal(t, root.ID, repo.request.requests[0].CollectionID)
	assert.Equal(t, folder.ID, repo.request.requests[1].CollectionID)
}

func TestImportPostmanEndpointRejectsMalformedDocument(t *testing.T) {
	repo := newMemRepo()
	h := NewImportHandler(repo, log.New(io.Discard, "", 0))

	dto := model.DTOImportPostmanRequest{
		WorkspaceID: "ws-1",
		Collection:  `{"not": "a collection"}`,
	}

	w := httptest.NewRecorder()
	h.ImportPostman(w, authedRequest(t, http.MethodPost, "/api/v1/import/postman", dto, model.RoleStarNavigator))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.collection.collections)
}

func TestImportPostmanEndpointRequiresWriteRole(t *testing.T) {
	repo := newMemRepo()
	h := NewImportHandler(repo, log.New(io.Discard, "", 0))

	dto := model.DTOImportPostmanRequest{
		WorkspaceID: "ws-1",
		Collection:  importFixture,
	}

	w := httptest.NewRecorder()
	h.ImportPostman(w, authedRequest(t, http.MethodPost, "/api/v1/import/postman", dto, model.RoleCosmicObserver))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, repo.collection.collections)
}
