package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/service"
	"github.com/promesto/backend/internal/utils"
)

func browserParams(target, table, id string) map[string]string {
	params := map[string]string{"target": target}
	if table != "" {
		params["table"] = table
	}
	if id != "" {
		params["id"] = id
	}
	return params
}

func TestViewDBListTablesHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		viewDB := &fakeViewDBService{tables: []service.TableMeta{
			{Key: "users", Label: "Users", IDColumn: "user_id"},
		}}
		handler := NewViewDBHandler(viewDB)

		request := httptest.NewRequest(http.MethodGet, "/api/admin/db/local/tables", nil)
		request = withURLParams(request, browserParams("local", "", ""))
		recorder := doRequest(t, handler.ListTables, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "local", viewDB.lastTarget)
		assert.Contains(t, recorder.Body.String(), `"id_column":"user_id"`)
	})

	t.Run("UnknownTargetIs404", func(t *testing.T) {
		viewDB := &fakeViewDBService{err: utils.NewNotFoundError("Database target", "staging")}
		handler := NewViewDBHandler(viewDB)

		request := httptest.NewRequest(http.MethodGet, "/api/admin/db/staging/tables", nil)
		request = withURLParams(request, browserParams("staging", "", ""))
		recorder := doRequest(t, handler.ListTables, request)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestViewDBListRowsHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		viewDB := &fakeViewDBService{
			rows:  []map[string]interface{}{{"note_id": int64(1), "title": "Packing list"}},
			total: 8,
		}
		handler := NewViewDBHandler(viewDB)

		request := httptest.NewRequest(http.MethodGet, "/api/admin/db/local/notes?page=1", nil)
		request = withURLParams(request, browserParams("local", "notes", ""))
		recorder := doRequest(t, handler.ListRows, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "notes", viewDB.lastTable)

		response := decodeResponse(t, recorder)
		require.NotNil(t, response.Meta)
		assert.Equal(t, 8, response.Meta.TotalItems)
	})

	t.Run("TimeoutCarriesDistinguishedMessage", func(t *testing.T) {
		viewDB := &fakeViewDBService{err: utils.NewTimeoutError(constants.MsgViewDBTimeout, nil)}
		handler := NewViewDBHandler(viewDB)

		request := httptest.NewRequest(http.MethodGet, "/api/admin/db/production/notes", nil)
		request = withURLParams(request, browserParams("production", "notes", ""))
		recorder := doRequest(t, handler.ListRows, request)

		assert.Equal(t, http.StatusGatewayTimeout, recorder.Code)
		assert.Contains(t, recorder.Body.String(), constants.MsgViewDBTimeout)
	})
}

func TestViewDBCreateRowHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		viewDB := &fakeViewDBService{newID: 3}
		handler := NewViewDBHandler(viewDB)

		body := strings.NewReader(`{"name": "Hiking"}`)
		request := httptest.NewRequest(http.MethodPost, "/api/admin/db/local/categories", body)
		request = withURLParams(request, browserParams("local", "categories", ""))
		recorder := doRequest(t, handler.CreateRow, request)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"id":3`)
		assert.Equal(t, "Hiking", viewDB.lastValues["name"])
	})

	t.Run("MalformedBodyIs400", func(t *testing.T) {
		handler := NewViewDBHandler(&fakeViewDBService{})

		body := strings.NewReader(`{"name": `)
		request := httptest.NewRequest(http.MethodPost, "/api/admin/db/local/categories", body)
		request = withURLParams(request, browserParams("local", "categories", ""))
		recorder := doRequest(t, handler.CreateRow, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestViewDBUpdateRowHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		viewDB := &fakeViewDBService{}
		handler := NewViewDBHandler(viewDB)

		body := strings.NewReader(`{"title": "New title"}`)
		request := httptest.NewRequest(http.MethodPut, "/api/admin/db/local/notes/5", body)
		request = withURLParams(request, browserParams("local", "notes", "5"))
		recorder := doRequest(t, handler.UpdateRow, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, int64(5), viewDB.lastID)
	})

	t.Run("InvalidIDIs400", func(t *testing.T) {
		handler := NewViewDBHandler(&fakeViewDBService{})

		body := strings.NewReader(`{"title": "New title"}`)
		request := httptest.NewRequest(http.MethodPut, "/api/admin/db/local/notes/zero", body)
		request = withURLParams(request, browserParams("local", "notes", "zero"))
		recorder := doRequest(t, handler.UpdateRow, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestViewDBDeleteRowHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		viewDB := &fakeViewDBService{}
		handler := NewViewDBHandler(viewDB)

		request := httptest.NewRequest(http.MethodDelete, "/api/admin/db/local/likes/4", nil)
		request = withURLParams(request, browserParams("local", "likes", "4"))
		recorder := doRequest(t, handler.DeleteRow, request)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Equal(t, int64(4), viewDB.lastID)
	})

	t.Run("MissingRowIs404", func(t *testing.T) {
		viewDB := &fakeViewDBService{err: utils.NewNotFoundError("Row", 999)}
		handler := NewViewDBHandler(viewDB)

		request := httptest.NewRequest(http.MethodDelete, "/api/admin/db/local/likes/999", nil)
		request = withURLParams(request, browserParams("local", "likes", "999"))
		recorder := doRequest(t, handler.DeleteRow, request)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
