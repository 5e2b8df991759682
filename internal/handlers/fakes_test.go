package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/promesto/backend/internal/auth"
	"github.com/promesto/backend/internal/models"
	"github.com/promesto/backend/internal/repository"
	"github.com/promesto/backend/internal/service"
	"github.com/promesto/backend/internal/utils"
)

// Fake services for handler tests

type fakeAuthService struct {
	user    *models.User
	tokens  *service.TokenPair
	authErr error
}

func (f *fakeAuthService) AuthURL(state string) string {
	return "https://accounts.google.com/o/oauth2/v2/auth?state=" + state
}

func (f *fakeAuthService) SignInWithGoogle(ctx context.Context, code string) (*models.User, *service.TokenPair, error) {
	if f.authErr != nil {
		return nil, nil, f.authErr
	}
	return f.user, f.tokens, nil
}

func (f *fakeAuthService) Refresh(refreshToken string) (*service.TokenPair, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.tokens, nil
}

func (f *fakeAuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	if f.user == nil || f.user.ID != userID {
		return nil, utils.NewNotFoundError("User", userID)
	}
	return f.user, nil
}

type fakePlaceService struct {
	place      *models.Place
	visibility *models.VisibilityResult
	favorite   *models.FavoriteResult
	like       *models.LikeResult
	err        error

	lastUserID  int64
	lastPlaceID int64
	lastForm    *models.PlaceForm
}

func (f *fakePlaceService) CreatePlace(ctx context.Context, ownerID int64, form *models.PlaceForm) (*models.Place, error) {
	f.lastUserID = ownerID
	f.lastForm = form
	return f.place, f.err
}

func (f *fakePlaceService) UpdatePlace(ctx context.Context, userID, placeID int64, form *models.PlaceForm) (*models.Place, error) {
	f.lastUserID, f.lastPlaceID = userID, placeID
	f.lastForm = form
	return f.place, f.err
}

func (f *fakePlaceService) DeletePlace(ctx context.Context, userID, placeID int64) error {
	f.lastUserID, f.lastPlaceID = userID, placeID
	return f.err
}

func (f *fakePlaceService) ToggleVisibility(ctx context.Context, userID, placeID int64) (*models.VisibilityResult, error) {
	f.lastUserID, f.lastPlaceID = userID, placeID
	return f.visibility, f.err
}

func (f *fakePlaceService) ToggleFavorite(ctx context.Context, userID, placeID int64) (*models.FavoriteResult, error) {
	f.lastUserID, f.lastPlaceID = userID, placeID
	return f.favorite, f.err
}

func (f *fakePlaceService) ToggleLike(ctx context.Context, userID, placeID int64) (*models.LikeResult, error) {
	f.lastUserID, f.lastPlaceID = userID, placeID
	return f.like, f.err
}

type fakeQueryService struct {
	placePage *service.PlacePage
	notePage  *service.NotePage
	err       error

	lastViewerID int64
	lastFilter   repository.PlaceFilter
}

func (f *fakeQueryService) ListOwned(ctx context.Context, ownerID int64, filter repository.PlaceFilter) (*service.PlacePage, error) {
	f.lastViewerID, f.lastFilter = ownerID, filter
	return f.placePage, f.err
}

func (f *fakeQueryService) ListPublic(ctx context.Context, viewerID int64, filter repository.PlaceFilter) (*service.PlacePage, error) {
	f.lastViewerID, f.lastFilter = viewerID, filter
	return f.placePage, f.err
}

func (f *fakeQueryService) ListFavorites(ctx context.Context, ownerID int64, filter repository.PlaceFilter) (*service.PlacePage, error) {
	f.lastViewerID, f.lastFilter = ownerID, filter
	return f.placePage, f.err
}

func (f *fakeQueryService) ListNotes(ctx context.Context, userID int64, page, pageSize int) (*service.NotePage, error) {
	f.lastViewerID = userID
	return f.notePage, f.err
}

type fakeViewDBService struct {
	tables []service.TableMeta
	rows   []map[string]interface{}
	total  int
	newID  int64
	err    error

	lastTarget string
	lastTable  string
	lastID     int64
	lastValues map[string]interface{}
}

func (f *fakeViewDBService) ListTables(target string) ([]service.TableMeta, error) {
	f.lastTarget = target
	return f.tables, f.err
}

func (f *fakeViewDBService) ListRows(ctx context.Context, target, table string, page, pageSize int) ([]map[string]interface{}, int, error) {
	f.lastTarget, f.lastTable = target, table
	return f.rows, f.total, f.err
}

func (f *fakeViewDBService) CreateRow(ctx context.Context, target, table string, values map[string]interface{}) (int64, error) {
	f.lastTarget, f.lastTable, f.lastValues = target, table, values
	return f.newID, f.err
}

func (f *fakeViewDBService) UpdateRow(ctx context.Context, target, table string, id int64, values map[string]interface{}) error {
	f.lastTarget, f.lastTable, f.lastID, f.lastValues = target, table, id, values
	return f.err
}

func (f *fakeViewDBService) DeleteRow(ctx context.Context, target, table string, id int64) error {
	f.lastTarget, f.lastTable, f.lastID = target, table, id
	return f.err
}

// Request helpers

// asUser attaches an authenticated user ID to the request context.
func asUser(r *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(r.Context(), auth.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

// withURLParams attaches chi URL parameters to the request context.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx)
	return r.WithContext(ctx)
}

// withPlaceID attaches a place ID path parameter to the request context.
func withPlaceID(r *http.Request, placeID int64) *http.Request {
	return withURLParams(r, map[string]string{"id": strconv.FormatInt(placeID, 10)})
}

func doRequest(t *testing.T, handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	recorder := httptest.NewRecorder()
	handler(recorder, r)
	return recorder
}
