package service

import (
	"context"
	"sort"
	"time"

	"github.com/promesto/backend/internal/models"
	"github.com/promesto/backend/internal/repository"
	"github.com/promesto/backend/internal/utils"
)

// Mock implementations for testing

// MockPlaceRepository is an in-memory PlaceRepository
type MockPlaceRepository struct {
	places  map[int64]*models.Place
	nextID  int64
	likes   *MockLikeRepository
	failure error // when set, every method fails with this error
}

func NewMockPlaceRepository(likes *MockLikeRepository) *MockPlaceRepository {
	return &MockPlaceRepository{
		places: make(map[int64]*models.Place),
		nextID: 1,
		likes:  likes,
	}
}

func (m *MockPlaceRepository) Create(ctx context.Context, place *models.Place) error {
	if m.failure != nil {
		return m.failure
	}
	place.ID = m.nextID
	m.nextID++
	copied := *place
	m.places[place.ID] = &copied
	return nil
}

func (m *MockPlaceRepository) GetByID(ctx context.Context, id int64) (*models.Place, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	place, ok := m.places[id]
	if !ok {
		return nil, utils.NewNotFoundError("Place", id)
	}
	copied := *place
	return &copied, nil
}

func (m *MockPlaceRepository) Update(ctx context.Context, place *models.Place) error {
	if m.failure != nil {
		return m.failure
	}
	stored, ok := m.places[place.ID]
	if !ok {
		return utils.NewNotFoundError("Place", place.ID)
	}
	stored.Title = place.Title
	stored.Content = place.Content
	stored.CategoryID = place.CategoryID
	stored.Visibility = place.Visibility
	stored.UpdatedAt = time.Now()
	return nil
}

func (m *MockPlaceRepository) Delete(ctx context.Context, id int64) error {
	if m.failure != nil {
		return m.failure
	}
	if _, ok := m.places[id]; !ok {
		return utils.NewNotFoundError("Place", id)
	}
	delete(m.places, id)
	return nil
}

func (m *MockPlaceRepository) SetVisibility(ctx context.Context, id int64, visibility string) error {
	if m.failure != nil {
		return m.failure
	}
	place, ok := m.places[id]
	if !ok {
		return utils.NewNotFoundError("Place", id)
	}
	place.Visibility = visibility
	return nil
}

func (m *MockPlaceRepository) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	if m.failure != nil {
		return m.failure
	}
	place, ok := m.places[id]
	if !ok {
		return utils.NewNotFoundError("Place", id)
	}
	place.IsFavorite = favorite
	return nil
}

func (m *MockPlaceRepository) ListOwned(ctx context.Context, ownerID int64, filter repository.PlaceFilter) ([]*models.PlaceWithLikes, int, error) {
	return m.list(func(p *models.Place) bool { return p.OwnerID == ownerID }, ownerID, filter, byUpdated)
}

func (m *MockPlaceRepository) ListPublic(ctx context.Context, viewerID int64, filter repository.PlaceFilter) ([]*models.PlaceWithLikes, int, error) {
	return m.list(func(p *models.Place) bool { return p.IsPublic() }, viewerID, filter, byCreated)
}

func (m *MockPlaceRepository) ListFavorites(ctx context.Context, ownerID int64, filter repository.PlaceFilter) ([]*models.PlaceWithLikes, int, error) {
	return m.list(func(p *models.Place) bool { return p.OwnerID == ownerID && p.IsFavorite }, ownerID, filter, byUpdated)
}

// byUpdated orders last edited first; own lists use it.
func byUpdated(a, b *models.PlaceWithLikes) bool {
	if a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.ID > b.ID
	}
	return a.UpdatedAt.After(b.UpdatedAt)
}

// byCreated orders newest first; the public "recent" sort uses it.
func byCreated(a, b *models.PlaceWithLikes) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func (m *MockPlaceRepository) list(match func(*models.Place) bool, viewerID int64, filter repository.PlaceFilter, less func(a, b *models.PlaceWithLikes) bool) ([]*models.PlaceWithLikes, int, error) {
	if m.failure != nil {
		return nil, 0, m.failure
	}

	var matched []*models.PlaceWithLikes
	for _, place := range m.places {
		if !match(place) {
			continue
		}
		entry := &models.PlaceWithLikes{Place: *place}
		if m.likes != nil {
			entry.LikesCount = m.likes.countFor(place.ID)
			entry.LikedByViewer = m.likes.heldBy(viewerID, place.ID)
		}
		matched = append(matched, entry)
	}

	// Stable across runs; the tie-break mirrors serial ID assignment
	sort.Slice(matched, func(i, j int) bool {
		return less(matched[i], matched[j])
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.PageSize
	if start > total {
		start = total
	}
	end := start + filter.PageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

// MockLikeRepository is an in-memory LikeRepository
type MockLikeRepository struct {
	likes   map[int64]*models.Like
	nextID  int64
	failure error
}

func NewMockLikeRepository() *MockLikeRepository {
	return &MockLikeRepository{
		likes:  make(map[int64]*models.Like),
		nextID: 1,
	}
}

func (m *MockLikeRepository) countFor(placeID int64) int {
	count := 0
	for _, like := range m.likes {
		if like.PlaceID == placeID {
			count++
		}
	}
	return count
}

func (m *MockLikeRepository) heldBy(userID, placeID int64) bool {
	for _, like := range m.likes {
		if like.UserID == userID && like.PlaceID == placeID {
			return true
		}
	}
	return false
}

func (m *MockLikeRepository) GetByUserAndPlace(ctx context.Context, userID, placeID int64) (*models.Like, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	for _, like := range m.likes {
		if like.UserID == userID && like.PlaceID == placeID {
			copied := *like
			return &copied, nil
		}
	}
	return nil, utils.NewNotFoundError("Like", placeID)
}

func (m *MockLikeRepository) Create(ctx context.Context, like *models.Like) error {
	if m.failure != nil {
		return m.failure
	}
	if m.heldBy(like.UserID, like.PlaceID) {
		return utils.NewDuplicateError("Like", "place_id", like.PlaceID)
	}
	like.ID = m.nextID
	m.nextID++
	copied := *like
	m.likes[like.ID] = &copied
	return nil
}

func (m *MockLikeRepository) Delete(ctx context.Context, userID, placeID int64) error {
	if m.failure != nil {
		return m.failure
	}
	for id, like := range m.likes {
		if like.UserID == userID && like.PlaceID == placeID {
			delete(m.likes, id)
			return nil
		}
	}
	return utils.NewNotFoundError("Like", placeID)
}

func (m *MockLikeRepository) CountByPlace(ctx context.Context, placeID int64) (int, error) {
	if m.failure != nil {
		return 0, m.failure
	}
	return m.countFor(placeID), nil
}

// MockNoteRepository is an in-memory NoteRepository
type MockNoteRepository struct {
	notes   []*models.Note
	nextID  int64
	failure error
}

func NewMockNoteRepository() *MockNoteRepository {
	return &MockNoteRepository{nextID: 1}
}

func (m *MockNoteRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]*models.Note, int, error) {
	if m.failure != nil {
		return nil, 0, m.failure
	}

	var matched []*models.Note
	for _, note := range m.notes {
		if note.UserID == userID {
			matched = append(matched, note)
		}
	}

	total := len(matched)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (m *MockNoteRepository) Create(ctx context.Context, note *models.Note) error {
	if m.failure != nil {
		return m.failure
	}
	note.ID = m.nextID
	m.nextID++
	copied := *note
	m.notes = append(m.notes, &copied)
	return nil
}

// MockUserRepository is an in-memory UserRepository
type MockUserRepository struct {
	users   map[int64]*models.User
	nextID  int64
	failure error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[int64]*models.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.failure != nil {
		return nil, m.failure
	}
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, utils.NewNotFoundError("User", email)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) error {
	if m.failure != nil {
		return m.failure
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			existing.Name = user.Name
			existing.Image = user.Image
			user.ID = existing.ID
			return nil
		}
	}
	user.ID = m.nextID
	m.nextID++
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.failure != nil {
		return m.failure
	}
	if _, ok := m.users[id]; !ok {
		return utils.NewNotFoundError("User", id)
	}
	delete(m.users, id)
	return nil
}
