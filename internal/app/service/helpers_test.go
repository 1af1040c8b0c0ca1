package service

import (
	"context"
	"testing"
	"time"

	"blog_api/internal/common"
	"blog_api/internal/common/security"
	"blog_api/internal/domain/model"
	"blog_api/internal/platform/config"
)

func setTestConfig(t *testing.T, validity time.Duration) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: validity,
	}
	security.InitJWT()
}

// fakeUserRepo is an in-memory credential store.
type fakeUserRepo struct {
	users map[string]*model.User // keyed by id

	createErr error
	updateErr error

	lastChanges map[string]interface{}
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return common.ErrConflict
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdatePartial(ctx context.Context, id string, changes map[string]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[id]
	if !ok {
		return common.ErrNotFound
	}
	f.lastChanges = changes
	if name, ok := changes["name"].(string); ok {
		u.Name = name
	}
	if surname, ok := changes["surname"].(string); ok {
		u.Surname = surname
	}
	if email, ok := changes["email"].(string); ok {
		u.Email = email
	}
	u.UpdatedAt = time.Now()
	return nil
}

// seedUser registers a user with a bcrypt-hashed password directly in the
// fake store and returns it.
func seedUser(t *testing.T, repo *fakeUserRepo, id, name, surname, email, password string) *model.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	user := &model.User{
		ID:             id,
		Name:           name,
		Surname:        surname,
		Email:          email,
		HashedPassword: hash,
		Role:           model.RoleUser,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	repo.users[id] = user
	return user
}

// fakeBlobStore records writes so tests can assert nothing was stored on a
// rejected upload.
type fakeBlobStore struct {
	blobs map[string][]byte
	puts  int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	f.puts++
	f.blobs[key] = data
	return nil
}

func (f *fakeBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return data, nil
}

func (f *fakeBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.blobs[key]
	return ok, nil
}

// fakeCategoryRepo is an in-memory category store.
type fakeCategoryRepo struct {
	categories map[string]*model.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[string]*model.Category)}
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	out := []model.Category{}
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id string) (*model.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	for _, c := range f.categories {
		if c.Slug == category.Slug {
			return common.ErrConflict
		}
	}
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	clone := *category
	f.categories[category.ID] = &clone
	return nil
}

func (f *fakeCategoryRepo) Update(ctx context.Context, category *model.Category) error {
	if _, ok := f.categories[category.ID]; !ok {
		return common.ErrNotFound
	}
	clone := *category
	f.categories[category.ID] = &clone
	return nil
}

func (f *fakeCategoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.categories[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}
