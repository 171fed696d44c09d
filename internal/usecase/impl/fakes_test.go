package impl

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"warden/config"
	"warden/internal/domain/entity"
	"warden/internal/domain/repository"
	"warden/internal/domain/service"
	"warden/internal/infra/auth"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeStore is a shared in-memory backing store. All fake repositories read
// and write the same maps so cross-repository effects (revoking sessions on
// reset, counting role references before delete) behave like one database.
type fakeStore struct {
	users     map[uuid.UUID]*entity.User
	roles     map[uuid.UUID]*entity.Role
	perms     map[uuid.UUID]*entity.Permission
	rolePerms map[uuid.UUID]map[uuid.UUID]struct{}
	userPerms map[uuid.UUID]map[uuid.UUID]struct{}
	tokens    map[string]*entity.RefreshToken
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[uuid.UUID]*entity.User),
		roles:     make(map[uuid.UUID]*entity.Role),
		perms:     make(map[uuid.UUID]*entity.Permission),
		rolePerms: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		userPerms: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		tokens:    make(map[string]*entity.RefreshToken),
	}
}

func (s *fakeStore) rolePermissions(roleID uuid.UUID) []*entity.Permission {
	perms := make([]*entity.Permission, 0)
	for permID := range s.rolePerms[roleID] {
		if perm, ok := s.perms[permID]; ok {
			perms = append(perms, perm)
		}
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].Name < perms[j].Name })

	return perms
}

func (s *fakeStore) userPermissions(userID uuid.UUID) []*entity.Permission {
	perms := make([]*entity.Permission, 0)
	for permID := range s.userPerms[userID] {
		if perm, ok := s.perms[permID]; ok {
			perms = append(perms, perm)
		}
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].Name < perms[j].Name })

	return perms
}

// decorateUser mimics the repository preloads: role with its permissions,
// plus the user's direct grants.
func (s *fakeStore) decorateUser(u *entity.User) *entity.User {
	cloned := *u
	if cloned.RoleID != nil {
		if role, ok := s.roles[*cloned.RoleID]; ok {
			roleCopy := *role
			roleCopy.Permissions = s.rolePermissions(role.ID)
			cloned.Role = &roleCopy
		}
	}
	cloned.Permissions = s.userPermissions(cloned.ID)

	return &cloned
}

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := r.store.users[id]; ok {
		return r.store.decorateUser(u), nil
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			return r.store.decorateUser(u), nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]*entity.User, error) {
	users := make([]*entity.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		users = append(users, r.store.decorateUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })

	return users, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	for _, u := range r.store.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.store.users[user.ID] = &stored

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	for _, u := range r.store.users {
		if u.ID != user.ID && u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.UpdatedAt = time.Now()
	stored := *user
	stored.Role = nil
	stored.Permissions = nil
	r.store.users[user.ID] = &stored

	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := r.store.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash

	return nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	u, ok := r.store.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.IsActive = active

	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.store.users, id)
	delete(r.store.userPerms, id)

	return nil
}

func (r *fakeUserRepo) CountByRoleID(_ context.Context, roleID uuid.UUID) (int64, error) {
	var count int64
	for _, u := range r.store.users {
		if u.RoleID != nil && *u.RoleID == roleID {
			count++
		}
	}

	return count, nil
}

type fakeRoleRepo struct{ store *fakeStore }

func (r *fakeRoleRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Role, error) {
	if role, ok := r.store.roles[id]; ok {
		cloned := *role
		cloned.Permissions = r.store.rolePermissions(id)

		return &cloned, nil
	}

	return nil, repository.ErrRoleNotFound
}

func (r *fakeRoleRepo) FindByName(_ context.Context, name string) (*entity.Role, error) {
	for _, role := range r.store.roles {
		if role.Name == name {
			cloned := *role
			cloned.Permissions = r.store.rolePermissions(role.ID)

			return &cloned, nil
		}
	}

	return nil, repository.ErrRoleNotFound
}

func (r *fakeRoleRepo) List(_ context.Context) ([]*entity.Role, error) {
	roles := make([]*entity.Role, 0, len(r.store.roles))
	for _, role := range r.store.roles {
		cloned := *role
		cloned.Permissions = r.store.rolePermissions(role.ID)
		roles = append(roles, &cloned)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Name < roles[j].Name })

	return roles, nil
}

func (r *fakeRoleRepo) Create(_ context.Context, role *entity.Role) error {
	for _, existing := range r.store.roles {
		if existing.Name == role.Name {
			return repository.ErrDuplicateRoleName
		}
	}
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	role.CreatedAt = time.Now()
	role.UpdatedAt = role.CreatedAt
	stored := *role
	stored.Permissions = nil
	r.store.roles[role.ID] = &stored

	return nil
}

func (r *fakeRoleRepo) Update(_ context.Context, role *entity.Role) error {
	if _, ok := r.store.roles[role.ID]; !ok {
		return repository.ErrRoleNotFound
	}
	for _, existing := range r.store.roles {
		if existing.ID != role.ID && existing.Name == role.Name {
			return repository.ErrDuplicateRoleName
		}
	}
	role.UpdatedAt = time.Now()
	stored := *role
	stored.Permissions = nil
	r.store.roles[role.ID] = &stored

	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.roles[id]; !ok {
		return repository.ErrRoleNotFound
	}
	delete(r.store.roles, id)
	delete(r.store.rolePerms, id)

	return nil
}

type fakePermissionRepo struct{ store *fakeStore }

func (r *fakePermissionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Permission, error) {
	if perm, ok := r.store.perms[id]; ok {
		cloned := *perm

		return &cloned, nil
	}

	return nil, repository.ErrPermissionNotFound
}

func (r *fakePermissionRepo) FindByName(_ context.Context, name string) (*entity.Permission, error) {
	for _, perm := range r.store.perms {
		if perm.Name == name {
			cloned := *perm

			return &cloned, nil
		}
	}

	return nil, repository.ErrPermissionNotFound
}

func (r *fakePermissionRepo) List(_ context.Context) ([]*entity.Permission, error) {
	perms := make([]*entity.Permission, 0, len(r.store.perms))
	for _, perm := range r.store.perms {
		cloned := *perm
		perms = append(perms, &cloned)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].Name < perms[j].Name })

	return perms, nil
}

func (r *fakePermissionRepo) Create(_ context.Context, permission *entity.Permission) error {
	for _, existing := range r.store.perms {
		if existing.Name == permission.Name {
			return repository.ErrDuplicatePermission
		}
	}
	if permission.ID == uuid.Nil {
		permission.ID = uuid.New()
	}
	permission.CreatedAt = time.Now()
	permission.UpdatedAt = permission.CreatedAt
	stored := *permission
	r.store.perms[permission.ID] = &stored

	return nil
}

func (r *fakePermissionRepo) Update(_ context.Context, permission *entity.Permission) error {
	if _, ok := r.store.perms[permission.ID]; !ok {
		return repository.ErrPermissionNotFound
	}
	for _, existing := range r.store.perms {
		if existing.ID != permission.ID && existing.Name == permission.Name {
			return repository.ErrDuplicatePermission
		}
	}
	permission.UpdatedAt = time.Now()
	stored := *permission
	r.store.perms[permission.ID] = &stored

	return nil
}

func (r *fakePermissionRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.perms[id]; !ok {
		return repository.ErrPermissionNotFound
	}
	delete(r.store.perms, id)
	for roleID := range r.store.rolePerms {
		delete(r.store.rolePerms[roleID], id)
	}
	for userID := range r.store.userPerms {
		delete(r.store.userPerms[userID], id)
	}

	return nil
}

func (r *fakePermissionRepo) GrantToRole(_ context.Context, roleID, permissionID uuid.UUID) error {
	if r.store.rolePerms[roleID] == nil {
		r.store.rolePerms[roleID] = make(map[uuid.UUID]struct{})
	}
	if _, ok := r.store.rolePerms[roleID][permissionID]; ok {
		return repository.ErrGrantExists
	}
	r.store.rolePerms[roleID][permissionID] = struct{}{}

	return nil
}

func (r *fakePermissionRepo) RevokeFromRole(_ context.Context, roleID, permissionID uuid.UUID) error {
	if _, ok := r.store.rolePerms[roleID][permissionID]; !ok {
		return repository.ErrGrantNotFound
	}
	delete(r.store.rolePerms[roleID], permissionID)

	return nil
}

func (r *fakePermissionRepo) GrantToUser(_ context.Context, userID, permissionID uuid.UUID) error {
	if r.store.userPerms[userID] == nil {
		r.store.userPerms[userID] = make(map[uuid.UUID]struct{})
	}
	if _, ok := r.store.userPerms[userID][permissionID]; ok {
		return repository.ErrGrantExists
	}
	r.store.userPerms[userID][permissionID] = struct{}{}

	return nil
}

func (r *fakePermissionRepo) RevokeFromUser(_ context.Context, userID, permissionID uuid.UUID) error {
	if _, ok := r.store.userPerms[userID][permissionID]; !ok {
		return repository.ErrGrantNotFound
	}
	delete(r.store.userPerms[userID], permissionID)

	return nil
}

func (r *fakePermissionRepo) FindByRoleID(_ context.Context, roleID uuid.UUID) ([]*entity.Permission, error) {
	return r.store.rolePermissions(roleID), nil
}

func (r *fakePermissionRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Permission, error) {
	return r.store.userPermissions(userID), nil
}

type fakeRefreshTokenRepo struct{ store *fakeStore }

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *entity.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	stored := *token
	r.store.tokens[token.Token] = &stored

	return nil
}

func (r *fakeRefreshTokenRepo) FindActiveByToken(_ context.Context, token string) (*entity.RefreshToken, error) {
	stored, ok := r.store.tokens[token]
	if !ok || !stored.Usable(time.Now()) {
		return nil, repository.ErrRefreshTokenNotFound
	}
	cloned := *stored

	return &cloned, nil
}

func (r *fakeRefreshTokenRepo) Revoke(_ context.Context, token string) (int64, error) {
	stored, ok := r.store.tokens[token]
	if !ok || stored.Revoked {
		return 0, nil
	}
	stored.Revoked = true

	return 1, nil
}

func (r *fakeRefreshTokenRepo) RevokeAllByUserID(_ context.Context, userID uuid.UUID) error {
	for _, stored := range r.store.tokens {
		if stored.UserID == userID {
			stored.Revoked = true
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	now := time.Now()
	tokens := make([]*entity.RefreshToken, 0)
	for _, stored := range r.store.tokens {
		if stored.UserID == userID && stored.Usable(now) {
			cloned := *stored
			tokens = append(tokens, &cloned)
		}
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].CreatedAt.After(tokens[j].CreatedAt) })

	return tokens, nil
}

func (r *fakeRefreshTokenRepo) CountActiveByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	now := time.Now()
	var count int64
	for _, stored := range r.store.tokens {
		if stored.UserID == userID && stored.Usable(now) {
			count++
		}
	}

	return count, nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error {
	for key, stored := range r.store.tokens {
		if !stored.ExpiresAt.After(time.Now()) {
			delete(r.store.tokens, key)
		}
	}

	return nil
}

// fakeFactory hands out repositories over the shared store. There is no real
// transaction; tests exercise business rules, not rollback mechanics.
type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) UserRepo() repository.UserRepository { return &fakeUserRepo{store: f.store} }
func (f *fakeFactory) RoleRepo() repository.RoleRepository { return &fakeRoleRepo{store: f.store} }
func (f *fakeFactory) PermissionRepo() repository.PermissionRepository {
	return &fakePermissionRepo{store: f.store}
}
func (f *fakeFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return &fakeRefreshTokenRepo{store: f.store}
}

type fakeTxManager struct{ store *fakeStore }

func (tm *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeFactory{store: tm.store})
}

// fakeHasher avoids bcrypt's cost in tests while keeping Check semantics.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Check(password, hash string) bool     { return "hashed:"+password == hash }

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serviceFixtures holds all test dependencies for the usecase service tests.
type serviceFixtures struct {
	store    *fakeStore
	tokenSvc service.TokenService
	auth     usecase.AuthUsecase
	users    usecase.UserUsecase
	roles    usecase.RoleUsecase
	perms    usecase.PermissionUsecase
	access   usecase.AccessUsecase
}

func createTestServices(t *testing.T) serviceFixtures {
	t.Helper()

	store := newFakeStore()
	txManager := &fakeTxManager{store: store}
	logger := newDiscardLogger()

	cfg := &config.Config{SecretKey: config.SecretKey{JWT: "usecase_test_secret_key"}}
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return serviceFixtures{
		store:    store,
		tokenSvc: tokenSvc,
		auth:     NewAuthService(txManager, tokenSvc, fakeHasher{}, logger),
		users:    NewUserService(txManager, fakeHasher{}, logger),
		roles:    NewRoleService(txManager, logger),
		perms:    NewPermissionService(txManager, logger),
		access:   NewAccessService(txManager, logger),
	}
}

// seedRole inserts a role directly into the store.
func (f serviceFixtures) seedRole(t *testing.T, name string) *entity.Role {
	t.Helper()

	role := &entity.Role{ID: uuid.New(), Name: name, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.store.roles[role.ID] = role

	return role
}

// seedUser inserts an active user with the given role (nil allowed).
func (f serviceFixtures) seedUser(t *testing.T, email string, roleID *uuid.UUID) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "hashed:SecurePass123!",
		FullName:     "Seeded User",
		RoleID:       roleID,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.store.users[user.ID] = user

	return user
}

// seedPermission inserts a permission directly into the store.
func (f serviceFixtures) seedPermission(t *testing.T, name, resource, action string) *entity.Permission {
	t.Helper()

	perm := &entity.Permission{
		ID:        uuid.New(),
		Name:      name,
		Resource:  resource,
		Action:    action,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.store.perms[perm.ID] = perm

	return perm
}
