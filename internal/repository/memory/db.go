package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/authsys-server/internal/model"
)

// DB is an in-process replacement for the relational schema. All
// repositories created from one DB share its state and lock, so multi-table
// operations such as soft delete and rotation are atomic.
type DB struct {
	mu sync.Mutex

	users     map[uuid.UUID]model.User
	tokens    map[uuid.UUID]model.RefreshToken
	roles     map[int64]model.Role
	perms     map[int64]model.Permission
	rolePerms map[int64]model.RolePermission
	userRoles map[int64]model.UserRole
	seq       int64

	now func() time.Time
}

func NewDB() *DB {
	return &DB{
		users:     make(map[uuid.UUID]model.User),
		tokens:    make(map[uuid.UUID]model.RefreshToken),
		roles:     make(map[int64]model.Role),
		perms:     make(map[int64]model.Permission),
		rolePerms: make(map[int64]model.RolePermission),
		userRoles: make(map[int64]model.UserRole),
		now:       time.Now,
	}
}

func (db *DB) Users() *UserRepository {
	return &UserRepository{db: db}
}

func (db *DB) RefreshTokens() *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (db *DB) RBAC() *RBACRepository {
	return &RBACRepository{db: db}
}

func (db *DB) nextID() int64 {
	db.seq++
	return db.seq
}

// revokeAllLocked revokes the active tokens of userID. Callers hold db.mu.
func (db *DB) revokeAllLocked(userID uuid.UUID) int64 {
	now := db.now()
	var n int64
	for id, t := range db.tokens {
		if t.UserID == userID && t.IsActive(now) {
			t.RevokedAt = &now
			db.tokens[id] = t
			n++
		}
	}
	return n
}
