package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCredentials = errors.New("bad credentials")
	ErrTokenRejected  = errors.New("could not refresh")
)

// UserStore keeps administrator accounts and issued refresh tokens.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db}
}

// AddUser creates or replaces an account.
func (us *UserStore) AddUser(ctx context.Context, username, password string, roles []string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	_, err = us.db.ExecContext(ctx, `
		INSERT INTO user (username, password_hash, roles) VALUES (?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = excluded.password_hash,
			roles = excluded.roles`,
		username,
		hash,
		strings.Join(roles, ","),
	)
	return errors.Wrap(err, "db.insert_user")
}

// Authenticate checks a password and returns the account's roles.
func (us *UserStore) Authenticate(ctx context.Context, username, password string) ([]string, error) {
	var row struct {
		Hash  []byte `db:"password_hash"`
		Roles string `db:"roles"`
	}
	err := us.db.GetContext(ctx, &row, `SELECT password_hash, roles FROM user WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "db.get_user")
	}
	if bcrypt.CompareHashAndPassword(row.Hash, []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return splitRoles(row.Roles), nil
}

func (us *UserStore) Roles(ctx context.Context, username string) ([]string, error) {
	var roles string
	err := us.db.GetContext(ctx, &roles, `SELECT roles FROM user WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, errors.Wrap(err, "db.get_roles")
	}
	return splitRoles(roles), nil
}

func splitRoles(roles string) []string {
	if roles == "" {
		return nil
	}
	return strings.Split(roles, ",")
}

func (us *UserStore) StoreToken(ctx context.Context, username, tokenID, refreshTokenID string, expiration time.Time) error {
	_, err := us.db.ExecContext(ctx,
		"INSERT INTO token (username, token_id, refresh_token_id, expiration) VALUES (?, ?, ?, ?)",
		username,
		tokenID,
		refreshTokenID,
		expiration.UnixNano(),
	)
	return errors.Wrap(err, "db.insert_token")
}

// ConsumeToken removes a refresh token pair; it fails if the pair is unknown
// or expired.
func (us *UserStore) ConsumeToken(ctx context.Context, username, tokenID, refreshTokenID string) error {
	var expiration int64
	err := us.db.QueryRowxContext(ctx, `
		DELETE FROM token
		WHERE username = ?
			AND token_id = ?
			AND refresh_token_id = ?
		RETURNING expiration`,
		username,
		tokenID,
		refreshTokenID,
	).Scan(&expiration)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTokenRejected
	}
	if err != nil {
		return errors.Wrap(err, "db.delete_token")
	}
	if time.Unix(0, expiration).Before(time.Now()) {
		return ErrTokenRejected
	}
	return nil
}
