// Package session persists login tokens in a small bbolt key-value
// store, the durable companion to the user cache. It holds credentials
// metadata only; profile data lives in the user store.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	bolt "go.etcd.io/bbolt"
)

var bucketAuth = []byte("auth")

const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUserID       = "user_id"
	keyUsername     = "username"
	keyLoginTime    = "login_time"
)

type Store struct {
	db *bolt.DB
}

// Open creates or opens the session database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open session store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketAuth)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init session store")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTokens stores the credentials returned by a successful login.
func (s *Store) SaveTokens(accessToken, refreshToken string, userID int, username string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketAuth)
		pairs := map[string]string{
			keyAccessToken:  accessToken,
			keyRefreshToken: refreshToken,
			keyUserID:       cast.ToString(userID),
			keyUsername:     username,
			keyLoginTime:    cast.ToString(time.Now().UnixMilli()),
		}
		for k, v := range pairs {
			if err := b.Put([]byte(k), []byte(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear drops all stored credentials.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketAuth); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketAuth)
		return err
	})
}

func (s *Store) AccessToken() string {
	return s.get(keyAccessToken)
}

func (s *Store) RefreshToken() string {
	return s.get(keyRefreshToken)
}

func (s *Store) UserID() int {
	return cast.ToInt(s.get(keyUserID))
}

func (s *Store) Username() string {
	return s.get(keyUsername)
}

// LoggedIn reports whether a usable access token is stored. A token
// with a parseable exp claim in the past does not count.
func (s *Store) LoggedIn() bool {
	token := s.AccessToken()
	if token == "" {
		return false
	}
	return !tokenExpired(token, time.Now())
}

func (s *Store) get(key string) string {
	var out string
	_ = s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketAuth).Get([]byte(key)); v != nil {
			out = string(v)
		}
		return nil
	})
	return out
}

// tokenExpired inspects the unverified exp claim. Tokens that do not
// parse, or carry no exp, are treated as non-expiring; the backend is
// the authority on their validity.
func tokenExpired(raw string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}
	exp := cast.ToInt64(claims["exp"])
	if exp == 0 {
		return false
	}
	return now.Unix() >= exp
}
