// Package documents is the persistence layer: it maps a (collection, key)
// pair to one JSON document. Implementations differ only in where the bytes
// live; all of them share the error contract below.
//
//   - Create fails with common.ErrorAlreadyExists and never overwrites.
//   - Read fails with common.ErrorNotFound or common.ErrorCorruptData.
//   - Update and Delete fail with common.ErrorNotFound when nothing is stored.
//   - Any collection or key rejected by ValidateKey fails with
//     common.ErrorInvalidKey before touching storage.
package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
)

// Collection names used by the server.
const (
	CollectionUsers  = "users"
	CollectionTokens = "tokens"
	CollectionChecks = "checks"
)

const maxKeyLength = 128

// Store is a document store addressed by collection and key.
type Store interface {
	Create(ctx context.Context, collection, key string, doc any) error
	Read(ctx context.Context, collection, key string, out any) error
	Update(ctx context.Context, collection, key string, doc any) error
	Delete(ctx context.Context, collection, key string) error
	// List returns the keys stored in collection, in no particular order.
	List(ctx context.Context, collection string) ([]string, error)
	Close() error
}

// ValidateKey accepts 1-128 characters from [A-Za-z0-9_.-] that do not
// start with a dot, so a key can never name a parent directory, a hidden
// file or a path outside its collection.
func ValidateKey(s string) error {
	if s == "" || len(s) > maxKeyLength || s[0] == '.' {
		return fmt.Errorf("%w: %q", common.ErrorInvalidKey, s)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '-', c == '.':
		default:
			return fmt.Errorf("%w: %q", common.ErrorInvalidKey, s)
		}
	}
	return nil
}

func validate(collection, key string) error {
	if err := ValidateKey(collection); err != nil {
		return err
	}
	return ValidateKey(key)
}

func encode(doc any) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return b, nil
}

func decode(b []byte, out any) error {
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorCorruptData, err)
	}
	return nil
}
