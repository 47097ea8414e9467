package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/newitdevelop/menufic/internal/i18n"
)

const scanBatch = 256

// TranslationStore keeps cached translations in Redis, one hash per entity:
//
//	<prefix>:tr:<entityType>:<entityID>  ->  { "<LANG>|<field>": value }
//
// Invalidating an entity is a single DEL.
type TranslationStore struct {
	client *redis.Client
	prefix string
}

var _ i18n.Store = (*TranslationStore)(nil)

// NewTranslationStore returns a store writing under prefix ("menufic" when
// empty).
func NewTranslationStore(client *redis.Client, prefix string) *TranslationStore {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "menufic"
	}
	return &TranslationStore{client: client, prefix: prefix}
}

func (s *TranslationStore) entityKey(entityType, entityID string) string {
	return fmt.Sprintf("%s:tr:%s:%s", s.prefix, entityType, entityID)
}

func hashField(lang, field string) string {
	return i18n.NormalizeLang(lang) + "|" + field
}

func (s *TranslationStore) Find(ctx context.Context, key i18n.Key) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.entityKey(key.EntityType, key.EntityID), hashField(key.Language, key.Field)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *TranslationStore) Insert(ctx context.Context, key i18n.Key, value string) error {
	ok, err := s.client.HSetNX(ctx, s.entityKey(key.EntityType, key.EntityID), hashField(key.Language, key.Field), value).Result()
	if err != nil {
		return err
	}
	if !ok {
		return i18n.ErrConflict
	}
	return nil
}

func (s *TranslationStore) DeleteEntity(ctx context.Context, entityType, entityID string) (int64, error) {
	k := s.entityKey(entityType, entityID)
	var n *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		n = p.HLen(ctx, k)
		p.Del(ctx, k)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n.Val(), nil
}

func (s *TranslationStore) DeleteLanguage(ctx context.Context, lang string) (int64, error) {
	match := i18n.NormalizeLang(lang) + "|*"
	var deleted int64

	iter := s.client.Scan(ctx, 0, s.prefix+":tr:*", scanBatch).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		var fields []string
		hiter := s.client.HScan(ctx, key, 0, match, scanBatch).Iterator()
		for i := 0; hiter.Next(ctx); i++ {
			// HSCAN yields field, value, field, value...
			if i%2 == 0 {
				fields = append(fields, hiter.Val())
			}
		}
		if err := hiter.Err(); err != nil {
			return deleted, err
		}
		if len(fields) == 0 {
			continue
		}
		n, err := s.client.HDel(ctx, key, fields...).Result()
		if err != nil {
			return deleted, err
		}
		deleted += n
	}
	return deleted, iter.Err()
}
