package storage

import (
	"context"
	"database/sql"

	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb"
	"github.com/teranos/litgraph/kb/types"
	"github.com/teranos/litgraph/logger"
)

// SQLResultCache persists result trees in the result_cache table as
// zstd-compressed JSON
type SQLResultCache struct {
	db      *sql.DB
	log     *zap.SugaredLogger
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

var _ kb.ResultCache = (*SQLResultCache)(nil)

// NewSQLResultCache creates a result cache; a nil logger is silent
func NewSQLResultCache(db *sql.DB, log *zap.SugaredLogger) (*SQLResultCache, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create zstd encoder")
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, errors.Wrap(err, "failed to create zstd decoder")
	}
	return &SQLResultCache{db: db, log: log, encoder: encoder, decoder: decoder}, nil
}

// Close releases the codec resources
func (c *SQLResultCache) Close() {
	c.encoder.Close()
	c.decoder.Close()
}

// Load returns the cached result for a key. A payload that no longer decodes
// is reported as a miss.
func (c *SQLResultCache) Load(ctx context.Context, collection, fingerprint string) (*types.CachedResult, bool, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM result_cache WHERE collection = ? AND fingerprint = ?`,
		collection, fingerprint,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to load cached result %s", fingerprint)
	}

	raw, err := c.decoder.DecodeAll(payload, nil)
	if err != nil {
		c.log.Warnw("Discarding undecodable cache entry", logger.FieldFingerprint, fingerprint, logger.FieldError, err)
		return nil, false, nil
	}
	result, err := types.DecodeResult(raw)
	if err != nil {
		c.log.Warnw("Discarding undecodable cache entry", logger.FieldFingerprint, fingerprint, logger.FieldError, err)
		return nil, false, nil
	}
	return result, true, nil
}

// Store upserts the result for a key; the last write wins
func (c *SQLResultCache) Store(ctx context.Context, collection, fingerprint string, result *types.CachedResult) error {
	raw, err := types.EncodeResult(result)
	if err != nil {
		return err
	}
	payload := c.encoder.EncodeAll(raw, nil)

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO result_cache (collection, fingerprint, payload, limit_hit, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(collection, fingerprint) DO UPDATE SET
			payload = excluded.payload,
			limit_hit = excluded.limit_hit,
			created_at = excluded.created_at
	`, collection, fingerprint, payload, result.LimitHit)
	if err != nil {
		return errors.Wrapf(err, "failed to store cached result %s", fingerprint)
	}
	c.log.Debugw("Stored cached result",
		logger.FieldFingerprint, fingerprint,
		"raw_bytes", len(raw),
		"stored_bytes", len(payload),
	)
	return nil
}

// Purge removes every cached result of a collection, or all when collection is empty
func (c *SQLResultCache) Purge(ctx context.Context, collection string) (int64, error) {
	var res sql.Result
	var err error
	if collection == "" {
		res, err = c.db.ExecContext(ctx, `DELETE FROM result_cache`)
	} else {
		res, err = c.db.ExecContext(ctx, `DELETE FROM result_cache WHERE collection = ?`, collection)
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to purge result cache")
	}
	return res.RowsAffected()
}
