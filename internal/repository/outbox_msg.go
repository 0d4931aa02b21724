package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/product-catalog/internal/storage/db"
)

type CreateOutboxMsgParams struct {
	Topic        string
	Headers      map[string]string
	Payload      json.RawMessage
	PartitionKey *string
}

type ListUnprocessedOutboxMsgsParams struct {
	BatchSize int32
}

type ListUnprocessedOutboxMsgsResult struct {
	ID           uuid.UUID
	Topic        string
	Headers      map[string]string
	Payload      json.RawMessage
	PartitionKey *string
}

type BulkUpdateOutboxMsgsItem struct {
	ID    uuid.UUID
	Error *string
}

type BulkUpdateOutboxMsgsParams struct {
	Items []BulkUpdateOutboxMsgsItem
}

type DeleteProcessedOutboxMsgsParams struct {
	ProcessedBefore time.Time
}

type OutboxMsgRepository interface {
	WithDB(db db.DB) OutboxMsgRepository
	CreateOutboxMsg(ctx context.Context, params CreateOutboxMsgParams) error
	ListUnprocessedOutboxMsgs(ctx context.Context, params ListUnprocessedOutboxMsgsParams) ([]ListUnprocessedOutboxMsgsResult, error)
	BulkUpdateOutboxMsgs(ctx context.Context, params BulkUpdateOutboxMsgsParams) error
	DeleteProcessedOutboxMsgs(ctx context.Context, params DeleteProcessedOutboxMsgsParams) (int64, error)
}

type outboxMsgRepository struct {
	db db.DB
}

func NewOutboxMsgRepository(db db.DB) OutboxMsgRepository {
	return &outboxMsgRepository{db: db}
}

func (r outboxMsgRepository) WithDB(db db.DB) OutboxMsgRepository {
	return &outboxMsgRepository{db: db}
}

func (r outboxMsgRepository) CreateOutboxMsg(ctx context.Context, params CreateOutboxMsgParams) error {
	headersBytes, err := json.Marshal(params.Headers)
	if err != nil {
		return fmt.Errorf("marshal headers: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		INSERT INTO outbox_messages (topic, headers, payload, partition_key, created_at)
		VALUES (@topic, @headers, @payload, @partition_key, @created_at)`,
		pgx.NamedArgs{
			"topic":         params.Topic,
			"headers":       json.RawMessage(headersBytes),
			"payload":       params.Payload,
			"partition_key": params.PartitionKey,
			"created_at":    time.Now(),
		}); err != nil {
		return fmt.Errorf("outbox msg create: %w", err)
	}

	return nil
}

// ListUnprocessedOutboxMsgs locks the oldest unprocessed messages so
// concurrent relays never pick the same batch. It must run inside a transaction.
func (r outboxMsgRepository) ListUnprocessedOutboxMsgs(ctx context.Context, params ListUnprocessedOutboxMsgsParams) ([]ListUnprocessedOutboxMsgsResult, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, topic, headers, payload, partition_key
		FROM outbox_messages
		WHERE processed_at IS NULL
		ORDER BY created_at
		LIMIT @batch_size
		FOR UPDATE SKIP LOCKED`,
		pgx.NamedArgs{"batch_size": params.BatchSize})
	if err != nil {
		return nil, fmt.Errorf("outbox msg list unprocessed: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ListUnprocessedOutboxMsgsResult, error) {
		var (
			res     ListUnprocessedOutboxMsgsResult
			headers []byte
		)
		if err := row.Scan(&res.ID, &res.Topic, &headers, &res.Payload, &res.PartitionKey); err != nil {
			return res, err
		}

		res.Headers = map[string]string{}
		if len(headers) > 0 {
			if err := json.Unmarshal(headers, &res.Headers); err != nil {
				return res, fmt.Errorf("unmarshal headers: %w", err)
			}
		}

		return res, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect outbox msgs: %w", err)
	}

	return results, nil
}

// BulkUpdateOutboxMsgs marks every item processed in one statement and
// stores the publish error of the items that failed.
func (r outboxMsgRepository) BulkUpdateOutboxMsgs(ctx context.Context, params BulkUpdateOutboxMsgsParams) error {
	if len(params.Items) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(params.Items))
	errs := make([]*string, len(params.Items))
	for i, item := range params.Items {
		ids[i] = item.ID
		errs[i] = item.Error
	}

	if _, err := r.db.Exec(ctx, `
		UPDATE outbox_messages AS o
		SET processed_at = NOW(), error = u.error
		FROM UNNEST(@ids::uuid[], @errors::text[]) AS u(id, error)
		WHERE o.id = u.id`,
		pgx.NamedArgs{"ids": ids, "errors": errs}); err != nil {
		return fmt.Errorf("outbox msg bulk update: %w", err)
	}

	return nil
}

// DeleteProcessedOutboxMsgs removes messages processed before the cutoff and
// returns how many rows were deleted. Pending messages are never touched.
func (r outboxMsgRepository) DeleteProcessedOutboxMsgs(ctx context.Context, params DeleteProcessedOutboxMsgsParams) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM outbox_messages
		WHERE processed_at IS NOT NULL AND processed_at < @processed_before`,
		pgx.NamedArgs{"processed_before": params.ProcessedBefore})
	if err != nil {
		return 0, fmt.Errorf("outbox msg delete processed: %w", err)
	}

	return tag.RowsAffected(), nil
}
