package pgdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/schrodinger-box/boxd/internal/core/domain"
)

const (
	outboundColumns = `
id, source_chain_id, destination_chain_id, box_id, sequence, recipient, sender_peer,
snapshot, payer, fee, status, alerted, created_at, updated_at`
	insertOutbound = `
INSERT INTO outbound_message (` + outboundColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	selectOutbound = `SELECT ` + outboundColumns + ` FROM outbound_message WHERE id = $1`
	updateOutbound = `
UPDATE outbound_message SET payer = $1, fee = $2, status = $3, alerted = $4, updated_at = $5
WHERE id = $6`
	deleteOutbound = `DELETE FROM outbound_message WHERE id = $1`
	listOutbound   = `SELECT ` + outboundColumns + ` FROM outbound_message`
	insertApplied  = `
INSERT INTO applied_message (id, box_id, source_chain_id, applied_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING`
	selectApplied = `SELECT COUNT(*) FROM applied_message WHERE id = $1`
)

type messageRepository struct {
	db conn
}

func NewMessageRepository(config ...interface{}) (domain.MessageRepository, error) {
	db, err := openRepo("message", config...)
	if err != nil {
		return nil, err
	}
	return &messageRepository{conn{db: db}}, nil
}

func (r *messageRepository) AddOutbound(ctx context.Context, msg domain.OutboundMessage) error {
	if msg.UpdatedAt == 0 {
		msg.UpdatedAt = time.Now().Unix()
	}
	snapshot, err := json.Marshal(msg.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if _, err := r.db.ExecContext(
		ctx, insertOutbound, msg.Id.String(), int64(msg.SourceChainId),
		int64(msg.DestinationChainId), msg.BoxId.String(), int64(msg.Sequence), msg.Recipient,
		msg.SenderPeer.String(), string(snapshot), msg.Payer, formatUint(msg.Fee),
		int64(msg.Status), msg.Alerted, msg.CreatedAt, msg.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("outbound message %s already exists", msg.Id)
		}
		return fmt.Errorf("failed to add outbound message %s: %w", msg.Id, err)
	}
	return nil
}

func (r *messageRepository) GetOutbound(
	ctx context.Context, id domain.MessageId,
) (*domain.OutboundMessage, error) {
	msg, err := scanOutbound(r.db.QueryRowContext(ctx, selectOutbound, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("outbound message %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outbound message %s: %w", id, err)
	}
	return msg, nil
}

func (r *messageRepository) UpdateOutbound(ctx context.Context, msg domain.OutboundMessage) error {
	res, err := r.db.ExecContext(
		ctx, updateOutbound, msg.Payer, formatUint(msg.Fee), int64(msg.Status), msg.Alerted,
		msg.UpdatedAt, msg.Id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update outbound message %s: %w", msg.Id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("outbound message %s: %w", msg.Id, domain.ErrNotFound)
	}
	return nil
}

func (r *messageRepository) DeleteOutbound(ctx context.Context, id domain.MessageId) error {
	if _, err := r.db.ExecContext(ctx, deleteOutbound, id.String()); err != nil {
		return fmt.Errorf("failed to delete outbound message %s: %w", id, err)
	}
	return nil
}

func (r *messageRepository) ListOutbound(
	ctx context.Context, statuses ...domain.DeliveryStatus,
) ([]domain.OutboundMessage, error) {
	query := listOutbound
	args := make([]interface{}, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, 0, len(statuses))
		for _, status := range statuses {
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
			args = append(args, int64(status))
		}
		query += fmt.Sprintf(" WHERE status IN (%s)", strings.Join(placeholders, ", "))
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list outbound messages: %w", err)
	}
	// nolint
	defer rows.Close()

	msgs := make([]domain.OutboundMessage, 0)
	for rows.Next() {
		msg, err := scanOutbound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan outbound message: %w", err)
		}
		msgs = append(msgs, *msg)
	}
	return msgs, rows.Err()
}

func (r *messageRepository) MarkApplied(
	ctx context.Context, applied domain.AppliedMessage,
) (bool, error) {
	res, err := r.db.ExecContext(
		ctx, insertApplied, applied.Id.String(), applied.BoxId.String(),
		int64(applied.SourceChainId), applied.AppliedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark message %s as applied: %w", applied.Id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *messageRepository) IsApplied(ctx context.Context, id domain.MessageId) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, selectApplied, id.String()).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to get applied message %s: %w", id, err)
	}
	return count > 0, nil
}

func (r *messageRepository) Close() {
	r.db.close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOutbound(row rowScanner) (*domain.OutboundMessage, error) {
	var (
		msg                                 domain.OutboundMessage
		rawId, rawBoxId, rawPeer, rawFee    string
		snapshot                            string
		sourceChain, destChain, seq, status int64
	)
	if err := row.Scan(
		&rawId, &sourceChain, &destChain, &rawBoxId, &seq, &msg.Recipient, &rawPeer,
		&snapshot, &msg.Payer, &rawFee, &status, &msg.Alerted, &msg.CreatedAt, &msg.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if msg.Id, err = domain.ParseMessageId(rawId); err != nil {
		return nil, err
	}
	if msg.BoxId, err = domain.ParseBoxId(rawBoxId); err != nil {
		return nil, err
	}
	if msg.SenderPeer, err = domain.ParsePeerId(rawPeer); err != nil {
		return nil, err
	}
	if msg.Fee, err = parseUint(rawFee); err != nil {
		return nil, fmt.Errorf("invalid fee: %w", err)
	}
	if err := json.Unmarshal([]byte(snapshot), &msg.Snapshot); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	msg.SourceChainId = domain.ChainId(sourceChain)
	msg.DestinationChainId = domain.ChainId(destChain)
	msg.Sequence = uint64(seq)
	msg.Status = domain.DeliveryStatus(status)
	return &msg, nil
}
