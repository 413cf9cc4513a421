package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Harshodai/askmukthiguru/internal/chat"
)

// ErrConversationNotFound is returned for operations on a missing conversation.
var ErrConversationNotFound = errors.New("conversation not found")

const titleMaxRunes = 48

// CreateConversation inserts a new conversation. An empty title is filled in
// from the first user message.
func (s *Store) CreateConversation(ctx context.Context, title string) (chat.Conversation, error) {
	now := s.now()
	conv := chat.Conversation{
		ID:        s.newID(),
		Title:     strings.TrimSpace(title),
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, title, createdAt, updatedAt)
		VALUES (?, ?, ?, ?)
	`, conv.ID, conv.Title, unixFromTime(now), unixFromTime(now))
	if err != nil {
		return chat.Conversation{}, fmt.Errorf("insert conversation: %w", err)
	}
	return conv, nil
}

// Conversations returns all conversations, most recently updated first.
func (s *Store) Conversations(ctx context.Context) ([]chat.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, createdAt, updatedAt
		FROM conversations
		ORDER BY updatedAt DESC, createdAt DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// Conversation returns the conversation with the given id, or nil if none exists.
func (s *Store) Conversation(ctx context.Context, id string) (*chat.Conversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, createdAt, updatedAt
		FROM conversations
		WHERE id = ?
	`, id)
	conv, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// RenameConversation sets a conversation's title.
func (s *Store) RenameConversation(ctx context.Context, id, title string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE conversations SET title = ?, updatedAt = ? WHERE id = ?
	`, strings.TrimSpace(title), unixFromTime(s.now()), id)
	if err != nil {
		return fmt.Errorf("rename conversation: %w", err)
	}
	return requireAffected(res, id)
}

// DeleteConversation removes a conversation and its messages.
func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return requireAffected(res, id)
}

// AppendMessage adds a message at the end of a conversation and bumps its
// updatedAt. The first user message titles an untitled conversation.
func (s *Store) AppendMessage(ctx context.Context, conversationID string, role chat.Role, content string) (chat.Message, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return chat.Message{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var title string
	err = tx.QueryRowContext(ctx, `SELECT title FROM conversations WHERE id = ?`, conversationID).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return chat.Message{}, fmt.Errorf("%w: %s", ErrConversationNotFound, conversationID)
	}
	if err != nil {
		return chat.Message{}, fmt.Errorf("query conversation: %w", err)
	}

	var seq int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(sequenceNumber), -1) + 1 FROM messages WHERE conversationId = ?
	`, conversationID).Scan(&seq)
	if err != nil {
		return chat.Message{}, fmt.Errorf("next sequence: %w", err)
	}

	msg := chat.Message{
		ID:             s.newID(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      s.now(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO messages (id, conversationId, role, content, createdAt, sequenceNumber)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, string(msg.Role), msg.Content, unixFromTime(msg.CreatedAt), seq)
	if err != nil {
		return chat.Message{}, fmt.Errorf("insert message: %w", err)
	}

	if title == "" && role == chat.RoleUser {
		title = TitleFrom(content)
	}
	_, err = tx.ExecContext(ctx, `
		UPDATE conversations SET title = ?, updatedAt = ? WHERE id = ?
	`, title, unixFromTime(msg.CreatedAt), conversationID)
	if err != nil {
		return chat.Message{}, fmt.Errorf("touch conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return chat.Message{}, fmt.Errorf("commit: %w", err)
	}
	return msg, nil
}

// Messages returns a conversation's messages in the order they were added.
func (s *Store) Messages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversationId, role, content, createdAt
		FROM messages
		WHERE conversationId = ?
		ORDER BY sequenceNumber ASC
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var msg chat.Message
		var role string
		var createdAt float64
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Role = chat.Role(role)
		msg.CreatedAt = timeFromUnix(createdAt)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// TitleFrom derives a conversation title from the first line of a message.
func TitleFrom(content string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	line = strings.Join(strings.Fields(line), " ")
	if utf8.RuneCountInString(line) <= titleMaxRunes {
		return line
	}
	runes := []rune(line)
	return strings.TrimSpace(string(runes[:titleMaxRunes-1])) + "…"
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(row scanner) (chat.Conversation, error) {
	var conv chat.Conversation
	var createdAt, updatedAt float64
	if err := row.Scan(&conv.ID, &conv.Title, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return conv, err
		}
		return conv, fmt.Errorf("scan conversation: %w", err)
	}
	conv.CreatedAt = timeFromUnix(createdAt)
	conv.UpdatedAt = timeFromUnix(updatedAt)
	return conv, nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrConversationNotFound, id)
	}
	return nil
}
