// Package mcpserver exposes meditation history and conversations as
// read-only MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Harshodai/askmukthiguru/internal/breath"
	"github.com/Harshodai/askmukthiguru/internal/chat"
	"github.com/Harshodai/askmukthiguru/internal/db"
	"github.com/Harshodai/askmukthiguru/internal/log"
)

const (
	serverName = "mukthiguru"

	defaultSessionLimit = 20
	maxSessionLimit     = 500
)

// Store is the read side of the local database.
type Store interface {
	MeditationStats(ctx context.Context) (db.MeditationStats, error)
	ListSessions(ctx context.Context) ([]breath.Session, error)
	Conversations(ctx context.Context) ([]chat.Conversation, error)
	Conversation(ctx context.Context, id string) (*chat.Conversation, error)
	Messages(ctx context.Context, conversationID string) ([]chat.Message, error)
}

type handlers struct {
	store Store
}

// New builds the MCP server with all tools registered.
func New(store Store, version string) *server.MCPServer {
	s := server.NewMCPServer(serverName, version, server.WithToolCapabilities(false))
	h := handlers{store: store}

	s.AddTool(mcp.NewTool("meditation_stats",
		mcp.WithDescription("Totals for Serene Mind meditation sessions: count, completed, minutes, breath cycles and the current daily streak."),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.meditationStats)

	s.AddTool(mcp.NewTool("list_meditation_sessions",
		mcp.WithDescription("Recorded meditation sessions, newest first."),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum sessions to return (default %d)", defaultSessionLimit)),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.listSessions)

	s.AddTool(mcp.NewTool("list_conversations",
		mcp.WithDescription("Chat conversations, most recently updated first."),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.listConversations)

	s.AddTool(mcp.NewTool("get_conversation",
		mcp.WithDescription("One conversation with all of its messages."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Conversation id from list_conversations"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.getConversation)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(store Store, version string) error {
	log.WithComponent("mcp").Info().Str("version", version).Msg("serving on stdio")
	return server.ServeStdio(New(store, version))
}

type statsResult struct {
	TotalSessions     int        `json:"totalSessions"`
	CompletedSessions int        `json:"completedSessions"`
	TotalMinutes      int        `json:"totalMinutes"`
	TotalSeconds      int        `json:"totalSeconds"`
	TotalCycles       int        `json:"totalBreathCycles"`
	StreakDays        int        `json:"streakDays"`
	LastSessionAt     *time.Time `json:"lastSessionAt,omitempty"`
}

type sessionResult struct {
	ID              string     `json:"id"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	DurationSeconds int        `json:"durationSeconds"`
	BreathCycles    int        `json:"breathCycles"`
	Completed       bool       `json:"completed"`
}

type conversationResult struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Messages  []messageResult `json:"messages,omitempty"`
}

type messageResult struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h handlers) meditationStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.store.MeditationStats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read meditation stats: %v", err)), nil
	}
	return jsonResult(statsResult{
		TotalSessions:     stats.TotalSessions,
		CompletedSessions: stats.CompletedSessions,
		TotalMinutes:      stats.TotalMinutes(),
		TotalSeconds:      stats.TotalSeconds,
		TotalCycles:       stats.TotalCycles,
		StreakDays:        stats.StreakDays,
		LastSessionAt:     stats.LastSessionAt,
	})
}

func (h handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", defaultSessionLimit)
	if limit <= 0 {
		return mcp.NewToolResultError("limit must be positive"), nil
	}
	limit = min(limit, maxSessionLimit)

	sessions, err := h.store.ListSessions(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read sessions: %v", err)), nil
	}
	if len(sessions) > limit {
		sessions = sessions[:limit]
	}

	out := make([]sessionResult, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResult{
			ID:              s.ID,
			StartedAt:       s.StartedAt,
			CompletedAt:     s.CompletedAt,
			DurationSeconds: s.DurationSeconds,
			BreathCycles:    s.BreathCycles,
			Completed:       s.Completed,
		})
	}
	return jsonResult(out)
}

func (h handlers) listConversations(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	convs, err := h.store.Conversations(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read conversations: %v", err)), nil
	}

	out := make([]conversationResult, 0, len(convs))
	for _, c := range convs {
		out = append(out, toConversationResult(c))
	}
	return jsonResult(out)
}

func (h handlers) getConversation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	conv, err := h.store.Conversation(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read conversation: %v", err)), nil
	}
	if conv == nil {
		return mcp.NewToolResultError(fmt.Sprintf("conversation %q not found", id)), nil
	}

	msgs, err := h.store.Messages(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("read messages: %v", err)), nil
	}

	out := toConversationResult(*conv)
	for _, m := range msgs {
		out.Messages = append(out.Messages, messageResult{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return jsonResult(out)
}

func toConversationResult(c chat.Conversation) conversationResult {
	return conversationResult{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
