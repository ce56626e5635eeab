package chat

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/sangpi/chatvault/internal/common"
	"github.com/sangpi/chatvault/internal/logging"
	"github.com/sangpi/chatvault/internal/server/gen"
	"github.com/sangpi/chatvault/internal/server/messages"
)

type fakeGenerator struct {
	reply   string
	err     error
	history []gen.Turn
	prompt  string
	att     *gen.Attachment
	calls   int
}

func (f *fakeGenerator) Generate(ctx context.Context, history []gen.Turn, prompt string, att *gen.Attachment) (string, error) {
	f.calls++
	f.history = history
	f.prompt = prompt
	f.att = att
	return f.reply, f.err
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:chat_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			username TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
	`)
	require.NoError(t, err)
	t.Cleanup(func() { db.Exec(`DROP TABLE messages`) })
	return db
}

func newTestService(db *sql.DB, g gen.Generator) *Service {
	logger := logging.NewSlogLogger(slog.Default())
	return NewService(messages.NewPostgresRepository(db), g, 0, logger)
}

func TestNewSessionID(t *testing.T) {
	s := &Service{}
	id1 := s.NewSessionID()
	id2 := s.NewSessionID()
	_, err := uuid.Parse(id1)
	assert.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestSendTurn_PersistsBothTurns(t *testing.T) {
	db := openTestDB(t)
	g := &fakeGenerator{reply: "hello there"}
	s := newTestService(db, g)
	ctx := context.Background()

	reply, err := s.SendTurn(ctx, "min", "s1", "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)

	repo := messages.NewPostgresRepository(db)
	msgs, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, messages.RoleUser, msgs[0].Role)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, messages.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "hello there", msgs[1].Content)
}

func TestSendTurn_AnnotatesPromptButNotLog(t *testing.T) {
	db := openTestDB(t)
	g := &fakeGenerator{reply: "ok"}
	s := newTestService(db, g)
	ctx := context.Background()

	_, err := s.SendTurn(ctx, "min", "s1", "hi", nil)
	require.NoError(t, err)

	assert.Equal(t, "[User Min: min]. hi", g.prompt)

	repo := messages.NewPostgresRepository(db)
	msgs, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "hi", msgs[0].Content)
}

func TestSendTurn_HistoryExcludesPendingTurn(t *testing.T) {
	db := openTestDB(t)
	g := &fakeGenerator{reply: "first reply"}
	s := newTestService(db, g)
	ctx := context.Background()

	_, err := s.SendTurn(ctx, "min", "s1", "first", nil)
	require.NoError(t, err)
	assert.Empty(t, g.history)

	g.reply = "second reply"
	_, err = s.SendTurn(ctx, "min", "s1", "second", nil)
	require.NoError(t, err)

	assert.Equal(t, []gen.Turn{
		{Role: gen.RolePriorUser, Text: "first"},
		{Role: gen.RolePriorModel, Text: "first reply"},
	}, g.history)
}

func TestSendTurn_StripsAsterisks(t *testing.T) {
	db := openTestDB(t)
	g := &fakeGenerator{reply: "**bold** and *em*"}
	s := newTestService(db, g)

	reply, err := s.SendTurn(context.Background(), "min", "s1", "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "bold and em", reply)
}

func TestSendTurn_GenerationFailureKeepsUserTurn(t *testing.T) {
	db := openTestDB(t)
	g := &fakeGenerator{err: common.ErrGenerationUnavailable}
	s := newTestService(db, g)
	ctx := context.Background()

	_, err := s.SendTurn(ctx, "min", "s1", "hi", nil)
	assert.True(t, errors.Is(err, common.ErrGenerationUnavailable))

	repo := messages.NewPostgresRepository(db)
	msgs, err := repo.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, messages.RoleUser, msgs[0].Role)
}

func TestSendTurn_ForeignSessionRejected(t *testing.T) {
	db := openTestDB(t)
	g := &fakeGenerator{reply: "ok"}
	s := newTestService(db, g)
	ctx := context.Background()

	_, err := s.SendTurn(ctx, "alice", "s1", "mine", nil)
	require.NoError(t, err)

	_, err = s.SendTurn(ctx, "bob", "s1", "intrude", nil)
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	assert.Equal(t, 1, g.calls)
}

func TestSendTurn_PassesAttachment(t *testing.T) {
	db := openTestDB(t)
	g := &fakeGenerator{reply: "nice photo"}
	s := newTestService(db, g)

	att := &gen.Attachment{MIMEType: "image/png", Data: []byte{0x89, 0x50}}
	_, err := s.SendTurn(context.Background(), "min", "s1", "look", att)
	require.NoError(t, err)
	assert.Equal(t, att, g.att)
}
