package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deadline-tracker/internal/config"
	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
	"deadline-tracker/internal/service"
)

const ownerChat int64 = 1001

var testNow = time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)

type fakeSender struct {
	sent     []tgbotapi.MessageConfig
	requests int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Text
}

func newTestBot(t *testing.T, owner int64) (*Bot, *fakeSender, *service.DeadlineStore) {
	t.Helper()
	kv, err := repository.NewBoltKV(filepath.Join(t.TempDir(), "bot.bolt"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	n := 0
	store := service.NewDeadlineStore(kv, service.DefaultStorageKey,
		service.WithClock(func() time.Time { return testNow }),
		service.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	_, err = store.Load(context.Background())
	require.NoError(t, err)

	out := &fakeSender{}
	b := newBot(out, store, service.NewDigestService(), &config.Config{OwnerChatID: owner, Location: time.UTC})
	b.clock = func() time.Time { return testNow }
	return b, out, store
}

func message(chatID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		From: &tgbotapi.User{ID: chatID, FirstName: "Sam"},
		Chat: &tgbotapi.Chat{ID: chatID, Type: "private"},
		Text: text,
	}
	if strings.HasPrefix(text, "/") {
		cmd := strings.Fields(text)[0]
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return tgbotapi.Update{Message: msg}
}

func send(t *testing.T, b *Bot, text string) {
	t.Helper()
	require.NoError(t, b.handleUpdate(context.Background(), message(ownerChat, text)))
}

func TestListShowsSeedOrderedByDueDate(t *testing.T) {
	b, out, _ := newTestBot(t, ownerChat)
	send(t, b, "/list")

	text := out.last()
	physics := strings.Index(text, "Physics Quiz")
	calculus := strings.Index(text, "Calculus Final Exam")
	research := strings.Index(text, "Research Paper Draft")
	group := strings.Index(text, "Group Project Presentation")
	assert.True(t, physics >= 0 && physics < calculus && calculus < research && research < group, text)

	markup, ok := out.sent[len(out.sent)-1].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, markup.InlineKeyboard, 4)
	assert.Len(t, b.listed, 4)
}

func TestAddConversation(t *testing.T) {
	b, out, store := newTestBot(t, ownerChat)

	send(t, b, "/add")
	send(t, b, "Lab Report")
	send(t, b, "CHEM 110")
	send(t, b, "🎓 Exam")
	send(t, b, "⬆️ High")
	send(t, b, "not a date")
	assert.Contains(t, out.last(), "Can't read that date")
	send(t, b, "2025-03-14")
	send(t, b, "Bring goggles")

	assert.False(t, b.hasConversation())
	all := store.Deadlines()
	require.Len(t, all, 5)
	added := all[4]
	assert.Equal(t, "Lab Report", added.Title)
	assert.Equal(t, "CHEM 110", added.Course)
	assert.Equal(t, model.CategoryExam, added.Category)
	assert.Equal(t, model.PriorityHigh, added.Priority)
	assert.Equal(t, "Bring goggles", added.Description)
	assert.True(t, time.Date(2025, 3, 14, 23, 59, 0, 0, time.UTC).Equal(added.DueDate))
	assert.Equal(t, testNow, added.CreatedAt)

	joined := ""
	for _, m := range out.sent {
		joined += m.Text + "\n"
	}
	assert.Contains(t, joined, "Deadline added successfully!")
}

func TestAddConversationDefaults(t *testing.T) {
	b, _, store := newTestBot(t, ownerChat)

	send(t, b, "/add")
	send(t, b, "Reading")
	send(t, b, "HIST 210")
	send(t, b, btnSkip)
	send(t, b, btnSkip)
	send(t, b, "2025-03-20 09:30")
	send(t, b, "skip")

	all := store.Deadlines()
	require.Len(t, all, 5)
	added := all[4]
	assert.Equal(t, model.CategoryAssignment, added.Category)
	assert.Equal(t, model.PriorityMedium, added.Priority)
	assert.Empty(t, added.Description)
	assert.True(t, time.Date(2025, 3, 20, 9, 30, 0, 0, time.UTC).Equal(added.DueDate))
}

func TestAddConversationRequiresTitle(t *testing.T) {
	b, out, _ := newTestBot(t, ownerChat)

	send(t, b, "/add")
	send(t, b, "   ")
	assert.Contains(t, out.last(), "can't be empty")
	assert.True(t, b.hasConversation())
}

func TestCancelConversation(t *testing.T) {
	b, _, store := newTestBot(t, ownerChat)

	send(t, b, "/add")
	send(t, b, "Essay")
	send(t, b, btnCancelDialog)

	assert.False(t, b.hasConversation())
	assert.Len(t, store.Deadlines(), 4)
}

func TestDoneTogglesByListPosition(t *testing.T) {
	b, out, store := newTestBot(t, ownerChat)
	send(t, b, "/list")
	first := b.listed[0]

	send(t, b, "/done 1")
	d, _ := store.Get(first)
	assert.True(t, d.Completed)
	assert.Contains(t, out.last(), "marked as complete")

	send(t, b, "/done 1")
	d, _ = store.Get(first)
	assert.False(t, d.Completed)
	assert.Contains(t, out.last(), "marked as pending")
}

func TestDoneRejectsBadReference(t *testing.T) {
	b, out, _ := newTestBot(t, ownerChat)

	send(t, b, "/done 1")
	assert.Contains(t, out.last(), "run /list first")

	send(t, b, "/list")
	send(t, b, "/done zero")
	assert.Contains(t, out.last(), "positive integer")
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	b, out, store := newTestBot(t, ownerChat)
	send(t, b, "/list")
	target := b.listed[1]

	send(t, b, "/delete 2")
	assert.Contains(t, out.last(), "Delete «")
	assert.Len(t, store.Deadlines(), 4)

	send(t, b, btnCancel)
	assert.Len(t, store.Deadlines(), 4)

	send(t, b, "/delete 2")
	send(t, b, btnConfirm)
	assert.Len(t, store.Deadlines(), 3)
	_, ok := store.Get(target)
	assert.False(t, ok)
	assert.Contains(t, out.last(), "deleted")
}

func TestEdit(t *testing.T) {
	b, out, store := newTestBot(t, ownerChat)
	send(t, b, "/list")
	id := b.listed[0]
	before, _ := store.Get(id)

	send(t, b, "/edit 1 title Physics Midterm")
	after, _ := store.Get(id)
	assert.Equal(t, "Physics Midterm", after.Title)
	assert.Equal(t, before.Course, after.Course)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.Contains(t, out.last(), "updated successfully")

	send(t, b, "/edit 1 priority low")
	after, _ = store.Get(id)
	assert.Equal(t, model.PriorityLow, after.Priority)

	send(t, b, "/edit 1 colour blue")
	assert.Contains(t, out.last(), "unknown field")
}

func TestFilterAndShowCompleted(t *testing.T) {
	b, out, _ := newTestBot(t, ownerChat)

	send(t, b, "/filter exam")
	assert.Len(t, b.listed, 1)
	assert.Contains(t, out.last(), "Calculus Final Exam")

	send(t, b, "/filter all")
	require.Len(t, b.listed, 4)
	send(t, b, "/done 1")

	send(t, b, "/completed")
	assert.Len(t, b.listed, 3)
	assert.Contains(t, out.last(), "completed hidden")

	send(t, b, "/filter quiz")
	assert.Empty(t, b.listed)
	assert.Contains(t, out.last(), "No matching deadlines")

	send(t, b, "/filter lecture")
	assert.Contains(t, out.last(), "unknown category")
}

func TestStatsAndDigest(t *testing.T) {
	b, out, _ := newTestBot(t, ownerChat)

	send(t, b, "/stats")
	assert.Contains(t, out.last(), "Total: <b>4</b>")
	assert.Contains(t, out.last(), "Urgent: <b>1</b>")
	assert.Contains(t, out.last(), "Coming Soon: <b>1</b>")

	send(t, b, "/digest")
	assert.Contains(t, out.last(), "Deadline overview")
}

func TestMenuAlias(t *testing.T) {
	b, out, _ := newTestBot(t, ownerChat)
	send(t, b, menuLabelStats)
	assert.Contains(t, out.last(), "Total")
}

func TestForeignChatIsIgnored(t *testing.T) {
	b, out, _ := newTestBot(t, ownerChat)
	require.NoError(t, b.handleUpdate(context.Background(), message(2002, "/list")))
	assert.Empty(t, out.sent)
}

func TestFirstChatClaimsOwnership(t *testing.T) {
	b, out, _ := newTestBot(t, 0)
	require.NoError(t, b.handleUpdate(context.Background(), message(3003, "/help")))
	assert.Len(t, out.sent, 1)

	require.NoError(t, b.handleUpdate(context.Background(), message(4004, "/help")))
	assert.Len(t, out.sent, 1)
}

func TestGroupChatsAreIgnored(t *testing.T) {
	b, out, _ := newTestBot(t, ownerChat)
	update := message(ownerChat, "/list")
	update.Message.Chat.Type = "group"
	require.NoError(t, b.handleUpdate(context.Background(), update))
	assert.Empty(t, out.sent)
}

func TestCallbackToggleAndDelete(t *testing.T) {
	b, out, store := newTestBot(t, ownerChat)
	send(t, b, "/list")
	id := b.listed[0]

	cb := func(data string) tgbotapi.Update {
		return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			From:    &tgbotapi.User{ID: ownerChat},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: ownerChat, Type: "private"}},
			Data:    data,
		}}
	}

	require.NoError(t, b.handleUpdate(context.Background(), cb(cbTogglePrefix+id)))
	d, _ := store.Get(id)
	assert.True(t, d.Completed)

	require.NoError(t, b.handleUpdate(context.Background(), cb(cbDeletePrefix+id)))
	assert.Contains(t, out.last(), "Delete «")
	send(t, b, "yes")
	_, ok := store.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 2, out.requests)
}
