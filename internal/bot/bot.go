package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"deadline-tracker/internal/config"
	"deadline-tracker/internal/logger"
	"deadline-tracker/internal/model"
	"deadline-tracker/internal/service"
)

const (
	cbTogglePrefix = "toggle:"
	cbDeletePrefix = "delete:"
)

// sender is the part of the Telegram API the handlers talk to.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot is the single-owner Telegram front end of the deadline store.
type Bot struct {
	api    *tgbotapi.BotAPI
	out    sender
	store  *service.DeadlineStore
	digest *service.DigestService
	loc    *time.Location
	clock  func() time.Time
	log    zerolog.Logger

	mu           sync.Mutex
	ownerID      int64
	view         service.ViewState
	listed       []string
	conversation *conversationState
	pendingID    string
}

func New(token string, store *service.DeadlineStore, digest *service.DigestService, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	b := newBot(api, store, digest, cfg)
	b.api = api
	b.log.Info().Str("account", api.Self.UserName).Msg("bot authorized")
	return b, nil
}

func newBot(out sender, store *service.DeadlineStore, digest *service.DigestService, cfg *config.Config) *Bot {
	loc := time.Local
	var owner int64
	if cfg != nil {
		if cfg.Location != nil {
			loc = cfg.Location
		}
		owner = cfg.OwnerChatID
	}
	return &Bot{
		out:     out,
		store:   store,
		digest:  digest,
		loc:     loc,
		clock:   time.Now,
		log:     logger.Component("bot"),
		ownerID: owner,
		view:    service.DefaultViewState(),
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return errors.New("bot has no api connection")
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info().Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if err := b.handleUpdate(ctx, update); err != nil {
			b.log.Error().Err(err).Int("update", update.UpdateID).Msg("handle update")
		}
	}

	return ctx.Err()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			return nil
		}
		return b.handleMessage(ctx, update.Message)
	default:
		return nil
	}
}

func (b *Bot) now() time.Time {
	return b.clock().In(b.loc)
}

// authorize claims the bot for the first private chat when no owner is configured.
func (b *Bot) authorize(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ownerID == 0 {
		b.ownerID = chatID
		b.log.Info().Int64("chat", chatID).Msg("owner claimed")
		return true
	}
	return b.ownerID == chatID
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	if !b.authorize(msg.Chat.ID) {
		b.log.Warn().Int64("chat", msg.Chat.ID).Msg("ignoring message from foreign chat")
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation()
		b.clearPending()
		return b.sendText(msg.Chat.ID, "⏪ Cancelled.")
	}

	if msg.IsCommand() {
		b.log.Debug().Str("command", msg.Command()).Str("args", msg.CommandArguments()).Msg("command")
		return b.handleCommand(ctx, msg.Chat.ID, msg.Command(), strings.TrimSpace(msg.CommandArguments()))
	}

	if id := b.pending(); id != "" {
		return b.handleConfirmationResponse(ctx, msg.Chat.ID, id, msg.Text)
	}

	if b.hasConversation() {
		return b.handleConversation(ctx, msg.Chat.ID, msg.Text)
	}

	if cmd, ok := menuAlias(msg.Text); ok {
		return b.handleCommand(ctx, msg.Chat.ID, cmd, "")
	}

	return b.sendText(msg.Chat.ID, "I didn't get that. Use /add to track a deadline or /help for all commands.")
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command, args string) error {
	switch command {
	case "start", "help":
		return b.sendText(chatID, helpText)
	case "list":
		return b.sendList(chatID)
	case "add":
		return b.startConversation(chatID)
	case "edit":
		return b.handleEdit(ctx, chatID, args)
	case "done":
		return b.handleToggle(ctx, chatID, args)
	case "delete":
		return b.handleDelete(chatID, args)
	case "filter":
		return b.handleFilter(chatID, args)
	case "completed":
		return b.handleShowCompleted(chatID)
	case "stats":
		return b.sendText(chatID, b.digest.Stats(service.SummaryCounts(b.store.Deadlines(), b.now())))
	case "digest":
		return b.sendText(chatID, b.digest.Summary(b.store.Deadlines(), b.now()))
	case "cancel":
		b.clearConversation()
		b.clearPending()
		return b.sendText(chatID, "⏪ Cancelled.")
	default:
		return b.sendText(chatID, "Unknown command. See /help.")
	}
}

const helpText = "🎓 <b>Deadline Tracker</b>\nStay on top of your academic goals.\n\n" +
	"• /add — add a deadline step by step\n" +
	"• /list — show deadlines with the current filters\n" +
	"• /done &lt;n&gt; — mark deadline n complete or pending again\n" +
	"• /edit &lt;n&gt; &lt;field&gt; &lt;value&gt; — change title, description, course, category, priority or due\n" +
	"• /delete &lt;n&gt; — delete deadline n\n" +
	"• /filter &lt;all|assignment|exam|project|quiz|other&gt; — filter by category\n" +
	"• /completed — show or hide completed deadlines\n" +
	"• /stats — totals, urgent and upcoming counts\n" +
	"• /digest — overview of everything pending\n" +
	"• /cancel — cancel the current input"

func (b *Bot) handleToggle(ctx context.Context, chatID int64, args string) error {
	id, err := b.resolveRef(args)
	if err != nil {
		return b.sendText(chatID, escape(err.Error()))
	}
	return b.toggleAndReport(ctx, chatID, id)
}

func (b *Bot) toggleAndReport(ctx context.Context, chatID int64, id string) error {
	d, ok := b.store.Get(id)
	if !ok {
		return b.sendText(chatID, "Deadline not found.")
	}
	if err := b.store.ToggleCompleted(ctx, id); err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not update deadline: %s", escape(err.Error())))
	}
	b.log.Info().Str("id", id).Bool("completed", !d.Completed).Msg("deadline toggled")
	if d.Completed {
		return b.sendText(chatID, fmt.Sprintf("↩️ «%s» marked as pending", escape(d.Title)))
	}
	return b.sendText(chatID, fmt.Sprintf("🎉 «%s» marked as complete!", escape(d.Title)))
}

func (b *Bot) handleDelete(chatID int64, args string) error {
	id, err := b.resolveRef(args)
	if err != nil {
		return b.sendText(chatID, escape(err.Error()))
	}
	return b.askDeleteConfirmation(chatID, id)
}

func (b *Bot) askDeleteConfirmation(chatID int64, id string) error {
	d, ok := b.store.Get(id)
	if !ok {
		return b.sendText(chatID, "Deadline not found.")
	}
	b.setPending(id)
	text := fmt.Sprintf("🗑 Delete «%s» (%s)?", escape(d.Title), escape(d.Course))
	return b.sendWithReplyMarkup(chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, chatID int64, id, text string) error {
	switch {
	case isConfirmInput(text):
		b.clearPending()
		d, ok := b.store.Get(id)
		if !ok {
			return b.sendText(chatID, "Deadline not found or already deleted.")
		}
		if err := b.store.Remove(ctx, id); err != nil {
			return b.sendText(chatID, fmt.Sprintf("Could not delete deadline: %s", escape(err.Error())))
		}
		b.log.Info().Str("id", id).Msg("deadline deleted")
		return b.sendText(chatID, fmt.Sprintf("🗑 Deadline «%s» deleted", escape(d.Title)))
	case isCancelInput(text):
		b.clearPending()
		return b.sendText(chatID, "Kept it.")
	default:
		return b.sendWithReplyMarkup(chatID, "Confirm or cancel the deletion.", confirmKeyboard())
	}
}

func (b *Bot) handleEdit(ctx context.Context, chatID int64, args string) error {
	ref, field, value, err := splitEditArgs(args)
	if err != nil {
		return b.sendText(chatID, escape(err.Error()))
	}
	id, err := b.resolveRef(ref)
	if err != nil {
		return b.sendText(chatID, escape(err.Error()))
	}
	patch, err := buildPatch(field, value, b.loc)
	if err != nil {
		return b.sendText(chatID, escape(err.Error()))
	}
	if _, ok := b.store.Get(id); !ok {
		return b.sendText(chatID, "Deadline not found.")
	}
	if err := b.store.Update(ctx, id, patch); err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not update deadline: %s", escape(err.Error())))
	}
	b.log.Info().Str("id", id).Str("field", field).Msg("deadline updated")

	d, _ := b.store.Get(id)
	return b.sendText(chatID, "✏️ Deadline updated successfully!\n\n"+service.FormatDeadline(d, b.now()))
}

func (b *Bot) handleFilter(chatID int64, args string) error {
	if args == "" {
		b.mu.Lock()
		current := b.view.Category
		b.mu.Unlock()
		return b.sendText(chatID, fmt.Sprintf("Current filter: <b>%s</b>. Use /filter exam or /filter all.", filterLabel(current)))
	}
	category, err := service.ParseCategoryFilter(args)
	if err != nil {
		return b.sendText(chatID, escape(err.Error()))
	}
	b.mu.Lock()
	b.view.Category = category
	b.mu.Unlock()
	return b.sendList(chatID)
}

func (b *Bot) handleShowCompleted(chatID int64) error {
	b.mu.Lock()
	b.view.ShowCompleted = !b.view.ShowCompleted
	b.mu.Unlock()
	return b.sendList(chatID)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil || cb.Message.Chat == nil {
		return nil
	}
	if _, err := b.out.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn().Err(err).Msg("callback ack")
	}
	chatID := cb.Message.Chat.ID
	if !b.authorize(chatID) {
		return nil
	}

	switch {
	case strings.HasPrefix(cb.Data, cbTogglePrefix):
		return b.toggleAndReport(ctx, chatID, strings.TrimPrefix(cb.Data, cbTogglePrefix))
	case strings.HasPrefix(cb.Data, cbDeletePrefix):
		return b.askDeleteConfirmation(chatID, strings.TrimPrefix(cb.Data, cbDeletePrefix))
	default:
		return nil
	}
}

func (b *Bot) sendList(chatID int64) error {
	b.mu.Lock()
	view := b.view
	b.mu.Unlock()

	now := b.now()
	visible := service.VisibleDeadlines(b.store.Deadlines(), view.Category, view.ShowCompleted)

	ids := make([]string, 0, len(visible))
	for _, d := range visible {
		ids = append(ids, d.ID)
	}
	b.mu.Lock()
	b.listed = ids
	b.mu.Unlock()

	if len(visible) == 0 {
		return b.sendText(chatID, b.digest.EmptyState(view.Filtered()))
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📋 <b>Deadlines</b> · %s", filterLabel(view.Category)))
	if !view.ShowCompleted {
		builder.WriteString(" · completed hidden")
	}
	builder.WriteString("\n\n")

	var buttons [][]tgbotapi.InlineKeyboardButton
	for i, d := range visible {
		builder.WriteString(fmt.Sprintf("<b>%d.</b> %s\n", i+1, service.FormatDeadline(d, now)))

		toggleLabel := fmt.Sprintf("✅ %d · %s", i+1, shortTitle(d.Title, 20))
		if d.Completed {
			toggleLabel = fmt.Sprintf("↩️ %d · %s", i+1, shortTitle(d.Title, 20))
		}
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(toggleLabel, cbTogglePrefix+d.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", cbDeletePrefix+d.ID),
		))
	}

	msg := tgbotapi.NewMessage(chatID, strings.TrimSpace(builder.String()))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err := b.out.Send(msg)
	return err
}

// resolveRef maps a list position from the last /list output to a record id.
func (b *Bot) resolveRef(arg string) (string, error) {
	n, err := parseRef(arg)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if n > len(b.listed) {
		return "", fmt.Errorf("no deadline #%d in the last list, run /list first", n)
	}
	return b.listed[n-1], nil
}

func (b *Bot) setPending(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pendingID = id
}

func (b *Bot) pending() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingID
}

func (b *Bot) clearPending() {
	b.setPending("")
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendWithReplyMarkup(chatID, text, mainMenuKeyboard())
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.out.Send(msg)
	return err
}

func filterLabel(c model.Category) string {
	if c == service.AllCategories {
		return "All"
	}
	return c.Icon() + " " + c.Label()
}

func escape(s string) string {
	return html.EscapeString(s)
}
