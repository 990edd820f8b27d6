package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"deadline-tracker/internal/model"
	"deadline-tracker/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTitle
	stageCourse
	stageCategory
	stagePriority
	stageDueDate
	stageDescription
)

type conversationState struct {
	stage conversationStage
	input model.DeadlineInput
}

func (b *Bot) startConversation(chatID int64) error {
	b.mu.Lock()
	b.conversation = &conversationState{
		stage: stageTitle,
		input: model.DeadlineInput{Category: model.CategoryAssignment, Priority: model.PriorityMedium},
	}
	b.pendingID = ""
	b.mu.Unlock()
	b.log.Debug().Msg("start add conversation")
	return b.sendWithReplyMarkup(chatID, "🆕 New deadline.\n<b>Step 1:</b> what is it called?", cancelKeyboard())
}

func (b *Bot) hasConversation() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversation != nil
}

func (b *Bot) clearConversation() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversation = nil
}

func (b *Bot) handleConversation(ctx context.Context, chatID int64, raw string) error {
	b.mu.Lock()
	state := b.conversation
	b.mu.Unlock()
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(raw)
	switch state.stage {
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(chatID, "The title can't be empty. What is it called?", cancelKeyboard())
		}
		state.input.Title = text
		state.stage = stageCourse
		return b.sendWithReplyMarkup(chatID, "📚 <b>Step 2:</b> which course? (e.g. <code>MATH 201</code>)", cancelKeyboard())
	case stageCourse:
		if text == "" {
			return b.sendWithReplyMarkup(chatID, "The course can't be empty. Which course?", cancelKeyboard())
		}
		state.input.Course = text
		state.stage = stageCategory
		return b.sendWithReplyMarkup(chatID, "🏷 <b>Step 3:</b> pick a category (or skip for Assignment).", categoryKeyboard())
	case stageCategory:
		if !isSkipInput(text) {
			category, err := model.ParseCategory(stripIcon(text))
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "Pick one of the categories below.", categoryKeyboard())
			}
			state.input.Category = category
		}
		state.stage = stagePriority
		return b.sendWithReplyMarkup(chatID, "⚖️ <b>Step 4:</b> priority? (or skip for Medium)", priorityKeyboard())
	case stagePriority:
		if !isSkipInput(text) {
			priority, err := model.ParsePriority(stripIcon(text))
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "Pick High, Medium or Low.", priorityKeyboard())
			}
			state.input.Priority = priority
		}
		state.stage = stageDueDate
		return b.sendWithReplyMarkup(chatID, "⏰ <b>Step 5:</b> when is it due? <code>2025-11-30 14:00</code>, or just the date for 23:59.", cancelKeyboard())
	case stageDueDate:
		due, err := parseDue(text, b.loc)
		if err != nil {
			return b.sendWithReplyMarkup(chatID, "Can't read that date. Use <code>2025-11-30</code> or <code>2025-11-30 14:00</code>.", cancelKeyboard())
		}
		state.input.DueDate = due
		state.stage = stageDescription
		return b.sendWithReplyMarkup(chatID, "📝 <b>Step 6:</b> any notes? (or skip)", skipKeyboard())
	case stageDescription:
		if !isSkipInput(text) {
			state.input.Description = text
		}
		input := state.input
		b.clearConversation()
		return b.finishCreation(ctx, chatID, input)
	default:
		b.clearConversation()
		return b.sendText(chatID, "Input reset. Try again with /add.")
	}
}

func (b *Bot) finishCreation(ctx context.Context, chatID int64, input model.DeadlineInput) error {
	d, err := b.store.Add(ctx, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDeadline) {
			return b.sendText(chatID, fmt.Sprintf("That deadline is incomplete: %s", escape(err.Error())))
		}
		return b.sendText(chatID, fmt.Sprintf("Could not save deadline: %s", escape(err.Error())))
	}

	b.log.Info().Str("id", d.ID).Str("category", string(d.Category)).Msg("deadline created")

	msg := tgbotapi.NewMessage(chatID, "✅ <b>Deadline added successfully!</b>\n\n"+service.FormatDeadline(d, b.now()))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	if _, err := b.out.Send(msg); err != nil {
		return err
	}
	return b.sendList(chatID)
}
