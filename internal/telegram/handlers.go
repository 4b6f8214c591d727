package telegram

import (
	"context"
	"errors"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"splatbot/internal/models"
	"splatbot/internal/quiz"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		user, err := b.users.GetOrCreate(ctx, msg.From.ID, optional(msg.From.UserName), optional(msg.From.FirstName))
		if err != nil {
			log.Printf("Failed to ensure user %d: %v", msg.From.ID, err)
			b.reply(chatID, apologyMessage, backKeyboard())
			return
		}
		b.reply(chatID, welcomeMessage(user.DisplayName()), mainMenuKeyboard())
	case "menu":
		b.reply(chatID, mainMenuText, mainMenuKeyboard())
	case "stats":
		b.reply(chatID, b.statsText(ctx, msg.From.ID), backKeyboard())
	case "help":
		b.reply(chatID, helpText, mainMenuKeyboard())
	default:
		b.reply(chatID, unknownCommandMessage, mainMenuKeyboard())
	}
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	data := callback.Data

	b.ack(callback, "")

	switch {
	case data == "back_to_menu":
		b.edit(chatID, messageID, mainMenuText, mainMenuKeyboard())
	case data == "menu_quiz":
		b.edit(chatID, messageID, quizTopicsText, quizTopicsKeyboard())
	case data == "menu_splat_tests":
		b.edit(chatID, messageID, splatTestsText, splatTypesKeyboard())
	case data == "my_stats":
		b.edit(chatID, messageID, b.statsText(ctx, callback.From.ID), backKeyboard())
	case data == "help":
		b.edit(chatID, messageID, helpText, backKeyboard())
	case quiz.IsTopic(data):
		b.startQuiz(ctx, callback, data)
	case strings.HasPrefix(data, "answer_"):
		b.submitAnswer(ctx, callback)
	case data == "next_question":
		b.nextQuestion(ctx, callback)
	case data == "end_quiz":
		b.endQuiz(ctx, callback)
	default:
		b.edit(chatID, messageID, somethingWrongMessage, backKeyboard())
	}
}

func (b *Bot) startQuiz(ctx context.Context, callback *tgbotapi.CallbackQuery, topicTag string) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	// topic taps can arrive before /start ever ran
	if _, err := b.users.GetOrCreate(ctx, callback.From.ID, optional(callback.From.UserName), optional(callback.From.FirstName)); err != nil {
		log.Printf("Failed to ensure user %d: %v", callback.From.ID, err)
		b.edit(chatID, messageID, apologyMessage, backKeyboard())
		return
	}

	progress, err := b.engine.Start(ctx, callback.From.ID, topicTag)
	switch {
	case errors.Is(err, quiz.ErrNoQuestions):
		b.edit(chatID, messageID, noQuestionsMessage, backKeyboard())
		return
	case err != nil:
		log.Printf("Failed to start quiz for %d: %v", callback.From.ID, err)
		b.edit(chatID, messageID, apologyMessage, backKeyboard())
		return
	}

	b.edit(chatID, messageID, questionMessage(progress), answerKeyboard(progress.Question))
}

func (b *Bot) submitAnswer(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	questionID, letter, ok := parseAnswerData(callback.Data)
	if !ok {
		// malformed payload fails closed
		b.edit(chatID, messageID, somethingWrongMessage, backKeyboard())
		return
	}

	grade, err := b.engine.Submit(ctx, callback.From.ID, questionID, letter)
	switch {
	case errors.Is(err, quiz.ErrNoActiveQuiz):
		b.edit(chatID, messageID, noActiveQuizMessage, mainMenuKeyboard())
		return
	case errors.Is(err, quiz.ErrQuestionNotInQuiz), errors.Is(err, quiz.ErrInvalidOption):
		b.edit(chatID, messageID, somethingWrongMessage, backKeyboard())
		return
	case err != nil:
		log.Printf("Failed to grade answer for %d: %v", callback.From.ID, err)
		b.edit(chatID, messageID, apologyMessage, backKeyboard())
		return
	}

	b.edit(chatID, messageID, gradeMessage(grade), explanationKeyboard())
}

func (b *Bot) nextQuestion(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	progress, err := b.engine.Advance(ctx, callback.From.ID)
	switch {
	case errors.Is(err, quiz.ErrQuizDone):
		b.finalize(ctx, callback)
		return
	case errors.Is(err, quiz.ErrNoActiveQuiz):
		b.edit(chatID, messageID, noActiveQuizMessage, mainMenuKeyboard())
		return
	case err != nil:
		log.Printf("Failed to advance quiz for %d: %v", callback.From.ID, err)
		b.edit(chatID, messageID, apologyMessage, backKeyboard())
		return
	}

	b.edit(chatID, messageID, questionMessage(progress), answerKeyboard(progress.Question))
}

func (b *Bot) endQuiz(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	b.finalize(ctx, callback)
}

func (b *Bot) finalize(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	summary, err := b.engine.Finish(ctx, callback.From.ID)
	switch {
	case errors.Is(err, quiz.ErrNoActiveQuiz):
		b.edit(chatID, messageID, mainMenuText, mainMenuKeyboard())
		return
	case err != nil:
		log.Printf("Failed to finish quiz for %d: %v", callback.From.ID, err)
		b.edit(chatID, messageID, apologyMessage, backKeyboard())
		return
	}

	b.edit(chatID, messageID, summaryMessage(summary), mainMenuKeyboard())
}

func (b *Bot) statsText(ctx context.Context, telegramID int64) string {
	user, err := b.users.GetByTelegramID(ctx, telegramID)
	if errors.Is(err, pgx.ErrNoRows) {
		return noStatsMessage
	}
	if err != nil {
		log.Printf("Failed to load stats for %d: %v", telegramID, err)
		return apologyMessage
	}

	breakdown, err := b.answers.CategoryBreakdown(ctx, user.ID)
	if err != nil {
		log.Printf("Failed to load category stats for %d: %v", telegramID, err)
		return apologyMessage
	}

	return statsMessage(user, breakdown)
}

// parseAnswerData splits "answer_<question-uuid>_<letter>".
func parseAnswerData(data string) (uuid.UUID, string, bool) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 || parts[0] != "answer" {
		return uuid.Nil, "", false
	}

	questionID, err := uuid.Parse(parts[1])
	if err != nil {
		return uuid.Nil, "", false
	}

	letter := parts[2]
	if len(letter) != 1 {
		return uuid.Nil, "", false
	}
	for _, l := range models.OptionLetters {
		if l == letter {
			return questionID, letter, true
		}
	}
	return uuid.Nil, "", false
}
