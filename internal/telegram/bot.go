package telegram

import (
	"context"
	"log"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"splatbot/internal/quiz"
	"splatbot/internal/repository"
)

// Bot is the conversational surface: a long-polling update loop that routes
// commands and inline-keyboard callbacks into the quiz engine and the stores.
type Bot struct {
	api     *tgbotapi.BotAPI
	engine  *quiz.Engine
	users   *repository.UserRepo
	answers *repository.AnswerRepo
	quizzes *repository.QuizRepo
}

func NewBot(token string, debug bool, engine *quiz.Engine, users *repository.UserRepo, answers *repository.AnswerRepo, quizzes *repository.QuizRepo) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	api.Debug = debug

	return &Bot{
		api:     api,
		engine:  engine,
		users:   users,
		answers: answers,
		quizzes: quizzes,
	}, nil
}

// Run consumes updates until the context is cancelled. Each update gets its
// own request-scoped context; one user's failure never takes down the loop.
func (b *Bot) Run(ctx context.Context) {
	log.Printf("Authorized on account: %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	reqCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(reqCtx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(reqCtx, update.CallbackQuery)
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

// reply sends a fresh HTML message with a keyboard.
func (b *Bot) reply(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

// edit rewrites the message the callback came from, keeping the chat tidy
// the way the quiz flow expects.
func (b *Bot) edit(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	msg.ParseMode = tgbotapi.ModeHTML
	b.send(msg)
}

func (b *Bot) ack(callback *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, text)); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}
}
