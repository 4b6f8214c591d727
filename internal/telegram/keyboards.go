package telegram

import (
	"fmt"
	"math/rand"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"splatbot/internal/models"
)

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📚 Start Quiz", "menu_quiz"),
			tgbotapi.NewInlineKeyboardButtonData("💡 SPLAT Tests", "menu_splat_tests"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My Stats", "my_stats"),
			tgbotapi.NewInlineKeyboardButtonData("❓ Help", "help"),
		),
	)
}

func quizTopicsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔤 Lexer (Phase 1)", "quiz_lexer")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🌳 Parser (Phase 2)", "quiz_parser")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🔍 Semantics (Phase 3)", "quiz_semantics")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("⚡ Executor (Phase 4)", "quiz_executor")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("📝 CFG & Grammar", "quiz_cfg")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("☕ Java Basics", "quiz_java")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎲 Mixed (All Topics)", "quiz_mixed")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("« Back to Menu", "back_to_menu")),
	)
}

func splatTypesKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Lex Exceptions", "splat_badlex")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Parse Exceptions", "splat_badparse")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Semantic Exceptions", "splat_badsemantics")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("❌ Execution Exceptions", "splat_badexecution")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✅ Good Execution", "splat_goodexecution")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("🎲 Random SPLAT Test", "splat_random")),
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("« Back to Menu", "back_to_menu")),
	)
}

// answerKeyboard renders one button per present option. The display order is
// shuffled per presentation; the letters behind the callback data stay fixed
// to the stored rows.
func answerKeyboard(q *models.Question) tgbotapi.InlineKeyboardMarkup {
	options := q.Options()
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, opt := range options {
		label := opt.Text
		if len(label) > 60 {
			label = label[:60] + "..."
		}
		data := fmt.Sprintf("answer_%s_%s", q.ID, opt.Letter)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data),
		))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("❌ End Quiz", "end_quiz"),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func explanationKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➡️ Next Question", "next_question"),
			tgbotapi.NewInlineKeyboardButtonData("❌ End Quiz", "end_quiz"),
		),
	)
}

func backKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("« Back to Menu", "back_to_menu"),
		),
	)
}
