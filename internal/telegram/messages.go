package telegram

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"splatbot/internal/models"
	"splatbot/internal/quiz"
)

const (
	mainMenuText = "📚 <b>Main Menu</b>\n\nChoose an option:"

	quizTopicsText = "📚 <b>Select Quiz Topic</b>\n\n" +
		"Choose a topic to practice with 10 random questions.\n\n" +
		"Each quiz tests your knowledge with MCQ questions and detailed explanations."

	splatTestsText = "💡 <b>SPLAT Test Practice</b>\n\n" +
		"Practice with real SPLAT test cases!\n\n" +
		"<b>Test Types:</b>\n" +
		"❌ <b>Bad Lex:</b> Invalid characters\n" +
		"❌ <b>Bad Parse:</b> Syntax errors\n" +
		"❌ <b>Bad Semantics:</b> Type/scope errors\n" +
		"❌ <b>Bad Execution:</b> Runtime errors\n" +
		"✅ <b>Good Execution:</b> Successful programs\n\n" +
		"Each question shows the SPLAT code and asks you to predict the exception type or output."

	helpText = "📚 <b>SPLAT Exam Bot - Help</b>\n\n" +
		"<b>Commands:</b>\n" +
		"/start - Welcome message and main menu\n" +
		"/menu - Show main menu\n" +
		"/stats - View your statistics\n" +
		"/help - Show this help message\n\n" +
		"<b>How to Use:</b>\n" +
		"1️⃣ Choose a quiz type or topic from the menu\n" +
		"2️⃣ Answer questions by clicking the options\n" +
		"3️⃣ Get instant feedback with explanations\n" +
		"4️⃣ Track your progress with /stats\n\n" +
		"Good luck with your exam! 🚀"

	noQuestionsMessage = "❌ No questions available for this topic yet.\n\n" +
		"Please try another topic."

	noStatsMessage = "❌ No statistics available yet. Start a quiz to begin tracking your progress!"

	noActiveQuizMessage = "You have no quiz in progress. Pick a topic to start one!"

	somethingWrongMessage = "😕 Something went wrong. Please go back to the menu and try again."

	apologyMessage = "😔 Sorry, something went wrong on our side. Please try again in a moment."

	unknownCommandMessage = "I don't know that command. Try /menu."
)

func welcomeMessage(name string) string {
	return fmt.Sprintf(
		"🎓 <b>Welcome to the SPLAT Final Exam Prep Bot!</b>\n\n"+
			"Hi %s! Ready to ace your compilers final?\n\n"+
			"<b>What this bot offers:</b>\n"+
			"📚 Practice questions across all exam topics\n"+
			"💡 Real SPLAT test cases with detailed explanations\n"+
			"📊 Progress tracking and statistics\n\n"+
			"<b>Topics Covered:</b>\n"+
			"• Lexer (Phase 1) - Tokenization & LexException\n"+
			"• Parser (Phase 2) - AST & ParseException\n"+
			"• Semantics (Phase 3) - Type checking\n"+
			"• Executor (Phase 4) - Runtime & ExecutionException\n"+
			"• CFG & BNF Grammar\n"+
			"• Java OOP Basics\n\n"+
			"Good luck with your exam! 🚀",
		html.EscapeString(name))
}

func questionMessage(p *quiz.Progress) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📝 <b>Question %d/%d</b>\n\n", p.Position, p.Total)

	q := p.Question
	if q.Code != nil && *q.Code != "" {
		fmt.Fprintf(&sb, "<b>%s</b>\n\n", html.EscapeString(q.QuestionText))
		fmt.Fprintf(&sb, "<pre>%s</pre>\n\n", html.EscapeString(*q.Code))
	} else {
		fmt.Fprintf(&sb, "%s\n\n", html.EscapeString(q.QuestionText))
	}

	sb.WriteString("Select your answer:")
	return sb.String()
}

func gradeMessage(g *quiz.Grade) string {
	var sb strings.Builder

	if g.Correct {
		sb.WriteString("✅ <b>Correct!</b>\n\n")
	} else {
		sb.WriteString("❌ <b>Incorrect</b>\n\n")
		fmt.Fprintf(&sb, "<b>Your answer:</b> %s) %s\n",
			g.Selected, html.EscapeString(g.Question.OptionText(g.Selected)))
		fmt.Fprintf(&sb, "<b>Correct answer:</b> %s) %s\n\n",
			g.Question.CorrectAnswer, html.EscapeString(g.Question.CorrectOptionText()))
	}

	fmt.Fprintf(&sb, "<b>📖 Explanation:</b>\n%s", html.EscapeString(g.Question.Explanation))

	if g.Question.SourceFile != nil && *g.Question.SourceFile != "" {
		fmt.Fprintf(&sb, "\n\n<i>Source: %s</i>", html.EscapeString(*g.Question.SourceFile))
	}

	return sb.String()
}

func summaryMessage(s *quiz.Summary) string {
	var headline string
	switch {
	case s.Score >= 90:
		headline = "🏆 Outstanding!"
	case s.Score >= 70:
		headline = "🎉 Great job!"
	case s.Score >= 50:
		headline = "👍 Good effort!"
	default:
		headline = "📚 Keep practicing!"
	}

	return fmt.Sprintf(
		"🏁 <b>Quiz Complete!</b>\n\n"+
			"<b>%s</b>\n\n"+
			"✅ Correct: %d/%d\n"+
			"📊 Score: %.1f%%\n\n"+
			"<b>What's next?</b>\n"+
			"• Try another quiz topic\n"+
			"• Review your statistics with /stats",
		headline, s.Correct, s.Total, s.Score)
}

var categoryEmojis = map[string]string{
	"lexer":     "🔤",
	"parser":    "🌳",
	"semantics": "🔍",
	"executor":  "⚡",
	"cfg":       "📝",
	"java":      "☕",
	"concepts":  "💡",
	"splat":     "💻",
}

func statsMessage(user *models.User, breakdown []models.CategoryStat) string {
	var sb strings.Builder

	sb.WriteString("📊 <b>Your Statistics</b>\n\n")
	fmt.Fprintf(&sb, "<b>👤 User:</b> %s\n", html.EscapeString(user.DisplayName()))
	fmt.Fprintf(&sb, "<b>📅 Member since:</b> %s\n\n", user.CreatedAt.Format("January 2, 2006"))

	sb.WriteString("<b>📈 Overall Performance:</b>\n")
	fmt.Fprintf(&sb, "✅ <b>Correct Answers:</b> %d/%d\n", user.CorrectAnswers, user.TotalAnswered)
	fmt.Fprintf(&sb, "📊 <b>Accuracy:</b> %.1f%%\n", user.Accuracy())
	fmt.Fprintf(&sb, "🔥 <b>Current Streak:</b> %d\n", user.CurrentStreak)
	fmt.Fprintf(&sb, "🏆 <b>Best Streak:</b> %d\n", user.BestStreak)

	if len(breakdown) == 0 {
		sb.WriteString("\n<i>No category statistics yet. Complete some quizzes to see detailed stats!</i>")
		return sb.String()
	}

	// best categories first
	sorted := append([]models.CategoryStat(nil), breakdown...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Accuracy > sorted[j].Accuracy
	})

	sb.WriteString("\n<b>📚 Performance by Topic:</b>\n")
	for _, s := range sorted {
		emoji, ok := categoryEmojis[s.Category]
		if !ok {
			emoji = "📖"
		}
		fmt.Fprintf(&sb, "\n%s <b>%s:</b> %d/%d (%.1f%%)",
			emoji, capitalize(s.Category), s.Correct, s.Total, s.Accuracy)
	}

	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
