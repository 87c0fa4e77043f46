package quiz

import (
	"fmt"
	"strings"

	"github.com/quizdesk/aiquiz/internal/topic"
)

// SystemPrompt instructs the model to emit the exact layout the question
// parser recognizes. The "Question:", "N)" and "Correct answers:" markers
// here and in BuildPrompt are one half of a protocol; the other half lives in
// the question package's regexps. Change them in lockstep or not at all.
const SystemPrompt = "You are a multiple-choice question generator. " +
	"Create one question based on the prompt. Respond in the following format:\n" +
	answerFormat

const answerFormat = "Question: <question text>\n" +
	"Options:\n" +
	"1) ...\n" +
	"2) ...\n" +
	"3) ...\n" +
	"4) ...\n" +
	"(optional 5) ...\n" +
	"(optional 6) ...\n" +
	"Correct answers: <numbers separated by spaces>"

// BuildPrompt fills the generation template with the topic name and the
// chosen source. Pure and deterministic given its inputs.
func BuildPrompt(topicName string, src topic.Source) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Use this source as reference: %s (%s)\n", src.Name, src.Link)
	fmt.Fprintf(&sb, "Create a multiple-choice question about the topic '%s'.\n", topicName)
	sb.WriteString("Answer in the following format:\n")
	sb.WriteString(answerFormat)
	return sb.String()
}
