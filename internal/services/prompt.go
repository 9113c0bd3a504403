package services

import (
	"strings"

	"smartbrief-backend/internal/models"
)

const (
	DefaultMode   = "tldr"
	DefaultTone   = "professional"
	DefaultDepth  = "brief"
	DefaultFormat = "paragraphs"
)

type promptFragment struct {
	id          string
	name        string
	description string
	instruction string
}

var modeFragments = []promptFragment{
	{"tldr", "TL;DR", "Quick, concise summary of main points", "Provide a concise TL;DR summary of the main points"},
	{"study", "Study", "Detailed notes with key concepts and definitions", "Create study notes with key concepts, definitions, and important points for learning"},
	{"pitch", "Pitch", "Talking points and key arguments for presentations", "Extract talking points and key arguments suitable for presentations"},
	{"rewrite", "Rewrite", "Transform into different format or style", "Rewrite the content in a different format while preserving key information"},
	{"insight", "Insight", "Extract key insights and actionable takeaways", "Extract key insights, takeaways, and actionable points"},
}

var toneFragments = []promptFragment{
	{"professional", "Professional", "", "Use professional, formal language"},
	{"casual", "Casual", "", "Use casual, conversational language"},
	{"academic", "Academic", "", "Use academic, scholarly language"},
	{"simple", "Simple", "", "Use simple, easy-to-understand language"},
}

var depthFragments = []promptFragment{
	{"brief", "Brief", "", "Keep it very brief and to the point"},
	{"detailed", "Detailed", "", "Provide detailed analysis and explanation"},
	{"comprehensive", "Comprehensive", "", "Provide comprehensive coverage of all aspects"},
}

var formatFragments = []promptFragment{
	{"bullets", "Bullet points", "", "Format as bullet points"},
	{"paragraphs", "Paragraphs", "", "Format as flowing paragraphs"},
	{"numbered", "Numbered list", "", "Format as numbered list"},
	{"outline", "Outline", "", "Format as an outline structure"},
}

// QuickQuestions are canned follow-up questions offered before a chat starts.
var QuickQuestions = []string{
	"Explain this like I'm 5",
	"Give me real-world examples",
	"What are the key takeaways?",
	"How can I apply this?",
	"What are the potential challenges?",
}

func lookupFragment(fragments []promptFragment, id, fallback string) string {
	var def string
	for _, f := range fragments {
		if f.id == id {
			return f.instruction
		}
		if f.id == fallback {
			def = f.instruction
		}
	}
	return def
}

func normalizeOption(fragments []promptFragment, id, fallback string) string {
	for _, f := range fragments {
		if f.id == id {
			return id
		}
	}
	return fallback
}

// NormalizeOptions maps unrecognized option values to the axis defaults.
func NormalizeOptions(mode, tone, depth, format string) (string, string, string, string) {
	return normalizeOption(modeFragments, mode, DefaultMode),
		normalizeOption(toneFragments, tone, DefaultTone),
		normalizeOption(depthFragments, depth, DefaultDepth),
		normalizeOption(formatFragments, format, DefaultFormat)
}

func ModeInstruction(mode string) string {
	return lookupFragment(modeFragments, mode, DefaultMode)
}

func ToneInstruction(tone string) string {
	return lookupFragment(toneFragments, tone, DefaultTone)
}

func DepthInstruction(depth string) string {
	return lookupFragment(depthFragments, depth, DefaultDepth)
}

func FormatInstruction(format string) string {
	return lookupFragment(formatFragments, format, DefaultFormat)
}

// ComposeSummaryPrompt builds the single prompt sent for a summarize action.
// Unrecognized option values fall back to the defaults.
func ComposeSummaryPrompt(mode, tone, depth, format, content string) string {
	var b strings.Builder

	b.WriteString(ModeInstruction(mode))
	b.WriteString("\n\nContent to summarize:\n")
	b.WriteString(content)
	b.WriteString("\n\nInstructions:\n")
	b.WriteString("- " + ToneInstruction(tone) + "\n")
	b.WriteString("- " + DepthInstruction(depth) + "\n")
	b.WriteString("- " + FormatInstruction(format) + "\n")
	b.WriteString("\nPlease provide a high-quality summary following these guidelines.\n")

	return b.String()
}

func ComposeFollowUpPrompt(question, originalContent, previousSummary string) string {
	var b strings.Builder

	b.WriteString("Based on this content and previous summary, please answer the following question:\n\n")
	b.WriteString("Original Content: " + originalContent + "\n")
	b.WriteString("Previous Summary: " + previousSummary + "\n")
	b.WriteString("Question: " + question + "\n")
	b.WriteString("\nPlease provide a helpful and accurate answer based on the content.\n")

	return b.String()
}

// Options lists the selectable values of every option axis.
func Options() models.SummaryOptions {
	return models.SummaryOptions{
		Modes:   toOptions(modeFragments),
		Tones:   toOptions(toneFragments),
		Depths:  toOptions(depthFragments),
		Formats: toOptions(formatFragments),
	}
}

func toOptions(fragments []promptFragment) []models.SummaryOption {
	out := make([]models.SummaryOption, len(fragments))
	for i, f := range fragments {
		out[i] = models.SummaryOption{ID: f.id, Name: f.name, Description: f.description}
	}
	return out
}
