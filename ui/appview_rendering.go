package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"wrapchat/config"
)

// Pre-compiled regex patterns for better performance
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	if len(a.dataModel.Messages) == 0 {
		a.viewport.SetContent("No messages yet. Describe how your endpoint should behave, or press Alt+P to set up tools.")
		return
	}

	var content strings.Builder

	for _, msg := range a.dataModel.Messages {
		timestamp := DimStyle.Render(msg.CreatedAt.Format("[15:04]"))

		// Typing placeholder gets the animated spinner
		if msg.Flags.IsTyping {
			content.WriteString(fmt.Sprintf("%s %s %s\n\n", timestamp, a.loadingSpinner.View(), DimStyle.Render(msg.Content)))
			continue
		}

		// Status narration: one dim line, styled by status type
		if msg.Flags.IsStatus {
			style := statusStyleFor(msg.StatusType)
			content.WriteString(fmt.Sprintf("%s %s\n\n", timestamp, style.Render("• "+msg.Content)))
			continue
		}

		if msg.Flags.IsError {
			content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, ErrorStyle.Render("✗ Error"), msg.Rendered))
			continue
		}

		if msg.Role == "user" {
			content.WriteString(formatUserMessage(timestamp, UserStyle.Render("You"), msg.Rendered))
			continue
		}

		role := AssistantStyle.Render("Assistant")
		content.WriteString(fmt.Sprintf("%s %s\n%s\n\n", timestamp, role, msg.Rendered))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func formatUserMessage(timestamp, role, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	lines := strings.Split(content, "\n")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s %s %s\n", bar, timestamp, role))

	for _, line := range lines {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}

	result.WriteString("\n")

	return result.String()
}

func postProcessMarkdown(rendered string, width int) string {
	// 1. Fix inline code: Blue background → Red text
	rendered = fixInlineCode(rendered)

	// 2. Color plain URLs red (autolink disabled keeps URLs plain)
	rendered = fixMarkdownLinks(rendered)

	// 3. Frame code blocks with horizontal lines
	rendered = frameCodeBlocks(rendered, width)

	return rendered
}

func preprocessLinks(content string) string {
	// Strip markdown link syntax [text](url) → just url
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

func fixInlineCode(s string) string {
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func fixMarkdownLinks(s string) string {
	redColor := "\x1b[31m"
	reset := "\x1b[0m"

	lines := strings.Split(s, "\n")

	for i, line := range lines {
		// Skip code blocks (they have ┃ prefix from the renderer)
		if !strings.Contains(line, "┃") {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+reset)
		}
	}

	return strings.Join(lines, "\n")
}

func frameCodeBlocks(s string, width int) string {
	lines := strings.Split(s, "\n")
	var result []string
	var codeBlockLines []string
	inCodeBlock := false

	darkGray := "\x1b[90m"
	reset := "\x1b[0m"

	for _, line := range lines {
		if strings.Contains(line, "┃") {
			if !inCodeBlock {
				inCodeBlock = true
				codeBlockLines = []string{}
				result = append(result, "")

				label := "[code]"
				lineLen := width - 4
				leftLen := (lineLen - len(label)) / 2
				rightLen := lineLen - len(label) - leftLen
				border := darkGray + strings.Repeat("━", leftLen) + reset + label + darkGray + strings.Repeat("━", rightLen) + reset

				result = append(result, border)
				result = append(result, "")
			}

			codeBlockLines = append(codeBlockLines, stripCodeBlockPrefix(line))

		} else {
			if inCodeBlock {
				result = append(result, codeBlockLines...)
				result = append(result, "")
				border := darkGray + strings.Repeat("━", width-4) + reset
				result = append(result, border)
				result = append(result, "")

				codeBlockLines = nil
				inCodeBlock = false
			}
			result = append(result, line)
		}
	}

	if inCodeBlock && len(codeBlockLines) > 0 {
		result = append(result, codeBlockLines...)
		result = append(result, "")
		border := darkGray + strings.Repeat("━", width-4) + reset
		result = append(result, border)
		result = append(result, "")
	}

	return strings.Join(result, "\n")
}

func stripCodeBlockPrefix(line string) string {
	idx := strings.Index(line, "┃")
	if idx >= 0 {
		after := idx + len("┃")
		if after < len(line) && line[after] == ' ' {
			after++
		}
		if after < len(line) {
			return line[after:]
		}
		return ""
	}
	return line
}

func (a AppView) renderMarkdownAsync(messageIndex int, content string) tea.Cmd {
	if messageIndex < 0 {
		return nil
	}
	width := a.width
	return func() tea.Msg {
		startTime := time.Now()

		content = preprocessLinks(content)

		// Render with go-term-markdown; autolink disabled so terminal
		// emulators handle URL detection
		defaultExt := markdown.Extensions()
		customExt := defaultExt &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(width-4, 0)
		doc := p.Parse([]byte(content))
		rendered := gomarkdown.Render(doc, r)

		processed := postProcessMarkdown(string(rendered), width)

		if config.DebugLog != nil {
			config.DebugLog.Printf("Markdown rendered in %v (message %d, %d chars)", time.Since(startTime), messageIndex, len(content))
		}

		return markdownRenderedMsg{
			MessageIndex: messageIndex,
			Rendered:     processed,
		}
	}
}
