package main

import (
	"html"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if out, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(out), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// noteFromClipboard splits pasted text into a title (first non-blank
// line) and content (the rest).
func noteFromClipboard(raw string) (title, content string) {
	text := strings.TrimSpace(cleanClipboardText(raw))
	first, rest, _ := strings.Cut(text, "\n")
	return strings.TrimSpace(first), strings.TrimSpace(rest)
}

// cleanClipboardText turns rich clipboard content into plain text with
// unix newlines and no control characters.
func cleanClipboardText(text string) string {
	switch {
	case isRTF(text):
		text = rtfText(text)
	case isHTML(text):
		text = htmlText(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r >= ' ' {
			return r
		}
		return -1
	}, text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf")
}

func isHTML(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div") || strings.Contains(t, "<p"))
}

var (
	htmlBreak = regexp.MustCompile(`(?i)<br\s*/?>|</p>|</div>|</li>`)
	htmlTag   = regexp.MustCompile(`<[^>]*>`)
)

func htmlText(s string) string {
	s = htmlBreak.ReplaceAllString(s, "\n")
	s = htmlTag.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

// Groups whose text is metadata, not content.
var rtfSkip = map[string]bool{
	"fonttbl":    true,
	"colortbl":   true,
	"stylesheet": true,
	"info":       true,
	"*":          true,
}

func rtfText(rtf string) string {
	var b strings.Builder
	depth, skipFrom := 0, 0
	for i := 0; i < len(rtf); i++ {
		switch c := rtf[i]; c {
		case '{':
			depth++
		case '}':
			if skipFrom == depth {
				skipFrom = 0
			}
			depth--
		case '\\':
			word, arg, next := rtfControl(rtf, i+1)
			i = next - 1
			if skipFrom != 0 {
				continue
			}
			switch word {
			case "par", "line":
				b.WriteByte('\n')
			case "tab":
				b.WriteByte('\t')
			case "~":
				b.WriteByte(' ')
			case "\\", "{", "}", "-":
				b.WriteString(word)
			case "'":
				if v, err := strconv.ParseUint(arg, 16, 8); err == nil {
					b.WriteRune(rune(v))
				}
			default:
				if rtfSkip[word] {
					skipFrom = depth
				}
			}
		case '\r', '\n':
		default:
			if skipFrom == 0 {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

// rtfControl reads the control sequence starting at i, just after a
// backslash. It returns the control word, its argument and the index after
// the sequence.
func rtfControl(s string, i int) (word, arg string, next int) {
	if i >= len(s) {
		return "", "", i
	}
	if s[i] == '\'' {
		end := min(i+3, len(s))
		return "'", s[i+1 : end], end
	}
	if !isLetter(s[i]) {
		return string(s[i]), "", i + 1
	}
	start := i
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	word = s[start:i]
	argStart := i
	if i < len(s) && s[i] == '-' {
		i++
	}
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	arg = s[argStart:i]
	if i < len(s) && s[i] == ' ' {
		i++
	}
	return word, arg, i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
