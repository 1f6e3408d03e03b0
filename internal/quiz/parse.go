package quiz

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

var (
	idLine     = regexp.MustCompile(`^\d+\s*$`)
	optionLine = regexp.MustCompile(`(?i)^[A-D][.)\s]\s*`)
	answerLine = regexp.MustCompile(`(?i)^(ANS|ANSWER|ĐÁP\s*ÁN)\s*[:：]\s*([A-D])$`)
	letterLine = regexp.MustCompile(`(?i)^[A-D]$`)
)

// ParseString parses a question bank held in memory
func ParseString(text string) ([]Question, error) {
	return Parse(strings.NewReader(text))
}

// Parse reads a plain-text question bank.
//
// Records are separated by blank lines. Each record holds an optional numeric
// id line, the prompt, up to four option lines ("A." "A)" or "A "), an
// optional answer line (a bare letter, "ANSWER: B", "ANS: B" or "ĐÁP ÁN: B")
// and an optional explanation line starting with '#'. A record without an
// answer defaults to A.
func Parse(r io.Reader) ([]Question, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading question bank: %w", err)
	}

	blank := func(s string) bool { return strings.TrimSpace(s) == "" }

	var qs []Question
	i := 0
	for i < len(lines) {
		for i < len(lines) && blank(lines[i]) {
			i++
		}
		if i >= len(lines) {
			break
		}

		id := ""
		if idLine.MatchString(strings.TrimSpace(lines[i])) {
			id = strings.TrimSpace(lines[i])
			i++
		}

		var content []string
		for i < len(lines) && !optionLine.MatchString(lines[i]) {
			if !blank(lines[i]) {
				content = append(content, lines[i])
			}
			i++
		}

		opts := make(map[Key]string, len(Keys))
		for _, k := range Keys {
			opts[k] = ""
		}
		for i < len(lines) && optionLine.MatchString(lines[i]) {
			letter := Key(strings.ToUpper(strings.TrimSpace(lines[i])[:1]))
			opts[letter] = strings.TrimSpace(optionLine.ReplaceAllString(lines[i], ""))
			i++
		}

		prompt := strings.TrimSpace(strings.Join(content, "\n"))

		var answer Key
		if i < len(lines) && !blank(lines[i]) {
			line := strings.TrimSpace(lines[i])
			if m := answerLine.FindStringSubmatch(line); m != nil {
				answer = Key(strings.ToUpper(m[2]))
				i++
			} else if letterLine.MatchString(line) {
				answer = Key(strings.ToUpper(line))
				i++
			}
		}
		if answer == "" {
			log.WithField("prompt", prompt).Warn("question missing answer, defaulting to A")
			answer = KeyA
		}

		explanation := ""
		if i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "#") {
			explanation = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(lines[i]), "#"))
			i++
		}

		if id == "" {
			id = strconv.Itoa(len(qs) + 1)
		}
		qs = append(qs, Question{
			ID:          id,
			Prompt:      prompt,
			Options:     opts,
			Correct:     answer,
			Explanation: explanation,
		})
	}

	if len(qs) == 0 {
		return nil, ErrEmptyBank
	}
	return qs, nil
}
