package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

const questionPrompt = `You are helping a recruiter prepare a voice interview.
Write {{.Count}} interview questions for the following position.

Title: {{.Title}}
Description: {{.Description}}

Answer with a JSON array of strings and nothing else.`

// RenderTemplate renders a prompt template with the provided data.
func RenderTemplate(tmpl string, data any) (string, error) {
	tpl, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// GenerateQuestions asks the model for interview questions tailored to a job.
// The model is told to answer with a JSON array; when it answers with a
// numbered or bulleted list anyway, the lines are salvaged instead.
func (c *Client) GenerateQuestions(ctx context.Context, title, description string, count int) ([]string, error) {
	if count <= 0 {
		count = 5
	}

	prompt, err := RenderTemplate(questionPrompt, map[string]any{
		"Count":       count,
		"Title":       title,
		"Description": description,
	})
	if err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	text, err := c.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	questions := ParseQuestions(text)
	if len(questions) == 0 {
		return nil, fmt.Errorf("model returned no usable questions")
	}
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

// ParseQuestions extracts a question list from model output: a JSON array
// when present, otherwise non-empty lines with list markers stripped.
func ParseQuestions(text string) []string {
	trimmed := strings.TrimSpace(text)

	// models often wrap the array in prose; find the outermost brackets
	if start := strings.Index(trimmed, "["); start >= 0 {
		if end := strings.LastIndex(trimmed, "]"); end > start {
			var arr []string
			if err := json.Unmarshal([]byte(trimmed[start:end+1]), &arr); err == nil {
				return cleanQuestions(arr)
			}
		}
	}

	var lines []string
	for _, line := range strings.Split(trimmed, "\n") {
		lines = append(lines, line)
	}
	return cleanQuestions(lines)
}

func cleanQuestions(raw []string) []string {
	var out []string
	for _, q := range raw {
		q = strings.TrimSpace(q)
		q = strings.TrimLeft(q, "-*• \t")
		// strip "1." / "1)" prefixes
		if i := strings.IndexAny(q, ".)"); i > 0 && i <= 3 {
			if _, err := fmt.Sscanf(q[:i], "%d", new(int)); err == nil {
				q = strings.TrimSpace(q[i+1:])
			}
		}
		q = strings.Trim(q, `"`)
		if q != "" {
			out = append(out, q)
		}
	}
	return out
}
