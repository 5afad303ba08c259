// Package termprompt answers resolver prompts on a terminal-style
// reader/writer pair. It implements genopts.Prompter.
package termprompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	genopts "github.com/reoring/genopts"
)

// Prompter reads answers line by line. Wire it to os.Stdin/os.Stdout for a
// real terminal, or to buffers in tests.
type Prompter struct {
	r *bufio.Reader
	w io.Writer
}

// New builds a Prompter over r and w.
func New(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{r: bufio.NewReader(r), w: w}
}

// Prompt dispatches on the request type. Context is checked before each
// read; a canceled context stops the conversation.
func (p *Prompter) Prompt(ctx context.Context, req genopts.PromptRequest) (any, error) {
	switch req.Type {
	case genopts.PromptConfirmation:
		return p.confirm(ctx, req)
	case genopts.PromptList:
		return p.list(ctx, req)
	default:
		return p.input(ctx, req)
	}
}

func (p *Prompter) input(ctx context.Context, req genopts.PromptRequest) (any, error) {
	if req.Default != nil {
		fmt.Fprintf(p.w, "%s (%v): ", req.Message, req.Default)
	} else {
		fmt.Fprintf(p.w, "%s: ", req.Message)
	}
	line, err := p.readLine(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if line == "" && req.Default != nil {
		return req.Default, nil
	}
	return line, nil
}

func (p *Prompter) confirm(ctx context.Context, req genopts.PromptRequest) (any, error) {
	def, _ := req.Default.(bool)
	marker := "[y/N]"
	if def {
		marker = "[Y/n]"
	}
	for {
		fmt.Fprintf(p.w, "%s %s: ", req.Message, marker)
		line, err := p.readLine(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes", "true":
			return true, nil
		case "n", "no", "false":
			return false, nil
		}
		fmt.Fprintln(p.w, "please answer y or n")
	}
}

func (p *Prompter) list(ctx context.Context, req genopts.PromptRequest) (any, error) {
	if len(req.Items) == 0 {
		return p.input(ctx, req)
	}
	fmt.Fprintln(p.w, req.Message)
	for i, item := range req.Items {
		fmt.Fprintf(p.w, "  %d) %s\n", i+1, itemLabel(item))
	}
	for {
		fmt.Fprintf(p.w, "choice [1-%d]: ", len(req.Items))
		line, err := p.readLine(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if line == "" && req.Default != nil {
			return req.Default, nil
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(req.Items) {
			return req.Items[n-1].Value, nil
		}
		// Typing the value itself also works.
		for _, item := range req.Items {
			if fmt.Sprint(item.Value) == line {
				return item.Value, nil
			}
		}
		fmt.Fprintln(p.w, "pick a number from the list")
	}
}

func (p *Prompter) readLine(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("prompt %s: %w", name, err)
	}
	return strings.TrimSpace(line), nil
}

func itemLabel(item genopts.PromptItem) string {
	if item.Label != "" {
		return item.Label
	}
	return fmt.Sprint(item.Value)
}
