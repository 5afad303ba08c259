package termprompt_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	genopts "github.com/reoring/genopts"
	"github.com/reoring/genopts/termprompt"
)

func ask(t *testing.T, script string, req genopts.PromptRequest) (any, string) {
	t.Helper()
	var out bytes.Buffer
	p := termprompt.New(strings.NewReader(script), &out)
	v, err := p.Prompt(context.Background(), req)
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	return v, out.String()
}

func TestPrompter_Input(t *testing.T) {
	v, out := ask(t, "hello\n", genopts.PromptRequest{Name: "name", Message: "Your name", Type: genopts.PromptInput})
	if v != "hello" {
		t.Fatalf("expected hello, got: %v", v)
	}
	if !strings.Contains(out, "Your name") {
		t.Fatalf("expected message rendered, got: %q", out)
	}

	v, out = ask(t, "\n", genopts.PromptRequest{Name: "name", Message: "Your name", Type: genopts.PromptInput, Default: "world"})
	if v != "world" {
		t.Fatalf("expected default on empty answer, got: %v", v)
	}
	if !strings.Contains(out, "world") {
		t.Fatalf("expected default shown, got: %q", out)
	}
}

func TestPrompter_Confirmation(t *testing.T) {
	v, out := ask(t, "y\n", genopts.PromptRequest{Name: "sure", Message: "Proceed", Type: genopts.PromptConfirmation})
	if v != true {
		t.Fatalf("expected yes, got: %v", v)
	}
	if !strings.Contains(out, "[y/N]") {
		t.Fatalf("expected default marker, got: %q", out)
	}

	v, _ = ask(t, "\n", genopts.PromptRequest{Name: "sure", Message: "Proceed", Type: genopts.PromptConfirmation, Default: true})
	if v != true {
		t.Fatalf("expected default true on empty answer, got: %v", v)
	}

	// Garbage answers re-ask until something parseable arrives.
	v, out = ask(t, "dunno\nn\n", genopts.PromptRequest{Name: "sure", Message: "Proceed", Type: genopts.PromptConfirmation})
	if v != false {
		t.Fatalf("expected no after re-ask, got: %v", v)
	}
	if strings.Count(out, "Proceed") != 2 {
		t.Fatalf("expected question asked twice, got: %q", out)
	}
}

func TestPrompter_List(t *testing.T) {
	req := genopts.PromptRequest{
		Name:    "type",
		Message: "Which type?",
		Type:    genopts.PromptList,
		Items: []genopts.PromptItem{
			{Value: "data-access"},
			{Value: "feature", Label: "A feature library"},
			{Value: "state"},
		},
	}

	v, out := ask(t, "2\n", req)
	if v != "feature" {
		t.Fatalf("expected pick by number, got: %v", v)
	}
	if !strings.Contains(out, "2) A feature library") {
		t.Fatalf("expected labeled listing, got: %q", out)
	}

	v, _ = ask(t, "state\n", req)
	if v != "state" {
		t.Fatalf("expected pick by literal value, got: %v", v)
	}

	v, out = ask(t, "9\n1\n", req)
	if v != "data-access" {
		t.Fatalf("expected re-ask after out-of-range pick, got: %v", v)
	}
	if !strings.Contains(out, "pick a number") {
		t.Fatalf("expected re-ask notice, got: %q", out)
	}
}

func TestPrompter_EndToEndWithResolver(t *testing.T) {
	doc := []byte(`{
	  "properties": {
	    "name": { "type": "string", "$default": { "$source": "argv", "index": 0 } },
	    "type": {
	      "type": "string",
	      "enum": ["data-access", "feature", "state"],
	      "x-prompt": { "message": "Which type of library?", "type": "list" }
	    }
	  },
	  "required": ["name"]
	}`)
	s, err := genopts.ParseSchema(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var out bytes.Buffer
	p := termprompt.New(strings.NewReader("2\n"), &out)
	got, err := genopts.Resolve(context.Background(), s, genopts.Input{Argv: []string{"mylib"}},
		genopts.ResolveOpt{Interactive: true, Prompter: p})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got["name"] != "mylib" || got["type"] != "feature" {
		t.Fatalf("expected prompted resolution, got: %v", got)
	}
	if !strings.Contains(out.String(), "Which type of library?") {
		t.Fatalf("expected prompt rendered, got: %q", out.String())
	}
}

func TestPrompter_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := termprompt.New(strings.NewReader("y\n"), &bytes.Buffer{})
	if _, err := p.Prompt(ctx, genopts.PromptRequest{Name: "x", Message: "m", Type: genopts.PromptInput}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestPrompter_EOF(t *testing.T) {
	p := termprompt.New(strings.NewReader(""), &bytes.Buffer{})
	_, err := p.Prompt(context.Background(), genopts.PromptRequest{Name: "name", Message: "m", Type: genopts.PromptInput})
	if err == nil || !strings.Contains(err.Error(), "name") {
		t.Fatalf("expected named prompt error on EOF, got: %v", err)
	}
}
