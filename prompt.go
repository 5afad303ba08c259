package genopts

import "context"

// PromptRequest carries everything a Prompter needs to ask one question.
// Type is one of PromptInput, PromptConfirmation or PromptList.
type PromptRequest struct {
	Name    string
	Message string
	Type    string
	Items   []PromptItem
	Default any
}

// Prompter asks the user for a value. Implementations decide presentation;
// the resolver validates whatever comes back.
type Prompter interface {
	Prompt(ctx context.Context, req PromptRequest) (any, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, req PromptRequest) (any, error)

func (f PrompterFunc) Prompt(ctx context.Context, req PromptRequest) (any, error) {
	return f(ctx, req)
}

// buildPromptRequest derives the request from the property. An explicit
// prompt type wins; otherwise booleans confirm, enumerations list, and
// everything else reads a line.
func buildPromptRequest(name string, p *Property, def any) PromptRequest {
	req := PromptRequest{Name: name, Default: def}
	if p.Prompt != nil {
		req.Message = p.Prompt.Message
		req.Type = p.Prompt.Type
		req.Items = p.Prompt.Items
	}
	if req.Message == "" {
		if p.Description != "" {
			req.Message = p.Description
		} else {
			req.Message = name + "?"
		}
	}
	if req.Type == "" {
		switch {
		case p.Type == "boolean":
			req.Type = PromptConfirmation
		case len(p.Enum) > 0 || len(req.Items) > 0:
			req.Type = PromptList
		default:
			req.Type = PromptInput
		}
	}
	if req.Type == PromptList && len(req.Items) == 0 {
		for _, e := range p.Enum {
			req.Items = append(req.Items, PromptItem{Value: e})
		}
	}
	return req
}
