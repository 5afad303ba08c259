package genopts

import "context"

// SourceFunc produces a value for a $default descriptor. ok=false means the
// source had nothing for this request and resolution falls through to the
// next stage; a non-nil error aborts resolution.
type SourceFunc func(ctx context.Context, ds DefaultSource, in Input) (value any, ok bool, err error)

// SourceArgv names the built-in source reading positional arguments.
const SourceArgv = "argv"

func argvSource(_ context.Context, ds DefaultSource, in Input) (any, bool, error) {
	if ds.Index == nil {
		return nil, false, nil
	}
	i := *ds.Index
	if i < 0 || i >= len(in.Argv) {
		return nil, false, nil
	}
	return in.Argv[i], true, nil
}

func effectiveSources(extra map[string]SourceFunc) map[string]SourceFunc {
	out := map[string]SourceFunc{SourceArgv: argvSource}
	for name, fn := range extra {
		if fn == nil {
			delete(out, name)
			continue
		}
		out[name] = fn
	}
	return out
}
