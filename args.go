package genopts

import "strings"

// ParseArgv splits command-line tokens into named values and positionals for
// Resolve. Recognized forms:
//
//	--key=value   named value
//	--key value   named value (next token, unless it is another flag)
//	--key         boolean true
//	--no-key      boolean false
//	--            everything after is positional
//
// Kebab-case names become camelCase ("--dry-run" reads as dryRun). Repeated
// flags collect into a list. Values stay strings; enable
// ResolveOpt.CoerceStrings to convert them during resolution.
func ParseArgv(args []string) Input {
	in := Input{Values: map[string]any{}}
	i := 0
	for i < len(args) {
		tok := args[i]
		i++
		if tok == "--" {
			in.Argv = append(in.Argv, args[i:]...)
			break
		}
		if !strings.HasPrefix(tok, "--") {
			in.Argv = append(in.Argv, tok)
			continue
		}
		name := tok[2:]
		if name == "" {
			continue
		}
		if eq := strings.IndexByte(name, '='); eq >= 0 {
			setArg(in.Values, camelCase(name[:eq]), name[eq+1:])
			continue
		}
		if rest, ok := strings.CutPrefix(name, "no-"); ok && rest != "" {
			setArg(in.Values, camelCase(rest), false)
			continue
		}
		if i < len(args) && !strings.HasPrefix(args[i], "--") {
			setArg(in.Values, camelCase(name), args[i])
			i++
			continue
		}
		setArg(in.Values, camelCase(name), true)
	}
	return in
}

func setArg(values map[string]any, key string, v any) {
	existing, ok := values[key]
	if !ok {
		values[key] = v
		return
	}
	if list, isList := existing.([]any); isList {
		values[key] = append(list, v)
		return
	}
	values[key] = []any{existing, v}
}

func camelCase(s string) string {
	parts := strings.Split(s, "-")
	if len(parts) == 1 {
		return s
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
