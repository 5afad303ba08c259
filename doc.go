package genopts

// Package genopts provides:
//
// - Schema-driven option resolution for code generators (Resolve/ResolveWithMeta)
// - A stable error model via Issues (JSON Pointer, code, message)
// - Origin metadata and warnings through the WithMeta API
// - Ordered, duplicate-rejecting parsing for schema.json and schema.yaml documents
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place reflection under schemagen/, terminal prompting under termprompt/, and the CLI under cmd/genopts.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  s, err := genopts.ParseSchema(data)
//  opts, err := genopts.Resolve(ctx, s, genopts.ParseArgv(args))
//  r, err := genopts.ResolveWithMeta(ctx, s, in, genopts.ResolveOpt{Interactive: true, Prompter: p})
//
