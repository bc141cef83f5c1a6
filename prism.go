package prism

import "context"

// Version is reported in the CLI and the User-Agent header.
const Version = "0.3.0"

// Analyze submits source once and presents the outcome. It is the stateless
// shortcut for callers that do not need a Session.
func Analyze(ctx context.Context, a Analyzer, p *Presenter, source string) (*View, error) {
	result, err := a.Submit(ctx, source)
	if err != nil {
		return nil, err
	}
	return p.Present(result), nil
}
