package route

import "github.com/denkhaus/tokamak/pkg/httpx"

// Chain is the result of matching one request against a route tree: the
// ordered middleware functions from root to the winning terminal handler
// (outer first), the terminal handler itself, and the path parameters
// captured along the way in declaration order (spec.md §4.G step 1:
// "Dispatcher invokes the root route with a middleware stack seeded to
// [root_children...] in reverse").
type Chain struct {
	Middlewares []*Handler
	Terminal    *Handler
	Params      []Capture
}

// Match walks root depth-first, in declaration order, looking for the
// first terminal node whose method and full path match. Group nodes
// strip their matched prefix from path before descending and the stripped
// prefix is restored automatically on backtrack, since each candidate
// path is threaded through the recursion by value rather than mutated in
// place. Returns ok=false if no terminal node matches.
func Match(root *Node, method httpx.Method, path string) (*Chain, bool) {
	terminal, mws, params, ok := matchNode(root, method, path)
	if !ok {
		return nil, false
	}
	return &Chain{Middlewares: mws, Terminal: terminal, Params: params}, true
}

func matchNode(n *Node, method httpx.Method, remaining string) (terminal *Handler, mws []*Handler, params []Capture, ok bool) {
	rest := remaining
	if n.Path != nil {
		captures, r, matched := n.Path.matchPrefix(remaining)
		if !matched {
			return nil, nil, nil, false
		}
		params = captures
		rest = r
	}
	if n.Method != nil && *n.Method != method {
		return nil, nil, nil, false
	}

	if n.isTerminal() {
		if n.Path != nil {
			full, matched := n.Path.matchFull(remaining)
			if !matched {
				return nil, nil, nil, false
			}
			params = full
		} else if rest != "" && rest != "/" {
			return nil, nil, nil, false
		}
		return n.Handler, nil, params, true
	}

	var ownMW []*Handler
	if n.isMiddlewareLike() {
		ownMW = []*Handler{n.Handler}
	}

	for _, child := range n.Children {
		childTerminal, childMW, childParams, matched := matchNode(child, method, rest)
		if !matched {
			continue
		}
		merged := append(append([]Capture{}, params...), childParams...)
		chainMW := append(append([]*Handler{}, ownMW...), childMW...)
		return childTerminal, chainMW, merged, true
	}

	return nil, nil, nil, false
}
