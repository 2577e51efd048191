// Package route implements Component E of the tokamak core (spec.md
// §4.E): a recursive route tree matched method-and-path, segment by
// segment, with literal, named (":name") and trailing wildcard ("*")
// path-parameter segments.
package route

import (
	"fmt"
	"strings"
)

const maxPathParams = 16

type segmentKind int

const (
	segLiteral segmentKind = iota
	segParam
	segWildcard
)

type segment struct {
	kind    segmentKind
	literal string
	name    string
}

// PathPattern is a parsed path template: a sequence of literal segments and
// named parameters, with an optional trailing wildcard (spec.md §3
// "PathPattern is a sequence of literal segments and named parameters
// (:name) with optional trailing wildcard (*). Up to 16 parameters per
// pattern").
type PathPattern struct {
	raw        string
	segments   []segment
	paramCount int
}

// ParsePathPattern parses path (must start with "/") into a PathPattern.
// Rejects more than 16 named parameters and duplicate parameter names
// within the same pattern, both at build time.
func ParsePathPattern(path string) (*PathPattern, error) {
	if path == "" || path[0] != '/' {
		return nil, fmt.Errorf("route: path pattern %q must start with /", path)
	}

	p := &PathPattern{raw: path}
	if path == "/" {
		return p, nil
	}

	seen := make(map[string]bool)
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for idx, part := range parts {
		switch {
		case part == "*":
			if idx != len(parts)-1 {
				return nil, fmt.Errorf("route: wildcard * must be the last segment in %q", path)
			}
			p.segments = append(p.segments, segment{kind: segWildcard})
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("route: empty parameter name in %q", path)
			}
			if seen[name] {
				return nil, fmt.Errorf("route: duplicate path parameter %q in %q", name, path)
			}
			seen[name] = true
			p.paramCount++
			if p.paramCount > maxPathParams {
				return nil, fmt.Errorf("route: %q declares more than %d path parameters", path, maxPathParams)
			}
			p.segments = append(p.segments, segment{kind: segParam, name: name})
		default:
			p.segments = append(p.segments, segment{kind: segLiteral, literal: part})
		}
	}
	return p, nil
}

// MustParsePathPattern panics on a malformed pattern. Reserved for
// compile-time route declarations (pkg/router) where a bad pattern is a
// programmer error, never request-path input.
func MustParsePathPattern(path string) *PathPattern {
	p, err := ParsePathPattern(path)
	if err != nil {
		panic(err)
	}
	return p
}

// Capture is one path-parameter binding, in the order it was matched.
// Dispatch consumes Captures positionally (spec.md §4.B.2: "multiple path
// parameters of the same scalar type are consumed in declaration order"),
// not by name, even though Name is also exposed for Request.PathParam
// lookups.
type Capture struct {
	Name  string
	Value string
}

// matchPrefix matches p against the leading segments of remaining (a
// slash-rooted path), returning the captured parameters in encounter order
// and whatever path remains unconsumed. A pattern with no trailing
// wildcard only matches a prefix exactly as long as its own segment count;
// callers decide whether a nonempty remainder is acceptable (group nodes:
// yes: descend further; terminal nodes: no, unless the pattern ends in a
// wildcard).
func (p *PathPattern) matchPrefix(remaining string) (captures []Capture, rest string, ok bool) {
	trimmed := strings.TrimPrefix(remaining, "/")
	var segs []string
	if trimmed != "" {
		segs = strings.Split(trimmed, "/")
	}

	for i, seg := range p.segments {
		if seg.kind == segWildcard {
			return captures, "", true
		}
		if i >= len(segs) {
			return nil, "", false
		}
		switch seg.kind {
		case segLiteral:
			if segs[i] != seg.literal {
				return nil, "", false
			}
		case segParam:
			captures = append(captures, Capture{Name: seg.name, Value: segs[i]})
		}
	}

	restSegs := segs[len(p.segments):]
	if len(restSegs) == 0 {
		return captures, "", true
	}
	return captures, "/" + strings.Join(restSegs, "/"), true
}

// matchFull requires the pattern to consume the whole of remaining, unless
// it ends in a trailing wildcard.
func (p *PathPattern) matchFull(remaining string) (captures []Capture, ok bool) {
	captures, rest, matched := p.matchPrefix(remaining)
	if !matched {
		return nil, false
	}
	if rest != "" && rest != "/" {
		return nil, false
	}
	return captures, true
}

func (p *PathPattern) String() string { return p.raw }
