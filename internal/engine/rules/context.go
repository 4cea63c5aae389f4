package rules

import (
	"i18nscan/internal/engine/syntax"
)

// Context is the per-file state threaded through one traversal. It is owned by
// a single goroutine and must not be retained by rules.
type Context struct {
	File     *syntax.File
	Settings *Settings

	ancestors []*syntax.Node
	// scopes holds one frame for the file plus one per enclosing function.
	scopes []map[string]*syntax.Node
}

func NewContext(file *syntax.File, settings *Settings) *Context {
	return &Context{
		File:      file,
		Settings:  settings,
		ancestors: make([]*syntax.Node, 0, 32),
		scopes:    []map[string]*syntax.Node{make(map[string]*syntax.Node)},
	}
}

// Enter pushes node onto the ancestor chain before its children are visited.
func (c *Context) Enter(node *syntax.Node) {
	c.ancestors = append(c.ancestors, node)
}

// Leave pops the most recently entered node.
func (c *Context) Leave() {
	if n := len(c.ancestors); n > 0 {
		c.ancestors[n-1] = nil
		c.ancestors = c.ancestors[:n-1]
	}
}

// Ancestors returns the chain from the root down to the current node's parent.
func (c *Context) Ancestors() []*syntax.Node {
	return c.ancestors
}

// Parent returns the current node's parent, or nil at the root.
func (c *Context) Parent() *syntax.Node {
	return c.Ancestor(0)
}

// Ancestor returns the n-th ancestor above the current node (0 = parent).
func (c *Context) Ancestor(n int) *syntax.Node {
	i := len(c.ancestors) - 1 - n
	if i < 0 || i >= len(c.ancestors) {
		return nil
	}
	return c.ancestors[i]
}

// PushScope opens a function frame. params are the function's parameter
// names; they hide outer bindings of the same name until PopScope.
func (c *Context) PushScope(params []string) {
	frame := make(map[string]*syntax.Node, len(params))
	for _, name := range params {
		if name != "" {
			frame[name] = nil
		}
	}
	c.scopes = append(c.scopes, frame)
}

// PopScope closes the innermost function frame. The file frame is never popped.
func (c *Context) PopScope() {
	if n := len(c.scopes); n > 1 {
		c.scopes[n-1] = nil
		c.scopes = c.scopes[:n-1]
	}
}

// Bind records init as the most recent initializer of name in the innermost
// frame.
func (c *Context) Bind(name string, init *syntax.Node) {
	if name == "" || init == nil {
		return
	}
	c.scopes[len(c.scopes)-1][name] = init
}

// Lookup returns the nearest initializer bound to name. A parameter of an
// enclosing function resolves to nil.
func (c *Context) Lookup(name string) *syntax.Node {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if init, ok := c.scopes[i][name]; ok {
			return init
		}
	}
	return nil
}

// Source returns the file text under span.
func (c *Context) Source(span syntax.Span) string {
	return c.File.Slice(span)
}

func (c *Context) Path() string {
	if c.File == nil {
		return ""
	}
	return c.File.Path
}
