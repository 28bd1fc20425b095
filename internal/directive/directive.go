// Package directive recognises the plain-text tool calls actors write into
// their messages and turns them into typed values. It never executes
// anything.
package directive

// Span locates a call inside the message it was parsed from (byte offsets,
// End exclusive).
type Span struct {
	Start int
	End   int
}

// Origin records who emitted a directive and where.
type Origin struct {
	Actor string
	Span  Span
	Raw   string
}

// Directive is one of Write, Read, List, Shell or Search.
type Directive interface {
	Source() Origin
	isDirective()
}

// Write creates or overwrites a file under the sandbox root.
type Write struct {
	Src     Origin
	Path    string
	Content string
}

// Read returns the content of a file under the sandbox root.
type Read struct {
	Src  Origin
	Path string
}

// List enumerates every file under the sandbox root.
type List struct {
	Src Origin
}

// Shell is one atomic command fragment. Forbidden fragments are reported
// as denials and never executed.
type Shell struct {
	Src       Origin
	Command   string
	Forbidden bool
}

// Search queries the web research service. Zero Count and Start mean
// "use the default".
type Search struct {
	Src   Origin
	Query string
	Count int
	Start int
}

func (d Write) Source() Origin  { return d.Src }
func (d Read) Source() Origin   { return d.Src }
func (d List) Source() Origin   { return d.Src }
func (d Shell) Source() Origin  { return d.Src }
func (d Search) Source() Origin { return d.Src }

func (Write) isDirective()  {}
func (Read) isDirective()   {}
func (List) isDirective()   {}
func (Shell) isDirective()  {}
func (Search) isDirective() {}

// Kind returns a short human name for d, used in result headers.
func Kind(d Directive) string {
	switch d.(type) {
	case Write:
		return "WriteFile"
	case Read:
		return "ReadFile"
	case List:
		return "ListFiles"
	case Shell:
		return "Shell"
	case Search:
		return "Search"
	default:
		return "Unknown"
	}
}
