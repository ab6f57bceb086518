// Package scope implements the nested lexical-scope tree the opcode
// generator (pkg/codegen) resolves names and groups instructions
// through. Nodes live in an arena and are addressed by index rather
// than pointer, with the only lookup direction being child-to-ancestor
// — matching the "arena + index, not pointer-cycles" design note.
package scope

import (
	"strings"

	"github.com/google/uuid"

	"github.com/chazu/loaf/pkg/ir"
)

type nodeIndex int

const noParent nodeIndex = -1

// node separates two ideas the source conflates into one "module"
// field: section drives which code section a node's instructions are
// grouped under, and qualifierPrefix drives the "prefix.id" strings
// name resolution produces. scoped shares the parent's section;
// forked and unique each start a new one (unique's is regrouped back
// onto the enclosing section later, during generation).
type node struct {
	parent          nodeIndex
	section         string
	qualifierPrefix string
	bindings        map[string]ir.Expr
	order           []string
}

// Tree owns the scope arena for a single compilation; it is not safe
// to share across compilations.
type Tree struct {
	nodes []node
}

// Scope is a handle into a Tree: an index plus the tree it indexes.
type Scope struct {
	tree *Tree
	idx  nodeIndex
}

// NewTree creates a fresh arena with one root scope whose section and
// qualifier prefix are both rootModule (conventionally "main").
func NewTree(rootModule string) (*Tree, Scope) {
	t := &Tree{nodes: []node{{
		parent:          noParent,
		section:         rootModule,
		qualifierPrefix: rootModule,
		bindings:        map[string]ir.Expr{},
	}}}
	return t, Scope{tree: t, idx: 0}
}

func (t *Tree) push(n node) Scope {
	n.bindings = map[string]ir.Expr{}
	t.nodes = append(t.nodes, n)
	return Scope{tree: t, idx: nodeIndex(len(t.nodes) - 1)}
}

func (s Scope) self() *node { return &s.tree.nodes[s.idx] }

// Scoped returns a child sharing this scope's section, with name
// appended to the qualifier prefix — used for top-level def name = …
// so its nested instructions still emit into the same section, just
// under a namespaced identifier.
func (s Scope) Scoped(name string) Scope {
	cur := s.self()
	return s.tree.push(node{
		parent:          s.idx,
		section:         cur.section,
		qualifierPrefix: cur.qualifierPrefix + "." + name,
	})
}

// Forked returns a child rooted at a brand new section (and qualifier
// prefix) named newModule — used for Lambda bodies, which must emit
// into their own code section. Name resolution still walks up through
// the parent, so a forked scope can still see bindings from its
// enclosing scope (e.g. a named function calling itself).
func (s Scope) Forked(newModule string) Scope {
	return s.tree.push(node{
		parent:          s.idx,
		section:         newModule,
		qualifierPrefix: newModule,
	})
}

// Unique returns a child with a freshly generated module name, used
// to isolate a Let's binding lifetimes. Its instructions are grouped
// under this fresh section during generation, then regrouped onto the
// enclosing section afterward (see pkg/codegen) — the one place this
// implementation keeps the source's scope/section conflation, by
// design note.
func (s Scope) Unique() Scope {
	fresh := freshModuleName()
	return s.tree.push(node{
		parent:          s.idx,
		section:         fresh,
		qualifierPrefix: fresh,
	})
}

// Section is the code section this scope's instructions are grouped
// under.
func (s Scope) Section() string {
	return s.self().section
}

// Define binds id to its defining IR node in this scope.
func (s Scope) Define(id string, value ir.Expr) {
	n := s.self()
	if _, exists := n.bindings[id]; !exists {
		n.order = append(n.order, id)
	}
	n.bindings[id] = value
}

// Get walks from this scope up through its ancestors and returns the
// first binding found for id.
func (s Scope) Get(id string) (ir.Expr, bool) {
	for idx := s.idx; idx != noParent; idx = s.tree.nodes[idx].parent {
		if v, ok := s.tree.nodes[idx].bindings[id]; ok {
			return v, true
		}
	}
	return nil, false
}

// Contains reports whether id is visible from this scope.
func (s Scope) Contains(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Qualified2 walks ancestors to find the scope that defines id and
// returns "qualifierPrefix.id", or ok=false if no ancestor binds it.
func (s Scope) Qualified2(id string) (string, bool) {
	for idx := s.idx; idx != noParent; idx = s.tree.nodes[idx].parent {
		n := &s.tree.nodes[idx]
		if _, ok := n.bindings[id]; ok {
			return n.qualifierPrefix + "." + id, true
		}
	}
	return "", false
}

// Qualified is Qualified2 without the found flag; callers are
// expected to have already checked Contains (the generator raises
// UndeclaredIdentifierErr itself when that check fails).
func (s Scope) Qualified(id string) string {
	q, _ := s.Qualified2(id)
	return q
}

// CallTarget resolves the label a direct Call instruction should jump
// to for a bound identifier: a lambda's own entry label (Ptr) when its
// binding is a Lambda, since that is the one label the generator
// actually emits for it, or the ordinary qualified "prefix.id" slot
// name otherwise (an Id/App binding, resolved indirectly through a
// stored Scope/Ref value by the caller).
func (s Scope) CallTarget(id string) (string, bool) {
	for idx := s.idx; idx != noParent; idx = s.tree.nodes[idx].parent {
		n := &s.tree.nodes[idx]
		v, ok := n.bindings[id]
		if !ok {
			continue
		}
		if lam, isLambda := v.(*ir.Lambda); isLambda {
			return lam.Ptr, true
		}
		return n.qualifierPrefix + "." + id, true
	}
	return "", false
}

func freshModuleName() string {
	return "let-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}
