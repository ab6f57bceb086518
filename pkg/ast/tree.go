package ast

// Expr is any surface expression node. The method set is unexported so
// the set of node types is closed to this package.
type Expr interface {
	exprNode()
	Location() Location
}

// Stmt is any top-level statement node (Def, Module, Import, or a bare
// Expr used as a statement).
type Stmt interface {
	stmtNode()
	Location() Location
}

// Tree is a parsed compilation unit: an ordered list of top-level
// statements.
type Tree struct {
	Stmts []Stmt
}

// Param is a lambda formal parameter: name:Id, with an optional
// ty:Id? type annotation (§3) — loaf has no type checker yet, so Ty is
// carried on the node but otherwise unconsulted past the parser.
type Param struct {
	Name string
	Ty   *Id
	Loc  Location
}

// Binding is a single name = value pair inside a let.
type Binding struct {
	Name  string
	Value Expr
	Loc   Location
}

// Num is a numeric literal. Lexeme is kept as written in source (the
// lexer only verifies it parses as a float); codegen is what parses it
// into the I32 the VM actually pushes, and rejects it there (BadPushErr)
// if it is not a valid 32-bit integer.
type Num struct {
	Lexeme string
	Loc    Location
}

func (n *Num) exprNode()          {}
func (n *Num) Location() Location { return n.Loc }

// Str is a string literal, written %{...} in source.
type Str struct {
	Value string
	Loc   Location
}

func (s *Str) exprNode()          {}
func (s *Str) Location() Location { return s.Loc }

// Symbol is a 'name quoted-symbol literal.
type Symbol struct {
	Name string
	Loc  Location
}

func (s *Symbol) exprNode()          {}
func (s *Symbol) Location() Location { return s.Loc }

// Id is a bare identifier reference. Reserved words that slip through
// as ordinary identifiers (true, false) are represented this way at
// the surface level and resolved during IR lowering.
type Id struct {
	Name string
	Loc  Location
}

func (i *Id) exprNode()          {}
func (i *Id) Location() Location { return i.Loc }

// Uniop is a prefix unary operator application, e.g. -x.
type Uniop struct {
	Op      string
	Operand Expr
	Loc     Location
}

func (u *Uniop) exprNode()          {}
func (u *Uniop) Location() Location { return u.Loc }

// Binop is an infix binary operator application, e.g. a + b.
type Binop struct {
	Op    string
	Left  Expr
	Right Expr
	Loc   Location
}

func (b *Binop) exprNode()          {}
func (b *Binop) Location() Location { return b.Loc }

// App is an explicit function application, f(a, b, c).
type App struct {
	Callee Expr
	Args   []Expr
	Loc    Location
}

func (a *App) exprNode()          {}
func (a *App) Location() Location { return a.Loc }

// Lambda is a func(params) = body expression.
type Lambda struct {
	Params []Param
	Body   Expr
	Loc    Location
}

func (l *Lambda) exprNode()          {}
func (l *Lambda) Location() Location { return l.Loc }

// Cond is an if cond then alt else alt expression.
type Cond struct {
	Test Expr
	Then Expr
	Else Expr
	Loc  Location
}

func (c *Cond) exprNode()          {}
func (c *Cond) Location() Location { return c.Loc }

// Let is a let bindings... in body expression. Bindings are evaluated
// and bound in order; each may refer to itself (a recursive function)
// and to earlier bindings in the same let, but not to bindings that
// follow.
type Let struct {
	Bindings []Binding
	Body     Expr
	Loc      Location
}

func (l *Let) exprNode()          {}
func (l *Let) Location() Location { return l.Loc }

// Begin is a begin e1 e2 ... en end sequence; its value is en's.
type Begin struct {
	Exprs []Expr
	Loc   Location
}

func (b *Begin) exprNode()          {}
func (b *Begin) Location() Location { return b.Loc }

// ExprStmt lifts a bare expression to statement position.
type ExprStmt struct {
	Expr Expr
	Loc  Location
}

func (e *ExprStmt) stmtNode()         {}
func (e *ExprStmt) Location() Location { return e.Loc }

// Def is a top-level def name = value statement.
type Def struct {
	Name  string
	Value Expr
	Loc   Location
}

func (d *Def) stmtNode()         {}
func (d *Def) Location() Location { return d.Loc }

// Module declares the current compilation unit's module name.
type Module struct {
	Name string
	Loc  Location
}

func (m *Module) stmtNode()         {}
func (m *Module) Location() Location { return m.Loc }

// Import names another module to bring into scope. Import resolution
// itself is out of scope for CORE; the node is retained through
// lowering and then dropped.
type Import struct {
	Name string
	Loc  Location
}

func (i *Import) stmtNode()         {}
func (i *Import) Location() Location { return i.Loc }
