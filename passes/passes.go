// Package passes provides the built-in analysis and transformation passes.
//
// Analyses read the DAG and publish derived properties: circuit depth,
// size, width, operation counts, tensor factors, and the deepest path.
// Transformations rewrite the graph structurally: Decompose expands one
// named operation into its definition, Unroll rewrites the whole circuit
// down to a basis gate set. Gate definitions always come from the caller,
// either attached to the operation descriptor or through a DefinitionSource
// lookup; no pass knows what any gate does.
package passes

import (
	"github.com/qdag-xyz/go-qdag/circuit"
	"github.com/qdag-xyz/go-qdag/passmanager"
)

// DefinitionSource supplies the decomposition for a named operation. It is
// the external gate-semantics collaborator: ok is false when the source has
// no definition for the operation.
type DefinitionSource func(op circuit.Operation) ([]circuit.Instruction, bool)

// base carries the metadata shared by all built-in passes.
type base struct {
	name string
	kind passmanager.Kind
	decl passmanager.Declarations
}

func (b base) Name() string                           { return b.name }
func (b base) Kind() passmanager.Kind                 { return b.kind }
func (b base) Declarations() passmanager.Declarations { return b.decl }

func analysis(name string) base {
	return base{name: name, kind: passmanager.Analysis}
}

func transformation(name string) base {
	return base{name: name, kind: passmanager.Transformation}
}
