package surface

import "github.com/Gurpartap/tape-tui/diag"

// MutationKind tags a single step of a Transaction.
type MutationKind int

const (
	MutShow MutationKind = iota
	MutHide
	MutUpdateOptions
	MutClose
	MutSetZ
)

// Mutation is one step of a Transaction. Exactly the fields relevant to
// Kind are meaningful.
type Mutation struct {
	Kind    MutationKind
	ID      ID
	Options Options // MutUpdateOptions
	Z       uint32  // MutSetZ
}

// Transaction is an ordered list of surface mutations applied atomically
// with respect to render: a render observes either the whole
// transaction or none of it (spec §4.6, §5). Z-order-swap variants
// (raise/lower/bring-to-front/send-to-back) are not part of the
// transaction vocabulary; callers apply those directly on the Stack.
type Transaction struct {
	Mutations []Mutation
}

func (t *Transaction) Show(id ID) *Transaction {
	t.Mutations = append(t.Mutations, Mutation{Kind: MutShow, ID: id})
	return t
}

func (t *Transaction) Hide(id ID) *Transaction {
	t.Mutations = append(t.Mutations, Mutation{Kind: MutHide, ID: id})
	return t
}

func (t *Transaction) UpdateOptions(id ID, opts Options) *Transaction {
	t.Mutations = append(t.Mutations, Mutation{Kind: MutUpdateOptions, ID: id, Options: opts})
	return t
}

func (t *Transaction) Close(id ID) *Transaction {
	t.Mutations = append(t.Mutations, Mutation{Kind: MutClose, ID: id})
	return t
}

func (t *Transaction) SetZ(id ID, z uint32) *Transaction {
	t.Mutations = append(t.Mutations, Mutation{Kind: MutSetZ, ID: id, Z: z})
	return t
}

// Apply runs every mutation in t against stack, in order. An invalid id
// emits a diagnostic and is skipped; it does not abort the transaction
// (spec §7: "Invalid ids emit diagnostics but do not abort the
// transaction").
func (s *Stack) Apply(t *Transaction, sink diag.Sink) {
	for _, m := range t.Mutations {
		var err error
		switch m.Kind {
		case MutShow:
			err = s.SetHidden(m.ID, false)
		case MutHide:
			err = s.SetHidden(m.ID, true)
		case MutUpdateOptions:
			err = s.UpdateOptions(m.ID, m.Options)
		case MutClose:
			err = s.Remove(m.ID)
		case MutSetZ:
			if sf, ok := s.byID[m.ID]; ok {
				sf.Options.Z = m.Z
			} else {
				err = ErrUnknownSurface
			}
		}
		if err != nil && sink != nil {
			sink.Report(diag.Event{
				Code:     diag.CodeInvalidSurface,
				Severity: diag.SeverityWarning,
				Message:  "surface transaction mutation targeted an unknown id",
				Context:  map[string]any{"surface_id": m.ID.String(), "mutation": int(m.Kind)},
			})
		}
	}
}
