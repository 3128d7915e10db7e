package operation

import "strings"

// Normalizer converts documents for the editor using an injected alias table.
type Normalizer struct {
	aliases *Aliases
}

// NewNormalizer returns a Normalizer over aliases, or over the built-in table
// when aliases is nil.
func NewNormalizer(aliases *Aliases) *Normalizer {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Normalizer{aliases: aliases}
}

// ToEditable is Normalizer.ToEditable with the built-in alias table.
func ToEditable(op *Operation, gen IDGenerator) *Operation {
	return NewNormalizer(nil).ToEditable(op, gen)
}

// ToEditable returns a copy of op ready for interactive editing: every action,
// operator, group and grouped operator gets a fresh identifier from gen, and
// action types and deploy directions are rewritten to canonical tokens where
// an alias is known. Unknown tokens are kept verbatim. It never fails and
// never touches op.
func (n *Normalizer) ToEditable(op *Operation, gen IDGenerator) *Operation {
	out := op.Clone()
	if out == nil {
		out = &Operation{}
	}

	out.eachListItem(
		func(a *Action) { a.ID = gen.NextID() },
		func(o *Operator) { o.ID = gen.NextID() },
		func(g *Group) { g.ID = gen.NextID() },
	)

	for i := range out.Actions {
		n.normalizeTokens(&out.Actions[i])
	}
	return out
}

func (n *Normalizer) normalizeTokens(a *Action) {
	typ, ok := n.aliases.ActionType(a.Type)
	if !ok {
		return
	}
	a.Type = typ

	if typ != TypeDeploy {
		return
	}
	if dir, ok := n.aliases.Direction(a.Direction); ok {
		a.Direction = dir
	}
}

// NormalizeAction applies the editor's submit rules to a single action: the
// operator name is trimmed, a color without a note is dropped, a skill count
// is only kept for the "ready to use N times" mode (defaulting to 1), and a
// camera move without a distance gets the default one.
func NormalizeAction(a Action) Action {
	out := a.Clone()

	out.Name = strings.TrimSpace(out.Name)

	if out.Doc == "" {
		out.DocColor = ""
	}

	if out.SkillUsage != nil && *out.SkillUsage == SkillUsageReadyToUseTimes {
		if out.SkillTimes == nil {
			out.SkillTimes = Int(1)
		}
	} else {
		out.SkillTimes = nil
	}

	if out.Type == TypeMoveCamera && len(out.Distance) == 0 {
		out.Distance = []float64{4.5, 0}
	}
	return out
}
