package operation

// Clone returns a deep copy of op. Nil slices stay nil and empty slices stay
// empty so a clone compares equal to its source.
func (op *Operation) Clone() *Operation {
	if op == nil {
		return nil
	}

	out := &Operation{
		StageName:       op.StageName,
		MinimumRequired: op.MinimumRequired,
	}
	if op.Doc != nil {
		doc := *op.Doc
		out.Doc = &doc
	}
	if op.Actions != nil {
		out.Actions = make([]Action, len(op.Actions))
		for i := range op.Actions {
			out.Actions[i] = op.Actions[i].Clone()
		}
	}
	out.Opers = cloneOperators(op.Opers)
	if op.Groups != nil {
		out.Groups = make([]Group, len(op.Groups))
		for i := range op.Groups {
			out.Groups[i] = op.Groups[i].Clone()
		}
	}
	return out
}

func (a Action) Clone() Action {
	out := a
	out.Kills = cloneInt(a.Kills)
	out.Costs = cloneInt(a.Costs)
	out.CostChanges = cloneInt(a.CostChanges)
	out.Cooling = cloneInt(a.Cooling)
	out.SkillUsage = cloneInt(a.SkillUsage)
	out.SkillTimes = cloneInt(a.SkillTimes)
	out.PreDelay = cloneInt(a.PreDelay)
	out.RearDelay = cloneInt(a.RearDelay)
	if a.Location != nil {
		out.Location = append([]int{}, a.Location...)
	}
	if a.Distance != nil {
		out.Distance = append([]float64{}, a.Distance...)
	}
	return out
}

func (o Operator) Clone() Operator {
	out := o
	out.Skill = cloneInt(o.Skill)
	out.SkillUsage = cloneInt(o.SkillUsage)
	out.SkillTimes = cloneInt(o.SkillTimes)
	if o.Requirements != nil {
		out.Requirements = &Requirements{
			Elite:        cloneInt(o.Requirements.Elite),
			Level:        cloneInt(o.Requirements.Level),
			SkillLevel:   cloneInt(o.Requirements.SkillLevel),
			Module:       cloneInt(o.Requirements.Module),
			Potentiality: cloneInt(o.Requirements.Potentiality),
		}
	}
	return out
}

func (g Group) Clone() Group {
	out := g
	out.Opers = cloneOperators(g.Opers)
	return out
}

func cloneOperators(in []Operator) []Operator {
	if in == nil {
		return nil
	}
	out := make([]Operator, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Int returns a pointer to v, for building documents in code.
func Int(v int) *int {
	return &v
}

// eachListItem calls the given funcs for every action, every top-level
// operator, every group and every operator nested inside a group.
func (op *Operation) eachListItem(action func(*Action), oper func(*Operator), group func(*Group)) {
	for i := range op.Actions {
		action(&op.Actions[i])
	}
	for i := range op.Opers {
		oper(&op.Opers[i])
	}
	for i := range op.Groups {
		group(&op.Groups[i])
		for j := range op.Groups[i].Opers {
			oper(&op.Groups[i].Opers[j])
		}
	}
}

// StripIDs clears every synthetic list identifier in place.
func (op *Operation) StripIDs() {
	op.eachListItem(
		func(a *Action) { a.ID = "" },
		func(o *Operator) { o.ID = "" },
		func(g *Group) { g.ID = "" },
	)
}
