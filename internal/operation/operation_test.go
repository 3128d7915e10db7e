package operation

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copilot-ops/internal/wire"
)

func sampleOperation() *Operation {
	return &Operation{
		StageName:       "main_01-07",
		MinimumRequired: MinimumRequiredV4,
		Doc:             &Doc{Title: "1-7 low cost", Details: "two operators"},
		Opers: []Operator{
			{Name: "银灰", Skill: Int(3), SkillUsage: Int(SkillUsageReadyToUse)},
		},
		Groups: []Group{
			{Name: "盾", Opers: []Operator{{Name: "蛇屠箱", Skill: Int(1)}, {Name: "坚雷", Skill: Int(2)}}},
		},
		Actions: []Action{
			{Type: TypeDeploy, Name: "银灰", Location: []int{5, 3}, Direction: DirectionLeft, Kills: Int(2)},
			{Type: TypeSkill, Name: "银灰", PreDelay: Int(500), Doc: "open skill", DocColor: "Orange"},
			{Type: TypeMoveCamera, Distance: []float64{4.5, 0}},
		},
	}
}

var catalog = []Level{
	{LevelID: "X", CatTwo: "1-7", CatThree: "永久关卡", Name: "坚壁清野"},
	{LevelID: "main_01-07", CatOne: "主线", CatTwo: "", CatThree: "1-7", Name: "暴君"},
}

func TestToEditable_AssignsUniqueIDs(t *testing.T) {
	in := sampleOperation()
	out := ToEditable(in, NewCounter())

	seen := map[string]bool{}
	out.eachListItem(
		func(a *Action) { seen[a.ID] = true; assert.NotEmpty(t, a.ID) },
		func(o *Operator) { seen[o.ID] = true; assert.NotEmpty(t, o.ID) },
		func(g *Group) { seen[g.ID] = true; assert.NotEmpty(t, g.ID) },
	)
	// 3 actions + 1 operator + 1 group + 2 grouped operators
	assert.Len(t, seen, 7)

	assert.False(t, hasIDs(in), "input must not be mutated")
}

func TestToEditable_StripIDsRoundTrip(t *testing.T) {
	in := sampleOperation()

	out := ToEditable(in, UUIDGenerator{})
	require.True(t, hasIDs(out))
	out.StripIDs()

	assert.Equal(t, in, out)
}

func TestToEditable_Nil(t *testing.T) {
	out := ToEditable(nil, NewCounter())
	require.NotNil(t, out)
	assert.Empty(t, out.Actions)
}

func TestToEditable_AliasResolution(t *testing.T) {
	in := &Operation{
		StageName: "X",
		Actions: []Action{
			{Type: "部署", Direction: "上"},
			{Type: " deploy ", Direction: "left"},
			{Type: "Foo", Direction: "上"},
			{Type: "技能", Direction: "上"},
			{Type: "Deploy", Direction: "sideways"},
		},
	}

	out := ToEditable(in, NewCounter())

	assert.Equal(t, TypeDeploy, out.Actions[0].Type)
	assert.Equal(t, DirectionUp, out.Actions[0].Direction)

	assert.Equal(t, TypeDeploy, out.Actions[1].Type)
	assert.Equal(t, DirectionLeft, out.Actions[1].Direction)

	// unknown types pass through, and so do their directions
	assert.Equal(t, "Foo", out.Actions[2].Type)
	assert.Equal(t, "上", out.Actions[2].Direction)

	// directions are only resolved for deploy actions
	assert.Equal(t, TypeSkill, out.Actions[3].Type)
	assert.Equal(t, "上", out.Actions[3].Direction)

	assert.Equal(t, "sideways", out.Actions[4].Direction)

	assert.Equal(t, "部署", in.Actions[0].Type)
}

func TestToEditable_Concurrent(t *testing.T) {
	in := sampleOperation()
	gen := NewCounter()

	var wg sync.WaitGroup
	results := make([]*Operation, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ToEditable(in, gen)
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, r := range results {
		for _, a := range r.Actions {
			assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
			seen[a.ID] = true
		}
	}
}

func TestToQualified_TitleBackfill(t *testing.T) {
	in := &Operation{StageName: "X", Actions: []Action{{Type: TypeSpeedUp}}}

	tree, err := ToQualified(in, catalog)
	require.NoError(t, err)

	doc := tree["doc"].(map[string]any)
	assert.Equal(t, "1-7 - 永久关卡 - 坚壁清野", doc["title"])
	assert.Equal(t, "1-7 - 永久关卡 - 坚壁清野", doc["details"])
	assert.Equal(t, MinimumRequiredV4, tree["minimum_required"])
	assert.Equal(t, "X", tree["stage_name"])
}

func TestToQualified_DetailsDefaultsToTitle(t *testing.T) {
	q, err := Qualify(&Operation{StageName: "unknown", Doc: &Doc{Title: "T"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "T", q.Doc.Details)
}

func TestToQualified_TitleSkipsEmptyParts(t *testing.T) {
	in := &Operation{StageName: "main_01-07", Doc: &Doc{Details: "d"}}

	q, err := Qualify(in, catalog)
	require.NoError(t, err)
	assert.Equal(t, "1-7 - 暴君", q.Doc.Title)
	assert.Equal(t, "d", q.Doc.Details)
}

func TestToQualified_MissingLevel(t *testing.T) {
	in := &Operation{StageName: "nowhere", Doc: &Doc{Details: "d"}}

	tree, err := ToQualified(in, catalog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidLevel))
	assert.Nil(t, tree)
}

func TestToQualified_TitleGivenNeedsNoLevel(t *testing.T) {
	in := &Operation{StageName: "custom", Doc: &Doc{Title: "T"}}

	tree, err := ToQualified(in, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "T", "details": "T"}, tree["doc"])
}

func TestToQualified_KeepsMinimumRequired(t *testing.T) {
	in := &Operation{StageName: "X", MinimumRequired: "v4.8.0", Doc: &Doc{Title: "T"}}

	q, err := Qualify(in, nil)
	require.NoError(t, err)
	assert.Equal(t, "v4.8.0", q.MinimumRequired)
}

func TestToQualified_NoIdentifierLeak(t *testing.T) {
	editable := ToEditable(sampleOperation(), NewCounter())

	tree, err := ToQualified(editable, catalog)
	require.NoError(t, err)

	raw, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"_id"`)
	assertNoKey(t, tree, "_id")

	assert.True(t, hasIDs(editable), "input must not be mutated")
}

func hasIDs(op *Operation) bool {
	found := false
	op.eachListItem(
		func(a *Action) { found = found || a.ID != "" },
		func(o *Operator) { found = found || o.ID != "" },
		func(g *Group) { found = found || g.ID != "" },
	)
	return found
}

func assertNoKey(t *testing.T, v any, key string) {
	t.Helper()
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			assert.NotEqual(t, key, k)
			assertNoKey(t, item, key)
		}
	case []any:
		for _, item := range val {
			assertNoKey(t, item, key)
		}
	}
}

func TestToQualified_SnakeCaseKeys(t *testing.T) {
	tree, err := ToQualified(sampleOperation(), catalog)
	require.NoError(t, err)

	actions := tree["actions"].([]any)
	skill := actions[1].(map[string]any)
	assert.Equal(t, 500.0, skill["pre_delay"])
	assert.Equal(t, "Orange", skill["doc_color"])

	opers := tree["opers"].([]any)
	assert.Equal(t, 1.0, opers[0].(map[string]any)["skill_usage"])

	for k := range tree {
		assert.Equal(t, strings.ToLower(k), k)
	}
}

func TestToQualified_Idempotent(t *testing.T) {
	first, err := ToQualified(ToEditable(sampleOperation(), NewCounter()), catalog)
	require.NoError(t, err)

	decoded, err := Decode(first)
	require.NoError(t, err)

	second, err := ToQualified(decoded, catalog)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseCanonical(t *testing.T) {
	op, err := ParseCanonical([]byte(`{
		"stage_name": "X",
		"minimum_required": "v4.0.0",
		"doc": {"title": "T", "title_color": "dark"},
		"opers": [{"name": "银灰", "skill": 3, "skill_usage": 1, "requirements": {"skill_level": 7}}],
		"groups": [{"name": "g", "opers": [{"name": "a"}]}],
		"actions": [{"type": "Deploy", "name": "银灰", "location": [1, 2], "direction": "Up", "pre_delay": 100}]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "X", op.StageName)
	assert.Equal(t, "dark", op.Doc.TitleColor)
	assert.Equal(t, 7, *op.Opers[0].Requirements.SkillLevel)
	assert.Equal(t, []int{1, 2}, op.Actions[0].Location)
	assert.Equal(t, 100, *op.Actions[0].PreDelay)
	assert.Equal(t, "a", op.Groups[0].Opers[0].Name)
}

func TestParseCanonical_FractionalInteger(t *testing.T) {
	_, err := ParseCanonical([]byte(`{"stage_name": "X", "actions": [{"type": "Skill", "kills": 1.7}]}`))
	assert.ErrorIs(t, err, wire.ErrNotInteger)
}

func TestParseEditable(t *testing.T) {
	op, err := ParseEditable([]byte(`{"stageName":"X","actions":[{"_id":"1","type":"Deploy","preDelay":5}]}`))
	require.NoError(t, err)
	assert.Equal(t, "1", op.Actions[0].ID)
	assert.Equal(t, 5, *op.Actions[0].PreDelay)

	_, err = ParseEditable([]byte(`{`))
	assert.Error(t, err)
}

func TestNormalizeAction(t *testing.T) {
	a := NormalizeAction(Action{
		Type:       TypeSkillUsage,
		Name:       "  银灰 ",
		DocColor:   "Orange",
		SkillUsage: Int(SkillUsageReadyToUseTimes),
	})
	assert.Equal(t, "银灰", a.Name)
	assert.Empty(t, a.DocColor)
	require.NotNil(t, a.SkillTimes)
	assert.Equal(t, 1, *a.SkillTimes)

	b := NormalizeAction(Action{Type: TypeSkillUsage, SkillUsage: Int(SkillUsageReadyToUse), SkillTimes: Int(4)})
	assert.Nil(t, b.SkillTimes)

	c := NormalizeAction(Action{Type: TypeMoveCamera})
	assert.Equal(t, []float64{4.5, 0}, c.Distance)

	d := NormalizeAction(Action{Type: TypeSkill, Doc: "note", DocColor: "Blue"})
	assert.Equal(t, "Blue", d.DocColor)
}

func TestLevelTitle(t *testing.T) {
	assert.Equal(t, "1-7 - 永久关卡 - 坚壁清野", catalog[0].Title())
	assert.Equal(t, "only", Level{Name: "only"}.Title())
	assert.Equal(t, "", Level{}.Title())
}

func TestLoadAliases_Conflict(t *testing.T) {
	_, err := LoadAliases([]byte("action_types:\n  Deploy: [x]\n  Skill: [X]\n"))
	assert.Error(t, err)

	a, err := LoadAliases([]byte("directions:\n  Up: [north]\n"))
	require.NoError(t, err)
	v, ok := a.Direction("NORTH")
	assert.True(t, ok)
	assert.Equal(t, "Up", v)
	_, ok = a.ActionType("Deploy")
	assert.False(t, ok)
}

func TestCloneIndependent(t *testing.T) {
	in := sampleOperation()
	cp := in.Clone()

	*cp.Actions[0].Kills = 99
	cp.Actions[0].Location[0] = 0
	cp.Groups[0].Opers[0].Name = "changed"
	cp.Doc.Title = "changed"

	assert.Equal(t, 2, *in.Actions[0].Kills)
	assert.Equal(t, 5, in.Actions[0].Location[0])
	assert.Equal(t, "蛇屠箱", in.Groups[0].Opers[0].Name)
	assert.Equal(t, "1-7 low cost", in.Doc.Title)

	var nilOp *Operation
	assert.Nil(t, nilOp.Clone())
}

