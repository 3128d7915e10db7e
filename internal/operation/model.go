// Package operation holds the copilot operation document and the two
// normalizers that move it between its editable and canonical forms.
package operation

// MinimumRequiredV4 is the lowest client version an operation can target.
const MinimumRequiredV4 = "v4.0.0"

// Action types.
const (
	TypeDeploy           = "Deploy"
	TypeSkill            = "Skill"
	TypeRetreat          = "Retreat"
	TypeSpeedUp          = "SpeedUp"
	TypeBulletTime       = "BulletTime"
	TypeSkillUsage       = "SkillUsage"
	TypeOutput           = "Output"
	TypeSkillDaemon      = "SkillDaemon"
	TypeMoveCamera       = "MoveCamera"
	TypeDrawCard         = "DrawCard"
	TypeCheckIfStartOver = "CheckIfStartOver"
)

// Deploy directions.
const (
	DirectionUp    = "Up"
	DirectionDown  = "Down"
	DirectionLeft  = "Left"
	DirectionRight = "Right"
	DirectionNone  = "None"
)

// Skill usage modes.
const (
	SkillUsageNone = iota
	SkillUsageReadyToUse
	SkillUsageReadyToUseTimes
	SkillUsageAutomatically
)

// Operation is the root document. Field names in json tags are the internal
// (lowerCamel) convention; the wire form is produced by ToQualified.
type Operation struct {
	StageName       string     `json:"stageName"`
	MinimumRequired string     `json:"minimumRequired,omitempty"`
	Doc             *Doc       `json:"doc,omitempty"`
	Actions         []Action   `json:"actions,omitempty"`
	Opers           []Operator `json:"opers,omitempty"`
	Groups          []Group    `json:"groups,omitempty"`
}

type Doc struct {
	Title        string `json:"title,omitempty"`
	TitleColor   string `json:"titleColor,omitempty"`
	Details      string `json:"details,omitempty"`
	DetailsColor string `json:"detailsColor,omitempty"`
}

// Action is one step of the sequence. Which fields matter depends on Type.
type Action struct {
	// ID keys the action in editor lists. Never persisted.
	ID   string `json:"_id,omitempty"`
	Type string `json:"type"`

	Kills       *int `json:"kills,omitempty"`
	Costs       *int `json:"costs,omitempty"`
	CostChanges *int `json:"costChanges,omitempty"`
	Cooling     *int `json:"cooling,omitempty"`

	Name       string    `json:"name,omitempty"`
	Location   []int     `json:"location,omitempty"`
	Direction  string    `json:"direction,omitempty"`
	SkillUsage *int      `json:"skillUsage,omitempty"`
	SkillTimes *int      `json:"skillTimes,omitempty"`
	PreDelay   *int      `json:"preDelay,omitempty"`
	RearDelay  *int      `json:"rearDelay,omitempty"`
	Distance   []float64 `json:"distance,omitempty"`

	Doc      string `json:"doc,omitempty"`
	DocColor string `json:"docColor,omitempty"`
}

type Operator struct {
	ID           string        `json:"_id,omitempty"`
	Name         string        `json:"name"`
	Skill        *int          `json:"skill,omitempty"`
	SkillUsage   *int          `json:"skillUsage,omitempty"`
	SkillTimes   *int          `json:"skillTimes,omitempty"`
	Requirements *Requirements `json:"requirements,omitempty"`
}

type Requirements struct {
	Elite        *int `json:"elite,omitempty"`
	Level        *int `json:"level,omitempty"`
	SkillLevel   *int `json:"skillLevel,omitempty"`
	Module       *int `json:"module,omitempty"`
	Potentiality *int `json:"potentiality,omitempty"`
}

// Group is a named bundle of operators that actions may refer to by name.
type Group struct {
	ID    string     `json:"_id,omitempty"`
	Name  string     `json:"name"`
	Opers []Operator `json:"opers,omitempty"`
}

// Level is a stage from the external level catalog.
type Level struct {
	LevelID  string `json:"levelId" yaml:"level_id"`
	Name     string `json:"name" yaml:"name"`
	CatOne   string `json:"catOne" yaml:"cat_one"`
	CatTwo   string `json:"catTwo" yaml:"cat_two"`
	CatThree string `json:"catThree" yaml:"cat_three"`
	Width    int    `json:"width" yaml:"width"`
	Height   int    `json:"height" yaml:"height"`
}
