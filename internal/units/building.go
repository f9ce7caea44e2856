package units

// Building is the storey layout that sets the displacement scale of a
// drift-ratio protocol.
type Building struct {
	StoryHeight float64 `yaml:"story_height" json:"story_height"`
	Stories     int     `yaml:"stories" json:"stories"`
}

// Height is the total building height, the roof drift reference length.
func (b Building) Height() float64 {
	return b.StoryHeight * float64(b.Stories)
}

// IsZero reports whether no layout was given.
func (b Building) IsZero() bool {
	return b.StoryHeight == 0 && b.Stories == 0
}

// ExampleSevenBuilding is the three-storey RC frame with 12 ft columns.
func ExampleSevenBuilding(u System) Building {
	return Building{StoryHeight: 12 * u.Ft, Stories: 3}
}
