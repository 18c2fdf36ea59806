package entity

// GroupID uniquely identifies a tab group.
type GroupID string

// Group is a named, colored label tabs may reference for visual
// organization. Groups live independently of tab lifetime; a tab's GroupID
// is a weak reference cleared when the group is deleted.
type Group struct {
	ID    GroupID `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
}

// GroupList manages the set of known groups.
type GroupList struct {
	Groups []*Group
}

// NewGroupList creates an empty group list.
func NewGroupList() *GroupList {
	return &GroupList{Groups: make([]*Group, 0)}
}

// Add appends a group.
func (gl *GroupList) Add(g *Group) {
	gl.Groups = append(gl.Groups, g)
}

// Find returns a group by ID, or nil.
func (gl *GroupList) Find(id GroupID) *Group {
	for _, g := range gl.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// Remove deletes a group by ID.
func (gl *GroupList) Remove(id GroupID) bool {
	for i, g := range gl.Groups {
		if g.ID == id {
			gl.Groups = append(gl.Groups[:i], gl.Groups[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of groups.
func (gl *GroupList) Count() int {
	return len(gl.Groups)
}
