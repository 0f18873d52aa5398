package referenceframe

// CollapseFixedLeaves returns a copy of the tree without the leaf links that hang off fixed joints,
// and without those joints. Only links that are leaves in the original tree are removed; the root is
// always kept. Poses of the remaining links are unchanged.
func (t *Tree) CollapseFixedLeaves() (*Tree, []string, error) {
	remove := make(map[int]bool)
	for i := range t.joints {
		j := &t.joints[i]
		if j.Type == FixedJoint && len(t.children[j.child]) == 0 {
			remove[int(j.child)] = true
		}
	}

	links := make([]Link, 0, len(t.links)-len(remove))
	var removed []string
	for i := range t.links {
		if remove[i] {
			removed = append(removed, t.links[i].Name)
			continue
		}
		links = append(links, t.links[i])
	}
	joints := make([]Joint, 0, len(t.joints)-len(remove))
	for i := range t.joints {
		if remove[int(t.joints[i].child)] {
			continue
		}
		joints = append(joints, t.joints[i])
	}

	collapsed, err := NewTree(t.name, links, joints, t.materials)
	if err != nil {
		return nil, nil, err
	}
	return collapsed, removed, nil
}
