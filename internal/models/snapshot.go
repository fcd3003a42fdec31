package models

// Snapshot is the full store content split by record kind.
type Snapshot struct {
	Tasks    []Task
	Epics    []Task
	SubTasks []Task
}

// Put appends t to the partition matching its type. Records of an unknown
// type are ignored.
func (s *Snapshot) Put(t Task) {
	switch t.Type {
	case TypeTask:
		s.Tasks = append(s.Tasks, t)
	case TypeEpic:
		s.Epics = append(s.Epics, t)
	case TypeSubtask:
		s.SubTasks = append(s.SubTasks, t)
	}
}

// All returns tasks, epics and subtasks in that order.
func (s Snapshot) All() []Task {
	all := make([]Task, 0, s.Len())
	all = append(all, s.Tasks...)
	all = append(all, s.Epics...)
	return append(all, s.SubTasks...)
}

// Len counts every record in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Tasks) + len(s.Epics) + len(s.SubTasks)
}

// MaxID returns the largest id in the snapshot, or 0 when empty.
func (s Snapshot) MaxID() int {
	maxID := 0
	for _, t := range s.All() {
		maxID = max(maxID, t.ID)
	}
	return maxID
}
