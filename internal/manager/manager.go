package manager

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"task-tracker-api/internal/history"
	"task-tracker-api/internal/models"
)

// Saver receives the full store content after every successful mutation.
type Saver interface {
	Save(ctx context.Context, snap models.Snapshot) error
}

// Options controls construction of a Manager.
type Options struct {
	// History records views made through the Get* operations. Defaults to
	// an unlimited LinkedHistory.
	History history.Tracker

	// Saver, when set, is called write-through after every mutation.
	Saver Saver

	// SaveTimeout bounds a single Save call. Zero means no timeout.
	SaveTimeout time.Duration

	// OnChange, when set, is called after every committed mutation while the
	// store is still locked, so calls arrive in the order changes were
	// applied. It must not block or call back into the Manager.
	OnChange func(Change)

	Logger *slog.Logger
}

// Manager owns every task, epic and subtask. All operations run under a
// single lock, so each one is atomic with respect to the others.
type Manager struct {
	mu sync.Mutex

	lastID   int
	tasks    map[int]models.Task
	epics    map[int]models.Task
	subtasks map[int]models.Task

	// prioritized holds scheduled tasks and subtasks ordered by start time, then id.
	prioritized []models.Task

	history     history.Tracker
	saver       Saver
	saveTimeout time.Duration
	onChange    func(Change)
	logger      *slog.Logger
}

// New constructs an empty Manager.
func New(opts Options) *Manager {
	h := opts.History
	if h == nil {
		h = history.NewLinkedHistory(history.Options{})
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		tasks:       make(map[int]models.Task),
		epics:       make(map[int]models.Task),
		subtasks:    make(map[int]models.Task),
		history:     h,
		saver:       opts.Saver,
		saveTimeout: opts.SaveTimeout,
		onChange:    opts.OnChange,
		logger:      logger,
	}
}

// AddTask stores a copy of task under a fresh id.
func (m *Manager) AddTask(task models.Task) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := normalize(task, models.TypeTask)
	if err != nil {
		return models.Task{}, err
	}
	if err := m.checkOverlapLocked(t, 0); err != nil {
		return models.Task{}, err
	}

	t.ID = m.nextIDLocked()
	m.tasks[t.ID] = t
	m.syncPriorityLocked()
	m.logger.Debug("task added", "id", t.ID)
	return t.Clone(), m.commitLocked(Change{Op: OpCreated, Kind: models.TypeTask, ID: t.ID})
}

// AddEpic stores a copy of epic under a fresh id. Status and schedule
// supplied by the caller are discarded; a new epic is NEW and unscheduled.
func (m *Manager) AddEpic(epic models.Task) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := models.NewEpic(epic.Name, epic.Description)
	e.ID = m.nextIDLocked()
	e.SubtaskIDs = []int{}
	m.epics[e.ID] = e
	m.logger.Debug("epic added", "id", e.ID)
	return e.Clone(), m.commitLocked(Change{Op: OpCreated, Kind: models.TypeEpic, ID: e.ID})
}

// AddSubTask stores a copy of sub under a fresh id and attaches it to epicID.
func (m *Manager) AddSubTask(sub models.Task, epicID int) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	epic, ok := m.epics[epicID]
	if !ok {
		return models.Task{}, fmt.Errorf("add subtask to epic %d: %w", epicID, ErrReference)
	}
	s, err := normalize(sub, models.TypeSubtask)
	if err != nil {
		return models.Task{}, err
	}
	if err := m.checkOverlapLocked(s, 0); err != nil {
		return models.Task{}, err
	}

	s.ID = m.nextIDLocked()
	s.EpicID = epicID
	m.subtasks[s.ID] = s

	epic.SubtaskIDs = append(slices.Clone(epic.SubtaskIDs), s.ID)
	m.epics[epicID] = epic
	m.recalcEpicLocked(epicID)
	m.syncPriorityLocked()
	m.logger.Debug("subtask added", "id", s.ID, "epic_id", epicID)
	return s.Clone(), m.commitLocked(Change{Op: OpCreated, Kind: models.TypeSubtask, ID: s.ID})
}

// UpdateTask replaces the stored task id with a copy of task.
func (m *Manager) UpdateTask(task models.Task, id int) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return models.Task{}, fmt.Errorf("update task %d: %w", id, ErrNotFound)
	}
	t, err := normalize(task, models.TypeTask)
	if err != nil {
		return models.Task{}, err
	}
	t.ID = id
	if err := m.checkOverlapLocked(t, id); err != nil {
		return models.Task{}, err
	}

	m.tasks[id] = t
	m.syncPriorityLocked()
	return t.Clone(), m.commitLocked(Change{Op: OpUpdated, Kind: models.TypeTask, ID: id})
}

// UpdateEpic replaces the name and description of epic id. Its subtasks,
// status and schedule stay derived.
func (m *Manager) UpdateEpic(epic models.Task, id int) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.epics[id]
	if !ok {
		return models.Task{}, fmt.Errorf("update epic %d: %w", id, ErrNotFound)
	}
	e := models.NewEpic(epic.Name, epic.Description)
	e.ID = id
	e.SubtaskIDs = stored.SubtaskIDs
	m.epics[id] = e
	m.recalcEpicLocked(id)
	return m.epics[id].Clone(), m.commitLocked(Change{Op: OpUpdated, Kind: models.TypeEpic, ID: id})
}

// UpdateSubTask replaces the stored subtask id with a copy of sub. The
// subtask keeps its original epic whatever sub.EpicID says.
func (m *Manager) UpdateSubTask(sub models.Task, id int) (models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.subtasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("update subtask %d: %w", id, ErrNotFound)
	}
	s, err := normalize(sub, models.TypeSubtask)
	if err != nil {
		return models.Task{}, err
	}
	s.ID = id
	s.EpicID = stored.EpicID
	if err := m.checkOverlapLocked(s, id); err != nil {
		return models.Task{}, err
	}

	m.subtasks[id] = s
	m.recalcEpicLocked(s.EpicID)
	m.syncPriorityLocked()
	return s.Clone(), m.commitLocked(Change{Op: OpUpdated, Kind: models.TypeSubtask, ID: id})
}

// GetTask returns task id and records a view of it.
func (m *Manager) GetTask(id int) (models.Task, bool) {
	return m.get(m.tasks, id)
}

// GetEpic returns epic id and records a view of it.
func (m *Manager) GetEpic(id int) (models.Task, bool) {
	return m.get(m.epics, id)
}

// GetSubTask returns subtask id and records a view of it.
func (m *Manager) GetSubTask(id int) (models.Task, bool) {
	return m.get(m.subtasks, id)
}

func (m *Manager) get(partition map[int]models.Task, id int) (models.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := partition[id]
	if !ok {
		return models.Task{}, false
	}
	m.history.Add(&t)
	return t.Clone(), true
}

// Exists reports whether a record of the given kind is stored under id.
// Unlike the Get* operations it does not record a view.
func (m *Manager) Exists(kind models.TaskType, id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ok bool
	switch kind {
	case models.TypeTask:
		_, ok = m.tasks[id]
	case models.TypeEpic:
		_, ok = m.epics[id]
	case models.TypeSubtask:
		_, ok = m.subtasks[id]
	}
	return ok
}

// GetSubtasksOfEpic returns the epic's subtasks in insertion order. Unknown
// or childless epics yield an empty slice.
func (m *Manager) GetSubtasksOfEpic(epicID int) []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	epic, ok := m.epics[epicID]
	if !ok {
		return []models.Task{}
	}
	out := make([]models.Task, 0, len(epic.SubtaskIDs))
	for _, id := range epic.SubtaskIDs {
		if s, ok := m.subtasks[id]; ok {
			out = append(out, s.Clone())
		}
	}
	return out
}

// Tasks lists every plain task by id.
func (m *Manager) Tasks() []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.tasks)
}

// Epics lists every epic by id.
func (m *Manager) Epics() []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.epics)
}

// SubTasks lists every subtask by id.
func (m *Manager) SubTasks() []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedValues(m.subtasks)
}

// RemoveTask deletes task id. It reports whether anything was removed; an
// unknown id is not an error.
func (m *Manager) RemoveTask(id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return false, nil
	}
	delete(m.tasks, id)
	m.history.Remove(id)
	m.syncPriorityLocked()
	return true, m.commitLocked(Change{Op: OpDeleted, Kind: models.TypeTask, ID: id})
}

// RemoveSubTask deletes subtask id and detaches it from its epic.
func (m *Manager) RemoveSubTask(id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.subtasks[id]
	if !ok {
		return false, nil
	}
	delete(m.subtasks, id)
	m.history.Remove(id)
	if epic, ok := m.epics[s.EpicID]; ok {
		epic.SubtaskIDs = slices.DeleteFunc(slices.Clone(epic.SubtaskIDs), func(sid int) bool { return sid == id })
		m.epics[s.EpicID] = epic
		m.recalcEpicLocked(s.EpicID)
	}
	m.syncPriorityLocked()
	return true, m.commitLocked(Change{Op: OpDeleted, Kind: models.TypeSubtask, ID: id})
}

// RemoveEpic deletes epic id together with all of its subtasks.
func (m *Manager) RemoveEpic(id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	epic, ok := m.epics[id]
	if !ok {
		return false, nil
	}
	for _, sid := range epic.SubtaskIDs {
		delete(m.subtasks, sid)
		m.history.Remove(sid)
	}
	delete(m.epics, id)
	m.history.Remove(id)
	m.syncPriorityLocked()
	return true, m.commitLocked(Change{Op: OpDeleted, Kind: models.TypeEpic, ID: id})
}

// RemoveAllTasks deletes every plain task.
func (m *Manager) RemoveAllTasks() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forgetLocked(m.tasks)
	clear(m.tasks)
	m.syncPriorityLocked()
	return m.commitLocked(Change{Op: OpCleared, Kind: models.TypeTask})
}

// RemoveAllSubTasks deletes every subtask and resets every epic to NEW and
// unscheduled.
func (m *Manager) RemoveAllSubTasks() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forgetLocked(m.subtasks)
	clear(m.subtasks)
	for id, epic := range m.epics {
		epic.SubtaskIDs = []int{}
		m.epics[id] = epic
		m.recalcEpicLocked(id)
	}
	m.syncPriorityLocked()
	return m.commitLocked(Change{Op: OpCleared, Kind: models.TypeSubtask})
}

// RemoveAllEpics deletes every epic and, with them, every subtask.
func (m *Manager) RemoveAllEpics() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.forgetLocked(m.subtasks)
	m.forgetLocked(m.epics)
	clear(m.subtasks)
	clear(m.epics)
	m.syncPriorityLocked()
	return m.commitLocked(Change{Op: OpCleared, Kind: models.TypeEpic})
}

// GetHistory returns the viewed records from oldest to newest.
func (m *Manager) GetHistory() []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history.History()
}

// GetPrioritizedTasks returns scheduled tasks and subtasks ordered by start
// time. Epics are not included.
func (m *Manager) GetPrioritizedTasks() []models.Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Task, 0, len(m.prioritized))
	for _, t := range m.prioritized {
		out = append(out, t.Clone())
	}
	return out
}

// Snapshot returns a copy of the whole store, each partition ordered by id.
func (m *Manager) Snapshot() models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Restore replaces the store content with snap without running the add
// validations. Epic subtask lists and derived fields are rebuilt from the
// subtasks; subtasks whose epic is missing are dropped. The id counter moves
// past the largest id seen. History is cleared and nothing is saved.
func (m *Manager) Restore(snap models.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.tasks)
	clear(m.epics)
	clear(m.subtasks)
	m.history.Clear()

	for _, t := range snap.Tasks {
		t = t.Clone()
		t.Type = models.TypeTask
		m.tasks[t.ID] = t
	}
	for _, e := range snap.Epics {
		e = e.Clone()
		e.Type = models.TypeEpic
		e.SubtaskIDs = []int{}
		m.epics[e.ID] = e
	}
	subs := slices.Clone(snap.SubTasks)
	slices.SortFunc(subs, func(a, b models.Task) int { return a.ID - b.ID })
	for _, s := range subs {
		epic, ok := m.epics[s.EpicID]
		if !ok {
			m.logger.Warn("dropping subtask without epic", "id", s.ID, "epic_id", s.EpicID)
			continue
		}
		s = s.Clone()
		s.Type = models.TypeSubtask
		m.subtasks[s.ID] = s
		epic.SubtaskIDs = append(epic.SubtaskIDs, s.ID)
		m.epics[s.EpicID] = epic
	}
	for id := range m.epics {
		m.recalcEpicLocked(id)
	}

	m.lastID = max(m.lastID, snap.MaxID())
	m.syncPriorityLocked()
	m.logger.Info("store restored",
		"tasks", len(m.tasks), "epics", len(m.epics), "subtasks", len(m.subtasks), "last_id", m.lastID)
}

func (m *Manager) nextIDLocked() int {
	m.lastID++
	return m.lastID
}

// recalcEpicLocked derives the epic's status and schedule from its subtasks.
// The epic spans from the earliest subtask start to the latest subtask end,
// so its duration includes any gaps between subtasks.
func (m *Manager) recalcEpicLocked(epicID int) {
	epic, ok := m.epics[epicID]
	if !ok {
		return
	}

	var hasNew, hasInProgress, hasDone bool
	var start, end time.Time
	for _, sid := range epic.SubtaskIDs {
		s, ok := m.subtasks[sid]
		if !ok {
			continue
		}
		switch s.Status {
		case models.StatusNew:
			hasNew = true
		case models.StatusInProgress:
			hasInProgress = true
		case models.StatusDone:
			hasDone = true
		}
		if !s.IsScheduled() {
			continue
		}
		if start.IsZero() || s.StartTime.Before(start) {
			start = s.StartTime
		}
		if end.IsZero() || s.EndTime().After(end) {
			end = s.EndTime()
		}
	}

	switch {
	case hasInProgress || (hasNew && hasDone):
		epic.Status = models.StatusInProgress
	case hasDone:
		epic.Status = models.StatusDone
	default:
		epic.Status = models.StatusNew
	}
	epic.StartTime = start
	epic.Duration = 0
	if !start.IsZero() {
		epic.Duration = end.Sub(start)
	}
	m.epics[epicID] = epic
}

// checkOverlapLocked rejects t when its window intersects a scheduled task
// or subtask other than the one stored under exclude.
func (m *Manager) checkOverlapLocked(t models.Task, exclude int) error {
	if !t.IsScheduled() {
		return nil
	}
	for _, other := range m.prioritized {
		if exclude != 0 && other.ID == exclude {
			continue
		}
		if models.Overlaps(t, other) {
			return fmt.Errorf("%w: conflicts with %s %d", ErrOverlap, other.Type, other.ID)
		}
	}
	return nil
}

func (m *Manager) syncPriorityLocked() {
	m.prioritized = m.prioritized[:0]
	for _, partition := range []map[int]models.Task{m.tasks, m.subtasks} {
		for _, t := range partition {
			if t.IsScheduled() {
				m.prioritized = append(m.prioritized, t)
			}
		}
	}
	slices.SortFunc(m.prioritized, func(a, b models.Task) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return a.ID - b.ID
	})
}

func (m *Manager) forgetLocked(partition map[int]models.Task) {
	for id := range partition {
		m.history.Remove(id)
	}
}

func (m *Manager) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Tasks:    sortedValues(m.tasks),
		Epics:    sortedValues(m.epics),
		SubTasks: sortedValues(m.subtasks),
	}
}

// commitLocked announces c and then saves the store. A failed save does not
// undo the change, so c is announced either way.
func (m *Manager) commitLocked(c Change) error {
	if m.onChange != nil {
		m.onChange(c)
	}
	return m.persistLocked()
}

func (m *Manager) persistLocked() error {
	if m.saver == nil {
		return nil
	}
	ctx := context.Background()
	if m.saveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.saveTimeout)
		defer cancel()
	}
	if err := m.saver.Save(ctx, m.snapshotLocked()); err != nil {
		m.logger.Error("failed to save snapshot", "error", err)
		return &PersistError{Err: err}
	}
	return nil
}

// normalize copies t as a record of the given kind and validates the
// fields a caller controls. An empty status defaults to NEW.
func normalize(t models.Task, kind models.TaskType) (models.Task, error) {
	c := t.Clone()
	c.Type = kind
	c.SubtaskIDs = nil
	if kind != models.TypeSubtask {
		c.EpicID = 0
	}
	if c.Status == "" {
		c.Status = models.StatusNew
	}
	if !c.Status.Valid() {
		return models.Task{}, fmt.Errorf("%w: unknown status %q", ErrInvalid, c.Status)
	}
	if c.Duration < 0 {
		return models.Task{}, fmt.Errorf("%w: negative duration %s", ErrInvalid, c.Duration)
	}
	if !c.IsScheduled() {
		c.Duration = 0
	}
	return c, nil
}

func sortedValues(partition map[int]models.Task) []models.Task {
	keys := slices.Sorted(maps.Keys(partition))
	out := make([]models.Task, 0, len(keys))
	for _, k := range keys {
		out = append(out, partition[k].Clone())
	}
	return out
}
