package pathsteps

import (
	"sort"

	"github.com/google/uuid"
)

// Step is the editor's working representation of one path step. StepGroup is
// the 1-based phase number, StepOrder the 1-based position within the phase.
type Step struct {
	CourseID   uuid.UUID
	StepGroup  int
	StepOrder  int
	IsRequired bool
}

// Normalize returns the steps renumbered to a dense, 1-based, contiguous
// (step_group, step_order) sequence. Relative ordering is preserved: steps
// sort by their existing (group, order), ties by input position. Gaps in
// group numbering collapse, and each group's orders restart at 1.
func Normalize(steps []Step) []Step {
	if len(steps) == 0 {
		return []Step{}
	}

	idx := make([]int, len(steps))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		sa, sb := steps[idx[a]], steps[idx[b]]
		if sa.StepGroup != sb.StepGroup {
			return sa.StepGroup < sb.StepGroup
		}
		return sa.StepOrder < sb.StepOrder
	})

	out := make([]Step, 0, len(steps))
	group := 0
	order := 0
	lastGroup := -1 << 31
	for _, i := range idx {
		s := steps[i]
		if s.StepGroup != lastGroup {
			group++
			order = 0
			lastGroup = s.StepGroup
		}
		order++
		s.StepGroup = group
		s.StepOrder = order
		out = append(out, s)
	}
	return out
}

// Editor maintains an ordered list of phases, each an ordered list of course
// steps. Phases may be empty (a trailing phase the user just added); empty
// phases produce no steps on save.
type Editor struct {
	phases [][]Step
}

// NewEditor builds an editor from persisted steps, normalizing them first.
func NewEditor(steps []Step) *Editor {
	e := &Editor{}
	for _, s := range Normalize(steps) {
		for len(e.phases) < s.StepGroup {
			e.phases = append(e.phases, nil)
		}
		e.phases[s.StepGroup-1] = append(e.phases[s.StepGroup-1], s)
	}
	return e
}

// PhaseCount includes empty phases.
func (e *Editor) PhaseCount() int { return len(e.phases) }

// EmptyPhaseCount counts phases with no backing steps.
func (e *Editor) EmptyPhaseCount() int {
	n := 0
	for _, p := range e.phases {
		if len(p) == 0 {
			n++
		}
	}
	return n
}

// AddCourse appends a course to the last phase, creating phase 1 if the
// editor is empty.
func (e *Editor) AddCourse(courseID uuid.UUID) {
	if len(e.phases) == 0 {
		e.phases = append(e.phases, nil)
	}
	e.addTo(len(e.phases)-1, courseID)
}

// AddCourseToPhase appends a course to the given 1-based phase.
func (e *Editor) AddCourseToPhase(courseID uuid.UUID, phase int) bool {
	if phase < 1 || phase > len(e.phases) {
		return false
	}
	e.addTo(phase-1, courseID)
	return true
}

func (e *Editor) addTo(i int, courseID uuid.UUID) {
	e.phases[i] = append(e.phases[i], Step{
		CourseID:   courseID,
		IsRequired: true,
	})
}

// RemoveCourse removes the step at (phase, order), both 1-based. A phase
// emptied by the removal is dropped so no gaps remain.
func (e *Editor) RemoveCourse(phase, order int) bool {
	i, j, ok := e.locate(phase, order)
	if !ok {
		return false
	}
	e.phases[i] = append(e.phases[i][:j], e.phases[i][j+1:]...)
	if len(e.phases[i]) == 0 {
		e.phases = append(e.phases[:i], e.phases[i+1:]...)
	}
	return true
}

// ToggleRequired flips the required flag of the step at (phase, order).
func (e *Editor) ToggleRequired(phase, order int) bool {
	i, j, ok := e.locate(phase, order)
	if !ok {
		return false
	}
	e.phases[i][j].IsRequired = !e.phases[i][j].IsRequired
	return true
}

// AddPhase appends an empty trailing phase.
func (e *Editor) AddPhase() {
	e.phases = append(e.phases, nil)
}

// DeletePhase removes the 1-based phase and all its steps.
func (e *Editor) DeletePhase(phase int) bool {
	if phase < 1 || phase > len(e.phases) {
		return false
	}
	e.phases = append(e.phases[:phase-1], e.phases[phase:]...)
	return true
}

// MovePhaseUp swaps the phase with the one before it.
func (e *Editor) MovePhaseUp(phase int) bool {
	if phase < 2 || phase > len(e.phases) {
		return false
	}
	e.phases[phase-2], e.phases[phase-1] = e.phases[phase-1], e.phases[phase-2]
	return true
}

// MovePhaseDown swaps the phase with the one after it.
func (e *Editor) MovePhaseDown(phase int) bool {
	if phase < 1 || phase >= len(e.phases) {
		return false
	}
	e.phases[phase-1], e.phases[phase] = e.phases[phase], e.phases[phase-1]
	return true
}

// Steps flattens the editor into a dense, 1-based numbered step list ready
// for the bulk-replace call. Empty phases contribute nothing.
func (e *Editor) Steps() []Step {
	var out []Step
	group := 0
	for _, p := range e.phases {
		if len(p) == 0 {
			continue
		}
		group++
		for j, s := range p {
			s.StepGroup = group
			s.StepOrder = j + 1
			out = append(out, s)
		}
	}
	if out == nil {
		return []Step{}
	}
	return out
}

func (e *Editor) locate(phase, order int) (int, int, bool) {
	if phase < 1 || phase > len(e.phases) {
		return 0, 0, false
	}
	if order < 1 || order > len(e.phases[phase-1]) {
		return 0, 0, false
	}
	return phase - 1, order - 1, true
}
