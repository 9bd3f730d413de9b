package pathsteps

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func step(group, order int) Step {
	return Step{CourseID: uuid.New(), StepGroup: group, StepOrder: order, IsRequired: true}
}

func numbering(steps []Step) [][2]int {
	out := make([][2]int, len(steps))
	for i, s := range steps {
		out[i] = [2]int{s.StepGroup, s.StepOrder}
	}
	return out
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
	assert.Empty(t, Normalize([]Step{}))
}

func TestNormalizeCollapsesGaps(t *testing.T) {
	in := []Step{step(2, 5), step(2, 9), step(7, 1), step(2, 1)}
	out := Normalize(in)

	require.Len(t, out, 4)
	assert.Equal(t, [][2]int{{1, 1}, {1, 2}, {1, 3}, {2, 1}}, numbering(out))
	// relative order within the phase follows the old step_order
	assert.Equal(t, in[3].CourseID, out[0].CourseID)
	assert.Equal(t, in[0].CourseID, out[1].CourseID)
	assert.Equal(t, in[1].CourseID, out[2].CourseID)
	assert.Equal(t, in[2].CourseID, out[3].CourseID)
}

func TestNormalizeAlreadyDense(t *testing.T) {
	in := []Step{step(1, 1), step(1, 2), step(2, 1)}
	out := Normalize(in)
	assert.Equal(t, [][2]int{{1, 1}, {1, 2}, {2, 1}}, numbering(out))
}

func TestRemoveCourseRenumbers(t *testing.T) {
	// removing the middle course of a 3-course single-phase list yields
	// step_order 1..2 with no gaps
	e := NewEditor([]Step{step(1, 1), step(1, 2), step(1, 3)})
	require.True(t, e.RemoveCourse(1, 2))

	out := e.Steps()
	require.Len(t, out, 2)
	assert.Equal(t, [][2]int{{1, 1}, {1, 2}}, numbering(out))
}

func TestRemoveLastCourseDropsPhase(t *testing.T) {
	e := NewEditor([]Step{step(1, 1), step(2, 1), step(3, 1)})
	require.True(t, e.RemoveCourse(2, 1))

	assert.Equal(t, 2, e.PhaseCount())
	assert.Equal(t, [][2]int{{1, 1}, {2, 1}}, numbering(e.Steps()))
}

func TestAddCourseToTrailingEmptyPhase(t *testing.T) {
	e := NewEditor([]Step{step(1, 1)})
	e.AddPhase()
	assert.Equal(t, 1, e.EmptyPhaseCount())

	c := uuid.New()
	e.AddCourse(c) // last phase is the empty one

	out := e.Steps()
	require.Len(t, out, 2)
	assert.Equal(t, c, out[1].CourseID)
	assert.Equal(t, [][2]int{{1, 1}, {2, 1}}, numbering(out))
	assert.Equal(t, 0, e.EmptyPhaseCount())
}

func TestEmptyPhasesProduceNoSteps(t *testing.T) {
	e := NewEditor([]Step{step(1, 1)})
	e.AddPhase()
	e.AddPhase()

	assert.Equal(t, 3, e.PhaseCount())
	assert.Len(t, e.Steps(), 1)
}

func TestAddCourseToSpecificPhase(t *testing.T) {
	e := NewEditor([]Step{step(1, 1), step(2, 1)})
	c := uuid.New()
	require.True(t, e.AddCourseToPhase(c, 1))
	assert.False(t, e.AddCourseToPhase(c, 9))

	out := e.Steps()
	require.Len(t, out, 3)
	assert.Equal(t, c, out[1].CourseID)
	assert.Equal(t, [][2]int{{1, 1}, {1, 2}, {2, 1}}, numbering(out))
}

func TestDeletePhaseRenumbers(t *testing.T) {
	e := NewEditor([]Step{step(1, 1), step(2, 1), step(2, 2), step(3, 1)})
	require.True(t, e.DeletePhase(2))

	out := e.Steps()
	require.Len(t, out, 2)
	assert.Equal(t, [][2]int{{1, 1}, {2, 1}}, numbering(out))
}

func TestMovePhase(t *testing.T) {
	a, b := step(1, 1), step(2, 1)
	e := NewEditor([]Step{a, b})

	require.True(t, e.MovePhaseDown(1))
	out := e.Steps()
	assert.Equal(t, b.CourseID, out[0].CourseID)
	assert.Equal(t, a.CourseID, out[1].CourseID)

	require.True(t, e.MovePhaseUp(2))
	out = e.Steps()
	assert.Equal(t, a.CourseID, out[0].CourseID)

	assert.False(t, e.MovePhaseUp(1))
	assert.False(t, e.MovePhaseDown(2))
}

func TestToggleRequired(t *testing.T) {
	e := NewEditor([]Step{step(1, 1)})
	require.True(t, e.ToggleRequired(1, 1))
	assert.False(t, e.Steps()[0].IsRequired)
	require.True(t, e.ToggleRequired(1, 1))
	assert.True(t, e.Steps()[0].IsRequired)
	assert.False(t, e.ToggleRequired(2, 1))
}
