package progression

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	types "github.com/yungbote/coursehub-backend/internal/domain"
)

type lessonSpec struct {
	hidden    bool
	quiz      bool
	mandatory bool
}

func buildCourse(sequential bool, sections ...[]lessonSpec) *types.Course {
	c := &types.Course{ID: uuid.New(), RequireSequentialProgress: sequential}
	for si, defs := range sections {
		s := types.Section{ID: uuid.New(), CourseID: c.ID, Order: si}
		for li, def := range defs {
			l := types.Lesson{ID: uuid.New(), SectionID: s.ID, Order: li, IsHidden: def.hidden}
			if def.quiz {
				l.Quiz = &types.Quiz{ID: uuid.New(), LessonID: l.ID, IsMandatory: def.mandatory, PassingScore: 70}
			}
			s.Lessons = append(s.Lessons, l)
		}
		c.Sections = append(c.Sections, s)
	}
	return c
}

func plain(n int) []lessonSpec { return make([]lessonSpec, n) }

func lockVector(c *types.Course, state map[uuid.UUID]bool) []bool {
	out := []bool{}
	for _, l := range Flatten(c) {
		out = append(out, state[l.ID])
	}
	return out
}

func TestComputeLockState_ThreeLessonsNoQuizzes(t *testing.T) {
	c := buildCourse(true, plain(3))
	seq := Flatten(c)

	progress := Progress{}
	assert.Equal(t, []bool{false, true, true}, lockVector(c, ComputeLockState(c, progress, nil)))

	progress[seq[0].ID] = true
	assert.Equal(t, []bool{false, false, true}, lockVector(c, ComputeLockState(c, progress, nil)))
}

func TestComputeLockState_MandatoryQuizGatesNextLesson(t *testing.T) {
	c := buildCourse(true, []lessonSpec{{quiz: true, mandatory: true}, {}})
	seq := Flatten(c)
	quizID := seq[0].Quiz.ID
	progress := Progress{seq[0].ID: true}

	state := ComputeLockState(c, progress, NewPassedQuizzes())
	assert.True(t, state[seq[1].ID], "completed lesson with unpassed mandatory quiz must keep next locked")

	state = ComputeLockState(c, progress, NewPassedQuizzes(quizID))
	assert.False(t, state[seq[1].ID])

	// Passing alone is not enough.
	state = ComputeLockState(c, Progress{}, NewPassedQuizzes(quizID))
	assert.True(t, state[seq[1].ID])
}

func TestComputeLockState_OptionalQuizNeverBlocks(t *testing.T) {
	c := buildCourse(true, []lessonSpec{{quiz: true, mandatory: false}, {}})
	seq := Flatten(c)
	progress := Progress{seq[0].ID: true}

	assert.False(t, ComputeLockState(c, progress, nil)[seq[1].ID])
	assert.True(t, CanAdvance(c, seq[0].ID, progress, nil))
}

func TestComputeLockState_NonSequentialUnlocksEverything(t *testing.T) {
	c := buildCourse(false, plain(2), []lessonSpec{{quiz: true, mandatory: true}, {}})
	for id, locked := range ComputeLockState(c, nil, nil) {
		assert.Falsef(t, locked, "lesson %s locked in free-order course", id)
	}
	for _, l := range Flatten(c) {
		assert.True(t, CanAdvance(c, l.ID, nil, nil))
	}
}

func TestComputeLockState_HiddenLessonsAreSkipped(t *testing.T) {
	c := buildCourse(true,
		[]lessonSpec{{}, {hidden: true}},
		[]lessonSpec{{}},
	)
	hiddenSection := types.Section{ID: uuid.New(), CourseID: c.ID, Order: 1, IsHidden: true, Lessons: []types.Lesson{{ID: uuid.New(), Order: 0}}}
	c.Sections[1].Order = 2
	c.Sections = append(c.Sections, hiddenSection)

	first := c.Sections[0].Lessons[0]
	hidden := c.Sections[0].Lessons[1]
	last := c.Sections[1].Lessons[0]

	state := ComputeLockState(c, Progress{first.ID: true}, nil)
	require.Len(t, state, 2)
	_, ok := state[hidden.ID]
	assert.False(t, ok, "hidden lesson must be absent")
	_, ok = state[hiddenSection.Lessons[0].ID]
	assert.False(t, ok, "lesson in hidden section must be absent")
	// The gate skips the hidden lesson and looks at the nearest visible predecessor.
	assert.False(t, state[last.ID])

	assert.False(t, CanAdvance(c, hidden.ID, Progress{hidden.ID: true}, nil))
}

func TestFlatten_SortsByOrderNotSliceOrder(t *testing.T) {
	c := buildCourse(true, plain(2), plain(1))
	c.Sections[0].Order, c.Sections[1].Order = 5, 1
	c.Sections[0].Lessons[0].Order, c.Sections[0].Lessons[1].Order = 9, 3

	got := Flatten(c)
	require.Len(t, got, 3)
	assert.Equal(t, c.Sections[1].Lessons[0].ID, got[0].ID)
	assert.Equal(t, c.Sections[0].Lessons[1].ID, got[1].ID)
	assert.Equal(t, c.Sections[0].Lessons[0].ID, got[2].ID)
}

func TestSkippingAheadDoesNotUnlockTheSkippedLesson(t *testing.T) {
	c := buildCourse(true, plain(6))
	seq := Flatten(c)
	progress := Progress{seq[4].ID: true}

	state := ComputeLockState(c, progress, nil)
	assert.True(t, state[seq[4].ID])
	assert.False(t, state[seq[5].ID])
}

// randomCourse builds sections with random visibility and quizzes, plus random
// progress and pass sets.
func randomCourse(r *rand.Rand) (*types.Course, Progress, PassedQuizzes) {
	var sections [][]lessonSpec
	numSections := 1 + r.Intn(4)
	for s := 0; s < numSections; s++ {
		var specs []lessonSpec
		numLessons := r.Intn(5)
		for l := 0; l < numLessons; l++ {
			quiz := r.Intn(2) == 0
			specs = append(specs, lessonSpec{hidden: r.Intn(5) == 0, quiz: quiz, mandatory: quiz && r.Intn(2) == 0})
		}
		sections = append(sections, specs)
	}
	c := buildCourse(r.Intn(4) != 0, sections...)
	for i := range c.Sections {
		c.Sections[i].IsHidden = r.Intn(6) == 0
	}

	progress := Progress{}
	passed := PassedQuizzes{}
	for _, s := range c.Sections {
		for _, l := range s.Lessons {
			if r.Intn(2) == 0 {
				progress[l.ID] = true
			}
			if l.Quiz != nil && r.Intn(2) == 0 {
				passed[l.Quiz.ID] = struct{}{}
			}
		}
	}
	return c, progress, passed
}

func TestProperties_RandomCourses(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		c, progress, passed := randomCourse(r)
		seq := Flatten(c)
		state := ComputeLockState(c, progress, passed)

		require.Len(t, state, len(seq))
		if len(seq) > 0 {
			require.False(t, state[seq[0].ID], "first visible lesson locked (iter %d)", iter)
		}

		for i := 0; i+1 < len(seq); i++ {
			cur, next := seq[i], seq[i+1]

			want := false
			if c.RequireSequentialProgress {
				blockedByQuiz := cur.Quiz != nil && cur.Quiz.IsMandatory && !passed.Has(cur.Quiz.ID)
				want = !progress[cur.ID] || blockedByQuiz
			}
			require.Equal(t, want, state[next.ID], "gate mismatch at %d (iter %d)", i+1, iter)

			require.Equal(t, !state[next.ID], CanAdvance(c, cur.ID, progress, passed),
				"CanAdvance disagrees with lock state at %d (iter %d)", i, iter)
		}
	}
}

func TestSummarizeAndNeighbors(t *testing.T) {
	c := buildCourse(true, plain(2), []lessonSpec{{}, {hidden: true}})
	seq := Flatten(c)
	require.Len(t, seq, 3)

	s := Summarize(c, Progress{seq[0].ID: true, seq[1].ID: true, c.Sections[1].Lessons[1].ID: true})
	assert.Equal(t, Summary{Total: 3, Completed: 2, Percent: 67}, s)
	assert.Equal(t, Summary{}, Summarize(buildCourse(true), nil))

	prev, next := Neighbors(c, seq[1].ID)
	require.NotNil(t, prev)
	require.NotNil(t, next)
	assert.Equal(t, seq[0].ID, prev.ID)
	assert.Equal(t, seq[2].ID, next.ID)

	prev, next = Neighbors(c, seq[2].ID)
	assert.Equal(t, seq[1].ID, prev.ID)
	assert.Nil(t, next)

	assert.Equal(t, []uuid.UUID{seq[0].ID, seq[1].ID, seq[2].ID}, LessonIDs(c))
}
