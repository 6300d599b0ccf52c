package demo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recPart struct {
	BasePart
	frames []int64
	starts int
	stops  int
	err    error
}

func newRecPart(name string) *recPart {
	return &recPart{BasePart: NewBasePart(name, nil)}
}

func (p *recPart) Start(c *Clock) {
	p.BasePart.Start(c)
	p.starts++
}

func (p *recPart) Stop() {
	p.BasePart.Stop()
	p.stops++
}

func (p *recPart) Frame(t int64) error {
	p.frames = append(p.frames, t)
	return p.err
}

func manualTimeline() (*ManualTime, *Timeline) {
	mt := &ManualTime{}
	return mt, NewTimeline(NewClock(mt.Now))
}

func TestClockPauseResume(t *testing.T) {
	mt := &ManualTime{}
	c := NewClock(mt.Now)
	assert.Zero(t, c.Elapsed(), "stopped clock reads zero")

	mt.Advance(50)
	c.Start()
	mt.Advance(100)
	assert.Equal(t, int64(100), c.Elapsed())

	c.Pause()
	mt.Advance(40)
	assert.Equal(t, int64(100), c.Elapsed())
	assert.True(t, c.Paused())

	c.Resume()
	mt.Advance(10)
	assert.Equal(t, int64(110), c.Elapsed())

	c.Stop()
	assert.Zero(t, c.Elapsed())
}

func TestChildClockFollowsParent(t *testing.T) {
	mt := &ManualTime{}
	root := NewClock(mt.Now)
	root.Start()
	mt.Advance(200)

	child := root.Child()
	assert.Zero(t, child.Elapsed(), "child starts at parent's current time")

	mt.Advance(30)
	assert.Equal(t, int64(30), child.Elapsed())

	root.Pause()
	mt.Advance(500)
	assert.Equal(t, int64(30), child.Elapsed(), "pausing the parent freezes the child")
	assert.False(t, child.Paused())

	root.Resume()
	mt.Advance(5)
	assert.Equal(t, int64(35), child.Elapsed())

	// a child's own pause is independent of the parent
	child.Pause()
	mt.Advance(20)
	assert.Equal(t, int64(35), child.Elapsed())
	assert.Equal(t, int64(255), root.Elapsed())

	late := root.ChildFrom(250)
	assert.Equal(t, int64(5), late.Elapsed())
}

func TestParametricPosition(t *testing.T) {
	p := NewBasePart("p", nil)
	p.SetTiming(Timing{Start: 1000, End: 3000})

	assert.Equal(t, float32(0), p.ParametricPosition(500))
	assert.Equal(t, float32(0), p.ParametricPosition(1000))
	assert.Equal(t, float32(0.5), p.ParametricPosition(2000))
	assert.Equal(t, float32(1), p.ParametricPosition(9000))

	p.SetTiming(Timing{Start: 10, End: 10})
	assert.Equal(t, float32(0), p.ParametricPosition(5))
	assert.Equal(t, float32(1), p.ParametricPosition(10))
}

func TestTimelineRunsPartsInTheirWindows(t *testing.T) {
	mt, tl := manualTimeline()
	a, b := newRecPart("a"), newRecPart("b")
	require.NoError(t, tl.AddPart(a, 0, 100))
	require.NoError(t, tl.AddPartRelative(b, 50, 100))
	assert.Equal(t, Timing{Start: 150, End: 250}, b.Timing())

	tl.Run()
	assert.Equal(t, Running, tl.State())

	require.NoError(t, tl.Update())
	mt.Advance(60)
	require.NoError(t, tl.Update())
	assert.Equal(t, []int64{0, 60}, a.frames)
	assert.Empty(t, b.frames)

	mt.Advance(100) // 160
	require.NoError(t, tl.Update())
	assert.Equal(t, 1, a.stops)
	assert.Equal(t, []int64{10}, b.frames)
	assert.Equal(t, int64(10), b.TimePosition(), "part clock reads local time")
	assert.False(t, tl.Done())

	mt.Advance(100) // 260
	require.NoError(t, tl.Update())
	assert.Equal(t, 1, b.stops)
	assert.True(t, tl.Done())
	assert.Len(t, b.frames, 1)
}

func TestTimelinePauseFreezesParts(t *testing.T) {
	mt, tl := manualTimeline()
	p := newRecPart("p")
	require.NoError(t, tl.AddPart(p, 0, 1000))
	tl.Run()
	require.NoError(t, tl.Update())

	mt.Advance(100)
	tl.Pause()
	assert.Equal(t, Paused, tl.State())
	mt.Advance(5000)
	require.NoError(t, tl.Update())
	assert.Len(t, p.frames, 1, "no frames while paused")
	assert.Equal(t, int64(100), p.TimePosition())

	tl.Resume()
	mt.Advance(20)
	require.NoError(t, tl.Update())
	assert.Equal(t, []int64{0, 120}, p.frames)
}

func TestTimelineStopRewinds(t *testing.T) {
	mt, tl := manualTimeline()
	p := newRecPart("p")
	require.NoError(t, tl.AddPart(p, 0, 1000))
	tl.Run()
	require.NoError(t, tl.Update())
	mt.Advance(300)

	tl.Stop()
	assert.Equal(t, Stopped, tl.State())
	assert.Equal(t, 1, p.stops)
	assert.False(t, p.Active())
	assert.False(t, tl.Done())

	tl.Run()
	require.NoError(t, tl.Update())
	assert.Equal(t, 2, p.starts)
	assert.Equal(t, int64(0), p.frames[len(p.frames)-1], "run restarts from zero")
}

func TestTimelineLateLaunchUsesWindowTime(t *testing.T) {
	mt, tl := manualTimeline()
	p := newRecPart("p")
	require.NoError(t, tl.AddPart(p, 100, 500))
	tl.Run()

	mt.Advance(130)
	require.NoError(t, tl.Update())
	assert.Equal(t, []int64{30}, p.frames)
	assert.Equal(t, int64(30), p.TimePosition())
}

func TestTimelineAddRules(t *testing.T) {
	_, tl := manualTimeline()
	require.NoError(t, tl.AddPart(newRecPart("a"), 0, 10))

	assert.ErrorIs(t, tl.AddPart(newRecPart("a"), 0, 10), ErrDuplicatePart)
	assert.ErrorIs(t, tl.AddPart(newRecPart("b"), 10, 5), ErrInvalidTiming)

	tl.Run()
	assert.ErrorIs(t, tl.AddPart(newRecPart("c"), 0, 10), ErrNotStopped)
	assert.NotNil(t, tl.Part("a"))
	assert.Nil(t, tl.Part("c"))
}

func TestTimelineJoinsFrameErrors(t *testing.T) {
	_, tl := manualTimeline()
	bad := newRecPart("bad")
	bad.err = errors.New("boom")
	good := newRecPart("good")
	require.NoError(t, tl.AddPart(bad, 0, 10))
	require.NoError(t, tl.AddPart(good, 0, 10))
	tl.Run()

	err := tl.Update()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad: boom")
	assert.Len(t, good.frames, 1, "other parts still render")
}

func TestZeroLengthPartNeverRenders(t *testing.T) {
	_, tl := manualTimeline()
	p := newRecPart("flash")
	require.NoError(t, tl.AddPart(p, 0, 0))
	tl.Run()
	require.NoError(t, tl.Update())

	assert.Equal(t, 1, p.starts)
	assert.Equal(t, 1, p.stops)
	assert.Empty(t, p.frames)
	assert.True(t, tl.Done())
}

func TestScheduleFormats(t *testing.T) {
	yamlSrc := []byte(`
parts:
  - {part: intro, start: 0, end: 11000}
  - {part: dungeon, duration: 75000}
  - {part: tree, offset: -100, duration: 40000}
`)
	tomlSrc := []byte(`
[[parts]]
part = "intro"
start = 0
end = 11000

[[parts]]
part = "dungeon"
duration = 75000

[[parts]]
part = "tree"
offset = -100
duration = 40000
`)
	want := map[string]Timing{
		"intro":   {Start: 0, End: 11000},
		"dungeon": {Start: 11000, End: 86000},
		"tree":    {Start: 85900, End: 125900},
	}

	for ext, src := range map[string][]byte{".yaml": yamlSrc, ".toml": tomlSrc} {
		t.Run(ext, func(t *testing.T) {
			s, err := ParseSchedule(src, ext)
			require.NoError(t, err)
			got, err := s.Timings()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := ParseSchedule(yamlSrc, ".json")
	assert.ErrorIs(t, err, ErrScheduleFormat)
}

func TestScheduleEntryErrors(t *testing.T) {
	s, err := ParseSchedule([]byte("parts:\n  - {part: a, start: 5}\n"), ".yml")
	require.NoError(t, err)
	_, err = s.Timings()
	assert.ErrorIs(t, err, ErrScheduleEntry)

	s, err = ParseSchedule([]byte("parts:\n  - {part: a, start: 5, end: 1}\n"), ".yml")
	require.NoError(t, err)
	_, err = s.Timings()
	assert.ErrorIs(t, err, ErrInvalidTiming)
}

func TestScheduleApply(t *testing.T) {
	_, tl := manualTimeline()
	a := newRecPart("a")
	require.NoError(t, tl.AddPart(a, 0, 10))

	s := &Schedule{Parts: []Entry{{Part: "a", Duration: ptr(int64(500))}}}
	require.NoError(t, s.Apply(tl))
	assert.Equal(t, Timing{Start: 0, End: 500}, a.Timing())

	s.Parts = append(s.Parts, Entry{Part: "ghost", Duration: ptr(int64(5))})
	assert.ErrorIs(t, s.Apply(tl), ErrUnknownPart)
	assert.Equal(t, Timing{Start: 0, End: 500}, a.Timing(), "failed apply changes nothing")
}

func TestLoadSchedule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parts:\n  - {part: a, start: 1, end: 2}\n"), 0o644))

	s, err := LoadSchedule(path)
	require.NoError(t, err)
	require.Len(t, s.Parts, 1)
	assert.Equal(t, "a", s.Parts[0].Part)

	_, err = LoadSchedule(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatcherReappliesSchedule(t *testing.T) {
	_, tl := manualTimeline()
	a := newRecPart("a")
	require.NoError(t, tl.AddPart(a, 0, 10))

	path := filepath.Join(t.TempDir(), "show.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parts:\n  - {part: a, start: 0, end: 10}\n"), 0o644))

	w, err := Watch(path, tl)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("parts:\n  - {part: a, start: 100, end: 900}\n"), 0o644))

	want := Timing{Start: 100, End: 900}
	deadline := time.After(5 * time.Second)
	for {
		select {
		case err := <-w.Reloaded():
			if err == nil && a.Timing() == want {
				return
			}
		case <-deadline:
			t.Fatal("schedule not reapplied")
		}
	}
}

func ptr[T any](v T) *T { return &v }
