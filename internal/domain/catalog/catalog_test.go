package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var published = Publication{Published: true}

func TestNormalizeSlug(t *testing.T) {
	tests := map[string]string{
		"Escola Online":      "escola-online",
		"escola-online":      "escola-online",
		"  Introdução  Geral": "introducao-geral",
		"ÁRVORE":             "arvore",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeSlug(in), in)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "escola-online", Key("Escola Online"))
	assert.Equal(t, "escola-online:modulo-1:aula-1", Key("escola-online", "Módulo 1", "Aula 1"))
}

func TestPublication_VisibleAt(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	assert.True(t, Publication{Published: true}.VisibleAt(now))
	assert.True(t, Publication{Published: true, PublicationDate: &past}.VisibleAt(now))
	assert.True(t, Publication{Published: true, PublicationDate: &now}.VisibleAt(now))
	assert.False(t, Publication{Published: true, PublicationDate: &future}.VisibleAt(now))
	assert.False(t, Publication{Published: false}.VisibleAt(now))
}

func TestDelegationGraph_AccessCourses(t *testing.T) {
	g := DelegationGraph{
		"z": {"y"},
		"y": {"x"},
		"x": {"z"},
		"w": nil,
	}

	assert.Equal(t, []string{"z", "y", "x"}, g.AccessCourses("z"))
	assert.Equal(t, []string{"w"}, g.AccessCourses("w"))
	assert.Equal(t, []string{"unknown"}, g.AccessCourses("unknown"))
}

func TestPublishedOnly_Recursive(t *testing.T) {
	comments := []*Comment{
		{ID: 1, Published: true, Responses: []*Comment{
			{ID: 2, Published: false},
			{ID: 3, Published: true, Responses: []*Comment{{ID: 4, Published: false}}},
		}},
		{ID: 5, Published: false, Responses: []*Comment{{ID: 6, Published: true}}},
	}

	out := PublishedOnly(comments)
	require.Len(t, out, 1)
	assert.Equal(t, uint(1), out[0].ID)
	require.Len(t, out[0].Responses, 1)
	assert.Equal(t, uint(3), out[0].Responses[0].ID)
	assert.Empty(t, out[0].Responses[0].Responses)

	// input untouched
	assert.Len(t, comments[0].Responses, 2)
}

func TestBuildCommentTree(t *testing.T) {
	parents := map[uint]uint{1: 0, 2: 1, 3: 2, 4: 0, 5: 99}
	flat := []*Comment{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}

	roots := BuildCommentTree(flat, func(c *Comment) uint { return parents[c.ID] })
	require.Len(t, roots, 2)
	assert.Equal(t, uint(1), roots[0].ID)
	require.Len(t, roots[0].Responses, 1)
	require.Len(t, roots[0].Responses[0].Responses, 1)
	assert.Equal(t, uint(3), roots[0].Responses[0].Responses[0].ID)
}

func TestBuildEntries(t *testing.T) {
	lesson2 := &Lesson{ID: 12, Slug: "aula-2", Content: Content{Name: "Aula 2"}, Publication: published}
	lesson1 := &Lesson{ID: 11, Slug: "Aula 1", Content: Content{Name: "Aula 1"}, Publication: published,
		Comments: []*Comment{{ID: 1, Published: true}}}
	module := &Module{ID: 5, Slug: "modulo-1", Content: Content{Name: "Módulo 1"}, Publication: published,
		Lessons: []LessonPlacement{
			{Order: 2, Publication: published, Lesson: lesson2},
			{Order: 1, Publication: Publication{Published: false}, Lesson: lesson1},
		}}
	courses := []*Course{
		{ID: 1, Slug: "Escola Online", Publication: published, DelegateAuthTo: []string{"mentoria"},
			Modules: []ModulePlacement{{Order: 1, Publication: published, Module: module}}},
		{ID: 2, Slug: "mentoria", Publication: published},
	}

	entries := BuildEntries(courses)
	byKey := make(map[string]*Entry, len(entries))
	for _, e := range entries {
		byKey[e.Key] = e
	}
	require.Len(t, byKey, 5)

	course := byKey["escola-online"]
	require.NotNil(t, course)
	assert.Equal(t, KindCourse, course.Kind)
	assert.Equal(t, []string{"escola-online", "mentoria"}, course.AccessCourses)
	require.Len(t, course.Children, 1)
	assert.Equal(t, "modulo-1", course.Children[0].Slug)

	mod := byKey["escola-online:modulo-1"]
	require.NotNil(t, mod)
	require.Len(t, mod.Children, 2)
	assert.Equal(t, "aula-1", mod.Children[0].Slug)
	assert.Equal(t, "aula-2", mod.Children[1].Slug)
	assert.False(t, mod.Children[0].VisibleAt(time.Now()))

	lesson := byKey["escola-online:modulo-1:aula-1"]
	require.NotNil(t, lesson)
	assert.Equal(t, KindLesson, lesson.Kind)
	assert.Equal(t, "escola-online", lesson.CourseSlug)
	assert.Equal(t, "modulo-1", lesson.ModuleSlug)
	assert.Len(t, lesson.Comments, 1)
	assert.Len(t, lesson.Gates, 5)
	assert.False(t, lesson.VisibleAt(time.Now()), "unpublished join hides the lesson")
	assert.True(t, byKey["escola-online:modulo-1:aula-2"].VisibleAt(time.Now()))
}

func TestContent_Redacted(t *testing.T) {
	c := Content{Content: "full", Video: "full.mp4", MarketingContent: "teaser"}
	r := c.Redacted()
	assert.Equal(t, "teaser", r.Content)
	assert.Equal(t, "", r.Video)
	assert.Equal(t, "full", c.Content)
}
