package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func buildTestTree() *LessonTree {
	course := &Course{Title: "Go 入门"}
	lessons := []Lesson{
		{BaseModel: BaseModel{ID: 1}, Title: "第一章", LessonType: LessonModule, Order: 1},
		{BaseModel: BaseModel{ID: 2}, Title: "环境搭建", LessonType: LessonVideo, Order: 2, ParentID: uintPtr(1), ContentPath: "videos/setup.mp4"},
		{BaseModel: BaseModel{ID: 3}, Title: "第一个程序", LessonType: LessonText, Order: 1, ParentID: uintPtr(1), PrerequisiteID: uintPtr(2)},
		{BaseModel: BaseModel{ID: 4}, Title: "小测验", LessonType: LessonQuiz, Order: 2, PrerequisiteID: uintPtr(2)},
	}
	return NewLessonTree(course, lessons)
}

func TestLessonTreeIndexes(t *testing.T) {
	tree := buildTestTree()

	roots := tree.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, uint(1), roots[0].ID)
	assert.Equal(t, uint(4), roots[1].ID)

	// 子课时按 order 排序
	children := tree.Children(1)
	require.Len(t, children, 2)
	assert.Equal(t, "第一个程序", children[0].Title)
	assert.Equal(t, "环境搭建", children[1].Title)

	assert.True(t, tree.HasDependants(2))
	assert.False(t, tree.HasDependants(3))
	assert.Len(t, tree.Dependants(2), 2)

	require.NotNil(t, tree.Lesson(3))
	assert.Nil(t, tree.Lesson(99))
}

func TestLessonTreeRender(t *testing.T) {
	tree := buildTestTree()

	expected := "Course: Go 入门\n" +
		"  Module: 第一章\n" +
		"    Lesson: 第一个程序 (text) N/A\n" +
		"    Lesson: 环境搭建 (video) videos/setup.mp4\n" +
		"  Lesson: 小测验 (quiz) N/A\n"
	assert.Equal(t, expected, tree.Render())
}
