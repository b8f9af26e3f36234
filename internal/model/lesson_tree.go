package model

import (
	"fmt"
	"sort"
	"strings"
)

// LessonTree 以 arena + 双索引的方式持有一门课程的课时结构：
// lessons 按 id 存放，children/dependants 两张反向索引分别回答
// “某个模块下有哪些子课时”和“有谁把这节课设为前置课时”。
// 后者让删除校验做到 O(1)。
type LessonTree struct {
	course     *Course
	lessons    map[uint]*Lesson
	roots      []*Lesson
	children   map[uint][]*Lesson
	dependants map[uint][]*Lesson
}

func NewLessonTree(course *Course, lessons []Lesson) *LessonTree {
	t := &LessonTree{
		course:     course,
		lessons:    make(map[uint]*Lesson, len(lessons)),
		children:   make(map[uint][]*Lesson),
		dependants: make(map[uint][]*Lesson),
	}

	for i := range lessons {
		l := &lessons[i]
		t.lessons[l.ID] = l
	}

	for i := range lessons {
		l := &lessons[i]
		if l.ParentID != nil {
			t.children[*l.ParentID] = append(t.children[*l.ParentID], l)
		} else {
			t.roots = append(t.roots, l)
		}
		if l.PrerequisiteID != nil {
			t.dependants[*l.PrerequisiteID] = append(t.dependants[*l.PrerequisiteID], l)
		}
	}

	sortByOrder(t.roots)
	for id := range t.children {
		sortByOrder(t.children[id])
	}
	return t
}

func sortByOrder(ls []*Lesson) {
	sort.SliceStable(ls, func(i, j int) bool { return ls[i].Order < ls[j].Order })
}

func (t *LessonTree) Lesson(id uint) *Lesson {
	return t.lessons[id]
}

func (t *LessonTree) Roots() []*Lesson {
	return t.roots
}

func (t *LessonTree) Children(id uint) []*Lesson {
	return t.children[id]
}

// HasDependants 是否有其他课时把 id 作为前置课时
func (t *LessonTree) HasDependants(id uint) bool {
	return len(t.dependants[id]) > 0
}

func (t *LessonTree) Dependants(id uint) []*Lesson {
	return t.dependants[id]
}

// Render 按 order 深度优先渲染课程结构
func (t *LessonTree) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n", t.course.Title)
	for _, l := range t.roots {
		t.renderLesson(&b, l, 1)
	}
	return b.String()
}

func (t *LessonTree) renderLesson(b *strings.Builder, l *Lesson, depth int) {
	indent := strings.Repeat("  ", depth)
	if l.IsModule() {
		fmt.Fprintf(b, "%sModule: %s\n", indent, l.Title)
		for _, child := range t.children[l.ID] {
			t.renderLesson(b, child, depth+1)
		}
		return
	}
	path := l.ContentPath
	if path == "" {
		path = "N/A"
	}
	fmt.Fprintf(b, "%sLesson: %s (%s) %s\n", indent, l.Title, l.LessonType, path)
}
