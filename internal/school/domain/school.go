// Package domain defines the school entities exposed by the protected API.
package domain

import "time"

// Class is a school class such as "9-A".
type Class struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Course is a taught subject.
type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Student is the public profile of a student shown on the dashboard.
type Student struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
}

// Scores are the four assessments of an enrollment. Nil means not graded yet.
type Scores struct {
	Exam1 *float64 `json:"exam1"`
	Exam2 *float64 `json:"exam2"`
	Oral1 *float64 `json:"oral1"`
	Oral2 *float64 `json:"oral2"`
}

// Grade is one enrollment row as seen by the student.
type Grade struct {
	CourseID   int64  `json:"course_id"`
	CourseName string `json:"course_name"`
	Scores
	Average *float64 `json:"average"`
}

// Dashboard is the student landing page: profile and grades.
type Dashboard struct {
	Student *Student `json:"student"`
	Grades  []*Grade `json:"grades"`
}

// StudentGrade is one enrollment row as seen by the grading teacher.
type StudentGrade struct {
	StudentID  int64  `json:"student_id"`
	Name       string `json:"name"`
	Lastname   string `json:"lastname"`
	ClassID    int64  `json:"class_id"`
	ClassName  string `json:"class_name"`
	CourseID   int64  `json:"course_id"`
	CourseName string `json:"course_name"`
	Scores
	Average *float64 `json:"average"`
}

// CourseStanding is a student's average in one course and the class they sit in.
// It drives video suggestions.
type CourseStanding struct {
	StudentID int64
	CourseID  int64
	ClassName string
	Average   *float64
}

// UpdateGradesInput carries a teacher's grade entry. CourseID narrows the update to
// one course when the teacher grades the student in several.
type UpdateGradesInput struct {
	StudentID int64
	TeacherID int64
	CourseID  *int64
	Exam1     float64
	Exam2     float64
	Oral1     float64
	Oral2     float64
}

// Average returns the mean of the four scores.
func (u *UpdateGradesInput) Average() float64 {
	return (u.Exam1 + u.Exam2 + u.Oral1 + u.Oral2) / 4
}

// GradeUpdate reports the outcome of UpdateGrades.
type GradeUpdate struct {
	StudentID int64   `json:"student_id"`
	Average   float64 `json:"average"`
	Updated   int64   `json:"updated"`
}

// Material is a teaching resource targeted at a class level and success range.
type Material struct {
	ID          int64        `json:"id"`
	TeacherID   int64        `json:"teacher_id"`
	CourseID    int64        `json:"course_id"`
	ClassLevel  string       `json:"class_level"`
	TargetRange TargetRange  `json:"target_range"`
	Type        MaterialType `json:"type"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	UploadedAt  time.Time    `json:"uploaded_at"`
}

// CreateMaterialInput carries a new material. Content is a URL or text reference.
type CreateMaterialInput struct {
	TeacherID   int64
	CourseID    int64
	ClassLevel  string
	TargetRange TargetRange
	Type        MaterialType
	Title       string
	Content     string
}
