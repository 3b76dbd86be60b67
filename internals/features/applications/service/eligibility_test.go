package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	postModel "tutorhub_backend/internals/features/posts/model"
	teacherModel "tutorhub_backend/internals/features/teachers/model"
)

func TestCalculateApplicationCost(t *testing.T) {
	cases := []struct {
		name     string
		subjects int
		want     int
	}{
		{"zero subjects", 0, 40},
		{"one subject", 1, 50},
		{"two subjects", 2, 60},
		{"three subjects", 3, 70},
		{"four subjects capped", 4, 70},
		{"ten subjects capped", 10, 70},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CalculateApplicationCost(tc.subjects))
		})
	}
}

func TestCanTeachSubjectIndexRange(t *testing.T) {
	subjects := []teacherModel.TeacherSubject{
		{Name: "Mathematics", FromLevel: "Grade 5", ToLevel: "Grade 10"},
		{Name: "Physics", FromLevel: "Beginner", ToLevel: "Advanced"},
	}

	cases := []struct {
		name string
		want postModel.PostSubject
		ok   bool
	}{
		{"inside range", postModel.PostSubject{Name: "Mathematics", Level: "Grade 7"}, true},
		{"lower bound inclusive", postModel.PostSubject{Name: "Mathematics", Level: "Grade 5"}, true},
		{"upper bound inclusive", postModel.PostSubject{Name: "Mathematics", Level: "Grade 10"}, true},
		{"below range", postModel.PostSubject{Name: "Mathematics", Level: "Grade 4"}, false},
		{"above range", postModel.PostSubject{Name: "Mathematics", Level: "Grade 11"}, false},
		{"case-insensitive name", postModel.PostSubject{Name: "mathematics", Level: "Grade 6"}, true},
		{"unknown subject", postModel.PostSubject{Name: "Chemistry", Level: "Grade 6"}, false},
		{"unknown level", postModel.PostSubject{Name: "Mathematics", Level: "Wizard"}, false},
		{"second subject", postModel.PostSubject{Name: "Physics", Level: "Intermediate"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.ok, CanTeachSubject(subjects, tc.want))
		})
	}
}

func TestSharesLanguage(t *testing.T) {
	require.True(t, SharesLanguage([]string{"English", "French"}, []string{"french"}))
	require.False(t, SharesLanguage([]string{"English"}, []string{"Mandarin"}))
	require.True(t, SharesLanguage(nil, nil), "post without languages accepts anyone")
	require.False(t, SharesLanguage(nil, []string{"English"}))
}

func TestCheckEligibility(t *testing.T) {
	teacher := &teacherModel.TeacherProfile{}
	require.NoError(t, teacher.SetSubjects([]teacherModel.TeacherSubject{
		{Name: "Mathematics", FromLevel: "Grade 1", ToLevel: "Grade 12"},
	}))
	require.NoError(t, teacher.SetLanguages([]string{"English"}))

	post := &postModel.PostRequirement{}
	require.NoError(t, post.SetSubjects([]postModel.PostSubject{
		{Name: "Mathematics", Level: "Grade 9"},
	}))
	require.NoError(t, post.SetLanguages([]string{"English"}))

	require.NoError(t, CheckEligibility(teacher, post))

	// one unmatched subject fails the whole application
	require.NoError(t, post.SetSubjects([]postModel.PostSubject{
		{Name: "Mathematics", Level: "Grade 9"},
		{Name: "Chemistry", Level: "Grade 9"},
	}))
	require.Error(t, CheckEligibility(teacher, post))

	// language mismatch
	require.NoError(t, post.SetSubjects([]postModel.PostSubject{
		{Name: "Mathematics", Level: "Grade 9"},
	}))
	require.NoError(t, post.SetLanguages([]string{"Mandarin"}))
	require.Error(t, CheckEligibility(teacher, post))

	// empty post subject list is invalid
	post.PostSubjects = nil
	require.Error(t, CheckEligibility(teacher, post))
}
