package service

import (
	"fmt"
	"strings"

	"tutorhub_backend/internals/constants"
	postModel "tutorhub_backend/internals/features/posts/model"
	teacherModel "tutorhub_backend/internals/features/teachers/model"
)

// CalculateApplicationCost prices an application by the post's subject
// count: base cost plus a per-subject surcharge for the first three
// subjects, capped.
func CalculateApplicationCost(subjectCount int) int {
	counted := subjectCount
	if counted > constants.ApplicationMaxSubjectsCounted {
		counted = constants.ApplicationMaxSubjectsCounted
	}
	cost := constants.ApplicationBaseCost + constants.ApplicationCostPerSubject*counted
	if cost > constants.ApplicationCostCap {
		cost = constants.ApplicationCostCap
	}
	return cost
}

// CanTeachSubject reports whether one of the tutor's subject entries
// covers the requested (name, level): names match case-insensitively and
// the post level falls inside the tutor's [fromLevel, toLevel] interval
// on the fixed level scale. Unknown levels never match.
func CanTeachSubject(tutorSubjects []teacherModel.TeacherSubject, want postModel.PostSubject) bool {
	wantIdx := constants.LevelIndex(want.Level)
	if wantIdx < 0 {
		return false
	}
	for _, s := range tutorSubjects {
		if !strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(want.Name)) {
			continue
		}
		from := constants.LevelIndex(s.FromLevel)
		to := constants.LevelIndex(s.ToLevel)
		if from < 0 || to < 0 {
			continue
		}
		if from <= wantIdx && wantIdx <= to {
			return true
		}
	}
	return false
}

// SharesLanguage reports whether the tutor speaks at least one of the
// post's languages (case-insensitive). A post with no language listed
// accepts anyone.
func SharesLanguage(tutorLangs, postLangs []string) bool {
	if len(postLangs) == 0 {
		return true
	}
	for _, pl := range postLangs {
		for _, tl := range tutorLangs {
			if strings.EqualFold(strings.TrimSpace(pl), strings.TrimSpace(tl)) {
				return true
			}
		}
	}
	return false
}

// CheckEligibility validates the tutor against every subject of the post
// and the language overlap. Returns a caller-facing reason on failure.
func CheckEligibility(teacher *teacherModel.TeacherProfile, post *postModel.PostRequirement) error {
	tutorSubjects, err := teacher.Subjects()
	if err != nil {
		return fmt.Errorf("reading tutor subjects: %w", err)
	}
	postSubjects, err := post.Subjects()
	if err != nil {
		return fmt.Errorf("reading post subjects: %w", err)
	}
	if len(postSubjects) == 0 {
		return fmt.Errorf("post has no subjects to match against")
	}

	for _, want := range postSubjects {
		if !CanTeachSubject(tutorSubjects, want) {
			return fmt.Errorf("you do not teach %s at %s level", want.Name, want.Level)
		}
	}

	tutorLangs, err := teacher.Languages()
	if err != nil {
		return fmt.Errorf("reading tutor languages: %w", err)
	}
	postLangs, err := post.Languages()
	if err != nil {
		return fmt.Errorf("reading post languages: %w", err)
	}
	if !SharesLanguage(tutorLangs, postLangs) {
		return fmt.Errorf("you do not share a language with this post")
	}
	return nil
}
