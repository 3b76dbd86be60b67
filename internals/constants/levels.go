package constants

import "strings"

// TeachingLevels is the fixed ordered scale used to match a tutor's
// [fromLevel, toLevel] range against a post's required level. Order matters;
// index position is the comparison key.
var TeachingLevels = []string{
	"Beginner",
	"Intermediate",
	"Advanced",
	"Expert",
	"Grade 1",
	"Grade 2",
	"Grade 3",
	"Grade 4",
	"Grade 5",
	"Grade 6",
	"Grade 7",
	"Grade 8",
	"Grade 9",
	"Grade 10",
	"Grade 11",
	"Grade 12",
	"Diploma",
	"Bachelor's",
	"Master's",
	"PhD",
}

// LevelIndex returns the position of a level on the scale, or -1 when the
// level is unknown. Matching is case-insensitive.
func LevelIndex(level string) int {
	for i, l := range TeachingLevels {
		if strings.EqualFold(l, level) {
			return i
		}
	}
	return -1
}
