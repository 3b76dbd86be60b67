package constants

import "fmt"

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

const (
	ErrOnlyTeachersCanAccess = "Only teachers can access %s."
	ErrOnlyStudentsCanAccess = "Only students can access %s."
	ErrOnlyAdminsCanAccess   = "Only admins can access %s."
)

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

var AllRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}
