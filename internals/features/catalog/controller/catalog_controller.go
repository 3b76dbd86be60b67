package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorhub_backend/internals/features/catalog/model"
	postModel "tutorhub_backend/internals/features/posts/model"
	teacherModel "tutorhub_backend/internals/features/teachers/model"
	helper "tutorhub_backend/internals/helpers"
)

// CatalogController serves the public reads the core workflows browse
// against. Catalog CRUD lives elsewhere.
type CatalogController struct {
	DB *gorm.DB
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{DB: db}
}

func (ctrl *CatalogController) ListSubjects(c *fiber.Ctx) error {
	var subjects []model.Subject
	if err := ctrl.DB.Where("subject_is_active = ?", true).
		Order("subject_name ASC").
		Find(&subjects).Error; err != nil {
		return err
	}
	return helper.JsonOK(c, "Subjects fetched", subjects)
}

func (ctrl *CatalogController) ListCourses(c *fiber.Ctx) error {
	var courses []model.Course
	if err := ctrl.DB.Where("course_is_active = ?", true).
		Order("course_name ASC").
		Find(&courses).Error; err != nil {
		return err
	}
	return helper.JsonOK(c, "Courses fetched", courses)
}

// ListTeachers exposes approved tutor profiles only. Contact details
// stay hidden until a contact is paid for.
func (ctrl *CatalogController) ListTeachers(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := ctrl.DB.Model(&teacherModel.TeacherProfile{}).
		Where("teacher_approved = ?", true).
		Count(&total).Error; err != nil {
		return err
	}

	var teachers []teacherModel.TeacherProfile
	if err := ctrl.DB.Where("teacher_approved = ?", true).
		Order("created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&teachers).Error; err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(teachers))
	for i := range teachers {
		t := &teachers[i]
		items = append(items, fiber.Map{
			"teacher_id":    t.TeacherID,
			"name":          t.TeacherName,
			"bio":           t.TeacherBio,
			"subjects":      t.TeacherSubjects,
			"languages":     t.TeacherLanguages,
			"hourly_fee":    t.TeacherHourlyFee,
			"rating":        t.TeacherRating,
			"total_reviews": t.TeacherTotalReviews,
		})
	}

	return helper.JsonOK(c, "Teachers fetched", fiber.Map{
		"teachers":   items,
		"pagination": helper.BuildPagination(total, p, len(items)),
	})
}

// GetTeacher is the public profile card; contact details excluded.
func (ctrl *CatalogController) GetTeacher(c *fiber.Ctx) error {
	teacherID, err := helper.ParseUUIDParam(c, "teacherId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid teacher id")
	}

	var teacher teacherModel.TeacherProfile
	err = ctrl.DB.Where("teacher_id = ? AND teacher_approved = ?", teacherID, true).
		First(&teacher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Teacher not found")
	}
	if err != nil {
		return err
	}

	return helper.JsonOK(c, "Teacher fetched", fiber.Map{
		"teacher_id":    teacher.TeacherID,
		"name":          teacher.TeacherName,
		"bio":           teacher.TeacherBio,
		"subjects":      teacher.TeacherSubjects,
		"languages":     teacher.TeacherLanguages,
		"hourly_fee":    teacher.TeacherHourlyFee,
		"rating":        teacher.TeacherRating,
		"total_reviews": teacher.TeacherTotalReviews,
	})
}

// ListOpenPosts is what tutors browse before applying. The post phone
// stays hidden until an application's contact reveal.
func (ctrl *CatalogController) ListOpenPosts(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 20, 100)

	var total int64
	if err := ctrl.DB.Model(&postModel.PostRequirement{}).
		Where("post_status = ?", postModel.PostStatusOpen).
		Count(&total).Error; err != nil {
		return err
	}

	var posts []postModel.PostRequirement
	if err := ctrl.DB.Where("post_status = ?", postModel.PostStatusOpen).
		Order("created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&posts).Error; err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		items = append(items, fiber.Map{
			"post_id":     post.PostID,
			"description": post.PostDescription,
			"subjects":    post.PostSubjects,
			"languages":   post.PostLanguages,
			"budget":      post.PostBudget,
			"created_at":  post.CreatedAt,
		})
	}

	return helper.JsonOK(c, "Posts fetched", fiber.Map{
		"posts":      items,
		"pagination": helper.BuildPagination(total, p, len(items)),
	})
}
