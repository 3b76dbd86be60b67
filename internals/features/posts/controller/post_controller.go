package controller

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"tutorhub_backend/internals/constants"
	"tutorhub_backend/internals/features/posts/dto"
	"tutorhub_backend/internals/features/posts/model"
	helper "tutorhub_backend/internals/helpers"
)

type PostController struct {
	DB *gorm.DB
}

func NewPostController(db *gorm.DB) *PostController {
	return &PostController{DB: db}
}

/* ===================== POST /api/u/posts ===================== */

// CreatePost opens a new tutor request. Student-only; every requested
// level must sit on the fixed teaching scale so applications can be
// matched against it later.
func (ctrl *PostController) CreatePost(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	if helper.GetUserRole(c) != constants.RoleStudent {
		return fiber.NewError(fiber.StatusForbidden,
			constants.RoleErrorStudent("post requirements"))
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return helper.ValidationError(c, err)
	}

	subjects := make([]model.PostSubject, 0, len(req.Subjects))
	for _, s := range req.Subjects {
		if constants.LevelIndex(s.Level) < 0 {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Unknown level %q for subject %q", s.Level, s.Name))
		}
		subjects = append(subjects, model.PostSubject{Name: s.Name, Level: s.Level})
	}

	post := model.PostRequirement{
		PostStudentID:   userID,
		PostDescription: req.Description,
		PostPhone:       req.Phone,
		PostBudget:      req.Budget,
		PostStatus:      model.PostStatusOpen,
	}
	if err := post.SetSubjects(subjects); err != nil {
		return err
	}
	if err := post.SetLanguages(req.Languages); err != nil {
		return err
	}
	if err := ctrl.DB.Create(&post).Error; err != nil {
		return err
	}

	resp, err := dto.NewPostResponse(&post)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Post created", resp)
}

/* ===================== PATCH /api/u/posts/:postId/close ===================== */

// ClosePost takes the post off the market. Closed posts reject new
// applications; existing ones keep their state.
func (ctrl *PostController) ClosePost(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	postID, err := helper.ParseUUIDParam(c, "postId")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid post id")
	}

	var post model.PostRequirement
	err = ctrl.DB.Where("post_id = ?", postID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Post not found")
	}
	if err != nil {
		return err
	}
	if post.PostStudentID != userID {
		return fiber.NewError(fiber.StatusForbidden, "You can only close your own posts")
	}
	if post.PostStatus == model.PostStatusClosed {
		return fiber.NewError(fiber.StatusBadRequest, "Post is already closed")
	}

	if err := ctrl.DB.Model(&post).
		Update("post_status", model.PostStatusClosed).Error; err != nil {
		return err
	}
	post.PostStatus = model.PostStatusClosed

	resp, err := dto.NewPostResponse(&post)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Post closed", resp)
}
