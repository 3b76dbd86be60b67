package model

import (
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrStaleDoc means the document changed between load and write-back;
// callers retry the whole load-mutate-save cycle.
var ErrStaleDoc = errors.New("resource document modified concurrently")

type SubjectResources struct {
	ResourceID uuid.UUID `gorm:"column:resource_id;type:uuid;primaryKey" json:"resource_id"`

	ResourceSubjectID uuid.UUID `gorm:"column:resource_subject_id;type:uuid;not null;uniqueIndex:uq_resource_triple" json:"resource_subject_id"`
	ResourceCourseID  uuid.UUID `gorm:"column:resource_course_id;type:uuid;not null;uniqueIndex:uq_resource_triple;index" json:"resource_course_id"`
	ResourceExamBoard string    `gorm:"column:resource_exam_board;type:varchar(50);not null;uniqueIndex:uq_resource_triple" json:"resource_exam_board"`

	ResourceDoc datatypes.JSON `gorm:"column:resource_doc;type:jsonb" json:"resource_doc"`

	// optimistic lock for the load-mutate-save cycle
	ResourceRevision int64 `gorm:"column:resource_revision;not null;default:0" json:"resource_revision"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SubjectResources) TableName() string {
	return "subject_resources"
}

func (r *SubjectResources) BeforeCreate(tx *gorm.DB) error {
	if r.ResourceID == uuid.Nil {
		r.ResourceID = uuid.New()
	}
	return nil
}

// Doc decodes the stored JSONB document. An empty column decodes to the
// zero document.
func (r *SubjectResources) Doc() (*ResourceDoc, error) {
	doc := &ResourceDoc{}
	if len(r.ResourceDoc) == 0 {
		return doc, nil
	}
	if err := sonic.Unmarshal(r.ResourceDoc, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *SubjectResources) SetDoc(doc *ResourceDoc) error {
	raw, err := sonic.Marshal(doc)
	if err != nil {
		return err
	}
	r.ResourceDoc = datatypes.JSON(raw)
	return nil
}

// SaveDoc writes the document back guarded by the revision it was loaded
// at. Zero rows affected means a concurrent writer won: ErrStaleDoc.
func (r *SubjectResources) SaveDoc(db *gorm.DB, doc *ResourceDoc) error {
	if err := r.SetDoc(doc); err != nil {
		return err
	}
	res := db.Model(&SubjectResources{}).
		Where("resource_id = ? AND resource_revision = ?", r.ResourceID, r.ResourceRevision).
		Updates(map[string]any{
			"resource_doc":      r.ResourceDoc,
			"resource_revision": r.ResourceRevision + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleDoc
	}
	r.ResourceRevision++
	return nil
}
