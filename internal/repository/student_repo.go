package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/student-service/internal/models"
	"github.com/noah-isme/student-service/internal/query"
)

// StudentQuery selects one page of students.
type StudentQuery struct {
	Where   query.Predicate
	Skip    int
	Take    int
	OrderBy query.OrderBy
}

// StudentRepository provides access to student records. Every returned
// student carries its faculty, department and semester.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindMany(ctx context.Context, q StudentQuery) ([]models.Student, error)
	Count(ctx context.Context, where query.Predicate) (int64, error)
	FindByID(ctx context.Context, id string) (models.Student, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (models.Student, error)
	Delete(ctx context.Context, id string) (models.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) baseQuery(ctx context.Context) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Student{})
	for _, relation := range models.StudentRelations {
		tx = tx.Preload(relation)
	}
	return tx
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(student).Error; err != nil {
		return classifyError("create student", err)
	}

	created, err := r.FindByID(ctx, student.ID)
	if err != nil {
		return err
	}
	*student = created
	return nil
}

func (r *studentRepository) FindMany(ctx context.Context, q StudentQuery) ([]models.Student, error) {
	tx, err := applyPredicate(r.baseQuery(ctx), q.Where)
	if err != nil {
		return nil, err
	}

	order := q.OrderBy
	if order.Column == "" {
		order = query.OrderBy{Column: "created_at", Desc: true}
	}
	if _, err := studentColumn(order.Column); err != nil {
		return nil, err
	}
	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: order.Column}, Desc: order.Desc})
	if q.Skip > 0 {
		tx = tx.Offset(q.Skip)
	}
	if q.Take > 0 {
		tx = tx.Limit(q.Take)
	}

	var students []models.Student
	if err := tx.Find(&students).Error; err != nil {
		return nil, classifyError("list students", err)
	}
	return students, nil
}

func (r *studentRepository) Count(ctx context.Context, where query.Predicate) (int64, error) {
	tx, err := applyPredicate(r.db.WithContext(ctx).Model(&models.Student{}), where)
	if err != nil {
		return 0, err
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return 0, classifyError("count students", err)
	}
	return total, nil
}

func (r *studentRepository) FindByID(ctx context.Context, id string) (models.Student, error) {
	var student models.Student
	if err := r.baseQuery(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		return models.Student{}, classifyError("find student", err)
	}
	return student, nil
}

func (r *studentRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (models.Student, error) {
	if len(updates) == 0 {
		return r.FindByID(ctx, id)
	}

	result := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return models.Student{}, classifyError("update student", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.Student{}, &Error{Kind: ErrNotFound, Op: "update student"}
	}

	return r.FindByID(ctx, id)
}

func (r *studentRepository) Delete(ctx context.Context, id string) (models.Student, error) {
	var deleted models.Student
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := &studentRepository{db: tx}
		student, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Student{})
		if result.Error != nil {
			return classifyError("delete student", result.Error)
		}
		if result.RowsAffected == 0 {
			return &Error{Kind: ErrNotFound, Op: "delete student"}
		}

		deleted = student
		return nil
	})
	if err != nil {
		return models.Student{}, classifyError("delete student", err)
	}
	return deleted, nil
}

func applyPredicate(tx *gorm.DB, where query.Predicate) (*gorm.DB, error) {
	condition, args, err := renderPredicate(where)
	if err != nil {
		return nil, err
	}
	if condition == "" {
		return tx, nil
	}
	return tx.Where(condition, args...), nil
}
