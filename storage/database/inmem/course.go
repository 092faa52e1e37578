package inmemdb

import (
	"strings"

	"github.com/trezcool/elimu/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.courseOrder))
	for _, id := range repo.db.courseOrder {
		courses = append(courses, *repo.db.courses[id])
	}
	return courses
}

func (repo *courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	crs.ID = repo.db.nextID()
	repo.db.courses[crs.ID] = &crs
	repo.db.courseOrder = append(repo.db.courseOrder, crs.ID)
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.query(), nil
}

func (repo *courseRepository) GetCourseByID(id string) (course.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) FilterCourses(filter course.QueryFilter) ([]course.Course, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	courses := repo.query()

	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		var filtered []course.Course
		for _, c := range courses {
			if strings.Contains(strings.ToLower(c.Title), search) ||
				strings.Contains(strings.ToLower(c.Description), search) {
				filtered = append(filtered, c)
			}
		}
		courses = filtered
	}
	if courses != nil && filter.TeacherID != "" {
		var filtered []course.Course
		for _, c := range courses {
			if c.TeacherID == filter.TeacherID {
				filtered = append(filtered, c)
			}
		}
		courses = filtered
	}
	if courses != nil && filter.Status != "" {
		var filtered []course.Course
		for _, c := range courses {
			if c.Status == filter.Status {
				filtered = append(filtered, c)
			}
		}
		courses = filtered
	}
	if courses != nil && filter.Category != "" {
		var filtered []course.Course
		for _, c := range courses {
			if c.Category == filter.Category {
				filtered = append(filtered, c)
			}
		}
		courses = filtered
	}

	return courses, nil
}

func (repo *courseRepository) UpdateCourse(crs course.Course) (course.Course, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	origCrs, ok := repo.db.courses[crs.ID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	// derived aggregates and the enrolled count stay authoritative here
	origCrs.TeacherID = crs.TeacherID
	origCrs.Title = crs.Title
	origCrs.Description = crs.Description
	origCrs.Category = crs.Category
	origCrs.Level = crs.Level
	origCrs.Price = crs.Price
	origCrs.Status = crs.Status
	origCrs.UpdatedAt = crs.UpdatedAt

	return *origCrs, nil
}

func (repo *courseRepository) DeleteCoursesByID(ids ...string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	var deleted bool
	for _, id := range ids {
		if _, ok := repo.db.courses[id]; ok {
			delete(repo.db.courses, id)
			repo.db.courseOrder = removeID(repo.db.courseOrder, id)
			deleted = true
		}
	}
	if !deleted {
		return course.ErrNotFound
	}
	return nil
}

// Materials

func (repo *courseRepository) CreateMaterial(mat course.Material) (course.Material, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	mat.ID = repo.db.nextID()
	repo.db.materials[mat.ID] = &mat
	repo.db.materialOrder = append(repo.db.materialOrder, mat.ID)
	return mat, nil
}

func (repo *courseRepository) CourseMaterials(courseID string) ([]course.Material, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	materials := make([]course.Material, 0)
	for _, id := range repo.db.materialOrder {
		if mat := repo.db.materials[id]; mat.CourseID == courseID {
			materials = append(materials, *mat)
		}
	}
	return materials, nil
}

// Wishlist

func (repo *courseRepository) AddWishlistItem(item course.WishlistItem) (course.WishlistItem, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range repo.db.wishlistOrder {
		if existing := repo.db.wishlist[id]; existing.StudentID == item.StudentID && existing.CourseID == item.CourseID {
			return *existing, nil
		}
	}

	item.ID = repo.db.nextID()
	repo.db.wishlist[item.ID] = &item
	repo.db.wishlistOrder = append(repo.db.wishlistOrder, item.ID)
	return item, nil
}

func (repo *courseRepository) RemoveWishlistItem(studentID, courseID string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	repo.db.removeWishlistItem(studentID, courseID)
	return nil
}

func (repo *courseRepository) StudentWishlist(studentID string) ([]course.WishlistItem, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	items := make([]course.WishlistItem, 0)
	for _, id := range repo.db.wishlistOrder {
		if item := repo.db.wishlist[id]; item.StudentID == studentID {
			items = append(items, *item)
		}
	}
	return items, nil
}

// removeWishlistItem deletes the (student, course) wishlist entry if present;
// callers hold the write lock.
func (db *DB) removeWishlistItem(studentID, courseID string) {
	for _, id := range db.wishlistOrder {
		if item := db.wishlist[id]; item.StudentID == studentID && item.CourseID == courseID {
			delete(db.wishlist, id)
			db.wishlistOrder = removeID(db.wishlistOrder, id)
			return
		}
	}
}
