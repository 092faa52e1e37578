package echoapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/export"
	"github.com/trezcool/elimu/core/review"
	"github.com/trezcool/elimu/core/user"
)

type courseApi struct {
	svc     *course.Service
	reviews *review.Service
	users   *user.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *course.Service, reviews *review.Service, users *user.Service) {
	api := courseApi{svc: svc, reviews: reviews, users: users}

	cg := g.Group("/courses", jwt)
	cg.GET("", api.query)
	cg.GET("/available", api.available)
	cg.GET("/export", api.export, adminMiddleware())
	cg.GET("/mine", api.mine, teacherMiddleware())
	cg.GET("/wishlist", api.wishlist)
	cg.POST("", api.create, teacherMiddleware())

	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, teacherMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
	dg.GET("/materials", api.materials)
	dg.POST("/materials", api.addMaterial, teacherMiddleware())
	dg.POST("/wishlist", api.addToWishlist)
	dg.DELETE("/wishlist", api.removeFromWishlist)
	dg.GET("/reviews", api.courseReviews)
	dg.POST("/reviews", api.addReview)
	dg.GET("/can-review", api.canReview)

	rg := g.Group("/reviews", jwt)
	rg.POST("/:id/helpful", api.markHelpful)
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}

	// teachers always create their own courses; admins may set any teacher
	ctxUsr, err := getContextUser(ctx, api.users)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !ctxUsr.IsAdmin() {
		data.TeacherID = ctxUsr.ID
	}

	if err := data.Validate(); err != nil {
		return err
	}

	crs, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.queryFiltered(ctx)
	if err != nil {
		return err
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) queryFiltered(ctx echo.Context) ([]course.Course, error) {
	filter := new(course.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return []course.Course{}, nil
	}
	filter.Clean()

	if filter.IsEmpty() {
		return api.svc.QueryAll()
	}
	return api.svc.Filter(*filter)
}

func (api *courseApi) export(ctx echo.Context) error {
	courses, err := api.queryFiltered(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{
			c.ID, c.Title, c.TeacherID, c.Category, c.Status,
			strconv.FormatFloat(c.Price, 'f', 2, 64),
			strconv.FormatFloat(c.Rating, 'f', 1, 64),
			strconv.Itoa(c.ReviewCount),
			strconv.Itoa(c.EnrolledStudents),
		})
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.Filename("courses")))
	res.WriteHeader(http.StatusOK)
	return export.CSV(res, []string{"id", "title", "teacher_id", "category", "status", "price", "rating", "review_count", "enrolled_students"}, rows)
}

func (api *courseApi) available(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	courses, err := api.svc.Available(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "listing available courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) mine(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	courses, err := api.svc.TeacherCourses(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "listing teacher courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	crs, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding course by ID")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) update(ctx echo.Context) error {
	crs, err := api.getOwnedCourse(ctx)
	if err != nil {
		return err
	}

	var data course.UpdateCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	crs, err = api.svc.Update(crs.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Materials

func (api *courseApi) materials(ctx echo.Context) error {
	materials, err := api.svc.Materials(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing course materials")
	}
	return ctx.JSON(http.StatusOK, materials)
}

func (api *courseApi) addMaterial(ctx echo.Context) error {
	crs, err := api.getOwnedCourse(ctx)
	if err != nil {
		return err
	}

	var data course.NewMaterial
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMaterial")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	mat, err := api.svc.AddMaterial(crs.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding course material")
	}
	return ctx.JSON(http.StatusCreated, mat)
}

// Wishlist

func (api *courseApi) wishlist(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	courses, err := api.svc.Wishlist(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "listing wishlist")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) addToWishlist(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	item, err := api.svc.AddToWishlist(claims.Subject, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "adding to wishlist")
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (api *courseApi) removeFromWishlist(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.RemoveFromWishlist(claims.Subject, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "removing from wishlist")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Reviews

func (api *courseApi) courseReviews(ctx echo.Context) error {
	reviews, err := api.reviews.ByCourse(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing course reviews")
	}
	return ctx.JSON(http.StatusOK, reviews)
}

func (api *courseApi) addReview(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data review.NewReview
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReview")
	}
	data.CourseID = ctx.Param("id")
	if err := data.Validate(); err != nil {
		return err
	}

	rev, err := api.reviews.Add(claims.Subject, data)
	if err != nil {
		if errors.Cause(err) == review.ErrAlreadyReviewed {
			return echo.NewHTTPError(http.StatusConflict, review.ErrAlreadyReviewed.Error())
		}
		return errors.Wrap(err, "adding review")
	}
	return ctx.JSON(http.StatusCreated, rev)
}

func (api *courseApi) canReview(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	can, err := api.reviews.CanReview(claims.Subject, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "checking review eligibility")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"can_review": can})
}

func (api *courseApi) markHelpful(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	var data HelpfulVoteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to HelpfulVoteRequest")
	}

	rev, err := api.reviews.MarkHelpful(ctx.Param("id"), claims.Subject, data.IsHelpful)
	if err != nil {
		if errors.Cause(err) == review.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "marking review helpful")
	}
	return ctx.JSON(http.StatusOK, rev)
}

// getOwnedCourse resolves :id and enforces ownership: teachers may only touch
// their own courses, admins any.
func (api *courseApi) getOwnedCourse(ctx echo.Context) (course.Course, error) {
	crs, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == course.ErrNotFound {
			return course.Course{}, errHttpNotFound
		}
		return course.Course{}, errors.Wrap(err, "finding course by ID")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return course.Course{}, err
	}
	if !claims.IsAdmin && crs.TeacherID != claims.Subject {
		return course.Course{}, errHttpForbidden
	}
	return crs, nil
}

type HelpfulVoteRequest struct {
	IsHelpful bool `json:"is_helpful"`
}
