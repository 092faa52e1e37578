package echoapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/export"
	"github.com/trezcool/elimu/core/payment"
)

type paymentApi struct {
	svc *payment.Service
}

func registerPaymentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *payment.Service) {
	api := paymentApi{svc: svc}

	pg := g.Group("/payments", jwt)
	pg.GET("", api.query, adminMiddleware())
	pg.GET("/export", api.export, adminMiddleware())
	pg.GET("/my", api.myPayments)
	pg.GET("/:id", api.retrieve, adminMiddleware())
	pg.POST("/:id/refund", api.refund, adminMiddleware())
	pg.PUT("/:id/status", api.updateStatus, adminMiddleware())
}

// Handlers

func (api *paymentApi) query(ctx echo.Context) error {
	payments, err := api.svc.Search(ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "searching payments")
	}
	if payments == nil {
		payments = []payment.Payment{}
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *paymentApi) export(ctx echo.Context) error {
	payments, err := api.svc.Search(ctx.QueryParam("search"))
	if err != nil {
		return errors.Wrap(err, "searching payments")
	}

	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		rows = append(rows, []string{
			p.ID, p.StudentID, p.CourseID, p.TransactionID, p.Method, p.Status,
			strconv.FormatFloat(p.Amount, 'f', 2, 64),
			strconv.FormatFloat(p.RefundAmount, 'f', 2, 64),
			p.CreatedAt.Format("2006-01-02"),
		})
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.Filename("payments")))
	res.WriteHeader(http.StatusOK)
	return export.CSV(res, []string{"id", "student_id", "course_id", "transaction_id", "method", "status", "amount", "refund_amount", "created_at"}, rows)
}

func (api *paymentApi) myPayments(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	payments, err := api.svc.ByStudent(claims.Subject)
	if err != nil {
		return errors.Wrap(err, "listing student payments")
	}
	return ctx.JSON(http.StatusOK, payments)
}

func (api *paymentApi) retrieve(ctx echo.Context) error {
	pmt, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == payment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding payment by ID")
	}
	return ctx.JSON(http.StatusOK, pmt)
}

func (api *paymentApi) refund(ctx echo.Context) error {
	var data RefundRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RefundRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	pmt, err := api.svc.Refund(ctx.Param("id"), data.Amount, data.Reason)
	if err != nil {
		switch errors.Cause(err) {
		case payment.ErrNotFound:
			return errHttpNotFound
		case payment.ErrNotRefundable:
			return echo.NewHTTPError(http.StatusConflict, payment.ErrNotRefundable.Error())
		}
		return errors.Wrap(err, "refunding payment")
	}
	return ctx.JSON(http.StatusOK, pmt)
}

func (api *paymentApi) updateStatus(ctx echo.Context) error {
	var data StatusUpdateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusUpdateRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	pmt, err := api.svc.UpdateStatus(ctx.Param("id"), data.Status)
	if err != nil {
		if errors.Cause(err) == payment.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating payment status")
	}
	return ctx.JSON(http.StatusOK, pmt)
}

type (
	RefundRequest struct {
		Amount float64 `json:"amount" validate:"required,gt=0"`
		Reason string  `json:"reason"`
	}

	StatusUpdateRequest struct {
		Status string `json:"status" validate:"required"`
	}
)

func (rr *RefundRequest) Validate() error {
	rr.Reason = core.CleanString(rr.Reason)
	return core.Validate.Struct(rr)
}

func (sr *StatusUpdateRequest) Validate() error {
	sr.Status = core.CleanString(sr.Status, true /* lower */)
	return core.Validate.Struct(sr)
}
