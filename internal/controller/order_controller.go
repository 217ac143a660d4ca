package controller

import (
	"edu_center_backend/internal/service"
	"edu_center_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	OrderService *service.OrderService
}

func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{OrderService: orderService}
}

type CreateOrderRequest struct {
	CourseID     uint   `json:"courseId" binding:"required"`
	TransferNote string `json:"transferNote"`
}

func (c *OrderController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	order, err := c.OrderService.CreateOrder(claims.UserID, req.CourseID, req.TransferNote)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, order)
}

func (c *OrderController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	orders, err := c.OrderService.ListMyOrders(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, orders)
}

func (c *OrderController) ListPending(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	orders, total, err := c.OrderService.ListPending(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  orders,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (c *OrderController) Approve(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	order, err := c.OrderService.Approve(id)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrOrderNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrOrderAlreadyReviewed):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, order)
}

func (c *OrderController) Reject(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	order, err := c.OrderService.Reject(id)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrOrderNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrOrderAlreadyReviewed):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, order)
}
