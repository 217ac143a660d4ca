package controller

import (
	"edu_center_backend/internal/service"
	"edu_center_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	CertificateService *service.CertificateService
}

func NewCertificateController(certificateService *service.CertificateService) *CertificateController {
	return &CertificateController{CertificateService: certificateService}
}

type IssueRequest struct {
	Result string `json:"result" binding:"required,oneof=PASS"`
}

// Issue re-issues (or retrieves) the certificate for a passed enrollment.
// The normal path issues during review; this endpoint covers recovery.
func (c *CertificateController) Issue(ctx *gin.Context) {
	enrollmentID := util.MustParseUint(ctx.Param("id"))

	var req IssueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	certificate, err := c.CertificateService.Issue(enrollmentID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEnrollmentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotPassed):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, certificate)
}

func (c *CertificateController) GetByEnrollment(ctx *gin.Context) {
	enrollmentID := util.MustParseUint(ctx.Param("id"))

	certificate, err := c.CertificateService.GetByEnrollment(enrollmentID)
	if err != nil {
		if errors.Is(err, util.ErrCertificateNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, certificate)
}

func (c *CertificateController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	certificates, err := c.CertificateService.ListMyCertificates(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, certificates)
}

func (c *CertificateController) List(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	certificates, total, err := c.CertificateService.ListCertificates(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  certificates,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Verify is public: anyone holding a certificate code can confirm it.
func (c *CertificateController) Verify(ctx *gin.Context) {
	code := ctx.Param("code")

	certificate, err := c.CertificateService.Verify(code)
	if err != nil {
		if errors.Is(err, util.ErrCertificateNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, certificate)
}
