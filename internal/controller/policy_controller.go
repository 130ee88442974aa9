package controller

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"rmf-policy-be/internal/dto"
	"rmf-policy-be/internal/pkg/serverutils"
	"rmf-policy-be/internal/service"
	"rmf-policy-be/pkg/document"

	"github.com/gofiber/fiber/v2"
)

const maxLogoBytes = 2 * 1024 * 1024

type IPolicyController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	Checklist(ctx *fiber.Ctx) error
	DownloadPDF(ctx *fiber.Ctx) error
}

type policyController struct {
	chatService service.IChatService
}

func NewPolicyController(chatService service.IChatService) IPolicyController {
	return &policyController{chatService: chatService}
}

func (c *policyController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/policy/v1", middleware...)
	h.Get("checklist", c.Checklist)
	h.Post("pdf", c.DownloadPDF)
}

func (c *policyController) Checklist(ctx *fiber.Ctx) error {
	checklist, err := c.chatService.Checklist(ctx.UserContext(), serverutils.UserID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get checklist", dto.ChecklistResponse{Checklist: checklist}))
}

// DownloadPDF renders the submitted policy markdown. Session state is not
// involved.
func (c *policyController) DownloadPDF(ctx *fiber.Ctx) error {
	policyMD := ctx.FormValue("policy_md")
	if strings.TrimSpace(policyMD) == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "policy_md is required"))
	}

	var logo []byte
	if fh, err := ctx.FormFile("logo"); err == nil {
		if fh.Size > maxLogoBytes {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Logo is too large"))
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		if logo, err = io.ReadAll(f); err != nil {
			return err
		}
		if err := document.ValidatePNG(logo); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Logo must be a PNG image"))
		}
	}

	var buf bytes.Buffer
	if err := document.RenderPDF(&buf, policyMD, document.Options{Logo: logo}); err != nil {
		if errors.Is(err, document.ErrInvalidLogo) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Logo must be a PNG image"))
		}
		return err
	}

	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Attachment("policy.pdf")
	return ctx.Send(buf.Bytes())
}
