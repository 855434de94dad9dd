package server

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"docchat/internal/domain"
)

const inventoryCacheKey = "list-cloud-pdfs"

type askRequest struct {
	Query string `json:"query" validate:"required"`
	TopK  int    `json:"top_k" validate:"omitempty,min=1,max=50"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":      true,
		"service": "docchat",
	})
}

func (s *Server) ask(c *fiber.Ctx) error {
	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Query) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query must not be blank")
	}

	ans, err := s.svc.Answer(c.Context(), req.Query, req.TopK)
	if err != nil {
		s.log.Error("ask failed", zap.Error(err))
		return err
	}
	return c.JSON(ans)
}

// listPDFs serves the document inventory, cached for the configured TTL.
// Failures are reported in-band with status 200 so the client's sidebar
// degrades instead of erroring out.
func (s *Server) listPDFs(c *fiber.Ctx) error {
	if cached, ok := s.cache.Get(inventoryCacheKey); ok {
		return c.JSON(cached)
	}

	list, err := s.svc.ListDocuments(c.Context())
	if err != nil {
		s.log.Error("inventory listing failed", zap.Error(err))
		return c.JSON(domain.DocumentList{
			Error: err.Error(),
			PDFs:  []domain.DocumentDescriptor{},
		})
	}
	s.cache.SetDefault(inventoryCacheKey, list)
	return c.JSON(list)
}

// inspect reports the indexed pages of one document. Like listPDFs, lookup
// failures come back in-band with status 200.
func (s *Server) inspect(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document name")
	}

	detail, err := s.svc.Inspect(c.Context(), name)
	if err != nil {
		s.log.Error("inspect failed", zap.String("name", name), zap.Error(err))
		return c.JSON(domain.DocumentDetail{
			Error:   err.Error(),
			PDFName: name,
			Pages:   []domain.PageInfo{},
		})
	}
	return c.JSON(detail)
}

func (s *Server) correctCitation(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusNotImplemented, "citation correction is not implemented")
}
