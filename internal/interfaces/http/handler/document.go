package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/preload/backend/internal/application/document"
	"github.com/preload/backend/internal/infrastructure/export"
	"github.com/preload/backend/internal/interfaces/http/dto"
)

// attachmentField is the multipart field carrying the PDF
const attachmentField = "file"

// DocumentHandler handles document intake and the workflow actions
type DocumentHandler struct {
	BaseHandler
	documentService *document.DocumentService
	maxUpload       int64
}

// NewDocumentHandler creates a new DocumentHandler. maxUpload bounds the
// bytes read from an attachment upload.
func NewDocumentHandler(documentService *document.DocumentService, maxUpload int64) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, maxUpload: maxUpload}
}

// Create godoc
// @ID           createDocument
// @Summary      Submit a document
// @Description  Submit an invoice, credit or debit note in PENDING state. Providers may only submit on their own CUIT.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Replays with the same key answer 409"
// @Param        request body document.CreateDocumentRequest true "Document submission"
// @Success      201 {object} APIResponse[document.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req document.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	doc, err := h.documentService.Create(c.Request.Context(), p, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// GetByID godoc
// @ID           getDocumentById
// @Summary      Get document by ID
// @Description  Retrieve a document visible to the caller
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[document.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.documentService.GetByID(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// List godoc
// @ID           listDocuments
// @Summary      List documents
// @Description  List the documents visible to the caller with filtering and paging
// @Tags         documents
// @Produce      json
// @Param        status query []string false "Document status" collectionFormat(multi) Enums(PENDING, PRELOADED, OBSERVED, REJECTED, PAID, CANCELLED)
// @Param        provider_id query string false "Provider ID" format(uuid)
// @Param        society_id query string false "Society ID" format(uuid)
// @Param        document_type_id query string false "Document type ID" format(uuid)
// @Param        issued_from query string false "Issued on or after (YYYY-MM-DD)"
// @Param        issued_to query string false "Issued on or before (YYYY-MM-DD)"
// @Param        search query string false "Search term (number, CAE)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(created_at, issue_date, due_date, number, total_amount, status)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]document.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var filter document.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}
	page, err := h.documentService.List(c.Request.Context(), p, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// History godoc
// @ID           getDocumentHistory
// @Summary      Get document history
// @Description  List the status changes of a document, oldest first
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[[]document.HistoryEntryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/history [get]
func (h *DocumentHandler) History(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	entries, err := h.documentService.History(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// UploadAttachment godoc
// @ID           uploadDocumentAttachment
// @Summary      Upload the document PDF
// @Description  Attach the PDF of a document. The file is checked for page count and stored in object storage.
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        Idempotency-Key header string false "Replays with the same key answer 409"
// @Param        file formData file true "PDF file"
// @Success      200 {object} APIResponse[document.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/attachment [post]
func (h *DocumentHandler) UploadAttachment(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile(attachmentField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.ErrorWithCode(c, dto.ErrCodeAttachmentTooLarge,
				fmt.Sprintf("Attachment exceeds %d bytes", h.maxUpload))
			return
		}
		h.ErrorWithCode(c, dto.ErrCodeAttachmentRequired, "Multipart field \"file\" is required")
		return
	}
	if header.Size > h.maxUpload {
		h.ErrorWithCode(c, dto.ErrCodeAttachmentTooLarge,
			fmt.Sprintf("Attachment exceeds %d bytes", h.maxUpload))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	// one extra byte so an understated part size still trips the limit
	content, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	doc, err := h.documentService.UploadAttachment(c.Request.Context(), p, document.UploadAttachmentInput{
		DocumentID:  id,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     content,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// DownloadURL godoc
// @ID           getDocumentAttachmentUrl
// @Summary      Get attachment download link
// @Description  Return a presigned link to the stored PDF
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[document.DownloadURLResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/attachment [get]
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	url, err := h.documentService.DownloadURL(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, url)
}

// Transition godoc
// @ID           transitionDocument
// @Summary      Run a workflow action
// @Description  Move a document through its workflow. Observe and reject need a reason.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID" format(uuid)
// @Param        action path string true "Workflow action" Enums(preload, observe, resubmit, reject, pay, cancel)
// @Param        request body document.TransitionRequest false "Reason or payment date"
// @Success      200 {object} APIResponse[document.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/actions/{action} [post]
func (h *DocumentHandler) Transition(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	action, err := document.ParseAction(c.Param("action"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req document.TransitionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			h.ValidationError(c, err)
			return
		}
	}

	doc, err := h.documentService.Transition(c.Request.Context(), p, id, action, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Export godoc
// @ID           exportDocuments
// @Summary      Export documents
// @Description  Download the filtered documents as an Excel workbook
// @Tags         documents
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status query []string false "Document status" collectionFormat(multi)
// @Param        provider_id query string false "Provider ID" format(uuid)
// @Param        society_id query string false "Society ID" format(uuid)
// @Param        issued_from query string false "Issued on or after (YYYY-MM-DD)"
// @Param        issued_to query string false "Issued on or before (YYYY-MM-DD)"
// @Success      200 {file} binary "Excel workbook"
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/export [get]
func (h *DocumentHandler) Export(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var filter document.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.documentService.Export(c.Request.Context(), p, filter, &buf); err != nil {
		h.HandleError(c, err)
		return
	}
	sendWorkbook(c, fmt.Sprintf("documents-%s.xlsx", time.Now().Format("20060102")), &buf)
}

// ListTypes godoc
// @ID           listDocumentTypes
// @Summary      List document types
// @Description  List the active document types
// @Tags         document-types
// @Produce      json
// @Success      200 {object} APIResponse[[]document.DocumentTypeResponse]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /document-types [get]
func (h *DocumentHandler) ListTypes(c *gin.Context) {
	types, err := h.documentService.ListTypes(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, types)
}

// GetType godoc
// @ID           getDocumentTypeById
// @Summary      Get document type by ID
// @Description  Retrieve a document type by its ID
// @Tags         document-types
// @Produce      json
// @Param        id path string true "Document type ID" format(uuid)
// @Success      200 {object} APIResponse[document.DocumentTypeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /document-types/{id} [get]
func (h *DocumentHandler) GetType(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	t, err := h.documentService.GetType(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// sendWorkbook writes an .xlsx attachment response
func sendWorkbook(c *gin.Context, filename string, buf *bytes.Buffer) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
