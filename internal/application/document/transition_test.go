package document

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/preload/backend/internal/domain/document"
	"github.com/preload/backend/internal/domain/identity"
	"github.com/preload/backend/internal/domain/partner"
	"github.com/preload/backend/internal/domain/shared"
	"github.com/preload/backend/internal/infrastructure/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n")

func TestParseAction(t *testing.T) {
	a, err := ParseAction("preload")
	require.NoError(t, err)
	assert.Equal(t, ActionPreload, a)

	_, err = ParseAction("approve")
	assertCode(t, err, "INVALID_ACTION")

	assert.True(t, ActionCancel.Allows(identity.RoleProvider))
	assert.False(t, ActionPreload.Allows(identity.RoleProvider))
	assert.False(t, ActionResubmit.Allows(identity.RoleReadOnly))
}

func TestDocumentService_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("preload needs an attachment", func(t *testing.T) {
		f := newFixture(t)
		doc := f.newDocument(t)
		f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		_, err := f.svc.Transition(ctx, principal(identity.RoleAdministrator), doc.ID, ActionPreload, TransitionRequest{})
		assertCode(t, err, "ATTACHMENT_REQUIRED")
		f.docs.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("preload then pay", func(t *testing.T) {
		f := newFixture(t)
		doc := f.newDocument(t)
		require.NoError(t, doc.Attach(document.Attachment{StorageKey: "documents/x/f.pdf", FileName: "f.pdf"}))
		f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.docs.On("SaveWithLock", mock.Anything, doc).Return(nil)
		f.events.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == document.EventTypeDocumentStatusChanged
		})).Return(nil)

		resp, err := f.svc.Transition(ctx, principal(identity.RoleSociety), doc.ID, ActionPreload, TransitionRequest{})
		require.NoError(t, err)
		assert.Equal(t, "PRELOADED", resp.Status)

		resp, err = f.svc.Transition(ctx, principal(identity.RoleAdministrator), doc.ID, ActionPay, TransitionRequest{})
		require.NoError(t, err)
		assert.Equal(t, "PAID", resp.Status)
		assert.NotNil(t, resp.PaidAt)
		f.docs.AssertNumberOfCalls(t, "SaveWithLock", 2)
		f.events.AssertNumberOfCalls(t, "Publish", 2)
	})

	t.Run("observe requires a reason", func(t *testing.T) {
		f := newFixture(t)
		doc := f.newDocument(t)
		f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		_, err := f.svc.Transition(ctx, principal(identity.RoleAdministrator), doc.ID, ActionObserve, TransitionRequest{Reason: "  "})
		assertCode(t, err, "REASON_REQUIRED")
	})

	t.Run("provider cannot preload", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Transition(ctx, principal(identity.RoleProvider), uuid.New(), ActionPreload, TransitionRequest{})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("provider cancels its own document", func(t *testing.T) {
		f := newFixture(t)
		f.scopes.scope = identity.AccessScope{ProviderIDs: []uuid.UUID{f.provider.ID}, ProviderAccounts: []string{"100200"}}
		doc := f.newDocument(t)
		f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.docs.On("SaveWithLock", mock.Anything, doc).Return(nil)
		f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.Transition(ctx, principal(identity.RoleProvider), doc.ID, ActionCancel, TransitionRequest{})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", resp.Status)
	})

	t.Run("version conflict surfaces", func(t *testing.T) {
		f := newFixture(t)
		doc := f.newDocument(t)
		f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.docs.On("SaveWithLock", mock.Anything, doc).Return(shared.ErrConcurrencyConflict)

		_, err := f.svc.Transition(ctx, principal(identity.RoleAdministrator), doc.ID, ActionReject, TransitionRequest{Reason: "duplicada"})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("locked document", func(t *testing.T) {
		f := newFixture(t)
		doc := f.newDocument(t)
		f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		held, err := f.locker.Obtain(ctx, "document:"+doc.ID.String(), f.svc.config.LockTTL)
		require.NoError(t, err)
		defer held.Release(ctx)

		_, err = f.svc.Transition(ctx, principal(identity.RoleAdministrator), doc.ID, ActionCancel, TransitionRequest{})
		assert.ErrorIs(t, err, shared.ErrLocked)
	})
}

func TestDocumentService_UploadAttachment(t *testing.T) {
	ctx := context.Background()
	admin := principal(identity.RoleAdministrator)

	t.Run("stores the file", func(t *testing.T) {
		f := newFixture(t)
		f.inspector.info = &pdf.Info{Pages: 2, HasText: true, CUITs: []string{"20123456786"}, CAE: "71234567890123"}
		doc := f.newDocument(t)
		f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.docs.On("SaveWithLock", mock.Anything, doc).Return(nil)
		f.providers.On("FindByID", mock.Anything, f.provider.ID).Return(f.provider, nil)

		resp, err := f.svc.UploadAttachment(ctx, admin, UploadAttachmentInput{
			DocumentID: doc.ID,
			FileName:   "factura 0001.pdf",
			Size:       int64(len(samplePDF)),
			Content:    samplePDF,
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Attachment)
		assert.Equal(t, 2, resp.Attachment.Pages)

		r, contentType, err := f.storage.Get(doc.Attachment.StorageKey)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", contentType)
		stored, _ := io.ReadAll(r)
		assert.Equal(t, samplePDF, stored)
	})

	t.Run("replacing removes the previous file", func(t *testing.T) {
		f := newFixture(t)
		doc := f.newDocument(t)
		oldKey := f.storage.Key(doc.ID, "old.pdf")
		require.NoError(t, f.storage.Put(ctx, oldKey, bytes.NewReader(samplePDF), int64(len(samplePDF)), "application/pdf"))
		require.NoError(t, doc.Attach(document.Attachment{StorageKey: oldKey, FileName: "old.pdf"}))
		f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.docs.On("SaveWithLock", mock.Anything, doc).Return(nil)

		_, err := f.svc.UploadAttachment(ctx, admin, UploadAttachmentInput{DocumentID: doc.ID, FileName: "new.pdf", Content: samplePDF})
		require.NoError(t, err)
		_, _, err = f.storage.Get(oldKey)
		assert.Error(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UploadAttachment(ctx, admin, UploadAttachmentInput{DocumentID: uuid.New(), FileName: "a.pdf", Content: make([]byte, 2048)})
		assertCode(t, err, "ATTACHMENT_TOO_LARGE")
	})

	t.Run("not a pdf", func(t *testing.T) {
		f := newFixture(t)
		f.inspector.info, f.inspector.err = nil, pdf.ErrNotPDF
		doc := f.newDocument(t)
		f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		_, err := f.svc.UploadAttachment(ctx, admin, UploadAttachmentInput{DocumentID: doc.ID, FileName: "a.png", Content: []byte("\x89PNG")})
		assertCode(t, err, "INVALID_ATTACHMENT")
	})

	t.Run("too many pages", func(t *testing.T) {
		f := newFixture(t)
		f.inspector.info = &pdf.Info{Pages: 9}
		doc := f.newDocument(t)
		f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		_, err := f.svc.UploadAttachment(ctx, admin, UploadAttachmentInput{DocumentID: doc.ID, FileName: "a.pdf", Content: samplePDF})
		assertCode(t, err, "TOO_MANY_PAGES")
	})

	t.Run("failed save removes the object", func(t *testing.T) {
		f := newFixture(t)
		doc := f.newDocument(t)
		f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)
		f.docs.On("SaveWithLock", mock.Anything, doc).Return(shared.ErrConcurrencyConflict)

		_, err := f.svc.UploadAttachment(ctx, admin, UploadAttachmentInput{DocumentID: doc.ID, FileName: "a.pdf", Content: samplePDF})
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		_, _, err = f.storage.Get(f.storage.Key(doc.ID, "a.pdf"))
		assert.Error(t, err)
	})

	t.Run("preloaded documents are frozen", func(t *testing.T) {
		f := newFixture(t)
		doc := f.newDocument(t)
		require.NoError(t, doc.Attach(document.Attachment{StorageKey: "k", FileName: "a.pdf"}))
		require.NoError(t, doc.Preload())
		f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

		_, err := f.svc.UploadAttachment(ctx, admin, UploadAttachmentInput{DocumentID: doc.ID, FileName: "a.pdf", Content: samplePDF})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestDocumentService_DownloadURL(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	doc := f.newDocument(t)
	f.docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil)

	_, err := f.svc.DownloadURL(ctx, principal(identity.RoleAdministrator), doc.ID)
	assertCode(t, err, "ATTACHMENT_NOT_FOUND")

	key := f.storage.Key(doc.ID, "f.pdf")
	require.NoError(t, f.storage.Put(ctx, key, bytes.NewReader(samplePDF), int64(len(samplePDF)), "application/pdf"))
	require.NoError(t, doc.Attach(document.Attachment{StorageKey: key, FileName: "f.pdf"}))

	resp, err := f.svc.DownloadURL(ctx, principal(identity.RoleAdministrator), doc.ID)
	require.NoError(t, err)
	assert.Contains(t, resp.URL, "http://files.test/")
	assert.Equal(t, "f.pdf", resp.FileName)
}

func TestDocumentService_Export(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	doc := f.newDocument(t)
	f.docs.On("FindAll", ctx, mock.MatchedBy(func(filter document.Filter) bool {
		return filter.PageSize == exportPageSize && filter.Page == 1
	})).Return([]document.Document{*doc}, int64(1), nil)
	f.providers.On("FindByID", ctx, f.provider.ID).Return(f.provider, nil)
	f.societies.On("FindByIDs", ctx, []uuid.UUID{f.society.ID}).Return([]partner.Society{*f.society}, nil)
	f.types.On("FindActive", ctx).Return([]document.DocumentType{*f.docType}, nil)

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(ctx, principal(identity.RoleAdministrator), DocumentListFilter{}, &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows("Documentos")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0001-00001234", rows[1][0])
	assert.Contains(t, rows[1], "Norte SA")
	assert.Contains(t, rows[1], "1000")
}
